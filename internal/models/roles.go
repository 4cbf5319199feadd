package models

// Roles used by the seed command. Role is free-form on the wire, so other
// labels are stored as given.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)
