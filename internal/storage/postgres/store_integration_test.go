//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/indatwa/events-api/internal/models"
	"github.com/indatwa/events-api/internal/storage"
)

func ptr[T any](v T) *T { return &v }

func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("events"),
		tcpostgres.WithUsername("events"),
		tcpostgres.WithPassword("events"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewStore(ctx, dbURL, Options{MaxConns: 5, AutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStoreIntegration(t *testing.T) {
	store := setupStore(t)

	t.Run("users", func(t *testing.T) { testUsers(t, store) })
	t.Run("bookings", func(t *testing.T) { testBookings(t, store) })
	t.Run("migrations are idempotent", func(t *testing.T) {
		pool := store.pool
		require.NoError(t, MigrateUp(pool.Config().ConnString()))
	})
}

func testUsers(t *testing.T, store *Store) {
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, models.User{Username: "alice", Role: "staff", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	_, err = store.CreateUser(ctx, models.User{Username: "alice", Role: "admin", PasswordHash: "h2"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = store.FindByUsername(ctx, "ALICE")
	require.ErrorIs(t, err, storage.ErrNotFound)

	bob, err := store.CreateUser(ctx, models.User{Username: "bob", Role: "staff", PasswordHash: "hb"})
	require.NoError(t, err)

	list, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bob", list[0].Username)

	updated, err := store.UpdateUser(ctx, bob.ID, models.UserUpdate{Username: "bob", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "hb", updated.PasswordHash)
	assert.Equal(t, "admin", updated.Role)

	_, err = store.UpdateUser(ctx, bob.ID, models.UserUpdate{Username: "alice", Role: "admin"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = store.UpdateUser(ctx, 999999, models.UserUpdate{Username: "z", Role: "z"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	inserted, err := store.SeedUser(ctx, models.User{Username: "alice", Role: "superadmin", PasswordHash: "x"})
	require.NoError(t, err)
	assert.False(t, inserted)

	require.NoError(t, store.DeleteUser(ctx, bob.ID))
	require.ErrorIs(t, store.DeleteUser(ctx, bob.ID), storage.ErrNotFound)
}

func TestConcurrentDuplicateUsers(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.CreateUser(ctx, models.User{Username: "racer", Role: "staff", PasswordHash: "h"})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	}
	assert.Equal(t, 1, created)
}

func testBookings(t *testing.T, store *Store) {
	ctx := context.Background()

	fields := models.BookingFields{
		Name:      ptr("Aline"),
		Email:     ptr("aline@example.com"),
		Phone:     ptr("+250788000111"),
		Service:   ptr("Decoration"),
		EventType: ptr("Wedding"),
		EventDate: ptr("2026-08-15"),
		EventTime: ptr("14:30:00"),
		Location:  ptr("Kigali"),
		Guests:    ptr(250),
		Duration:  ptr("6 hours"),
		Notes:     ptr("gold"),
	}
	created, err := store.CreateBooking(ctx, fields)
	require.NoError(t, err)

	got, err := store.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "2026-08-15", *got.EventDate)
	assert.Equal(t, "14:30:00", *got.EventTime)
	assert.Equal(t, 250, *got.Guests)

	empty, err := store.CreateBooking(ctx, models.BookingFields{})
	require.NoError(t, err)
	assert.Nil(t, empty.Name)
	assert.Nil(t, empty.Guests)

	third, err := store.CreateBooking(ctx, models.BookingFields{Name: ptr("third")})
	require.NoError(t, err)

	list, err := store.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{third.ID, empty.ID, created.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})

	updated, err := store.UpdateBooking(ctx, created.ID, models.BookingFields{Guests: ptr(300), EventTime: ptr("16:00")})
	require.NoError(t, err)
	assert.Equal(t, 300, *updated.Guests)
	assert.Equal(t, "16:00:00", *updated.EventTime)
	assert.Equal(t, "Aline", *updated.Name)
	assert.Equal(t, "2026-08-15", *updated.EventDate)

	_, err = store.UpdateBooking(ctx, 999999, models.BookingFields{Name: ptr("x")})
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.DeleteBooking(ctx, created.ID))
	_, err = store.GetBooking(ctx, created.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, store.DeleteBooking(ctx, created.ID), storage.ErrNotFound)
}

func TestIDsBeyondSerialRange(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	const id = int64(99999999999)

	_, err := store.GetBooking(ctx, id)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.UpdateBooking(ctx, id, models.BookingFields{Name: ptr("x")})
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, store.DeleteBooking(ctx, id), storage.ErrNotFound)

	_, err = store.UpdateUser(ctx, id, models.UserUpdate{Username: "x", Role: "staff"})
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, store.DeleteUser(ctx, id), storage.ErrNotFound)
}

func TestStoreErrorsWrapDriverFailures(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, store.pool.Config().ConnString())
	require.NoError(t, err)
	broken := NewFromPool(pool)
	pool.Close()

	_, err = broken.ListBookings(ctx)
	var storeErr *storage.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "list bookings", storeErr.Op)
}
