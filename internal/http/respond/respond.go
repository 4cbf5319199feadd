package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Message is the body of every error and confirmation response.
type Message struct {
	Message string `json:"message"`
}

// JSON writes payload as the response body.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("respond: encode payload failed")
	}
}

// Error writes {"message": message} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Message{Message: message})
}

// OK writes a confirmation message with status 200.
func OK(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Message{Message: message})
}
