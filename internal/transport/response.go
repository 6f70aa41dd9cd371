// Package transport exposes the distance service over HTTP: routing, the
// distance handler, JSON envelopes and the recovery and access-log middleware.
package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/geodist/internal/apierror"
	"github.com/UnknownOlympus/geodist/internal/models"
)

// MsgDistanceCalculated is the message of every successful distance response.
const MsgDistanceCalculated = "Distance calculated successfully."

// SuccessResponse is the envelope of a successful request.
type SuccessResponse struct {
	Success bool                  `json:"success"`
	Data    models.DistanceResult `json:"data"`
	Message string                `json:"message"`
}

// FailureResponse is the envelope of every failed request.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	// Stack is only set by the recovery middleware in debug mode.
	Stack string `json:"stack,omitempty"`
}

// WriteJSON serializes body with the given status. HTML characters are not escaped.
func WriteJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

// WriteSuccess writes a 200 distance envelope.
func WriteSuccess(w http.ResponseWriter, result models.DistanceResult) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    result,
		Message: MsgDistanceCalculated,
	})
}

// WriteFailure writes the failure envelope for failure.
func WriteFailure(w http.ResponseWriter, failure *apierror.Failure) error {
	return WriteJSON(w, failure.Status, FailureResponse{Success: false, Error: failure.Message})
}
