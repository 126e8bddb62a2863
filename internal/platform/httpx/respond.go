// Package httpx implements the JSON response envelope shared by every API
// endpoint: {"success": bool, "code": "0NNN", "message": ..., "data": ...}.
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON sends a raw JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Success wraps data in the success envelope. The envelope code mirrors the
// HTTP status zero-padded to four digits, e.g. "0200".
func Success(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{
		Success: true,
		Code:    envelopeCode(http.StatusOK),
		Message: message,
		Data:    data,
	})
}

// Error sends a failure envelope for the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Success: false,
		Code:    envelopeCode(status),
		Message: message,
	})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func envelopeCode(status int) string {
	return fmt.Sprintf("%04d", status)
}
