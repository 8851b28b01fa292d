// Package httpx provides the JSON response envelope shared by every handler.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire format every endpoint responds with.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Success bool   `json:"success"`
}

// JSON writes an arbitrary envelope. The HTTP status line mirrors the
// envelope status so API clients and proxies agree.
func JSON(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 envelope with optional payload.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, Envelope{Status: http.StatusOK, Message: message, Data: data, Success: true})
}

// Fail writes a non-success envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, Envelope{Status: status, Message: message, Success: false})
}

// FailFields writes a 400 envelope carrying field-level validation errors.
func FailFields(w http.ResponseWriter, message string, fields map[string]string) {
	JSON(w, Envelope{Status: http.StatusBadRequest, Message: message, Errors: fields, Success: false})
}

// DecodeJSON decodes a JSON request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
