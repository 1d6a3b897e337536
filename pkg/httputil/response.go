package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response wrapper used by every API endpoint
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Total   *int        `json:"total,omitempty"`
	Page    *int        `json:"page,omitempty"`
	Limit   *int        `json:"limit,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WriteEnvelope writes an envelope with the given status code
func WriteEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// WriteData writes a successful single-object response
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteEnvelope(w, status, Envelope{Success: true, Data: data})
}

// WritePage writes a successful collection response with pagination metadata
func WritePage(w http.ResponseWriter, data interface{}, total, page, limit int) {
	WriteEnvelope(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Total:   &total,
		Page:    &page,
		Limit:   &limit,
	})
}

// WriteMessage writes a successful response carrying both data and a message
func WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteEnvelope(w, status, Envelope{Success: true, Data: data, Message: message})
}

// WriteError writes a failed envelope with the given status and message
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteEnvelope(w, status, Envelope{Success: false, Message: message})
}

// WriteValidationError writes a validation failure (400 Bad Request)
func WriteValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a missing-resource failure (404 Not Found)
func WriteNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "Not found")
}

// WriteUnauthorized writes an authentication failure (401 Unauthorized)
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes an authorization failure (403 Forbidden)
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteInternalError writes an unexpected failure (500 Internal Server Error)
func WriteInternalError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusInternalServerError, err.Error())
}
