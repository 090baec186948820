// Package api writes the JSON envelope every endpoint answers with.
package api

import (
	"encoding/json"
	"net/http"

	"equipment-inventory-api/pkg/errors"
)

// Response is the envelope for every JSON answer. Status always equals
// the HTTP status code of the response.
type Response struct {
	Status  int               `json:"status"`
	Length  *int              `json:"length,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Success writes a success envelope carrying data and an optional message.
func Success(w http.ResponseWriter, status int, message string, data interface{}) error {
	return JSON(w, status, Response{Status: status, Message: message, Data: data})
}

// List writes a 200 envelope with the item count in length.
func List(w http.ResponseWriter, items interface{}, length int) error {
	return JSON(w, http.StatusOK, Response{Status: http.StatusOK, Length: &length, Data: items})
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, message, code string, details map[string]string) error {
	return JSON(w, status, Response{Status: status, Message: message, Code: code, Details: details})
}

// FromError writes err as a failure envelope and returns the status used.
// Errors that are not AppErrors become 500 with their message.
func FromError(w http.ResponseWriter, err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.WrapError(err, err.Error())
	}

	status := appErr.GetHTTPStatus()
	_ = Error(w, status, appErr.Message, string(appErr.Code), appErr.Details)
	return status
}
