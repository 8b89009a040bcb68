package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/forgo/marketplace/internal/model"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// errMalformedBody marks a request body that is not a single valid JSON object
var errMalformedBody = errors.New("malformed request body")

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes a successful envelope carrying data and an optional message
func WriteData(w http.ResponseWriter, status int, data interface{}, message string) {
	WriteJSON(w, status, model.Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// WriteMessage writes a successful envelope with only a message
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, model.Envelope{
		Success: true,
		Message: message,
	})
}

// WriteError writes a failure envelope
func WriteError(w http.ResponseWriter, err *model.APIError) {
	WriteJSON(w, err.Status, err.Envelope())
}

// DecodeJSON decodes a JSON request body into the given struct.
// Unknown fields and trailing data are rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Join(errMalformedBody, err)
	}
	if decoder.More() {
		return errMalformedBody
	}
	return nil
}
