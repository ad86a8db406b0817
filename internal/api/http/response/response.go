// Package response reads and writes JSON bodies for the HTTP API.
package response

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

const maxBodyBytes = 1_048_576

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the top-level JSON object of every response body.
type Envelope map[string]any

// ErrBadRequest wraps every body decoding failure.
var ErrBadRequest = errors.New("bad request")

// WriteJSON encodes data with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	js, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	if err := WriteJSON(w, status, Envelope{"error": message}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Errors writes {"errors": messages}.
func Errors(w http.ResponseWriter, status int, messages []string) {
	if err := WriteJSON(w, status, Envelope{"errors": messages}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// ReadJSON decodes exactly one JSON value from the request body into dst.
// Failures wrap ErrBadRequest.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: body must not be empty", ErrBadRequest)
	}
	if !json.Valid(body) {
		return fmt.Errorf("%w: body contains badly-formed JSON", ErrBadRequest)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
