// Package httputil holds the JSON response envelope and middleware shared by
// every API handler.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the exact shape spec.md §6 requires of every API response:
// `{success, data, error, message}`. Error responses leave Data nil and set
// Error to a short slug plus a human Message; success responses leave Error
// empty, so it is omitted.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// WriteError writes the `{success: false, error: <slug>, message: <string>}`
// shape spec.md §6 specifies for external collaborators.
func WriteError(w http.ResponseWriter, status int, slug, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: false, Error: slug, Message: message})
}

func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
