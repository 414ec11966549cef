package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// MessageBody is a plain acknowledgement
type MessageBody struct {
	Message string `json:"message"`
}

// RespondJSON writes a JSON response with the given status code.
// It handles encoding errors safely by marshaling first, preventing
// partial responses if encoding fails after headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondMessage writes {"message": ...}
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageBody{Message: message})
}

// RespondError writes {"message": ..., "status": ...}
func RespondError(w http.ResponseWriter, status int, message string) {
	payload, err := json.Marshal(ErrorBody{Message: message, Status: status})
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
