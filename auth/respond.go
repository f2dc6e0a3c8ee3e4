package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jameslahm/conduit-server-rest/apperror"
)

// WriteJSON serializes data to JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"errors":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError writes a standardized error response. Errors that are not
// already an *apperror.AppError are logged and reduced to a generic 500 so
// no internal detail leaks to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		log.Printf("unexpected error on %s %s: %v", r.Method, r.URL.Path, err)
		appErr = apperror.NewInternalError(apperror.InternalMessage, err)
	} else if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("error on %s %s: %v", r.Method, r.URL.Path, appErr)
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
