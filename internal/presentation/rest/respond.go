package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anandMohanan/staybase/internal/domain/port"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"status":  status,
		},
	})
}

// writeUseCaseError maps application errors onto HTTP statuses. Not-found
// sentinels become 404; everything else is treated as an internal failure.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, port.ErrNotFound) {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
