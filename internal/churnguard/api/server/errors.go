package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
)

type Error struct {
	Err string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		return []byte(`{"error": "marshal error"}`)
	}

	return b
}

// statusCode maps an error kind to its HTTP status. Anything unclassified is
// a 500 carrying the raw message.
func statusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode(err))

	e := Error{err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}
