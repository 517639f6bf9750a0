package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrewpaige1/formbook-api/auth"
	"github.com/andrewpaige1/formbook-api/config"
	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/realtime"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type DBHandler struct {
	*gorm.DB
	Tokens *auth.TokenIssuer
	Env    config.Environment
	Hub    *realtime.Hub
}

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

// fail maps err to a status code. Unexpected errors are logged under op.
func fail(w http.ResponseWriter, op string, err error) {
	var nf notFoundError
	switch {
	case models.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &nf):
		http.Error(w, nf.Error(), http.StatusNotFound)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		http.Error(w, "Already exists", http.StatusConflict)
	default:
		log.Error().Err(err).Msg(op + ": failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, op string, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug().Err(err).Msg(op + ": invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
