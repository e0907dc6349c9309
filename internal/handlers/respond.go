package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"familyhub/internal/service"
	"familyhub/internal/validation"
)

// errorResponse is the uniform shape of all JSON error bodies
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError translates service-layer errors into HTTP responses.
// Business errors map to their status; anything unrecognized is logged and
// returned as a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var vErr validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyInvited),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInviteUsed),
		errors.Is(err, service.ErrInvalidResetToken):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFamilyMember):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrFamilyNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrActivityNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields so
// clients cannot smuggle extra attributes past validation.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
