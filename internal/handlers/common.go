package handlers

import (
	"errors"
	"math"
	"net/http"

	"brokercontrol/internal/handlers/business"

	"gorm.io/gorm"
)

// statusForError maps business errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, business.ErrInvalidAmount),
		errors.Is(err, business.ErrInsufficientFunds),
		errors.Is(err, business.ErrInvalidBalance),
		errors.Is(err, business.ErrInvalidTransition),
		errors.Is(err, business.ErrBotNotActive):
		return http.StatusBadRequest
	case errors.Is(err, business.ErrWalletNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// round2 rounds monetary values for API responses. Stored values keep full
// precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
