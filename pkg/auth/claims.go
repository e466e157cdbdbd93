package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ConfirmationPayload captures the booking data embedded in a confirmation token.
type ConfirmationPayload struct {
	BookingID uuid.UUID
	SessionID string
	Name      string
	Date      string
	StartISO  string
	Guests    int
}

// ConfirmationClaims is the typed JWT handed back after a successful booking.
type ConfirmationClaims struct {
	BookingID uuid.UUID `json:"booking_id"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	StartISO  string    `json:"start_iso"`
	Guests    int       `json:"guests"`
	jwt.RegisteredClaims
}
