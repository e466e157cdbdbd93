package auth

import (
	"fmt"
	"time"

	"github.com/angelmondragon/restaurant-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintConfirmationToken issues a signed JWT describing a confirmed booking.
func MintConfirmationToken(cfg config.ReservationsConfig, now time.Time, payload ConfirmationPayload) (string, error) {
	if cfg.ConfirmationSecret == "" {
		return "", fmt.Errorf("confirmation secret is required")
	}
	if cfg.ConfirmationIssuer == "" {
		return "", fmt.Errorf("confirmation issuer is required")
	}
	if cfg.ConfirmationTTL <= 0 {
		return "", fmt.Errorf("confirmation ttl must be positive")
	}
	if payload.StartISO == "" {
		return "", fmt.Errorf("booking start is required")
	}

	claims := ConfirmationClaims{
		BookingID: payload.BookingID,
		SessionID: payload.SessionID,
		Name:      payload.Name,
		Date:      payload.Date,
		StartISO:  payload.StartISO,
		Guests:    payload.Guests,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.ConfirmationIssuer,
			Subject:   payload.BookingID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.ConfirmationTTL)),
			ID:        payload.BookingID.String(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.ConfirmationSecret))
	if err != nil {
		return "", fmt.Errorf("signing confirmation token: %w", err)
	}
	return signed, nil
}

// ParseConfirmationToken validates the JWT string and returns typed claims.
func ParseConfirmationToken(cfg config.ReservationsConfig, tokenString string) (*ConfirmationClaims, error) {
	if cfg.ConfirmationSecret == "" {
		return nil, fmt.Errorf("confirmation secret is required")
	}

	claims := &ConfirmationClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.ConfirmationSecret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.ConfirmationIssuer),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
