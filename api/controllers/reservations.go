package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/angelmondragon/restaurant-backend/api/middleware"
	"github.com/angelmondragon/restaurant-backend/api/responses"
	"github.com/angelmondragon/restaurant-backend/api/validators"
	"github.com/angelmondragon/restaurant-backend/internal/reservations"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/types"
)

const maxNotesLen = 1000

type reservationRequest struct {
	Name   string                `json:"name"`
	Email  string                `json:"email"`
	Mobile string                `json:"mobile"`
	Guests *types.FlexibleNumber `json:"guests"`
	Date   string                `json:"date"`
	Slot   string                `json:"slot"`
	Notes  string                `json:"notes"`
}

func (r reservationRequest) toForm() reservations.Form {
	form := reservations.NewForm(validators.SanitizeString(r.Date, maxFieldLen))
	form.Name = validators.SanitizeString(r.Name, maxFieldLen)
	form.Email = validators.SanitizeString(r.Email, maxFieldLen)
	form.Mobile = validators.SanitizeString(r.Mobile, maxFieldLen)
	form.Notes = validators.SanitizeString(r.Notes, maxNotesLen)
	if r.Guests != nil {
		form.Guests = r.Guests.IntOr(0)
	}
	form.SelectSlot(validators.SanitizeString(r.Slot, maxFieldLen))
	return form
}

// ReservationSubmit validates a booking form, checks the chosen slot against the
// day's listing and stores the result as the session confirmation. A request
// abandoned during the slot lookup gets no content.
func ReservationSubmit(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.Submit(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toForm())
		if err != nil {
			if errors.Is(err, context.Canceled) {
				responses.WriteNoContent(w)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

func ReservationConfirmation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmation, err := svc.Confirmation(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, confirmation)
	}
}

// ReservationVerify checks a confirmation token handed out on submit.
func ReservationVerify(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := svc.Verify(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, claims)
	}
}
