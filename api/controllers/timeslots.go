package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/restaurant-backend/api/middleware"
	"github.com/angelmondragon/restaurant-backend/api/responses"
	"github.com/angelmondragon/restaurant-backend/api/validators"
	"github.com/angelmondragon/restaurant-backend/internal/slots"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
)

type slotLoader interface {
	Load(ctx context.Context, consumer string, opts slots.FetchOptions) ([]slots.TimeSlot, bool, error)
	Refresh(ctx context.Context, consumer string, date string) ([]slots.TimeSlot, bool, error)
}

type timeslotsResponse struct {
	Date  string           `json:"date"`
	Slots []slots.TimeSlot `json:"slots"`
}

// Timeslots lists the normalized slots for a day. A newer request from the
// same session supersedes this one, which then answers with no content.
func Timeslots(loader slotLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refresh, err := validators.ParseQueryBool(r, "refresh")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		consumer := middleware.SessionIDFromContext(r.Context())
		var (
			list []slots.TimeSlot
			ok   bool
		)
		if refresh {
			list, ok, err = loader.Refresh(r.Context(), consumer, date)
		} else {
			list, ok, err = loader.Load(r.Context(), consumer, slots.FetchOptions{Date: date})
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteNoContent(w)
			return
		}
		if list == nil {
			list = []slots.TimeSlot{}
		}
		responses.WriteSuccess(w, timeslotsResponse{Date: date, Slots: list})
	}
}
