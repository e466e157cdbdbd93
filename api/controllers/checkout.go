package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/angelmondragon/restaurant-backend/api/middleware"
	"github.com/angelmondragon/restaurant-backend/api/responses"
	"github.com/angelmondragon/restaurant-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/restaurant-backend/internal/checkout"
	"github.com/angelmondragon/restaurant-backend/pkg/enums"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
)

const maxFieldLen = 256

type checkoutAddressRequest struct {
	Street    string   `json:"street"`
	Landmark  string   `json:"landmark"`
	Pincode   string   `json:"pincode"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
}

type checkoutRequest struct {
	Name          string                 `json:"name"`
	Phone         string                 `json:"phone"`
	Email         string                 `json:"email"`
	DeliveryType  string                 `json:"deliveryType"`
	Address       checkoutAddressRequest `json:"address"`
	PaymentMethod string                 `json:"paymentMethod"`
}

func (r checkoutRequest) toForm() checkoutsvc.Form {
	return checkoutsvc.Form{
		Name:         validators.SanitizeString(r.Name, maxFieldLen),
		Phone:        validators.SanitizeString(r.Phone, maxFieldLen),
		Email:        validators.SanitizeString(r.Email, maxFieldLen),
		DeliveryType: enums.NormalizeDeliveryType(r.DeliveryType),
		Address: checkoutsvc.Address{
			Street:    validators.SanitizeString(r.Address.Street, maxFieldLen),
			Landmark:  validators.SanitizeString(r.Address.Landmark, maxFieldLen),
			Pincode:   validators.SanitizeString(r.Address.Pincode, maxFieldLen),
			Latitude:  r.Address.Latitude,
			Longitude: r.Address.Longitude,
		},
		PaymentMethod: enums.NormalizePaymentMethod(r.PaymentMethod),
	}
}

type checkoutValidationResponse struct {
	OK    bool   `json:"ok"`
	Field string `json:"field,omitempty"`
}

// CheckoutValidate reports the first invalid field of the form against the session cart.
func CheckoutValidate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Validate(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toForm())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutValidationResponse{OK: result.OK, Field: result.Field})
	}
}

// CheckoutPlaceOrder charges the session cart and returns the order payload.
// A request cancelled during payment gets no content and leaves the cart intact.
func CheckoutPlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toForm())
		if err != nil {
			if errors.Is(err, context.Canceled) {
				responses.WriteNoContent(w)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
