package controllers

import (
	"net/http"

	"github.com/angelmondragon/restaurant-backend/api/middleware"
	"github.com/angelmondragon/restaurant-backend/api/responses"
	"github.com/angelmondragon/restaurant-backend/api/validators"
	cartsvc "github.com/angelmondragon/restaurant-backend/internal/cart"
	"github.com/angelmondragon/restaurant-backend/internal/menu"
	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/types"
)

const (
	indexParam     = "index"
	maxItemIDLen   = 64
	defaultLineQty = 1
)

type addCartItemRequest struct {
	ItemID   string               `json:"id" validate:"required"`
	AddOnIDs []string             `json:"addOnIds"`
	Quantity types.FlexibleNumber `json:"qty"`
}

type updateQuantityRequest struct {
	Quantity types.FlexibleNumber `json:"qty"`
}

type updateAddOnsRequest struct {
	AddOnIDs []string `json:"addOnIds"`
}

type cartMutationResponse struct {
	Merged bool             `json:"merged"`
	Index  int              `json:"index"`
	Cart   cartsvc.Snapshot `json:"cart"`
}

// CartFetch returns the session cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartAddItem adds a catalog item with its selected add-ons. Quantity defaults
// to one and is capped at cart.MaxLineQuantity.
func CartAddItem(svc cartsvc.Service, catalog *menu.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, ok := catalog.Item(validators.SanitizeString(payload.ItemID, maxItemIDLen))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found"))
			return
		}

		candidate, err := cartsvc.CandidateFromMenu(item, payload.AddOnIDs, payload.Quantity.IntOr(defaultLineQty))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid add-on selection").WithDetails(map[string]any{"field": "addOns"}))
			return
		}

		result, snap, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), candidate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.Merged {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, cartMutationResponse{Merged: result.Merged, Index: result.Index, Cart: snap})
	}
}

// CartUpdateQuantity sets a line quantity. Zero or less removes the line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := validators.ParsePathIndex(r, indexParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, ok := payload.Quantity.Int()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid("qty", "qty must be numeric"))
			return
		}

		snap, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), index, qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartUpdateAddOns replaces the add-on selection of a line.
func CartUpdateAddOns(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := validators.ParsePathIndex(r, indexParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAddOnsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, snap, err := svc.UpdateLineAddOns(r.Context(), middleware.SessionIDFromContext(r.Context()), index, payload.AddOnIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartMutationResponse{Merged: result.Merged, Index: result.Index, Cart: snap})
	}
}

func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := validators.ParsePathIndex(r, indexParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.RemoveLine(r.Context(), middleware.SessionIDFromContext(r.Context()), index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
