package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/restaurant-backend/api/responses"
	"github.com/angelmondragon/restaurant-backend/internal/menu"
	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
)

type menuResponse struct {
	Currency   string          `json:"currency"`
	Categories []menu.Category `json:"categories"`
}

type menuItemResponse struct {
	Item      menu.Item          `json:"item"`
	Selected  []menu.AddOnOption `json:"selected"`
	UnitPrice decimal.Decimal    `json:"unitPrice"`
	Currency  string             `json:"currency"`
}

// MenuList returns the full catalog grouped by category.
func MenuList(catalog *menu.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, menuResponse{
			Currency:   menu.Currency,
			Categories: catalog.Categories(),
		})
	}
}

// MenuItem returns one item priced with the add-ons listed in the addOns query
// parameter (comma separated).
func MenuItem(catalog *menu.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := catalog.Item(chi.URLParam(r, "itemID"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found"))
			return
		}

		selected, err := item.ResolveSelection(splitIDs(r.URL.Query().Get("addOns")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid add-on selection").WithDetails(map[string]any{"field": "addOns"}))
			return
		}

		responses.WriteSuccess(w, menuItemResponse{
			Item:      item,
			Selected:  selected,
			UnitPrice: item.UnitPrice(selected),
			Currency:  menu.Currency,
		})
	}
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
