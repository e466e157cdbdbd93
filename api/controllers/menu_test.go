package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/restaurant-backend/internal/menu"
)

func TestMenuList(t *testing.T) {
	resp := httptest.NewRecorder()
	MenuList(menu.Sample()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body menuResponse
	decodeData(t, resp, &body)
	if body.Currency != menu.Currency || len(body.Categories) != len(menu.SampleCategories()) {
		t.Fatalf("unexpected menu %+v", body)
	}
}

func TestMenuItemPricesSelection(t *testing.T) {
	req := sessionRequest(http.MethodGet, "/api/v1/menu/items/veg-1?addOns=ghee,cheese", nil, map[string]string{"itemID": "veg-1"})
	resp := httptest.NewRecorder()
	MenuItem(menu.Sample(), nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body menuItemResponse
	decodeData(t, resp, &body)
	if !body.UnitPrice.Equal(decimal.NewFromInt(257)) || len(body.Selected) != 2 {
		t.Fatalf("unexpected pricing %+v", body)
	}
}

func TestMenuItemErrors(t *testing.T) {
	resp := httptest.NewRecorder()
	MenuItem(menu.Sample(), nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/menu/items/x", nil, map[string]string{"itemID": "x"}))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	MenuItem(menu.Sample(), nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/menu/items/veg-2?addOns=ghee", nil, map[string]string{"itemID": "veg-2"}))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
