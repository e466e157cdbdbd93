package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/angelmondragon/restaurant-backend/internal/reservations"
	"github.com/angelmondragon/restaurant-backend/internal/slots"
	"github.com/angelmondragon/restaurant-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
)

const validReservationBody = `{"name":"Ana","email":"user@example.com","mobile":"+48 600-100-200","date":"2026-10-20","slot":"2026-10-20T18:00:00Z","notes":"window"}`

func newReservationService(t *testing.T) reservations.Service {
	t.Helper()
	return newReservationServiceWith(t, &stubLoader{ok: true, slots: []slots.TimeSlot{
		{ID: "s1", StartValue: "2026-10-20T18:00:00Z", Available: true},
		{ID: "s2", StartValue: "2026-10-20T20:00:00Z", Available: false},
	}})
}

func newReservationServiceWith(t *testing.T, loader *stubLoader) reservations.Service {
	t.Helper()
	svc, err := reservations.NewService(config.ReservationsConfig{
		ConfirmationSecret: "test-secret",
		ConfirmationIssuer: "test",
		ConfirmationTTL:    time.Hour,
	}, loader, nil, testLogger())
	if err != nil {
		t.Fatalf("new reservation service: %v", err)
	}
	return svc
}

func TestReservationSubmitAndConfirmation(t *testing.T) {
	svc := newReservationService(t)

	resp := httptest.NewRecorder()
	ReservationSubmit(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/reservations", validReservationBody, nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var created reservations.Confirmation
	decodeData(t, resp, &created)
	if created.Booking.Guests != reservations.DefaultGuests {
		t.Fatalf("expected default party size, got %d", created.Booking.Guests)
	}
	if created.Booking.Mobile != "48600100200" || created.Token == "" {
		t.Fatalf("unexpected confirmation %+v", created)
	}

	resp = httptest.NewRecorder()
	ReservationConfirmation(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/reservations/confirmation", nil, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var stored reservations.Confirmation
	decodeData(t, resp, &stored)
	if stored.Booking.ID != created.Booking.ID {
		t.Fatalf("expected stored booking %s, got %s", created.Booking.ID, stored.Booking.ID)
	}

	resp = httptest.NewRecorder()
	ReservationVerify(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/reservations/verify?token="+url.QueryEscape(created.Token), nil, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestReservationSubmitRejectsBadEmail(t *testing.T) {
	body := `{"name":"Ana","email":"not-an-email","mobile":"600100200","date":"2026-10-20","slot":"18:00"}`
	resp := httptest.NewRecorder()
	ReservationSubmit(newReservationService(t), nil).ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/reservations", body, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	_, details := decodeErrorCode(t, resp)
	if details["field"] != reservations.FieldEmail {
		t.Fatalf("expected email field, got %v", details)
	}
}

func TestReservationSubmitRejectsZeroGuests(t *testing.T) {
	body := `{"name":"Ana","email":"user@example.com","mobile":"600100200","date":"2026-10-20","slot":"18:00","guests":"none"}`
	resp := httptest.NewRecorder()
	ReservationSubmit(newReservationService(t), nil).ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/reservations", body, nil))
	_, details := decodeErrorCode(t, resp)
	if details["field"] != reservations.FieldGuests {
		t.Fatalf("expected guests field, got %v", details)
	}
}

func TestReservationSubmitRejectsUnavailableSlot(t *testing.T) {
	loader := &stubLoader{ok: true, slots: []slots.TimeSlot{{ID: "s2", StartValue: "2026-10-20T18:00:00Z", Available: false}}}
	resp := httptest.NewRecorder()
	ReservationSubmit(newReservationServiceWith(t, loader), nil).ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/reservations", validReservationBody, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
	_, details := decodeErrorCode(t, resp)
	if details["field"] != reservations.FieldSlot {
		t.Fatalf("expected slot field, got %v", details)
	}
	if loader.date != "2026-10-20" || loader.consumer != "booking:"+testSession {
		t.Fatalf("expected listing for the form date, got date=%q consumer=%q", loader.date, loader.consumer)
	}
}

func TestReservationConfirmationMissing(t *testing.T) {
	resp := httptest.NewRecorder()
	ReservationConfirmation(newReservationService(t), nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/reservations/confirmation", nil, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestReservationVerifyRejectsGarbage(t *testing.T) {
	resp := httptest.NewRecorder()
	ReservationVerify(newReservationService(t), nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/reservations/verify?token=abc", nil, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	code, _ := decodeErrorCode(t, resp)
	if code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", code)
	}
}
