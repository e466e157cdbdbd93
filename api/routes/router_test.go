package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/restaurant-backend/api/middleware"
	"github.com/angelmondragon/restaurant-backend/internal/cart"
	"github.com/angelmondragon/restaurant-backend/internal/checkout"
	"github.com/angelmondragon/restaurant-backend/internal/menu"
	"github.com/angelmondragon/restaurant-backend/internal/reservations"
	"github.com/angelmondragon/restaurant-backend/internal/slots"
	"github.com/angelmondragon/restaurant-backend/pkg/config"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/metrics"
	"github.com/angelmondragon/restaurant-backend/pkg/payment"
	"github.com/angelmondragon/restaurant-backend/pkg/redis"
	"github.com/angelmondragon/restaurant-backend/pkg/storage/memorydriver"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Port: "0"},
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory, CartKey: cart.DefaultStorageKey},
		Reservations: config.ReservationsConfig{
			ConfirmationSecret: "secret",
			ConfirmationIssuer: "issuer",
			ConfirmationTTL:    time.Hour,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

type testRouter struct {
	handler  http.Handler
	upstream *httptest.Server
	calls    int
}

func newTestRouter(t *testing.T, idem redis.IdempotencyStore) *testRouter {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()

	tr := &testRouter{}
	tr.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tr.calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"getTimeslot":[{"id":"s1","startDate":"2026-10-20T18:00:00Z","duration":90,"status":"available"},{"id":"bad","startDate":"soon"}]}`))
	}))
	t.Cleanup(tr.upstream.Close)

	endpoint, err := url.Parse(tr.upstream.URL + "/api/getTimeslot")
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	fetcher, err := slots.NewFetcher(endpoint, slots.NewCache(slots.DefaultTTL), slots.WithMetrics(metrics.NewSlotMetrics(reg)), slots.WithLogger(logg))
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	loader, err := slots.NewLoader(fetcher, slots.NewNormalizer(time.UTC))
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	carts, err := cart.NewService(memorydriver.New(), cfg.Storage.CartKey, logg)
	if err != nil {
		t.Fatalf("new cart service: %v", err)
	}
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)
	checkoutService, err := checkout.NewService(carts, payment.NewStubProcessor(0, false), checkoutMetrics, logg)
	if err != nil {
		t.Fatalf("new checkout service: %v", err)
	}
	reservationService, err := reservations.NewService(cfg.Reservations, loader, checkoutMetrics, logg)
	if err != nil {
		t.Fatalf("new reservation service: %v", err)
	}

	tr.handler = NewRouter(
		cfg,
		logg,
		stubPinger{},
		idem,
		reg,
		metrics.NewHTTPMetrics(reg),
		menu.Sample(),
		carts,
		checkoutService,
		loader,
		reservationService,
	)
	return tr
}

func (tr *testRouter) do(method, target, session, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp := httptest.NewRecorder()
	tr.handler.ServeHTTP(resp, req)
	return resp
}

func TestHealthAndMenuArePublic(t *testing.T) {
	tr := newTestRouter(t, nil)

	if resp := tr.do(http.MethodGet, "/health/live", "", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected live 200 got %d", resp.Code)
	}
	if resp := tr.do(http.MethodGet, "/health/ready", "", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected ready 200 got %d", resp.Code)
	}
	resp := tr.do(http.MethodGet, "/api/v1/menu", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected menu 200 got %d", resp.Code)
	}
	if resp.Header().Get(middleware.SessionHeader) != "" {
		t.Fatalf("menu should not allocate a session")
	}
}

func TestOrderingFlowIsScopedBySession(t *testing.T) {
	tr := newTestRouter(t, nil)

	for i := 0; i < 2; i++ {
		resp := tr.do(http.MethodPost, "/api/v1/cart/items", "alice", `{"id":"veg-1"}`)
		if resp.Code != http.StatusCreated && resp.Code != http.StatusOK {
			t.Fatalf("add item: unexpected status %d", resp.Code)
		}
	}

	resp := tr.do(http.MethodGet, "/api/v1/cart", "bob", "")
	var bobCart struct {
		Data cart.Snapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bobCart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bobCart.Data.Lines) != 0 {
		t.Fatalf("expected bob's cart to be empty, got %+v", bobCart.Data.Lines)
	}

	order := `{"name":"Alice","phone":"600 100 200","deliveryType":"delivery","address":{"street":"Piotrkowska 1","pincode":"90-001"}}`
	resp = tr.do(http.MethodPost, "/api/v1/checkout", "alice", order)
	if resp.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var placed struct {
		Data struct {
			Order struct {
				Totals struct {
					Total string `json:"total"`
				} `json:"totals"`
				Delivery struct {
					Address struct {
						Latitude float64 `json:"lat"`
					} `json:"address"`
				} `json:"delivery"`
			} `json:"order"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&placed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if placed.Data.Order.Totals.Total != "440" {
		t.Fatalf("expected total 440, got %s", placed.Data.Order.Totals.Total)
	}
	if placed.Data.Order.Delivery.Address.Latitude != checkout.DefaultLatitude {
		t.Fatalf("expected default latitude, got %v", placed.Data.Order.Delivery.Address.Latitude)
	}

	resp = tr.do(http.MethodPost, "/api/v1/checkout/validate", "alice", order)
	if !strings.Contains(resp.Body.String(), `"field":"cart"`) {
		t.Fatalf("expected cart to be cleared after checkout, got %s", resp.Body.String())
	}
}

func TestTimeslotsAreCachedAndRefreshable(t *testing.T) {
	tr := newTestRouter(t, nil)

	resp := tr.do(http.MethodGet, "/api/v1/timeslots?date=2026-10-20", "alice", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Data struct {
			Slots []slots.TimeSlot `json:"slots"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Slots) != 1 || body.Data.Slots[0].Label != "18:00 — 19:30" || !body.Data.Slots[0].Available {
		t.Fatalf("unexpected slots %+v", body.Data.Slots)
	}

	tr.do(http.MethodGet, "/api/v1/timeslots?date=2026-10-20", "bob", "")
	if tr.calls != 1 {
		t.Fatalf("expected cached second load, upstream calls=%d", tr.calls)
	}

	tr.do(http.MethodGet, "/api/v1/timeslots?date=2026-10-20&refresh=true", "bob", "")
	if tr.calls != 2 {
		t.Fatalf("expected refresh to hit upstream, calls=%d", tr.calls)
	}
}

func TestReservationRoundTrip(t *testing.T) {
	tr := newTestRouter(t, nil)

	body := `{"name":"Alice","email":"user@example.com","mobile":"600100200","guests":4,"date":"2026-10-20","slot":"2026-10-20T18:00:00Z"}`
	resp := tr.do(http.MethodPost, "/api/v1/reservations", "alice", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = tr.do(http.MethodGet, "/api/v1/reservations/confirmation", "alice", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected confirmation, got %d", resp.Code)
	}
	resp = tr.do(http.MethodGet, "/api/v1/reservations/confirmation", "bob", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected no confirmation for another session, got %d", resp.Code)
	}
}

func TestCheckoutIdempotencyWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })

	tr := newTestRouter(t, redis.NewFromClient(raw))
	tr.do(http.MethodPost, "/api/v1/cart/items", "alice", `{"id":"drk-1"}`)

	order := `{"name":"Alice","phone":"600100200","deliveryType":"pickup"}`
	if resp := tr.do(http.MethodPost, "/api/v1/checkout", "alice", order); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected missing Idempotency-Key to be rejected, got %d", resp.Code)
	}

	first := tr.do(http.MethodPost, "/api/v1/checkout", "alice", order, "Idempotency-Key", "k1")
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	replay := tr.do(http.MethodPost, "/api/v1/checkout", "alice", order, "Idempotency-Key", "k1")
	if replay.Code != http.StatusCreated || replay.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed order, got %d %s", replay.Code, replay.Body.String())
	}
	if replay.Header().Get(middleware.ReplayHeader) != "true" {
		t.Fatalf("expected replay marker header")
	}
}

func TestMetricsEndpointExposesHTTPHistogram(t *testing.T) {
	tr := newTestRouter(t, nil)
	tr.do(http.MethodGet, "/api/v1/menu", "", "")

	resp := tr.do(http.MethodGet, "/metrics", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `route="/api/v1/menu"`) {
		t.Fatalf("expected menu route histogram in output")
	}
}
