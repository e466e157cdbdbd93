package reservations

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/restaurant-backend/internal/slots"
	"github.com/angelmondragon/restaurant-backend/pkg/auth"
	"github.com/angelmondragon/restaurant-backend/pkg/config"
	pkgcheckout "github.com/angelmondragon/restaurant-backend/pkg/checkout"
	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/metrics"
	"github.com/google/uuid"
)

// BookingPayload is the confirmed booking built from a valid form.
type BookingPayload struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Guests    int       `json:"guests"`
	Date      string    `json:"date"`
	StartISO  string    `json:"startISO"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Confirmation is the booking plus a signed token the client can present later.
type Confirmation struct {
	Booking   BookingPayload `json:"booking"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// maxConfirmations bounds the per-session confirmations held in memory. The
// entry closest to expiry is evicted first.
const maxConfirmations = 10000

// slotLister lists the normalized slots of a day.
type slotLister interface {
	Load(ctx context.Context, consumer string, opts slots.FetchOptions) ([]slots.TimeSlot, bool, error)
}

// Service submits booking forms and keeps the latest confirmation per session
// until it expires. Bookings are not forwarded anywhere.
type Service interface {
	Submit(ctx context.Context, session string, form Form) (*Confirmation, error)
	Confirmation(ctx context.Context, session string) (*Confirmation, error)
	Verify(ctx context.Context, token string) (*auth.ConfirmationClaims, error)
}

type service struct {
	cfg     config.ReservationsConfig
	slots   slotLister
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
	now     func() time.Time

	mu            sync.RWMutex
	confirmations map[string]Confirmation
}

func NewService(cfg config.ReservationsConfig, lister slotLister, m *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if strings.TrimSpace(cfg.ConfirmationSecret) == "" {
		return nil, fmt.Errorf("confirmation secret required")
	}
	if cfg.ConfirmationTTL <= 0 {
		return nil, fmt.Errorf("confirmation ttl must be positive")
	}
	if lister == nil {
		return nil, fmt.Errorf("slot lister required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cfg:           cfg,
		slots:         lister,
		metrics:       m,
		logg:          logg,
		now:           time.Now,
		confirmations: make(map[string]Confirmation),
	}, nil
}

// BuildPayload shapes a valid form into a booking. Mobile keeps digits only.
func BuildPayload(form Form, now time.Time) BookingPayload {
	return BookingPayload{
		Name:      strings.TrimSpace(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Mobile:    pkgcheckout.Digits(form.Mobile),
		Guests:    form.Guests,
		Date:      form.Date,
		StartISO:  form.Slot,
		Notes:     strings.TrimSpace(form.Notes),
		CreatedAt: now.UTC(),
	}
}

func (s *service) Submit(ctx context.Context, session string, form Form) (*Confirmation, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if field := Validate(form); field != "" {
		s.metrics.IncBooking(metrics.OutcomeInvalid)
		return nil, validationError(field)
	}
	if err := s.checkSlot(ctx, session, form); err != nil {
		return nil, err
	}

	now := s.now()
	booking := BuildPayload(form, now)
	booking.ID = uuid.New()

	token, err := auth.MintConfirmationToken(s.cfg, now, auth.ConfirmationPayload{
		BookingID: booking.ID,
		SessionID: session,
		Name:      booking.Name,
		Date:      booking.Date,
		StartISO:  booking.StartISO,
		Guests:    booking.Guests,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign booking confirmation")
	}

	confirmation := Confirmation{Booking: booking, Token: token, ExpiresAt: now.Add(s.cfg.ConfirmationTTL).UTC()}
	s.store(session, confirmation, now)

	s.metrics.IncBooking(metrics.OutcomeSuccess)
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"booking_id": booking.ID.String(),
		"guests":     booking.Guests,
		"date":       booking.Date,
	})
	s.logg.Info(logCtx, "reservations.booking_confirmed")
	return &confirmation, nil
}

// checkSlot resolves the chosen slot against the listing for the form's date.
// A slot from another day, or one no longer available, fails as the slot field.
func (s *service) checkSlot(ctx context.Context, session string, form Form) error {
	// a separate consumer so a booking never supersedes the session's slot listing
	listing, ok, err := s.slots.Load(ctx, "booking:"+session, slots.FetchOptions{Date: form.Date})
	if err != nil {
		return err
	}
	if !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return pkgerrors.New(pkgerrors.CodeDependency, "slot lookup was interrupted, retry")
	}

	chosen := strings.TrimSpace(form.Slot)
	for _, slot := range listing {
		if slot.SelectionValue() == chosen && slot.Available {
			return nil
		}
	}
	s.metrics.IncBooking(metrics.OutcomeInvalid)
	return validationError(FieldSlot)
}

// store keeps confirmation for session, dropping expired entries first and
// evicting the entry nearest expiry when the map is full.
func (s *service) store(session string, confirmation Confirmation, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, existing := range s.confirmations {
		if !now.Before(existing.ExpiresAt) {
			delete(s.confirmations, key)
		}
	}
	if _, replacing := s.confirmations[session]; !replacing && len(s.confirmations) >= maxConfirmations {
		var oldest string
		for key, existing := range s.confirmations {
			if oldest == "" || existing.ExpiresAt.Before(s.confirmations[oldest].ExpiresAt) {
				oldest = key
			}
		}
		delete(s.confirmations, oldest)
	}
	s.confirmations[session] = confirmation
}

func (s *service) Confirmation(_ context.Context, session string) (*Confirmation, error) {
	s.mu.RLock()
	confirmation, ok := s.confirmations[strings.TrimSpace(session)]
	s.mu.RUnlock()
	if !ok || !s.now().Before(confirmation.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no booking confirmation for this session")
	}
	return &confirmation, nil
}

func (s *service) Verify(_ context.Context, token string) (*auth.ConfirmationClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.Invalid("token", "token is required")
	}
	claims, err := auth.ParseConfirmationToken(s.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "confirmation token is invalid or expired")
	}
	return claims, nil
}
