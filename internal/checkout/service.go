package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/restaurant-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/metrics"
	"github.com/angelmondragon/restaurant-backend/pkg/payment"
	"github.com/google/uuid"
)

type cartRunner interface {
	Get(ctx context.Context, session string) (cart.Snapshot, error)
	With(ctx context.Context, session string, fn func(c *cart.Cart) error) error
}

// Order is a placed order together with its payment receipt.
type Order struct {
	ID               uuid.UUID    `json:"orderId"`
	Payload          OrderPayload `json:"order"`
	PaymentReference string       `json:"paymentReference"`
}

// Service executes checkout for a session cart.
type Service interface {
	Validate(ctx context.Context, session string, form Form) (Result, error)
	PlaceOrder(ctx context.Context, session string, form Form) (*Order, error)
}

type service struct {
	carts     cartRunner
	processor payment.Processor
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service. metrics may be nil.
func NewService(carts cartRunner, processor payment.Processor, m *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:     carts,
		processor: processor,
		metrics:   m,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) Validate(ctx context.Context, session string, form Form) (Result, error) {
	snap, err := s.carts.Get(ctx, session)
	if err != nil {
		return Result{}, err
	}
	return Validate(form, snap.Lines), nil
}

// PlaceOrder validates the form, charges the order total and clears the cart.
// The session cart stays locked during payment; a failed charge leaves it untouched.
func (s *service) PlaceOrder(ctx context.Context, session string, form Form) (*Order, error) {
	var order *Order
	err := s.carts.With(ctx, session, func(c *cart.Cart) error {
		lines := c.Lines()
		if result := Validate(form, lines); !result.OK {
			s.metrics.IncOrder(metrics.OutcomeInvalid)
			return result.Err()
		}

		payload := BuildPayload(form, lines, s.now())
		orderID := uuid.New()
		receipt, err := s.processor.Charge(ctx, payment.Request{
			OrderID: orderID,
			Method:  payload.Payment.Method,
			Amount:  payload.Totals.Total,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.metrics.IncOrder(metrics.OutcomeCancelled)
				return err
			}
			s.metrics.IncOrder(metrics.OutcomeDeclined)
			logCtx := s.logg.WithField(ctx, "order_id", orderID.String())
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "checkout.payment_failed")
			return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "payment failed")
		}

		c.Clear()
		order = &Order{ID: orderID, Payload: payload, PaymentReference: receipt.Reference}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrder(metrics.OutcomeSuccess)
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":   order.ID.String(),
		"item_count": order.Payload.ItemCount(),
		"total":      order.Payload.Totals.Total.String(),
	})
	s.logg.Info(logCtx, "checkout.order_placed")
	return order, nil
}
