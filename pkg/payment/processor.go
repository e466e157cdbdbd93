package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/restaurant-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDeclined is returned when the processor refuses the charge.
var ErrDeclined = errors.New("payment declined")

// Request describes a single charge attempt.
type Request struct {
	OrderID uuid.UUID
	Method  enums.PaymentMethod
	Amount  decimal.Decimal
}

// Receipt is returned for a successful charge.
type Receipt struct {
	Reference   string
	Method      enums.PaymentMethod
	Amount      decimal.Decimal
	ProcessedAt time.Time
}

// Processor settles order payments.
type Processor interface {
	Charge(ctx context.Context, req Request) (Receipt, error)
}

// StubProcessor simulates a payment gateway with a fixed artificial delay.
type StubProcessor struct {
	delay   time.Duration
	decline bool
	now     func() time.Time
}

// NewStubProcessor builds a processor that waits delay before answering.
// When decline is set every charge fails with ErrDeclined.
func NewStubProcessor(delay time.Duration, decline bool) *StubProcessor {
	if delay < 0 {
		delay = 0
	}
	return &StubProcessor{delay: delay, decline: decline, now: time.Now}
}

func (p *StubProcessor) Charge(ctx context.Context, req Request) (Receipt, error) {
	if !req.Method.IsValid() {
		return Receipt{}, fmt.Errorf("unsupported payment method %q", req.Method)
	}
	if req.Amount.IsNegative() {
		return Receipt{}, fmt.Errorf("amount must not be negative")
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	if p.decline {
		return Receipt{}, ErrDeclined
	}
	return Receipt{
		Reference:   "stub_" + uuid.NewString(),
		Method:      req.Method,
		Amount:      req.Amount,
		ProcessedAt: p.now().UTC(),
	}, nil
}
