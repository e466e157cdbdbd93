package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/restaurant-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/metrics"
	"github.com/angelmondragon/restaurant-backend/pkg/payment"
	"github.com/angelmondragon/restaurant-backend/pkg/storage/memorydriver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	requests []payment.Request
	err      error
}

func (p *recordingProcessor) Charge(_ context.Context, req payment.Request) (payment.Receipt, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return payment.Receipt{}, p.err
	}
	return payment.Receipt{Reference: "ref-1", Method: req.Method, Amount: req.Amount}, nil
}

func newCheckoutFixture(t *testing.T, processor payment.Processor) (Service, cart.Service) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	carts, err := cart.NewService(memorydriver.New(), "", logg)
	require.NoError(t, err)
	svc, err := NewService(carts, processor, metrics.NewCheckoutMetrics(prometheus.NewRegistry()), logg)
	require.NoError(t, err)
	return svc, carts
}

func seedCart(t *testing.T, carts cart.Service, session string) {
	t.Helper()
	_, _, err := carts.AddItem(context.Background(), session, cart.Candidate{ItemID: "veg-1", Title: "Paneer Butter Masala", BasePrice: decimal.NewFromInt(220), Quantity: 2})
	require.NoError(t, err)
}

func TestPlaceOrderChargesAndClearsCart(t *testing.T) {
	processor := &recordingProcessor{}
	svc, carts := newCheckoutFixture(t, processor)
	seedCart(t, carts, "s")

	order, err := svc.PlaceOrder(context.Background(), "s", validForm())
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "ref-1", order.PaymentReference)
	assert.True(t, order.Payload.Totals.Total.Equal(decimal.NewFromInt(440)))
	require.Len(t, processor.requests, 1)
	assert.Equal(t, order.ID, processor.requests[0].OrderID)
	assert.True(t, processor.requests[0].Amount.Equal(decimal.NewFromInt(440)))

	snap, err := carts.Get(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, snap.Lines)
}

func TestPlaceOrderPaymentFailureKeepsCart(t *testing.T) {
	svc, carts := newCheckoutFixture(t, payment.NewStubProcessor(0, true))
	seedCart(t, carts, "s")

	order, err := svc.PlaceOrder(context.Background(), "s", validForm())
	require.Error(t, err)
	assert.Nil(t, order)
	assert.Equal(t, pkgerrors.CodePaymentFailed, pkgerrors.As(err).Code())
	assert.ErrorIs(t, err, payment.ErrDeclined)

	snap, err := carts.Get(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
}

func TestPlaceOrderValidationFailureSkipsPayment(t *testing.T) {
	processor := &recordingProcessor{}
	svc, carts := newCheckoutFixture(t, processor)

	_, err := svc.PlaceOrder(context.Background(), "s", validForm())
	require.Error(t, err)
	assert.Equal(t, FieldCart, pkgerrors.Field(err))

	seedCart(t, carts, "s")
	form := validForm()
	form.Email = "not-an-email"
	_, err = svc.PlaceOrder(context.Background(), "s", form)
	require.Error(t, err)
	assert.Equal(t, FieldEmail, pkgerrors.Field(err))
	assert.Empty(t, processor.requests)
}

func TestPlaceOrderCancelledDuringPayment(t *testing.T) {
	svc, carts := newCheckoutFixture(t, payment.NewStubProcessor(time.Minute, false))
	seedCart(t, carts, "s")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.PlaceOrder(ctx, "s", validForm())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	snap, err := carts.Get(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, snap.Lines, 1)
}

func TestServiceValidate(t *testing.T) {
	svc, carts := newCheckoutFixture(t, &recordingProcessor{})

	result, err := svc.Validate(context.Background(), "s", validForm())
	require.NoError(t, err)
	assert.Equal(t, Result{Field: FieldCart}, result)

	seedCart(t, carts, "s")
	result, err = svc.Validate(context.Background(), "s", validForm())
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	logg := logger.New(logger.Options{Output: io.Discard})
	_, err := NewService(nil, &recordingProcessor{}, nil, logg)
	assert.Error(t, err)
	carts, _ := cart.NewService(memorydriver.New(), "", logg)
	_, err = NewService(carts, nil, nil, logg)
	assert.Error(t, err)
	_, err = NewService(carts, &recordingProcessor{}, nil, nil)
	assert.Error(t, err)
}
