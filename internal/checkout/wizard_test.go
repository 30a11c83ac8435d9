package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/storefront/internal/cart"
	"github.com/shopkit/storefront/internal/models"
)

type fakePlacer struct {
	submission models.OrderSubmission
	token      string
	resp       models.OrderResponse
	err        error
	block      chan struct{}
}

func (f *fakePlacer) PlaceOrder(ctx context.Context, submission models.OrderSubmission, token string) (models.OrderResponse, error) {
	f.submission = submission
	f.token = token
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

func loadedCart(t *testing.T) *cart.Store {
	t.Helper()
	s := cart.NewStore()
	s.AddItem(models.Product{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99")})
	s.AddItem(models.Product{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99")})
	s.AddItem(models.Product{ID: 5, Name: "Wireless Mouse", Price: decimal.RequireFromString("29.99")})
	return s
}

func readyWizard(t *testing.T, c Cart, placer OrderPlacer) *Wizard {
	t.Helper()
	w := NewWizard(c, placer, models.Session{Email: "john.doe@example.com", Token: "tok-123"})
	w.SetShipping(validShipping())
	_, err := w.Next()
	require.NoError(t, err)
	w.SetPayment(validPayment())
	_, err = w.Next()
	require.NoError(t, err)
	require.Equal(t, StepReview, w.View().Step)
	return w
}

func TestWizardStartsOnShippingWithDefaults(t *testing.T) {
	w := NewWizard(cart.NewStore(), &fakePlacer{}, models.Session{})

	view := w.View()
	assert.Equal(t, StepShipping, view.Step)
	assert.Equal(t, "United States", view.Shipping.Country)
	assert.Equal(t, models.ShippingStandard, view.Shipping.Method)
	assert.Equal(t, models.PaymentCreditCard, view.Payment.Method)
	assert.Empty(t, view.Errors)
	assert.False(t, view.Processing)
}

func TestNextBlockedByInvalidShipping(t *testing.T) {
	w := NewWizard(cart.NewStore(), &fakePlacer{}, models.Session{})

	info := validShipping()
	info.Email = "bad"
	w.SetShipping(info)

	step, err := w.Next()

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, StepShipping, step)
	assert.Contains(t, w.View().Errors, "email")
}

func TestEditingFieldClearsItsError(t *testing.T) {
	w := NewWizard(cart.NewStore(), &fakePlacer{}, models.Session{})

	info := validShipping()
	info.Email = "bad"
	info.PostalCode = "1"
	w.SetShipping(info)
	_, err := w.Next()
	require.ErrorIs(t, err, ErrValidationFailed)
	require.Len(t, w.View().Errors, 2)

	info.Email = "john.doe@example.com"
	w.SetShipping(info)

	errs := w.View().Errors
	assert.NotContains(t, errs, "email")
	assert.Contains(t, errs, "postalCode", "untouched fields keep their errors")
}

func TestBackKeepsFormData(t *testing.T) {
	w := readyWizard(t, loadedCart(t), &fakePlacer{})

	assert.Equal(t, StepPayment, w.Back())
	assert.Equal(t, StepShipping, w.Back())
	assert.Equal(t, StepShipping, w.Back(), "back from shipping stays put")

	view := w.View()
	assert.Equal(t, "John", view.Shipping.FirstName)
	assert.Equal(t, "1234 5678 9012 3456", view.Payment.CardNumber)
}

func TestPlaceOrderOnlyFromReview(t *testing.T) {
	w := NewWizard(loadedCart(t), &fakePlacer{}, models.Session{})

	_, err := w.PlaceOrder(context.Background())

	assert.ErrorIs(t, err, ErrNotOnReview)
}

func TestPlaceOrderSuccessClearsCartAndMasksPayment(t *testing.T) {
	c := loadedCart(t)
	placer := &fakePlacer{
		resp: models.OrderResponse{
			ID:          "ord-42",
			CreatedAt:   "2025-01-02T03:04:05Z",
			TotalAmount: decimal.RequireFromString("2029.97"),
			OrderItems: []models.ConfirmedItem{
				{ProductID: 1, Quantity: 2, TotalPrice: decimal.RequireFromString("1999.98"), ProductName: "Laptop"},
				{ProductID: 5, Quantity: 1, TotalPrice: decimal.RequireFromString("29.99"), ProductName: "Wireless Mouse"},
			},
		},
	}
	w := readyWizard(t, c, placer)

	conf, err := w.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ord-42", conf.OrderID)
	assert.Equal(t, "3456", conf.Payment.LastFourDigits)
	assert.Equal(t, "John Doe", conf.Payment.CardholderName)
	assert.Equal(t, "John", conf.Shipping.FirstName)
	assert.Len(t, conf.OrderItems, 2)

	assert.Empty(t, c.Snapshot().Items, "cart is cleared after a successful order")
	assert.False(t, w.View().Processing, "processing flag is reset")

	// Submission shape: refs only, masked payment, bearer token forwarded.
	assert.Equal(t, "tok-123", placer.token)
	assert.Equal(t, "john.doe@example.com", placer.submission.CustomerEmail)
	assert.Equal(t, "John Doe", placer.submission.CustomerName)
	require.Len(t, placer.submission.OrderItems, 2)
	assert.Equal(t, models.OrderItemRef{ProductID: 1, Quantity: 2}, placer.submission.OrderItems[0])
	assert.Equal(t, "3456", placer.submission.Payment.LastFourDigits)
	assert.Equal(t, "12", placer.submission.Payment.ExpiryMonth)
	assert.Equal(t, "25", placer.submission.Payment.ExpiryYear)
}

func TestPlaceOrderFailureLeavesCartForRetry(t *testing.T) {
	c := loadedCart(t)
	placer := &fakePlacer{err: errors.New("backend unavailable")}
	w := readyWizard(t, c, placer)

	_, err := w.PlaceOrder(context.Background())

	require.Error(t, err)
	assert.Len(t, c.Snapshot().Items, 2, "cart is untouched on failure")
	assert.False(t, w.View().Processing, "processing flag is reset on failure too")
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	w := readyWizard(t, cart.NewStore(), &fakePlacer{})

	_, err := w.PlaceOrder(context.Background())

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderRejectsDuplicateWhileInFlight(t *testing.T) {
	placer := &fakePlacer{
		block: make(chan struct{}),
		resp:  models.OrderResponse{ID: "ord-1"},
	}
	w := readyWizard(t, loadedCart(t), placer)

	done := make(chan error, 1)
	go func() {
		_, err := w.PlaceOrder(context.Background())
		done <- err
	}()

	// Wait for the first call to mark itself in flight.
	require.Eventually(t, func() bool {
		return w.View().Processing
	}, time.Second, 5*time.Millisecond)

	_, err := w.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyProcessing)

	close(placer.block)
	require.NoError(t, <-done)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(&fakePlacer{})
	c := cart.NewStore()

	w := m.Start(c, models.Session{Email: "a@b.co"})
	require.NotEmpty(t, w.ID)

	got, err := m.Get(w.ID)
	require.NoError(t, err)
	assert.Same(t, w, got)

	m.Finish(w.ID)
	_, err = m.Get(w.ID)
	assert.ErrorIs(t, err, ErrWizardNotFound)
}
