// Package checkout drives the three-step checkout flow: shipping, payment,
// review. Each step's form is validated before the next step is entered, and
// placing the order is only reachable from review.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/shopkit/storefront/internal/metrics"
	"github.com/shopkit/storefront/internal/models"
)

// Step identifies the wizard stage.
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

var (
	// ErrValidationFailed marks a blocked step transition; the wizard's
	// Errors map holds the per-field messages.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotOnReview is returned when PlaceOrder is called before review.
	ErrNotOnReview = errors.New("order can only be placed from the review step")

	// ErrAlreadyProcessing rejects a duplicate PlaceOrder while one is in flight.
	ErrAlreadyProcessing = errors.New("order placement already in progress")

	// ErrEmptyCart rejects placing an order with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// Cart is the cart surface the wizard needs: read the state at assembly time,
// clear it after a successful order.
type Cart interface {
	Snapshot() models.CartState
	Clear()
}

// OrderPlacer submits an assembled order to the backend.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, submission models.OrderSubmission, token string) (models.OrderResponse, error)
}

// Wizard holds one in-progress checkout. It owns the shipping and payment
// form state and the field error map; going back re-enters the prior step
// with the data intact.
type Wizard struct {
	ID string

	mutex      sync.Mutex
	step       Step
	shipping   models.ShippingInfo
	payment    models.PaymentInfo
	errors     models.FieldErrors
	processing bool

	cart    Cart
	orders  OrderPlacer
	session models.Session
}

// View is a read-only snapshot of the wizard for display.
type View struct {
	ID         string              `json:"id"`
	Step       Step                `json:"step"`
	Shipping   models.ShippingInfo `json:"shipping"`
	Payment    models.PaymentInfo  `json:"payment"`
	Errors     models.FieldErrors  `json:"errors"`
	Processing bool                `json:"isProcessing"`
	Cart       models.CartState    `json:"cart"`
}

// NewWizard starts a checkout at the shipping step with empty forms and the
// original's defaults pre-selected.
func NewWizard(cart Cart, orders OrderPlacer, session models.Session) *Wizard {
	return &Wizard{
		ID:   uuid.New().String(),
		step: StepShipping,
		shipping: models.ShippingInfo{
			Country: "United States",
			Method:  models.ShippingStandard,
		},
		payment: models.PaymentInfo{
			Method: models.PaymentCreditCard,
		},
		errors:  models.FieldErrors{},
		cart:    cart,
		orders:  orders,
		session: session,
	}
}

// View returns the current wizard state.
func (w *Wizard) View() View {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	errs := models.FieldErrors{}
	for k, v := range w.errors {
		errs[k] = v
	}

	return View{
		ID:         w.ID,
		Step:       w.step,
		Shipping:   w.shipping,
		Payment:    w.payment,
		Errors:     errs,
		Processing: w.processing,
		Cart:       w.cart.Snapshot(),
	}
}

// SetShipping replaces the shipping form. Errors for fields the user edited
// are cleared immediately; remaining errors stay until the next transition.
func (w *Wizard) SetShipping(info models.ShippingInfo) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	old := w.shipping
	w.shipping = info

	w.clearEditedErrors(map[string][2]string{
		"firstName":    {old.FirstName, info.FirstName},
		"lastName":     {old.LastName, info.LastName},
		"email":        {old.Email, info.Email},
		"phoneNumber":  {old.PhoneNumber, info.PhoneNumber},
		"addressLine1": {old.AddressLine1, info.AddressLine1},
		"city":         {old.City, info.City},
		"state":        {old.State, info.State},
		"postalCode":   {old.PostalCode, info.PostalCode},
		"method":       {string(old.Method), string(info.Method)},
	})
}

// SetPayment replaces the payment form, clearing errors for edited fields.
// The card number is stored in display format.
func (w *Wizard) SetPayment(info models.PaymentInfo) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	info.CardNumber = FormatCardNumber(info.CardNumber)

	old := w.payment
	w.payment = info

	w.clearEditedErrors(map[string][2]string{
		"cardNumber":     {old.CardNumber, info.CardNumber},
		"expiryDate":     {old.ExpiryDate, info.ExpiryDate},
		"cvv":            {old.CVV, info.CVV},
		"cardholderName": {old.CardholderName, info.CardholderName},
		"method":         {string(old.Method), string(info.Method)},
	})
}

func (w *Wizard) clearEditedErrors(fields map[string][2]string) {
	for field, values := range fields {
		if values[0] != values[1] {
			delete(w.errors, field)
		}
	}
}

// Next validates the current step's form and advances on success. A failed
// validation populates the error map and returns ErrValidationFailed.
func (w *Wizard) Next() (Step, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	switch w.step {
	case StepShipping:
		if errs := ValidateShipping(w.shipping); len(errs) > 0 {
			w.errors = errs
			metrics.ValidationFailures.WithLabelValues(string(StepShipping)).Inc()
			return w.step, ErrValidationFailed
		}
		w.errors = models.FieldErrors{}
		w.step = StepPayment

	case StepPayment:
		if errs := ValidatePayment(w.payment); len(errs) > 0 {
			w.errors = errs
			metrics.ValidationFailures.WithLabelValues(string(StepPayment)).Inc()
			return w.step, ErrValidationFailed
		}
		w.errors = models.FieldErrors{}
		w.step = StepReview

	case StepReview:
		return w.step, fmt.Errorf("already on the final step")
	}

	return w.step, nil
}

// Back re-enters the prior step with its form data intact. Going back from
// shipping is a no-op.
func (w *Wizard) Back() Step {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	switch w.step {
	case StepPayment:
		w.step = StepShipping
	case StepReview:
		w.step = StepPayment
	}
	return w.step
}

// PlaceOrder assembles the submission from cart, shipping, payment and the
// session identity, performs one backend call, and on success clears the cart
// and returns the confirmation. The processing flag is reset on every path;
// on failure the cart is left untouched so the user can retry.
func (w *Wizard) PlaceOrder(ctx context.Context) (models.OrderConfirmation, error) {
	w.mutex.Lock()
	if w.step != StepReview {
		w.mutex.Unlock()
		return models.OrderConfirmation{}, ErrNotOnReview
	}
	if w.processing {
		w.mutex.Unlock()
		return models.OrderConfirmation{}, ErrAlreadyProcessing
	}
	w.processing = true

	state := w.cart.Snapshot()
	shipping := w.shipping
	payment := w.payment
	session := w.session
	w.mutex.Unlock()

	defer func() {
		w.mutex.Lock()
		w.processing = false
		w.mutex.Unlock()
	}()

	if len(state.Items) == 0 {
		return models.OrderConfirmation{}, ErrEmptyCart
	}

	submission := assembleSubmission(state, shipping, payment, session)

	log.WithFields(log.Fields{
		"checkout_id": w.ID,
		"items":       len(submission.OrderItems),
		"total":       state.Total.String(),
	}).Info("Placing order")

	resp, err := w.orders.PlaceOrder(ctx, submission, session.Token)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		log.WithField("checkout_id", w.ID).Error("Order placement failed: ", err)
		return models.OrderConfirmation{}, fmt.Errorf("place order: %w", err)
	}

	w.cart.Clear()
	metrics.OrdersTotal.WithLabelValues("completed").Inc()
	value, _ := resp.TotalAmount.Float64()
	metrics.OrderValue.Observe(value)

	log.WithFields(log.Fields{
		"checkout_id": w.ID,
		"order_id":    resp.ID,
	}).Info("Order completed successfully")

	return models.OrderConfirmation{
		OrderID:    resp.ID,
		Timestamp:  resp.CreatedAt,
		Total:      resp.TotalAmount,
		OrderItems: resp.OrderItems,
		Shipping:   shipping,
		Payment: models.MaskedPayment{
			LastFourDigits: LastFour(payment.CardNumber),
			CardholderName: payment.CardholderName,
		},
	}, nil
}

func assembleSubmission(state models.CartState, shipping models.ShippingInfo, payment models.PaymentInfo, session models.Session) models.OrderSubmission {
	items := make([]models.OrderItemRef, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, models.OrderItemRef{
			ProductID: item.ID,
			Quantity:  item.Quantity,
		})
	}

	email := shipping.Email
	if email == "" {
		email = session.Email
	}

	expMonth, expYear := splitExpiry(payment.ExpiryDate)

	return models.OrderSubmission{
		CustomerEmail: email,
		CustomerName:  strings.TrimSpace(shipping.FirstName + " " + shipping.LastName),
		CustomerPhone: shipping.PhoneNumber,
		OrderItems:    items,
		Shipping:      shipping,
		Payment: models.SubmittedPayment{
			Method:         payment.Method,
			LastFourDigits: LastFour(payment.CardNumber),
			ExpiryMonth:    expMonth,
			ExpiryYear:     expYear,
			CardholderName: payment.CardholderName,
		},
	}
}

func splitExpiry(expiry string) (month, year string) {
	parts := strings.SplitN(expiry, "/", 2)
	if len(parts) != 2 {
		return expiry, ""
	}
	return parts[0], parts[1]
}
