package models

// ShippingMethod is the closed set of shipping options.
type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
	ShippingPickup    ShippingMethod = "pickup"
)

// Valid reports whether the method is one of the known shipping options.
func (m ShippingMethod) Valid() bool {
	switch m {
	case ShippingStandard, ShippingExpress, ShippingOvernight, ShippingPickup:
		return true
	}
	return false
}

// PaymentMethod is the closed set of payment options.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentStripe       PaymentMethod = "stripe"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
	PaymentCheck        PaymentMethod = "check"
	PaymentCrypto       PaymentMethod = "cryptocurrency"
)

// Valid reports whether the method is one of the known payment options.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentStripe,
		PaymentBankTransfer, PaymentCash, PaymentCheck, PaymentCrypto:
		return true
	}
	return false
}

// ShippingInfo is the shipping form. Created empty at wizard start, mutated
// field by field, validated at the shipping->payment transition.
type ShippingInfo struct {
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Email        string         `json:"email"`
	PhoneNumber  string         `json:"phoneNumber"`
	AddressLine1 string         `json:"addressLine1"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	PostalCode   string         `json:"postalCode"`
	Country      string         `json:"country"`
	Method       ShippingMethod `json:"method"`
}

// PaymentInfo is the payment form, validated at the payment->review transition.
type PaymentInfo struct {
	Method         PaymentMethod `json:"method"`
	CardNumber     string        `json:"cardNumber"`
	ExpiryDate     string        `json:"expiryDate"`
	CVV            string        `json:"cvv"`
	CardholderName string        `json:"cardholderName"`
}

// MaskedPayment is the only payment data that survives past order placement.
type MaskedPayment struct {
	LastFourDigits string `json:"lastFourDigits"`
	CardholderName string `json:"cardholderName"`
}

// FieldErrors maps form field names to human-readable validation messages.
// An empty map means the form is valid.
type FieldErrors map[string]string
