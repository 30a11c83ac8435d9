package checkout

import (
	"regexp"
	"strings"

	"github.com/shopkit/storefront/internal/models"
)

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	postalPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
)

// ValidateShipping checks the shipping form and returns per-field errors.
// An empty map means the shipping->payment transition may proceed.
func ValidateShipping(info models.ShippingInfo) models.FieldErrors {
	errs := models.FieldErrors{}

	if strings.TrimSpace(info.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(info.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	if strings.TrimSpace(info.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(info.Email) {
		errs["email"] = "Email is invalid"
	}
	if strings.TrimSpace(info.PhoneNumber) == "" {
		errs["phoneNumber"] = "Phone number is required"
	} else if len(digitsOnly(info.PhoneNumber)) != 10 {
		errs["phoneNumber"] = "Phone number must have 10 digits"
	}
	if strings.TrimSpace(info.AddressLine1) == "" {
		errs["addressLine1"] = "Address is required"
	}
	if strings.TrimSpace(info.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(info.State) == "" {
		errs["state"] = "State is required"
	}
	if strings.TrimSpace(info.PostalCode) == "" {
		errs["postalCode"] = "ZIP code is required"
	} else if !postalPattern.MatchString(info.PostalCode) {
		errs["postalCode"] = "Invalid ZIP code format"
	}
	if !info.Method.Valid() {
		errs["method"] = "Invalid shipping method"
	}

	return errs
}

// ValidatePayment checks the payment form and returns per-field errors.
// An empty map means the payment->review transition may proceed.
func ValidatePayment(info models.PaymentInfo) models.FieldErrors {
	errs := models.FieldErrors{}

	if strings.TrimSpace(info.CardNumber) == "" {
		errs["cardNumber"] = "Card number is required"
	} else if !cardPattern.MatchString(strings.ReplaceAll(info.CardNumber, " ", "")) {
		errs["cardNumber"] = "Invalid card number format"
	}
	if strings.TrimSpace(info.ExpiryDate) == "" {
		errs["expiryDate"] = "Expiry date is required"
	} else if !expiryPattern.MatchString(info.ExpiryDate) {
		errs["expiryDate"] = "Invalid expiry date format (MM/YY)"
	}
	if strings.TrimSpace(info.CVV) == "" {
		errs["cvv"] = "CVV is required"
	} else if !cvvPattern.MatchString(info.CVV) {
		errs["cvv"] = "Invalid CVV format"
	}
	if strings.TrimSpace(info.CardholderName) == "" {
		errs["cardholderName"] = "Cardholder name is required"
	}
	if !info.Method.Valid() {
		errs["method"] = "Invalid payment method"
	}

	return errs
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
