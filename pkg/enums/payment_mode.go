package enums

import "fmt"

// PaymentMode is how the customer chose to settle an order. Capture itself
// happens on the hosted payment platform.
type PaymentMode string

const (
	PaymentModeCard           PaymentMode = "card"
	PaymentModeCashOnDelivery PaymentMode = "cash_on_delivery"
)

var validPaymentModes = []PaymentMode{
	PaymentModeCard,
	PaymentModeCashOnDelivery,
}

// String implements fmt.Stringer.
func (m PaymentMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMode.
func (m PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts raw input into a PaymentMode.
func ParsePaymentMode(value string) (PaymentMode, error) {
	for _, candidate := range validPaymentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}
