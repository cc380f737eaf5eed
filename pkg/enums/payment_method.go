package enums

import "fmt"

// PaymentMethod is a tender type the register accepts. The backend is
// authoritative on which methods are offered; this list covers the values it
// currently returns.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "CASH"
	PaymentMethodCard        PaymentMethod = "CARD"
	PaymentMethodContactless PaymentMethod = "CONTACTLESS"
	PaymentMethodMobile      PaymentMethod = "MOBILE"
	PaymentMethodGift        PaymentMethod = "GIFT"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodContactless,
	PaymentMethodMobile,
	PaymentMethodGift,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsCash reports whether the tender requires received/change bookkeeping.
func (m PaymentMethod) IsCash() bool {
	return m == PaymentMethodCash
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
