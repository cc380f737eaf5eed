package enums

import "fmt"

// PaymentScope selects whether a payment settles a whole table or a single
// client's share of it.
type PaymentScope string

const (
	PaymentScopeTable  PaymentScope = "TABLE"
	PaymentScopeClient PaymentScope = "CLIENT"
)

// String implements fmt.Stringer.
func (s PaymentScope) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PaymentScope.
func (s PaymentScope) IsValid() bool {
	return s == PaymentScopeTable || s == PaymentScopeClient
}

// ParsePaymentScope converts raw input into a PaymentScope.
func ParsePaymentScope(value string) (PaymentScope, error) {
	switch PaymentScope(value) {
	case PaymentScopeTable:
		return PaymentScopeTable, nil
	case PaymentScopeClient:
		return PaymentScopeClient, nil
	}
	return "", fmt.Errorf("invalid payment scope %q", value)
}
