package enums

import "fmt"

// CashMovementType distinguishes manual drawer movements.
type CashMovementType string

const (
	CashMovementIn  CashMovementType = "IN"
	CashMovementOut CashMovementType = "OUT"
)

// String implements fmt.Stringer.
func (t CashMovementType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known CashMovementType.
func (t CashMovementType) IsValid() bool {
	return t == CashMovementIn || t == CashMovementOut
}

// ParseCashMovementType converts raw input into a CashMovementType.
func ParseCashMovementType(value string) (CashMovementType, error) {
	switch CashMovementType(value) {
	case CashMovementIn:
		return CashMovementIn, nil
	case CashMovementOut:
		return CashMovementOut, nil
	}
	return "", fmt.Errorf("invalid cash movement type %q", value)
}
