package enums

import "fmt"

// TableStatus is the display state of a restaurant table, derived from its
// client/order ledger.
type TableStatus string

const (
	TableStatusFree          TableStatus = "FREE"
	TableStatusOccupied      TableStatus = "OCCUPIED"
	TableStatusPartiallyPaid TableStatus = "PARTIALLY_PAID"
	TableStatusPaid          TableStatus = "PAID"
)

var validTableStatuses = []TableStatus{
	TableStatusFree,
	TableStatusOccupied,
	TableStatusPartiallyPaid,
	TableStatusPaid,
}

// String implements fmt.Stringer.
func (s TableStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TableStatus.
func (s TableStatus) IsValid() bool {
	for _, candidate := range validTableStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTableStatus converts raw input into a TableStatus.
func ParseTableStatus(value string) (TableStatus, error) {
	for _, candidate := range validTableStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid table status %q", value)
}
