package enums

// ClientStatus is derived for display only, never stored.
type ClientStatus string

const (
	ClientStatusNoOrders ClientStatus = "NO_ORDERS"
	ClientStatusPending  ClientStatus = "PENDING"
	ClientStatusPaid     ClientStatus = "PAID"
)

// String implements fmt.Stringer.
func (s ClientStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ClientStatus.
func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusNoOrders, ClientStatusPending, ClientStatusPaid:
		return true
	}
	return false
}
