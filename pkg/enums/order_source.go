package enums

// OrderSource records where an order originated.
type OrderSource string

const (
	OrderSourcePOS   OrderSource = "POS"
	OrderSourceTable OrderSource = "TABLE"
)

// String implements fmt.Stringer.
func (s OrderSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderSource.
func (s OrderSource) IsValid() bool {
	return s == OrderSourcePOS || s == OrderSourceTable
}
