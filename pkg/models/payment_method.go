package models

import (
	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
)

// PaymentMethodInfo is a tender type the store has enabled, as configured on
// the backend. The terminal caches the list so the payment modal still works
// through a backend outage.
type PaymentMethodInfo struct {
	ID      uuid.UUID           `json:"id"`
	Method  enums.PaymentMethod `json:"method"`
	Label   string              `json:"label"`
	Enabled bool                `json:"enabled"`
}
