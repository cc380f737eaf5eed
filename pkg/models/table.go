package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// TableClient is a guest seated at a table with their share of the bill.
// Invariant: 0 <= RemainingAmount <= AmountDue; RemainingAmount == 0 with
// orders present means paid.
type TableClient struct {
	ID              uuid.UUID   `json:"id"`
	TableID         uuid.UUID   `json:"tableId"`
	Name            string      `json:"name"`
	AmountDue       money.Money `json:"amountDue"`
	RemainingAmount money.Money `json:"remainingAmount"`
}

// RestaurantTable is a seating unit. RemainingAmount and TotalAmount are a
// display cache derived from the attached orders, never a source of truth.
type RestaurantTable struct {
	ID              uuid.UUID         `json:"id"`
	TableNumber     string            `json:"tableNumber"`
	Status          enums.TableStatus `json:"status"`
	QRCode          string            `json:"qrCode,omitempty"`
	RemainingAmount money.Money       `json:"remainingAmount"`
	TotalAmount     money.Money       `json:"totalAmount"`
	ClientIDs       []uuid.UUID       `json:"clientIds,omitempty"`
	OrderIDs        []uuid.UUID       `json:"orderIds,omitempty"`
}

// ClientPayment is one recorded tender against a client's share.
type ClientPayment struct {
	ID       uuid.UUID           `json:"id"`
	ClientID uuid.UUID           `json:"clientId"`
	Amount   money.Money         `json:"amount"`
	Method   enums.PaymentMethod `json:"method"`
	PaidAt   time.Time           `json:"paidAt"`
}

// TableStatistics summarizes the floor for the header widgets.
type TableStatistics struct {
	PaidCount     int         `json:"paidCount"`
	OccupiedCount int         `json:"occupiedCount"`
	PartialCount  int         `json:"partialCount"`
	FreeCount     int         `json:"freeCount"`
	TotalDue      money.Money `json:"totalDue"`
}
