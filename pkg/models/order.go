package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// OrderItemOption is a supplement applied to a single order line.
type OrderItemOption struct {
	OptionID uuid.UUID   `json:"optionId"`
	Name     string      `json:"name"`
	Price    money.Money `json:"price"`
}

// OrderItem is the immutable snapshot of one cart line at order placement.
type OrderItem struct {
	ProductID uuid.UUID         `json:"productId"`
	VariantID *uuid.UUID        `json:"variantId,omitempty"`
	Title     string            `json:"title"`
	UnitPrice money.Money       `json:"unitPrice"`
	Quantity  int               `json:"quantity"`
	Options   []OrderItemOption `json:"options,omitempty"`
	LineTotal money.Money       `json:"lineTotal"`
}

// Order is an append-only sale record. TableID is nil for direct POS sales;
// ClientID is nil for table-level orders not assigned to a guest.
// CashReceived accumulates every payment applied against the order and is
// the only mutable amount; orders are never deleted.
type Order struct {
	ID               uuid.UUID           `json:"id"`
	TableID          *uuid.UUID          `json:"tableId,omitempty"`
	ClientID         *uuid.UUID          `json:"clientId,omitempty"`
	OrderItems       []OrderItem         `json:"orderItems"`
	SubTotal         money.Money         `json:"subTotal"`
	Total            money.Money         `json:"total"`
	CashReceived     money.Money         `json:"cashReceived"`
	ChangeGiven      money.Money         `json:"changeGiven"`
	Status           enums.OrderStatus   `json:"status"`
	Method           enums.PaymentMethod `json:"method,omitempty"`
	Source           enums.OrderSource   `json:"source"`
	CashierSessionID uuid.UUID           `json:"cashierSessionId"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// Remaining reports the unpaid balance of the order.
func (o Order) Remaining() money.Money {
	return money.Remaining(o.Total, o.CashReceived)
}
