package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// PlaceOrderInput is the full payload for a new order, covering both direct
// POS sales and table orders.
type PlaceOrderInput struct {
	TableID          *uuid.UUID          `json:"tableId,omitempty"`
	ClientID         *uuid.UUID          `json:"clientId,omitempty"`
	OrderItems       []models.OrderItem  `json:"orderItems"`
	SubTotal         money.Money         `json:"subTotal"`
	Total            money.Money         `json:"total"`
	CashReceived     money.Money         `json:"cashReceived"`
	ChangeGiven      money.Money         `json:"changeGiven"`
	Status           enums.OrderStatus   `json:"status"`
	Method           enums.PaymentMethod `json:"method,omitempty"`
	Source           enums.OrderSource   `json:"source"`
	CashierSessionID uuid.UUID           `json:"cashierSessionId"`
}

// UpdateOrderInput adjusts the paid amount on an existing order. Orders are
// append-only otherwise; only payment progress mutates.
type UpdateOrderInput struct {
	CashReceived money.Money       `json:"cashReceived"`
	Status       enums.OrderStatus `json:"status"`
}

// PlaceOrder persists a new order and returns the authoritative record.
func (c *Client) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, "orders.place", http.MethodPost, "/orders", nil, input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder persists payment progress against an order.
func (c *Client) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, "orders.update", http.MethodPut, "/orders/"+id.String(), nil, input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, "orders.get", http.MethodGet, "/orders/"+id.String(), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListTableOrders fetches every order attached to a table.
func (c *Client) ListTableOrders(ctx context.Context, tableID uuid.UUID) ([]models.Order, error) {
	query := url.Values{"tableId": {tableID.String()}}
	var orders []models.Order
	if err := c.do(ctx, "orders.listByTable", http.MethodGet, "/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListSessionOrders fetches every order recorded under a cashier session.
func (c *Client) ListSessionOrders(ctx context.Context, sessionID uuid.UUID) ([]models.Order, error) {
	query := url.Values{"cashierSessionId": {sessionID.String()}}
	var orders []models.Order
	if err := c.do(ctx, "orders.listBySession", http.MethodGet, "/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
