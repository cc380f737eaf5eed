package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// CreateTableInput carries the data for a new floor table.
type CreateTableInput struct {
	TableNumber string            `json:"tableNumber"`
	Status      enums.TableStatus `json:"status"`
	QRCode      string            `json:"qrCode,omitempty"`
}

// UpdateTableInput is a partial table update.
type UpdateTableInput struct {
	TableNumber *string            `json:"tableNumber,omitempty"`
	Status      *enums.TableStatus `json:"status,omitempty"`
	QRCode      *string            `json:"qrCode,omitempty"`
}

// AddClientInput seats a named guest at a table.
type AddClientInput struct {
	Name            string      `json:"name"`
	TableID         uuid.UUID   `json:"tableId"`
	AmountDue       money.Money `json:"amountDue"`
	RemainingAmount money.Money `json:"remainingAmount"`
}

// UpdateClientInput is a partial client update.
type UpdateClientInput struct {
	Name            *string      `json:"name,omitempty"`
	AmountDue       *money.Money `json:"amountDue,omitempty"`
	RemainingAmount *money.Money `json:"remainingAmount,omitempty"`
}

// RecordPaymentInput records one tender against a client's share.
type RecordPaymentInput struct {
	Amount money.Money         `json:"amount"`
	Method enums.PaymentMethod `json:"method"`
}

// ListTables fetches the whole floor.
func (c *Client) ListTables(ctx context.Context) ([]models.RestaurantTable, error) {
	var tables []models.RestaurantTable
	if err := c.do(ctx, "tables.list", http.MethodGet, "/tables", nil, nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// GetTable fetches one table by id.
func (c *Client) GetTable(ctx context.Context, id uuid.UUID) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := c.do(ctx, "tables.get", http.MethodGet, "/tables/"+id.String(), nil, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// CreateTable registers a new table.
func (c *Client) CreateTable(ctx context.Context, input CreateTableInput) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := c.do(ctx, "tables.create", http.MethodPost, "/tables", nil, input, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// UpdateTable applies a partial update and returns the authoritative table.
func (c *Client) UpdateTable(ctx context.Context, id uuid.UUID, input UpdateTableInput) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := c.do(ctx, "tables.update", http.MethodPut, "/tables/"+id.String(), nil, input, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// DeleteTable removes a table from the floor.
func (c *Client) DeleteTable(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, "tables.delete", http.MethodDelete, "/tables/"+id.String(), nil, nil, nil)
}

// OccupyTable reserves a free table for seating.
func (c *Client) OccupyTable(ctx context.Context, id uuid.UUID) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := c.do(ctx, "tables.occupy", http.MethodPatch, fmt.Sprintf("/tables/%s/occupy", id), nil, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ClearTable detaches every client and frees the table; orders survive.
func (c *Client) ClearTable(ctx context.Context, id uuid.UUID) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := c.do(ctx, "tables.clear", http.MethodPut, fmt.Sprintf("/tables/%s/clear", id), nil, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ListClients fetches the guests seated at a table.
func (c *Client) ListClients(ctx context.Context, tableID uuid.UUID) ([]models.TableClient, error) {
	var clients []models.TableClient
	if err := c.do(ctx, "clients.list", http.MethodGet, fmt.Sprintf("/tables/%s/clients", tableID), nil, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// AddClient seats a guest at the table.
func (c *Client) AddClient(ctx context.Context, tableID uuid.UUID, input AddClientInput) (*models.TableClient, error) {
	var client models.TableClient
	if err := c.do(ctx, "clients.add", http.MethodPost, fmt.Sprintf("/tables/%s/clients", tableID), nil, input, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient applies a partial client update.
func (c *Client) UpdateClient(ctx context.Context, clientID uuid.UUID, input UpdateClientInput) (*models.TableClient, error) {
	var client models.TableClient
	if err := c.do(ctx, "clients.update", http.MethodPut, "/tables/clients/"+clientID.String(), nil, input, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// RemoveClient detaches a guest; their billed orders stay for audit.
func (c *Client) RemoveClient(ctx context.Context, clientID uuid.UUID) error {
	return c.do(ctx, "clients.remove", http.MethodDelete, "/tables/clients/"+clientID.String(), nil, nil, nil)
}

// RecordClientPayment records one tender against a client.
func (c *Client) RecordClientPayment(ctx context.Context, clientID uuid.UUID, input RecordPaymentInput) (*models.ClientPayment, error) {
	var payment models.ClientPayment
	if err := c.do(ctx, "payments.add", http.MethodPost, fmt.Sprintf("/tables/clients/%s/payments", clientID), nil, input, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListClientPayments fetches all recorded tenders for a client.
func (c *Client) ListClientPayments(ctx context.Context, clientID uuid.UUID) ([]models.ClientPayment, error) {
	var payments []models.ClientPayment
	if err := c.do(ctx, "payments.list", http.MethodGet, fmt.Sprintf("/tables/clients/%s/payments", clientID), nil, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// TableStatistics fetches the floor summary counters.
func (c *Client) TableStatistics(ctx context.Context) (*models.TableStatistics, error) {
	var stats models.TableStatistics
	if err := c.do(ctx, "tables.statistics", http.MethodGet, "/tables/statistics", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// MarkClientPaid settles a client's remaining amount in full.
func (c *Client) MarkClientPaid(ctx context.Context, clientID uuid.UUID) (*models.TableClient, error) {
	var client models.TableClient
	if err := c.do(ctx, "payments.markPaid", http.MethodPut, fmt.Sprintf("/tables/clients/%s/mark-paid", clientID), nil, nil, &client); err != nil {
		return nil, err
	}
	return &client, nil
}
