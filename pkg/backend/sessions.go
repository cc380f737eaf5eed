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

// OpenSessionInput opens a register shift with a counted float.
type OpenSessionInput struct {
	CashierID      uuid.UUID   `json:"cashierId"`
	OpeningBalance money.Money `json:"openingBalance"`
}

// CloseSessionInput closes a shift against the counted drawer.
type CloseSessionInput struct {
	ClosingBalance money.Money `json:"closingBalance"`
}

// CashMovementInput records a manual drawer adjustment.
type CashMovementInput struct {
	Type   enums.CashMovementType `json:"type"`
	Amount money.Money            `json:"amount"`
	Reason string                 `json:"reason"`
}

// OpenSession starts a new cashier session.
func (c *Client) OpenSession(ctx context.Context, input OpenSessionInput) (*models.CashierSession, error) {
	var session models.CashierSession
	if err := c.do(ctx, "sessions.open", http.MethodPost, "/cashier-sessions", nil, input, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseSession ends a session. The backend enforces single close; a repeat
// close surfaces as a remote rejection.
func (c *Client) CloseSession(ctx context.Context, id uuid.UUID, input CloseSessionInput) (*models.CashierSession, error) {
	var session models.CashierSession
	if err := c.do(ctx, "sessions.close", http.MethodPut, fmt.Sprintf("/cashier-sessions/%s/close", id), nil, input, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession fetches one session by id.
func (c *Client) GetSession(ctx context.Context, id uuid.UUID) (*models.CashierSession, error) {
	var session models.CashierSession
	if err := c.do(ctx, "sessions.get", http.MethodGet, "/cashier-sessions/"+id.String(), nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ActiveSession fetches the open session for a cashier, or NotFound when the
// register is closed.
func (c *Client) ActiveSession(ctx context.Context, cashierID uuid.UUID) (*models.CashierSession, error) {
	var session models.CashierSession
	if err := c.do(ctx, "sessions.active", http.MethodGet, fmt.Sprintf("/cashier-sessions/cashier/%s/active", cashierID), nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RecordCashMovement adds a drawer adjustment to a session.
func (c *Client) RecordCashMovement(ctx context.Context, sessionID uuid.UUID, input CashMovementInput) (*models.CashMovement, error) {
	var movement models.CashMovement
	if err := c.do(ctx, "sessions.recordMovement", http.MethodPost, fmt.Sprintf("/cashier-sessions/%s/cash-movements", sessionID), nil, input, &movement); err != nil {
		return nil, err
	}
	return &movement, nil
}

// ListCashMovements fetches the drawer adjustments of a session.
func (c *Client) ListCashMovements(ctx context.Context, sessionID uuid.UUID) ([]models.CashMovement, error) {
	var movements []models.CashMovement
	if err := c.do(ctx, "sessions.listMovements", http.MethodGet, fmt.Sprintf("/cashier-sessions/%s/cash-movements", sessionID), nil, nil, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}
