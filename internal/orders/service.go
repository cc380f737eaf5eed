// Package orders places sales against the backend: direct register sales
// settled at the counter and table orders billed to a table or guest.
package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/metrics"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// Gateway is the slice of the backend client order placement needs.
type Gateway interface {
	PlaceOrder(ctx context.Context, input backend.PlaceOrderInput) (*models.Order, error)
}

// SessionSource reports the open register session sales are recorded under.
type SessionSource interface {
	ActiveSessionID(ctx context.Context) (uuid.UUID, error)
}

// DirectSaleInput is a counter sale settled immediately.
type DirectSaleInput struct {
	Items        []models.OrderItem
	Total        money.Money
	Method       enums.PaymentMethod
	CashReceived money.Money
}

// DirectSaleResult is the placed order plus the change to hand back.
type DirectSaleResult struct {
	Order  *models.Order `json:"order"`
	Change money.Money   `json:"change"`
}

// TableOrderInput bills items to a table, optionally to one seated guest.
type TableOrderInput struct {
	TableID  uuid.UUID
	ClientID *uuid.UUID
	Items    []models.OrderItem
	Total    money.Money
}

// Service places orders.
type Service interface {
	PlaceDirectSale(ctx context.Context, input DirectSaleInput) (*DirectSaleResult, error)
	PlaceTableOrder(ctx context.Context, input TableOrderInput) (*models.Order, error)
}

type service struct {
	gateway  Gateway
	sessions SessionSource
	logg     *logger.Logger
	metrics  *metrics.TerminalMetrics
}

// NewService builds the order placement service.
func NewService(gateway Gateway, sessions SessionSource, logg *logger.Logger, m *metrics.TerminalMetrics) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("order gateway required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("order logger required")
	}
	return &service{gateway: gateway, sessions: sessions, logg: logg, metrics: m}, nil
}

// PlaceDirectSale settles a counter sale in one step. Cash sales must cover
// the total before anything leaves the terminal; the change is computed here
// and persisted with the order for the receipt.
func (s *service) PlaceDirectSale(ctx context.Context, input DirectSaleInput) (*DirectSaleResult, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale has no items")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if !input.Total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale total must be positive")
	}

	sessionID, err := s.sessions.ActiveSessionID(ctx)
	if err != nil {
		return nil, err
	}

	received := input.Total
	change := money.Zero
	if input.Method.IsCash() {
		if input.CashReceived.LessThan(input.Total) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientFunds, "cash received does not cover the total").
				WithDetails(map[string]any{"total": input.Total, "received": input.CashReceived})
		}
		received = input.CashReceived
		change = money.Change(input.CashReceived, input.Total)
	}

	order, err := s.gateway.PlaceOrder(ctx, backend.PlaceOrderInput{
		OrderItems:       input.Items,
		SubTotal:         input.Total,
		Total:            input.Total,
		CashReceived:     received,
		ChangeGiven:      change,
		Status:           enums.OrderStatusPaid,
		Method:           input.Method,
		Source:           enums.OrderSourcePOS,
		CashierSessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrder(enums.OrderSourcePOS.String())
	s.logg.Info(s.logg.WithSessionID(ctx, sessionID.String()), "direct sale placed")
	return &DirectSaleResult{Order: order, Change: change}, nil
}

// PlaceTableOrder bills items to a table. Nothing is received yet; the
// payment engine settles the balance later.
func (s *service) PlaceTableOrder(ctx context.Context, input TableOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	if input.TableID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table id is required")
	}
	if !input.Total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}

	sessionID, err := s.sessions.ActiveSessionID(ctx)
	if err != nil {
		return nil, err
	}

	tableID := input.TableID
	order, err := s.gateway.PlaceOrder(ctx, backend.PlaceOrderInput{
		TableID:          &tableID,
		ClientID:         input.ClientID,
		OrderItems:       input.Items,
		SubTotal:         input.Total,
		Total:            input.Total,
		Status:           enums.OrderStatusPending,
		Source:           enums.OrderSourceTable,
		CashierSessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrder(enums.OrderSourceTable.String())
	s.logg.Info(s.logg.WithTableID(ctx, input.TableID.String()), "table order placed")
	return order, nil
}
