// Package history serves the sales log for the current shift and rebuilds
// receipt payloads for reprints.
package history

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
	"github.com/mohamed-hwerthi/easy-pos/pkg/pagination"
)

// Gateway is the slice of the backend client the sales log needs.
type Gateway interface {
	ListSessionOrders(ctx context.Context, sessionID uuid.UUID) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// SessionSource reports the open register session.
type SessionSource interface {
	ActiveSessionID(ctx context.Context) (uuid.UUID, error)
}

// Query narrows the sales log. A nil Method keeps every tender.
type Query struct {
	Method *enums.PaymentMethod
	Page   pagination.Params
}

// SalesPage is one page of the shift's sales, newest first.
type SalesPage struct {
	Orders []models.Order `json:"orders"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// Receipt is the reprint payload for one order.
type Receipt struct {
	Order     models.Order `json:"order"`
	ItemCount int          `json:"itemCount"`
	Remaining money.Money  `json:"remaining"`
}

// Service exposes the sales history.
type Service interface {
	SessionSales(ctx context.Context, query Query) (*SalesPage, error)
	Receipt(ctx context.Context, orderID uuid.UUID) (*Receipt, error)
}

type service struct {
	gateway  Gateway
	sessions SessionSource
}

// NewService builds the history service.
func NewService(gateway Gateway, sessions SessionSource) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("history gateway required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session source required")
	}
	return &service{gateway: gateway, sessions: sessions}, nil
}

// SessionSales pages through the open shift's orders, newest first,
// optionally restricted to one payment method.
func (s *service) SessionSales(ctx context.Context, query Query) (*SalesPage, error) {
	sessionID, err := s.sessions.ActiveSessionID(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.gateway.ListSessionOrders(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if query.Method != nil {
		filtered := orders[:0]
		for _, order := range orders {
			if order.Method == *query.Method {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	params := query.Page.Normalized()
	start := params.Offset()
	if start > len(orders) {
		start = len(orders)
	}
	end := start + params.Limit
	if end > len(orders) {
		end = len(orders)
	}
	return &SalesPage{
		Orders: orders[start:end],
		Total:  len(orders),
		Page:   params.Page,
		Limit:  params.Limit,
	}, nil
}

// Receipt rebuilds the reprint payload for an order.
func (s *service) Receipt(ctx context.Context, orderID uuid.UUID) (*Receipt, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.gateway.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, item := range order.OrderItems {
		count += item.Quantity
	}
	return &Receipt{
		Order:     *order,
		ItemCount: count,
		Remaining: order.Remaining(),
	}, nil
}
