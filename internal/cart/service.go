package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
)

// Service exposes the terminal's single active cart.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*View, error)
	SetQuantity(ctx context.Context, input QuantityInput) (*View, error)
	RemoveItem(ctx context.Context, input QuantityInput) (*View, error)
	Clear(ctx context.Context) *View
	View(ctx context.Context) *View
	Checkout(ctx context.Context) ([]models.OrderItem, money.Money, error)
	Commit(ctx context.Context)
}

// AddItemInput carries the product snapshot for a new line. Stock is the
// advisory count known at the time the catalog was fetched.
type AddItemInput struct {
	ProductID uuid.UUID                `json:"productId" validate:"required"`
	VariantID *uuid.UUID               `json:"variantId"`
	Title     string                   `json:"title" validate:"required"`
	UnitPrice money.Money              `json:"unitPrice"`
	Quantity  int                      `json:"quantity" validate:"min=1"`
	Options   []models.OrderItemOption `json:"options"`
	Stock     int                      `json:"stock"`
}

// QuantityInput identifies a line and an optional target quantity.
type QuantityInput struct {
	ProductID uuid.UUID                `json:"productId" validate:"required"`
	VariantID *uuid.UUID               `json:"variantId"`
	Options   []models.OrderItemOption `json:"options"`
	Quantity  int                      `json:"quantity"`
}

// View is the read model the UI renders after every mutation.
type View struct {
	Lines     []Line      `json:"lines"`
	Total     money.Money `json:"total"`
	ItemCount int         `json:"itemCount"`
}

type service struct {
	mu   sync.Mutex
	cart Cart
	logg *logger.Logger
}

// NewService builds the cart service. The terminal runs exactly one cart.
func NewService(logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart logger required")
	}
	return &service{logg: logg}, nil
}

// AddItem merges the item into the cart. Lines sharing product, variant and
// option set collapse into one line with a summed quantity.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*View, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	line := Line{
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Title:     input.Title,
		UnitPrice: input.UnitPrice,
		Quantity:  input.Quantity,
		Options:   input.Options,
		Stock:     input.Stock,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stock is advisory: the backend re-checks at order placement, but an
	// obviously impossible quantity is rejected here so the cashier learns
	// immediately.
	if existing, ok := s.cart.find(line.identity()); ok {
		line.Stock = maxStock(line.Stock, existing.Stock)
		if line.Stock > 0 && existing.Quantity+input.Quantity > line.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeStockConflict, "requested quantity exceeds available stock").
				WithDetails(map[string]any{"productId": input.ProductID, "stock": line.Stock})
		}
	} else if line.Stock > 0 && input.Quantity > line.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeStockConflict, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"productId": input.ProductID, "stock": line.Stock})
	}

	quantity := s.cart.add(line)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"product_id": input.ProductID.String(),
		"quantity":   quantity,
	}), "cart item added")
	return s.viewLocked(), nil
}

// SetQuantity pins a line's quantity. Quantities below one remove the line,
// matching how the quantity stepper behaves at zero.
func (s *service) SetQuantity(ctx context.Context, input QuantityInput) (*View, error) {
	key := Line{ProductID: input.ProductID, VariantID: input.VariantID, Options: input.Options}.identity()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cart.find(key); ok && existing.Stock > 0 && input.Quantity > existing.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeStockConflict, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"productId": input.ProductID, "stock": existing.Stock})
	}
	if !s.cart.setQuantity(key, input.Quantity) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return s.viewLocked(), nil
}

// RemoveItem drops a line entirely.
func (s *service) RemoveItem(ctx context.Context, input QuantityInput) (*View, error) {
	key := Line{ProductID: input.ProductID, VariantID: input.VariantID, Options: input.Options}.identity()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.remove(key) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return s.viewLocked(), nil
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.clear()
	return s.viewLocked()
}

// View returns the current cart contents and recomputed total.
func (s *service) View(ctx context.Context) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Checkout snapshots the cart into immutable order lines. The lines stay in
// the cart until Commit confirms the order was placed, so a rejected order
// leaves the rung-up sale intact for the cashier to correct and retry.
func (s *service) Checkout(ctx context.Context) ([]models.OrderItem, money.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return nil, money.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return s.cart.OrderItems(), s.cart.Total(), nil
}

// Commit empties the cart once its Checkout snapshot has landed as an order.
func (s *service) Commit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.clear()
	s.logg.Debug(ctx, "cart committed")
}

func (s *service) viewLocked() *View {
	return &View{
		Lines:     s.cart.Lines(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
	}
}

func maxStock(a, b int) int {
	if a > b {
		return a
	}
	return b
}
