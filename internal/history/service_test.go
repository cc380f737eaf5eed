package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
	"github.com/mohamed-hwerthi/easy-pos/pkg/pagination"
)

type stubHistoryGateway struct {
	orders []models.Order
}

func (g *stubHistoryGateway) ListSessionOrders(ctx context.Context, sessionID uuid.UUID) ([]models.Order, error) {
	return append([]models.Order(nil), g.orders...), nil
}

func (g *stubHistoryGateway) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	for _, order := range g.orders {
		if order.ID == id {
			copied := order
			return &copied, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

type fixedSession struct{ id uuid.UUID }

func (s fixedSession) ActiveSessionID(ctx context.Context) (uuid.UUID, error) {
	return s.id, nil
}

func TestSessionSalesNewestFirst(t *testing.T) {
	base := time.Now()
	gateway := &stubHistoryGateway{}
	for i := 0; i < 3; i++ {
		gateway.orders = append(gateway.orders, models.Order{
			ID:        uuid.New(),
			Total:     money.MustParse("10.00"),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	svc, err := NewService(gateway, fixedSession{id: uuid.New()})
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	page, err := svc.SessionSales(context.Background(), Query{Page: pagination.Params{Page: 1, Limit: 2}})
	if err != nil {
		t.Fatalf("SessionSales() error: %v", err)
	}
	if page.Total != 3 || len(page.Orders) != 2 {
		t.Fatalf("page total=%d len=%d", page.Total, len(page.Orders))
	}
	if !page.Orders[0].CreatedAt.After(page.Orders[1].CreatedAt) {
		t.Fatal("orders must be newest first")
	}
}

func TestSessionSalesPastEnd(t *testing.T) {
	gateway := &stubHistoryGateway{orders: []models.Order{{ID: uuid.New()}}}
	svc, err := NewService(gateway, fixedSession{id: uuid.New()})
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	page, err := svc.SessionSales(context.Background(), Query{Page: pagination.Params{Page: 5, Limit: 10}})
	if err != nil {
		t.Fatalf("SessionSales() error: %v", err)
	}
	if len(page.Orders) != 0 || page.Total != 1 {
		t.Fatalf("past-end page = %+v", page)
	}
}

func TestSessionSalesFiltersByMethod(t *testing.T) {
	gateway := &stubHistoryGateway{orders: []models.Order{
		{ID: uuid.New(), Method: enums.PaymentMethodCash},
		{ID: uuid.New(), Method: enums.PaymentMethodCard},
		{ID: uuid.New(), Method: enums.PaymentMethodCash},
	}}
	svc, err := NewService(gateway, fixedSession{id: uuid.New()})
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}

	cash := enums.PaymentMethodCash
	page, err := svc.SessionSales(context.Background(), Query{Method: &cash})
	if err != nil {
		t.Fatalf("SessionSales() error: %v", err)
	}
	if page.Total != 2 || len(page.Orders) != 2 {
		t.Fatalf("filtered page total=%d len=%d", page.Total, len(page.Orders))
	}
	for _, order := range page.Orders {
		if order.Method != enums.PaymentMethodCash {
			t.Fatalf("unexpected method %s", order.Method)
		}
	}
}

func TestReceiptRebuildsPayload(t *testing.T) {
	order := models.Order{
		ID:           uuid.New(),
		Total:        money.MustParse("12.00"),
		CashReceived: money.MustParse("7.00"),
		OrderItems: []models.OrderItem{
			{Title: "Soup", Quantity: 2, LineTotal: money.MustParse("8.00")},
			{Title: "Bread", Quantity: 1, LineTotal: money.MustParse("4.00")},
		},
	}
	gateway := &stubHistoryGateway{orders: []models.Order{order}}

	svc, err := NewService(gateway, fixedSession{id: uuid.New()})
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	receipt, err := svc.Receipt(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Receipt() error: %v", err)
	}
	if receipt.ItemCount != 3 {
		t.Fatalf("item count = %d, want 3", receipt.ItemCount)
	}
	if receipt.Remaining.String() != "5.00" {
		t.Fatalf("remaining = %s, want 5.00", receipt.Remaining)
	}
}
