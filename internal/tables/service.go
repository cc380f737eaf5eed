// Package tables is the terminal's table ledger: seating, per-guest shares,
// order aggregation and the payment engine. All amounts are recomputed from
// orders on every read; the backend's cached table totals are display hints.
package tables

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

// Gateway is the slice of the backend client the table ledger needs.
type Gateway interface {
	ListTables(ctx context.Context) ([]models.RestaurantTable, error)
	GetTable(ctx context.Context, id uuid.UUID) (*models.RestaurantTable, error)
	CreateTable(ctx context.Context, input backend.CreateTableInput) (*models.RestaurantTable, error)
	UpdateTable(ctx context.Context, id uuid.UUID, input backend.UpdateTableInput) (*models.RestaurantTable, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
	OccupyTable(ctx context.Context, id uuid.UUID) (*models.RestaurantTable, error)
	ClearTable(ctx context.Context, id uuid.UUID) (*models.RestaurantTable, error)
	ListClients(ctx context.Context, tableID uuid.UUID) ([]models.TableClient, error)
	AddClient(ctx context.Context, tableID uuid.UUID, input backend.AddClientInput) (*models.TableClient, error)
	UpdateClient(ctx context.Context, clientID uuid.UUID, input backend.UpdateClientInput) (*models.TableClient, error)
	RemoveClient(ctx context.Context, clientID uuid.UUID) error
	RecordClientPayment(ctx context.Context, clientID uuid.UUID, input backend.RecordPaymentInput) (*models.ClientPayment, error)
	ListClientPayments(ctx context.Context, clientID uuid.UUID) ([]models.ClientPayment, error)
	MarkClientPaid(ctx context.Context, clientID uuid.UUID) (*models.TableClient, error)
	ListTableOrders(ctx context.Context, tableID uuid.UUID) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input backend.UpdateOrderInput) (*models.Order, error)
	TableStatistics(ctx context.Context) (*models.TableStatistics, error)
}

// ClientView is a guest with their recomputed share and derived status.
type ClientView struct {
	models.TableClient
	Status enums.ClientStatus `json:"status"`
	Orders []models.Order     `json:"orders,omitempty"`
}

// Detail is the full recomputed state of one table.
type Detail struct {
	Table     models.RestaurantTable `json:"table"`
	Clients   []ClientView           `json:"clients"`
	Orders    []models.Order         `json:"orders"`
	Total     money.Money            `json:"total"`
	Remaining money.Money            `json:"remaining"`
	Status    enums.TableStatus      `json:"status"`
}

// Service exposes the table ledger operations.
type Service interface {
	ListFloor(ctx context.Context) ([]models.RestaurantTable, error)
	GetDetail(ctx context.Context, tableID uuid.UUID) (*Detail, error)
	Create(ctx context.Context, tableNumber, qrCode string) (*models.RestaurantTable, error)
	Update(ctx context.Context, tableID uuid.UUID, input backend.UpdateTableInput) (*models.RestaurantTable, error)
	Delete(ctx context.Context, tableID uuid.UUID) error
	Occupy(ctx context.Context, tableID uuid.UUID) (*models.RestaurantTable, error)
	Clear(ctx context.Context, tableID uuid.UUID) (*models.RestaurantTable, error)
	AddClient(ctx context.Context, tableID uuid.UUID, name string) (*models.TableClient, error)
	RenameClient(ctx context.Context, tableID, clientID uuid.UUID, name string) (*models.TableClient, error)
	RemoveClient(ctx context.Context, tableID, clientID uuid.UUID) error
	ClientPayments(ctx context.Context, clientID uuid.UUID) ([]models.ClientPayment, error)
	ApplyPayment(ctx context.Context, input PaymentInput) (*PaymentResult, error)
	Statistics(ctx context.Context) (*models.TableStatistics, error)
}

type service struct {
	gateway Gateway
	logg    *logger.Logger
	metrics *metrics.TerminalMetrics
	locks   *tableLocks
}

// NewService builds the table ledger service.
func NewService(gateway Gateway, logg *logger.Logger, m *metrics.TerminalMetrics) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("table gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("table logger required")
	}
	return &service{
		gateway: gateway,
		logg:    logg,
		metrics: m,
		locks:   newTableLocks(),
	}, nil
}

// lock guards a table mutation. Concurrent mutations on the same table are
// rejected with a retryable conflict instead of queueing behind each other.
func (s *service) lock(tableID uuid.UUID) (func(), error) {
	if !s.locks.acquire(tableID) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "another operation on this table is in flight")
	}
	return func() { s.locks.release(tableID) }, nil
}

// ListFloor returns every table as stored by the backend.
func (s *service) ListFloor(ctx context.Context) ([]models.RestaurantTable, error) {
	return s.gateway.ListTables(ctx)
}

// GetDetail loads a table with clients and orders and recomputes every
// amount and status from the order projection.
func (s *service) GetDetail(ctx context.Context, tableID uuid.UUID) (*Detail, error) {
	table, err := s.gateway.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	clients, err := s.gateway.ListClients(ctx, tableID)
	if err != nil {
		return nil, err
	}
	orders, err := s.gateway.ListTableOrders(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(*table, clients, orders), nil
}

func (s *service) buildDetail(table models.RestaurantTable, clients []models.TableClient, orders []models.Order) *Detail {
	total := TableTotal(orders)
	remaining := TableRemaining(orders)
	occupied := table.Status != enums.TableStatusFree

	views := make([]ClientView, 0, len(clients))
	for _, client := range clients {
		clientOrders := OrdersForClient(orders, client.ID)
		view := ClientView{
			TableClient: client,
			Status:      DeriveClientStatus(clientOrders),
			Orders:      clientOrders,
		}
		view.AmountDue = TableTotal(clientOrders)
		view.RemainingAmount = TableRemaining(clientOrders)
		views = append(views, view)
	}

	detail := &Detail{
		Table:     table,
		Clients:   views,
		Orders:    orders,
		Total:     total,
		Remaining: remaining,
		Status:    DeriveTableStatus(total, remaining, len(clients) > 0, occupied),
	}
	detail.Table.Status = detail.Status
	detail.Table.TotalAmount = total
	detail.Table.RemainingAmount = remaining
	return detail
}

// Create registers a table, FREE until someone seats it.
func (s *service) Create(ctx context.Context, tableNumber, qrCode string) (*models.RestaurantTable, error) {
	if tableNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number is required")
	}
	return s.gateway.CreateTable(ctx, backend.CreateTableInput{
		TableNumber: tableNumber,
		Status:      enums.TableStatusFree,
		QRCode:      qrCode,
	})
}

// Update applies a partial table update.
func (s *service) Update(ctx context.Context, tableID uuid.UUID, input backend.UpdateTableInput) (*models.RestaurantTable, error) {
	unlock, err := s.lock(tableID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown table status")
	}
	return s.gateway.UpdateTable(ctx, tableID, input)
}

// Delete removes a table. Tables with an open bill cannot be deleted.
func (s *service) Delete(ctx context.Context, tableID uuid.UUID) error {
	unlock, err := s.lock(tableID)
	if err != nil {
		return err
	}
	defer unlock()

	orders, err := s.gateway.ListTableOrders(ctx, tableID)
	if err != nil {
		return err
	}
	if TableRemaining(orders).IsPositive() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "table still has an unpaid balance")
	}
	return s.gateway.DeleteTable(ctx, tableID)
}

// Occupy seats a party at a FREE table.
func (s *service) Occupy(ctx context.Context, tableID uuid.UUID) (*models.RestaurantTable, error) {
	unlock, err := s.lock(tableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	table, err := s.gateway.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table.Status != enums.TableStatusFree {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "table is not free")
	}
	return s.gateway.OccupyTable(ctx, tableID)
}

// Clear detaches every client and frees the table. Orders attached to the
// table survive the clear for reporting; a table with money still owed on it
// cannot be cleared.
func (s *service) Clear(ctx context.Context, tableID uuid.UUID) (*models.RestaurantTable, error) {
	unlock, err := s.lock(tableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	orders, err := s.gateway.ListTableOrders(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if TableRemaining(orders).IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "table still has an unpaid balance")
	}
	table, err := s.gateway.ClearTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithTableID(ctx, tableID.String()), "table cleared")
	return table, nil
}

// AddClient seats a guest. An empty name gets the next "Client n" default,
// numbered from the live client count so re-adding after removals never
// collides with a name still at the table.
func (s *service) AddClient(ctx context.Context, tableID uuid.UUID, name string) (*models.TableClient, error) {
	unlock, err := s.lock(tableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	clients, err := s.gateway.ListClients(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = nextDefaultName(clients)
	}
	client, err := s.gateway.AddClient(ctx, tableID, backend.AddClientInput{
		Name:    name,
		TableID: tableID,
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithTableID(ctx, tableID.String()), "client seated")
	return client, nil
}

// nextDefaultName picks the first "Client n" not already taken at the table.
func nextDefaultName(clients []models.TableClient) string {
	taken := make(map[string]struct{}, len(clients))
	for _, client := range clients {
		taken[client.Name] = struct{}{}
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("Client %d", n)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}

// RenameClient changes a guest's display name.
func (s *service) RenameClient(ctx context.Context, tableID, clientID uuid.UUID, name string) (*models.TableClient, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}
	unlock, err := s.lock(tableID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.gateway.UpdateClient(ctx, clientID, backend.UpdateClientInput{Name: &name})
}

// RemoveClient detaches a guest. Their orders stay attached to the table so
// the bill never shrinks; a guest with an unpaid share cannot leave.
func (s *service) RemoveClient(ctx context.Context, tableID, clientID uuid.UUID) error {
	unlock, err := s.lock(tableID)
	if err != nil {
		return err
	}
	defer unlock()

	orders, err := s.gateway.ListTableOrders(ctx, tableID)
	if err != nil {
		return err
	}
	if TableRemaining(OrdersForClient(orders, clientID)).IsPositive() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "client still has an unpaid share")
	}
	return s.gateway.RemoveClient(ctx, clientID)
}

// ClientPayments lists the tenders recorded against one guest.
func (s *service) ClientPayments(ctx context.Context, clientID uuid.UUID) ([]models.ClientPayment, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	return s.gateway.ListClientPayments(ctx, clientID)
}

// Statistics returns the floor summary counters.
func (s *service) Statistics(ctx context.Context) (*models.TableStatistics, error) {
	return s.gateway.TableStatistics(ctx)
}
