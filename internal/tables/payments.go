package tables

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// PaymentInput is one tender applied against a table or a single guest.
type PaymentInput struct {
	Scope    enums.PaymentScope  `json:"scope" validate:"required"`
	TableID  uuid.UUID           `json:"tableId" validate:"required"`
	ClientID *uuid.UUID          `json:"clientId"`
	Amount   money.Money         `json:"amount"`
	Method   enums.PaymentMethod `json:"method" validate:"required"`
}

// OrderShare reports how much of a payment landed on one order.
type OrderShare struct {
	OrderID uuid.UUID   `json:"orderId"`
	Applied money.Money `json:"applied"`
}

// PaymentResult is the outcome of an applied payment.
type PaymentResult struct {
	Applied money.Money  `json:"applied"`
	Shares  []OrderShare `json:"shares"`
	Detail  *Detail      `json:"detail"`
}

// ApplyPayment distributes one tender across the scope's unpaid orders,
// oldest first, proportional to each order's remaining balance. Every order
// write goes through the backend; if any write fails the already-written
// orders are restored from the pre-payment snapshot so the ledger never
// holds a half-applied payment.
func (s *service) ApplyPayment(ctx context.Context, input PaymentInput) (*PaymentResult, error) {
	if err := validatePayment(input); err != nil {
		return nil, err
	}

	unlock, err := s.lock(input.TableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	orders, err := s.gateway.ListTableOrders(ctx, input.TableID)
	if err != nil {
		return nil, err
	}

	target := UnpaidOrders(orders)
	if input.Scope == enums.PaymentScopeClient {
		target = UnpaidOrders(OrdersForClient(orders, *input.ClientID))
	}
	if len(target) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "nothing left to pay")
	}

	remaining := TableRemaining(target)
	if input.Amount.GreaterThan(remaining) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount exceeds the remaining balance").
			WithDetails(map[string]any{"remaining": remaining})
	}

	weights := make([]money.Money, len(target))
	for i, order := range target {
		weights[i] = order.Remaining()
	}
	shares := money.Split(input.Amount, weights)

	updated, err := s.persistShares(ctx, target, shares)
	if err != nil {
		return nil, err
	}

	if input.Scope == enums.PaymentScopeClient {
		if err := s.recordClientPayment(ctx, input, target); err != nil {
			return nil, multierr.Append(err, s.rollback(ctx, target, updated))
		}
	}

	result := &PaymentResult{Applied: input.Amount}
	for i, order := range target {
		if shares[i].IsPositive() {
			result.Shares = append(result.Shares, OrderShare{OrderID: order.ID, Applied: shares[i]})
		}
	}

	detail, err := s.refreshStatus(ctx, input.TableID)
	if err != nil {
		// The payment itself is durable; only the status cache refresh
		// failed. Surface the payment and log the refresh miss.
		s.logg.Error(s.logg.WithTableID(ctx, input.TableID.String()), "table status refresh failed", err)
	} else {
		result.Detail = detail
	}

	s.metrics.IncPayment(input.Scope.String(), input.Method.String())
	return result, nil
}

func validatePayment(input PaymentInput) error {
	if !input.Scope.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment scope")
	}
	if !input.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.TableID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "table id is required")
	}
	if input.Scope == enums.PaymentScopeClient && input.ClientID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "client id is required for client payments")
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	return nil
}

// persistShares writes the new paid amounts order by order. On the first
// failure it rolls the already-written orders back and reports both errors.
func (s *service) persistShares(ctx context.Context, target []models.Order, shares []money.Money) ([]uuid.UUID, error) {
	var updated []uuid.UUID
	for i, order := range target {
		if !shares[i].IsPositive() {
			continue
		}
		received := order.CashReceived.Add(shares[i])
		_, err := s.gateway.UpdateOrder(ctx, order.ID, backend.UpdateOrderInput{
			CashReceived: received,
			Status:       DeriveOrderStatus(order.Total, received),
		})
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeRemoteRejection, err, "persist payment share")
			return nil, multierr.Append(err, s.rollback(ctx, target, updated))
		}
		updated = append(updated, order.ID)
	}
	return updated, nil
}

// rollback restores the pre-payment amounts on every order that was already
// written. Restore failures are collected, not short-circuited, so every
// order gets its restore attempt.
func (s *service) rollback(ctx context.Context, snapshot []models.Order, updated []uuid.UUID) error {
	var restoreErr error
	for _, id := range updated {
		for _, order := range snapshot {
			if order.ID != id {
				continue
			}
			_, err := s.gateway.UpdateOrder(ctx, order.ID, backend.UpdateOrderInput{
				CashReceived: order.CashReceived,
				Status:       order.Status,
			})
			if err != nil {
				restoreErr = multierr.Append(restoreErr,
					pkgerrors.Wrap(pkgerrors.CodeRemoteRejection, err, "restore order "+order.ID.String()))
			}
		}
	}
	if restoreErr != nil {
		s.logg.Error(ctx, "payment rollback incomplete", restoreErr)
	}
	return restoreErr
}

func (s *service) recordClientPayment(ctx context.Context, input PaymentInput, target []models.Order) error {
	_, err := s.gateway.RecordClientPayment(ctx, *input.ClientID, backend.RecordPaymentInput{
		Amount: input.Amount,
		Method: input.Method,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteRejection, err, "record client payment")
	}
	if input.Amount.Equal(TableRemaining(target)) {
		if _, err := s.gateway.MarkClientPaid(ctx, *input.ClientID); err != nil {
			// The tender and the order shares are already durable. Rolling
			// back here would leave a recorded tender with no cash applied,
			// so only the guest's paid flag stays stale.
			s.logg.Error(s.logg.WithField(ctx, "client_id", input.ClientID.String()),
				"mark client paid failed", err)
		}
	}
	return nil
}

// refreshStatus recomputes the table's derived status and pushes it to the
// backend when it changed.
func (s *service) refreshStatus(ctx context.Context, tableID uuid.UUID) (*Detail, error) {
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
	detail := s.buildDetail(*table, clients, orders)
	if detail.Status != table.Status {
		status := detail.Status
		if _, err := s.gateway.UpdateTable(ctx, tableID, backend.UpdateTableInput{Status: &status}); err != nil {
			return nil, err
		}
	}
	return detail, nil
}
