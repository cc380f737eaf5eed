// Package register manages cashier sessions: opening the drawer with a
// counted float, recording manual cash movements and closing the shift
// against a counted drawer. Session state is cached locally so a terminal
// restart resumes the open shift.
package register

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/localstore"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// Gateway is the slice of the backend client the register needs.
type Gateway interface {
	OpenSession(ctx context.Context, input backend.OpenSessionInput) (*models.CashierSession, error)
	CloseSession(ctx context.Context, id uuid.UUID, input backend.CloseSessionInput) (*models.CashierSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.CashierSession, error)
	ActiveSession(ctx context.Context, cashierID uuid.UUID) (*models.CashierSession, error)
	RecordCashMovement(ctx context.Context, sessionID uuid.UUID, input backend.CashMovementInput) (*models.CashMovement, error)
	ListCashMovements(ctx context.Context, sessionID uuid.UUID) ([]models.CashMovement, error)
	ListSessionOrders(ctx context.Context, sessionID uuid.UUID) ([]models.Order, error)
}

// OpenInput opens a shift with the counted float.
type OpenInput struct {
	OpeningBalance money.Money `json:"openingBalance"`
}

// CloseInput closes the shift against the counted drawer.
type CloseInput struct {
	ClosingBalance money.Money `json:"closingBalance"`
}

// MovementInput records a manual drawer adjustment.
type MovementInput struct {
	Type   enums.CashMovementType `json:"type" validate:"required"`
	Amount money.Money            `json:"amount"`
	Reason string                 `json:"reason" validate:"required"`
}

// Status is the register read model: the open session, if any, with its
// recomputed totals.
type Status struct {
	Cashier *models.Cashier        `json:"cashier,omitempty"`
	Session *models.CashierSession `json:"session,omitempty"`
	Totals  *models.SessionTotals  `json:"totals,omitempty"`
}

// Service exposes the register operations.
type Service interface {
	SignIn(ctx context.Context, cashier models.Cashier, token string) error
	SignOut(ctx context.Context)
	InvalidateAuth(ctx context.Context)
	Open(ctx context.Context, input OpenInput) (*models.CashierSession, error)
	Close(ctx context.Context, input CloseInput) (*models.CloseResult, error)
	Current(ctx context.Context) (*Status, error)
	ActiveSessionID(ctx context.Context) (uuid.UUID, error)
	RecordMovement(ctx context.Context, input MovementInput) (*models.CashMovement, error)
	Movements(ctx context.Context) ([]models.CashMovement, error)
	Restore(ctx context.Context) error
}

type service struct {
	gateway Gateway
	store   *localstore.Store
	logg    *logger.Logger

	mu      sync.RWMutex
	cashier *models.Cashier
	session *models.CashierSession
}

// NewService builds the register service.
func NewService(gateway Gateway, store *localstore.Store, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("register gateway required")
	}
	if store == nil {
		return nil, fmt.Errorf("register local store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("register logger required")
	}
	return &service{gateway: gateway, store: store, logg: logg}, nil
}

// SignIn caches the authenticated cashier and their token so a restart can
// resume without re-entering credentials.
func (s *service) SignIn(ctx context.Context, cashier models.Cashier, token string) error {
	s.mu.Lock()
	s.cashier = &cashier
	s.mu.Unlock()

	if err := s.store.SaveSnapshot(ctx, localstore.KeyCashier, cashier); err != nil {
		return err
	}
	return s.store.SaveSnapshot(ctx, localstore.KeyAuthToken, token)
}

// SignOut drops the cashier. The open session, if any, stays open on the
// backend; the next sign-in resumes it.
func (s *service) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.cashier = nil
	s.mu.Unlock()
	if err := s.store.DeleteSnapshot(ctx, localstore.KeyCashier); err != nil {
		s.logg.Warn(ctx, "drop cached cashier failed")
	}
	if err := s.store.DeleteSnapshot(ctx, localstore.KeyAuthToken); err != nil {
		s.logg.Warn(ctx, "drop cached token failed")
	}
}

// InvalidateAuth is called when the backend rejects the bearer token.
func (s *service) InvalidateAuth(ctx context.Context) {
	s.logg.Warn(ctx, "backend invalidated the session token")
	s.SignOut(ctx)
}

// Restore reloads the cached cashier and open session after a restart. The
// cached session is re-validated against the backend: a session the backend
// already closed is dropped, and a session opened from another terminal for
// the same cashier is adopted. When the backend is unreachable the cached
// copy is trusted until the next successful call.
func (s *service) Restore(ctx context.Context) error {
	var cashier models.Cashier
	err := s.store.LoadSnapshot(ctx, localstore.KeyCashier, &cashier)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var cached models.CashierSession
	err = s.store.LoadSnapshot(ctx, localstore.KeySession, &cached)
	hasCached := err == nil && !cached.IsClosed
	if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		return err
	}

	session := s.resyncSession(ctx, cashier.ID, hasCached, cached)

	s.mu.Lock()
	s.cashier = &cashier
	s.session = session
	s.mu.Unlock()

	if session != nil {
		if err := s.store.SaveSnapshot(ctx, localstore.KeySession, session); err != nil {
			s.logg.Warn(ctx, "cache restored session failed")
		}
	} else if hasCached {
		if err := s.store.DeleteSnapshot(ctx, localstore.KeySession); err != nil {
			s.logg.Warn(ctx, "drop stale session failed")
		}
	}
	return nil
}

func (s *service) resyncSession(ctx context.Context, cashierID uuid.UUID, hasCached bool, cached models.CashierSession) *models.CashierSession {
	if hasCached {
		remote, err := s.gateway.GetSession(ctx, cached.ID)
		if err != nil {
			s.logg.Warn(ctx, "session resync failed, trusting cached copy")
			copied := cached
			return &copied
		}
		if remote.IsClosed {
			s.logg.Info(ctx, "cached session was closed remotely")
			return nil
		}
		return remote
	}

	remote, err := s.gateway.ActiveSession(ctx, cashierID)
	if err != nil || remote == nil {
		return nil
	}
	return remote
}

// Open starts a shift. One open session per terminal; opening twice is a
// state conflict.
func (s *service) Open(ctx context.Context, input OpenInput) (*models.CashierSession, error) {
	if input.OpeningBalance.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opening balance must not be negative")
	}
	cashier, err := s.requireCashier()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && !s.session.IsClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a register session is already open")
	}

	session, err := s.gateway.OpenSession(ctx, backend.OpenSessionInput{
		CashierID:      cashier.ID,
		OpeningBalance: input.OpeningBalance,
	})
	if err != nil {
		return nil, err
	}
	s.session = session

	if err := s.store.SaveSnapshot(ctx, localstore.KeySession, session); err != nil {
		s.logg.Warn(ctx, "cache open session failed")
	}
	s.logg.Info(s.logg.WithSessionID(ctx, session.ID.String()), "register session opened")
	return session, nil
}

// Close ends the shift. Expected cash is the float plus cash sales plus
// manual ins minus manual outs; the variance is counted minus expected and
// may be negative. A session closes exactly once.
func (s *service) Close(ctx context.Context, input CloseInput) (*models.CloseResult, error) {
	if input.ClosingBalance.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "closing balance must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.IsClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no register session is open")
	}
	sessionID := s.session.ID

	totals, err := s.computeTotals(ctx, sessionID, s.session.OpeningBalance)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CloseSession(ctx, sessionID, backend.CloseSessionInput{
		ClosingBalance: input.ClosingBalance,
	})
	if err != nil {
		return nil, err
	}
	s.session = nil
	if err := s.store.DeleteSnapshot(ctx, localstore.KeySession); err != nil {
		s.logg.Warn(ctx, "drop cached session failed")
	}

	result := &models.CloseResult{
		Session:  *session,
		Expected: totals.ExpectedCash,
		Counted:  input.ClosingBalance,
		Variance: input.ClosingBalance.Sub(totals.ExpectedCash).Round2(),
	}
	s.logg.Info(s.logg.WithSessionID(ctx, sessionID.String()), "register session closed")
	return result, nil
}

// Current reports the register state with recomputed totals.
func (s *service) Current(ctx context.Context) (*Status, error) {
	s.mu.RLock()
	cashier := s.cashier
	session := s.session
	s.mu.RUnlock()

	status := &Status{Cashier: cashier, Session: session}
	if session == nil {
		return status, nil
	}
	totals, err := s.computeTotals(ctx, session.ID, session.OpeningBalance)
	if err != nil {
		return nil, err
	}
	status.Totals = totals
	return status, nil
}

// ActiveSessionID reports the open session, for order placement.
func (s *service) ActiveSessionID(ctx context.Context) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || s.session.IsClosed {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no register session is open")
	}
	return s.session.ID, nil
}

// RecordMovement adds a manual drawer adjustment. The reason is mandatory;
// an unexplained drawer change is exactly what the close-out variance is
// supposed to catch.
func (s *service) RecordMovement(ctx context.Context, input MovementInput) (*models.CashMovement, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown movement type")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement amount must be positive")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement reason is required")
	}

	sessionID, err := s.ActiveSessionID(ctx)
	if err != nil {
		return nil, err
	}
	return s.gateway.RecordCashMovement(ctx, sessionID, backend.CashMovementInput{
		Type:   input.Type,
		Amount: input.Amount,
		Reason: input.Reason,
	})
}

// Movements lists the open session's drawer adjustments.
func (s *service) Movements(ctx context.Context) ([]models.CashMovement, error) {
	sessionID, err := s.ActiveSessionID(ctx)
	if err != nil {
		return nil, err
	}
	return s.gateway.ListCashMovements(ctx, sessionID)
}

func (s *service) requireCashier() (*models.Cashier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cashier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeSessionExpired, "no cashier is signed in")
	}
	return s.cashier, nil
}

// computeTotals rebuilds the per-method totals from the session's orders and
// movements instead of trusting any running counter.
func (s *service) computeTotals(ctx context.Context, sessionID uuid.UUID, opening money.Money) (*models.SessionTotals, error) {
	orders, err := s.gateway.ListSessionOrders(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	movements, err := s.gateway.ListCashMovements(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	totals := &models.SessionTotals{OrderCount: len(orders)}
	sales, cash, card, other := money.Zero, money.Zero, money.Zero, money.Zero
	for _, order := range orders {
		paid := order.CashReceived.Sub(order.ChangeGiven)
		sales = sales.Add(order.Total)
		switch {
		case order.Method.IsCash():
			cash = cash.Add(paid)
		case order.Method == enums.PaymentMethodCard:
			card = card.Add(paid)
		default:
			other = other.Add(paid)
		}
	}

	drawer := opening.Add(cash)
	for _, movement := range movements {
		if movement.Type == enums.CashMovementIn {
			drawer = drawer.Add(movement.Amount)
		} else {
			drawer = drawer.Sub(movement.Amount)
		}
	}

	totals.TotalSales = sales.Round2()
	totals.TotalCash = cash.Round2()
	totals.TotalCard = card.Round2()
	totals.TotalOther = other.Round2()
	totals.ExpectedCash = drawer.Round2()
	return totals, nil
}
