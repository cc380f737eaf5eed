package register

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	"github.com/mohamed-hwerthi/easy-pos/pkg/config"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/localstore"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

type stubRegisterGateway struct {
	sessions  map[uuid.UUID]*models.CashierSession
	orders    []models.Order
	movements []models.CashMovement
}

func newStubRegisterGateway() *stubRegisterGateway {
	return &stubRegisterGateway{sessions: make(map[uuid.UUID]*models.CashierSession)}
}

func (g *stubRegisterGateway) OpenSession(ctx context.Context, input backend.OpenSessionInput) (*models.CashierSession, error) {
	session := &models.CashierSession{
		ID:             uuid.New(),
		SessionNumber:  "S-1",
		CashierID:      input.CashierID,
		StartTime:      time.Now(),
		OpeningBalance: input.OpeningBalance,
	}
	g.sessions[session.ID] = session
	copied := *session
	return &copied, nil
}

func (g *stubRegisterGateway) CloseSession(ctx context.Context, id uuid.UUID, input backend.CloseSessionInput) (*models.CashierSession, error) {
	session, ok := g.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	if session.IsClosed {
		return nil, pkgerrors.New(pkgerrors.CodeRemoteRejection, "session already closed")
	}
	now := time.Now()
	session.IsClosed = true
	session.EndTime = &now
	session.ClosingBalance = &input.ClosingBalance
	copied := *session
	return &copied, nil
}

func (g *stubRegisterGateway) GetSession(ctx context.Context, id uuid.UUID) (*models.CashierSession, error) {
	session, ok := g.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	copied := *session
	return &copied, nil
}

func (g *stubRegisterGateway) ActiveSession(ctx context.Context, cashierID uuid.UUID) (*models.CashierSession, error) {
	for _, session := range g.sessions {
		if session.CashierID == cashierID && !session.IsClosed {
			copied := *session
			return &copied, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active session")
}

func (g *stubRegisterGateway) RecordCashMovement(ctx context.Context, sessionID uuid.UUID, input backend.CashMovementInput) (*models.CashMovement, error) {
	movement := models.CashMovement{
		ID:               uuid.New(),
		Type:             input.Type,
		Amount:           input.Amount,
		Reason:           input.Reason,
		CashierSessionID: sessionID,
	}
	g.movements = append(g.movements, movement)
	return &movement, nil
}

func (g *stubRegisterGateway) ListCashMovements(ctx context.Context, sessionID uuid.UUID) ([]models.CashMovement, error) {
	return g.movements, nil
}

func (g *stubRegisterGateway) ListSessionOrders(ctx context.Context, sessionID uuid.UUID) ([]models.Order, error) {
	return g.orders, nil
}

func newTestRegister(t *testing.T, gateway Gateway) Service {
	t.Helper()
	store, err := localstore.Open(config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "register.db")})
	if err != nil {
		t.Fatalf("localstore.Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc, err := NewService(gateway, store, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	return svc
}

func signIn(t *testing.T, svc Service) models.Cashier {
	t.Helper()
	cashier := models.Cashier{ID: uuid.New(), Name: "Ava"}
	if err := svc.SignIn(context.Background(), cashier, "tok"); err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	return cashier
}

func TestOpenRequiresSignedInCashier(t *testing.T) {
	svc := newTestRegister(t, newStubRegisterGateway())
	_, err := svc.Open(context.Background(), OpenInput{OpeningBalance: money.MustParse("100.00")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
}

func TestOpenTwiceConflicts(t *testing.T) {
	svc := newTestRegister(t, newStubRegisterGateway())
	signIn(t, svc)
	ctx := context.Background()

	if _, err := svc.Open(ctx, OpenInput{OpeningBalance: money.MustParse("100.00")}); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	_, err := svc.Open(ctx, OpenInput{OpeningBalance: money.MustParse("50.00")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCloseComputesVariance(t *testing.T) {
	gateway := newStubRegisterGateway()
	svc := newTestRegister(t, gateway)
	signIn(t, svc)
	ctx := context.Background()

	if _, err := svc.Open(ctx, OpenInput{OpeningBalance: money.MustParse("100.00")}); err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	// Cash sale of 20.00 paid with 25.00, 5.00 change: drawer gains 20.00.
	gateway.orders = []models.Order{{
		Total:        money.MustParse("20.00"),
		CashReceived: money.MustParse("25.00"),
		ChangeGiven:  money.MustParse("5.00"),
		Method:       enums.PaymentMethodCash,
	}, {
		Total:        money.MustParse("15.00"),
		CashReceived: money.MustParse("15.00"),
		Method:       enums.PaymentMethodCard,
	}}
	if _, err := svc.RecordMovement(ctx, MovementInput{
		Type: enums.CashMovementOut, Amount: money.MustParse("10.00"), Reason: "bank run",
	}); err != nil {
		t.Fatalf("RecordMovement() error: %v", err)
	}

	// Expected cash: 100 float + 20 cash sales - 10 out = 110.00.
	result, err := svc.Close(ctx, CloseInput{ClosingBalance: money.MustParse("108.50")})
	if err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if result.Expected.String() != "110.00" {
		t.Fatalf("expected cash = %s, want 110.00", result.Expected)
	}
	if result.Variance.String() != "-1.50" {
		t.Fatalf("variance = %s, want -1.50", result.Variance)
	}
	if !result.Session.IsClosed {
		t.Fatal("close must mark the session closed")
	}
}

func TestCloseWithoutOpenSession(t *testing.T) {
	svc := newTestRegister(t, newStubRegisterGateway())
	signIn(t, svc)

	_, err := svc.Close(context.Background(), CloseInput{ClosingBalance: money.MustParse("0.00")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDoubleCloseConflicts(t *testing.T) {
	svc := newTestRegister(t, newStubRegisterGateway())
	signIn(t, svc)
	ctx := context.Background()

	if _, err := svc.Open(ctx, OpenInput{OpeningBalance: money.MustParse("100.00")}); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := svc.Close(ctx, CloseInput{ClosingBalance: money.MustParse("100.00")}); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	_, err := svc.Close(ctx, CloseInput{ClosingBalance: money.MustParse("100.00")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("second close should conflict, got %v", err)
	}
}

func TestRecordMovementRequiresReason(t *testing.T) {
	svc := newTestRegister(t, newStubRegisterGateway())
	signIn(t, svc)
	ctx := context.Background()
	if _, err := svc.Open(ctx, OpenInput{OpeningBalance: money.MustParse("100.00")}); err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	_, err := svc.RecordMovement(ctx, MovementInput{
		Type: enums.CashMovementIn, Amount: money.MustParse("5.00"),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRestoreResumesOpenSession(t *testing.T) {
	gateway := newStubRegisterGateway()
	store, err := localstore.Open(config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "register.db")})
	if err != nil {
		t.Fatalf("localstore.Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	first, err := NewService(gateway, store, logg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	ctx := context.Background()
	cashier := models.Cashier{ID: uuid.New(), Name: "Ava"}
	if err := first.SignIn(ctx, cashier, "tok"); err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	opened, err := first.Open(ctx, OpenInput{OpeningBalance: money.MustParse("80.00")})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	// A fresh service over the same store stands in for a restart.
	second, err := NewService(gateway, store, logg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	sessionID, err := second.ActiveSessionID(ctx)
	if err != nil {
		t.Fatalf("ActiveSessionID() after restore: %v", err)
	}
	if sessionID != opened.ID {
		t.Fatalf("restored session = %s, want %s", sessionID, opened.ID)
	}
}

func TestRestoreDropsRemotelyClosedSession(t *testing.T) {
	gateway := newStubRegisterGateway()
	store, err := localstore.Open(config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "register.db")})
	if err != nil {
		t.Fatalf("localstore.Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	first, err := NewService(gateway, store, logg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	ctx := context.Background()
	if err := first.SignIn(ctx, models.Cashier{ID: uuid.New(), Name: "Ava"}, "tok"); err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	opened, err := first.Open(ctx, OpenInput{OpeningBalance: money.MustParse("80.00")})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	// Another terminal closes the session while this one is down.
	if _, err := gateway.CloseSession(ctx, opened.ID, backend.CloseSessionInput{ClosingBalance: money.MustParse("80.00")}); err != nil {
		t.Fatalf("CloseSession() error: %v", err)
	}

	second, err := NewService(gateway, store, logg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if _, err := second.ActiveSessionID(ctx); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected no open session after restore, got %v", err)
	}
}

func TestRestoreAdoptsBackendActiveSession(t *testing.T) {
	gateway := newStubRegisterGateway()
	store, err := localstore.Open(config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "register.db")})
	if err != nil {
		t.Fatalf("localstore.Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	ctx := context.Background()
	cashier := models.Cashier{ID: uuid.New(), Name: "Ava"}
	// The cashier is cached locally but the session snapshot is missing; the
	// backend still holds their open session.
	if err := store.SaveSnapshot(ctx, localstore.KeyCashier, cashier); err != nil {
		t.Fatalf("SaveSnapshot() error: %v", err)
	}
	opened, err := gateway.OpenSession(ctx, backend.OpenSessionInput{
		CashierID:      cashier.ID,
		OpeningBalance: money.MustParse("60.00"),
	})
	if err != nil {
		t.Fatalf("OpenSession() error: %v", err)
	}

	svc, err := NewService(gateway, store, logg)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	if err := svc.Restore(ctx); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	sessionID, err := svc.ActiveSessionID(ctx)
	if err != nil {
		t.Fatalf("ActiveSessionID() after restore: %v", err)
	}
	if sessionID != opened.ID {
		t.Fatalf("adopted session = %s, want %s", sessionID, opened.ID)
	}
}
