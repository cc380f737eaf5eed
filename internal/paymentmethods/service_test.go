package paymentmethods

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/config"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/localstore"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
)

type stubMethodsGateway struct {
	methods []models.PaymentMethodInfo
	err     error
}

func (g *stubMethodsGateway) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethodInfo, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.methods, nil
}

func newTestMethods(t *testing.T, gateway Gateway) Service {
	t.Helper()
	store, err := localstore.Open(config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "methods.db")})
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

func TestListFiltersDisabled(t *testing.T) {
	gateway := &stubMethodsGateway{methods: []models.PaymentMethodInfo{
		{ID: uuid.New(), Method: enums.PaymentMethodCash, Label: "Cash", Enabled: true},
		{ID: uuid.New(), Method: enums.PaymentMethodGift, Label: "Gift card", Enabled: false},
	}}
	svc := newTestMethods(t, gateway)

	methods, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(methods) != 1 || methods[0].Method != enums.PaymentMethodCash {
		t.Fatalf("methods = %+v", methods)
	}
}

func TestListFallsBackToCache(t *testing.T) {
	gateway := &stubMethodsGateway{methods: []models.PaymentMethodInfo{
		{ID: uuid.New(), Method: enums.PaymentMethodCard, Label: "Card", Enabled: true},
	}}
	svc := newTestMethods(t, gateway)
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("warm List() error: %v", err)
	}
	gateway.err = pkgerrors.New(pkgerrors.CodeRemoteRejection, "backend unreachable")

	methods, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("cached List() error: %v", err)
	}
	if len(methods) != 1 || methods[0].Method != enums.PaymentMethodCard {
		t.Fatalf("cached methods = %+v", methods)
	}
}

func TestListColdCachePropagates(t *testing.T) {
	gateway := &stubMethodsGateway{err: pkgerrors.New(pkgerrors.CodeRemoteRejection, "backend unreachable")}
	svc := newTestMethods(t, gateway)

	_, err := svc.List(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeRemoteRejection) {
		t.Fatalf("expected remote rejection, got %v", err)
	}
}
