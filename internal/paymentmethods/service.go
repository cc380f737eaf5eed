// Package paymentmethods serves the tender types the payment modal offers.
// The list changes rarely, so the last good copy is kept locally and served
// when the backend is unreachable.
package paymentmethods

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/localstore"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
)

const cacheKey = "payment_methods"

// Gateway is the slice of the backend client this service needs.
type Gateway interface {
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethodInfo, error)
}

// Service lists the enabled tender types.
type Service interface {
	List(ctx context.Context) ([]models.PaymentMethodInfo, error)
}

type service struct {
	gateway Gateway
	store   *localstore.Store
	logg    *logger.Logger

	mu     sync.Mutex
	inMem  []models.PaymentMethodInfo
	loaded bool
}

// NewService builds the payment methods service.
func NewService(gateway Gateway, store *localstore.Store, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("payment methods gateway required")
	}
	if store == nil {
		return nil, fmt.Errorf("payment methods local store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("payment methods logger required")
	}
	return &service{gateway: gateway, store: store, logg: logg}, nil
}

// List returns the enabled tender types, filtered to Enabled, falling back
// to the cached copy when the backend call fails.
func (s *service) List(ctx context.Context) ([]models.PaymentMethodInfo, error) {
	methods, err := s.gateway.ListPaymentMethods(ctx)
	if err == nil {
		enabled := filterEnabled(methods)
		s.remember(ctx, enabled)
		return enabled, nil
	}
	if pkgerrors.IsCode(err, pkgerrors.CodeSessionExpired) {
		return nil, err
	}

	cached, ok := s.recall(ctx)
	if !ok {
		return nil, err
	}
	s.logg.Warn(ctx, "serving payment methods from cache")
	return cached, nil
}

func filterEnabled(methods []models.PaymentMethodInfo) []models.PaymentMethodInfo {
	out := make([]models.PaymentMethodInfo, 0, len(methods))
	for _, m := range methods {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

func (s *service) remember(ctx context.Context, methods []models.PaymentMethodInfo) {
	s.mu.Lock()
	s.inMem = methods
	s.loaded = true
	s.mu.Unlock()
	if err := s.store.SaveSnapshot(ctx, cacheKey, methods); err != nil {
		s.logg.Warn(ctx, "payment methods cache write failed")
	}
}

func (s *service) recall(ctx context.Context) ([]models.PaymentMethodInfo, bool) {
	s.mu.Lock()
	if s.loaded {
		methods := s.inMem
		s.mu.Unlock()
		return methods, true
	}
	s.mu.Unlock()

	var methods []models.PaymentMethodInfo
	if err := s.store.LoadSnapshot(ctx, cacheKey, &methods); err != nil {
		return nil, false
	}
	return methods, len(methods) > 0
}
