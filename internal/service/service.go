// Package service implements the application operations over the domain
// model: carts, sales, products and users, plus cart-to-sale conversion.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saledesk/backend/internal/cache"
	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/events"
	"saledesk/backend/internal/metrics"
	"saledesk/backend/internal/store"
)

// ErrForbidden reports an authenticated caller without the required role.
var ErrForbidden = errors.New("forbidden")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo       store.Repository
	publisher  events.Publisher
	products   cache.ProductCache
	metrics    *metrics.Metrics
	productTTL time.Duration
}

func New(repo store.Repository, publisher events.Publisher, products cache.ProductCache, m *metrics.Metrics) *Service {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	if products == nil {
		products = cache.NoopProductCache{}
	}

	return &Service{
		repo:      repo,
		publisher: publisher,
		products:  products,
		metrics:   m,
	}
}

// requireRole checks that the caller holds one of the given roles. An admin
// passes every check.
func requireRole(ctx context.Context, roles ...string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	if actor.Role == domain.UserRoleAdmin {
		return nil
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %q lacks permission", ErrForbidden, actor.Role)
}
