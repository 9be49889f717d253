package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/pagination"
)

func parseCartDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", domain.ErrInvalidArgument, raw)
}

func cartLinesFromRequests(reqs []domain.CartLineRequest) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0, len(reqs))
	for _, req := range reqs {
		line, err := domain.NewCartLine(req.ProductID, req.UnitPrice, req.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

func (s *Service) CreateCart(ctx context.Context, req domain.CreateCartRequest) (*domain.Cart, error) {
	date, err := parseCartDate(req.Date)
	if err != nil {
		return nil, err
	}
	lines, err := cartLinesFromRequests(req.Lines)
	if err != nil {
		return nil, err
	}
	cart, err := domain.NewCart(req.UserID, date, lines)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateCart(ctx, *cart)
}

func (s *Service) GetCart(ctx context.Context, id int) (*domain.Cart, error) {
	return s.repo.GetCartByID(ctx, id)
}

func compareCarts(field string, a, b domain.Cart) int {
	switch field {
	case "id":
		return a.ID - b.ID
	case "user_id", "userId":
		return a.UserID - b.UserID
	case "date":
		return a.Date.Compare(b.Date)
	default:
		return 0
	}
}

func (s *Service) ListCarts(ctx context.Context, params pagination.Parameters) (*pagination.Result[domain.Cart], error) {
	carts, err := s.repo.ListCarts(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.Apply(carts, params, compareCarts)
	return &page, nil
}

// UpdateCart replaces the cart's owner, date and full line set.
func (s *Service) UpdateCart(ctx context.Context, id int, req domain.UpdateCartRequest) (*domain.Cart, error) {
	existing, err := s.repo.GetCartByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date, err := parseCartDate(req.Date)
	if err != nil {
		return nil, err
	}
	lines, err := cartLinesFromRequests(req.Lines)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == 0 {
		userID = existing.UserID
	}
	cart, err := domain.NewCart(userID, date, lines)
	if err != nil {
		return nil, err
	}
	cart.ID = existing.ID

	return s.repo.UpdateCart(ctx, *cart)
}

func (s *Service) DeleteCart(ctx context.Context, id int) error {
	return s.repo.DeleteCart(ctx, id)
}

// ConvertCartToSale checks out a cart: it builds an independent sale from the
// cart's lines, persists it, announces it, then deletes the source cart. An
// empty cart cannot be checked out. Event publish and cart deletion failures
// are logged but do not undo the sale.
func (s *Service) ConvertCartToSale(ctx context.Context, cartID int) (*domain.Sale, error) {
	cart, err := s.repo.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart %d has no products to check out", domain.ErrInvalidArgument, cartID)
	}

	sale, err := domain.SaleFromCart(cart)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateSale(ctx, *sale)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishSaleCreated(ctx, created); err != nil {
		log.Printf("[service] WARN: failed to publish sale created sale=%s: %v", created.ID, err)
	}
	if err := s.repo.DeleteCart(ctx, cartID); err != nil {
		log.Printf("[service] WARN: failed to delete cart %d after checkout: %v", cartID, err)
	}

	s.metrics.IncrementCartsConverted()
	s.metrics.IncrementSaleEvent("created")
	return created, nil
}
