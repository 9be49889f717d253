package service

import (
	"context"
	"log"
	"strings"
	"time"

	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/pagination"
)

const (
	productsCacheKey       = "products:all"
	productsCategoryPrefix = "products:category:"
	defaultProductCacheTTL = 60 * time.Second
)

// SetProductCacheTTL overrides the default product cache TTL. Zero keeps the
// default.
func (s *Service) SetProductCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.productTTL = ttl
	}
}

func (s *Service) productCacheTTL() time.Duration {
	if s.productTTL > 0 {
		return s.productTTL
	}
	return defaultProductCacheTTL
}

func (s *Service) invalidateProductCache(ctx context.Context, categories ...string) {
	keys := []string{productsCacheKey}
	for _, category := range categories {
		if category != "" {
			keys = append(keys, productsCategoryPrefix+strings.ToLower(category))
		}
	}
	if err := s.products.Invalidate(ctx, keys...); err != nil {
		log.Printf("[service] WARN: failed to invalidate product cache: %v", err)
	}
}

func compareProducts(field string, a, b domain.Product) int {
	switch field {
	case "id":
		return a.ID - b.ID
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "price":
		return a.Price.Cmp(b.Price)
	case "category":
		return strings.Compare(a.Category, b.Category)
	default:
		return 0
	}
}

func (s *Service) cachedProducts(ctx context.Context, key string, load func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	if cached, hit, err := s.products.Get(ctx, key); err != nil {
		log.Printf("[service] WARN: product cache read failed key=%s: %v", key, err)
	} else if hit {
		return cached, nil
	}

	products, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.products.Set(ctx, key, products, s.productCacheTTL()); err != nil {
		log.Printf("[service] WARN: product cache write failed key=%s: %v", key, err)
	}
	return products, nil
}

func (s *Service) ListProducts(ctx context.Context, params pagination.Parameters) (*pagination.Result[domain.Product], error) {
	products, err := s.cachedProducts(ctx, productsCacheKey, s.repo.ListProducts)
	if err != nil {
		return nil, err
	}
	page := pagination.Apply(products, params, compareProducts)
	return &page, nil
}

func (s *Service) ListProductsByCategory(ctx context.Context, category string, params pagination.Parameters) (*pagination.Result[domain.Product], error) {
	key := productsCategoryPrefix + strings.ToLower(category)
	products, err := s.cachedProducts(ctx, key, func(ctx context.Context) ([]domain.Product, error) {
		return s.repo.ListProductsByCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	page := pagination.Apply(products, params, compareProducts)
	return &page, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if err := requireRole(ctx, domain.UserRoleManager); err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(req.Title, req.Price, req.Description, req.Image, req.Category)
	if err != nil {
		return nil, err
	}
	if req.Rating != nil {
		rating, err := domain.NewRating(req.Rating.Rate, req.Rating.Count)
		if err != nil {
			return nil, err
		}
		product.UpdateRating(*rating)
	}

	created, err := s.repo.CreateProduct(ctx, *product)
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx, created.Category)
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int, req domain.UpdateProductRequest) (*domain.Product, error) {
	if err := requireRole(ctx, domain.UserRoleManager); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCategory := existing.Category

	if req.Title != nil {
		if err := existing.UpdateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := existing.UpdatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := existing.UpdateDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.Image != nil {
		if err := existing.UpdateImage(*req.Image); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		existing.UpdateCategory(*req.Category)
	}
	if req.Rating != nil {
		rating, err := domain.NewRating(req.Rating.Rate, req.Rating.Count)
		if err != nil {
			return nil, err
		}
		existing.UpdateRating(*rating)
	}

	updated, err := s.repo.UpdateProduct(ctx, *existing)
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx, previousCategory, updated.Category)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	if err := requireRole(ctx, domain.UserRoleManager); err != nil {
		return err
	}

	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidateProductCache(ctx, existing.Category)
	return nil
}
