package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"saledesk/backend/internal/domain"
)

// ErrConflict reports a uniqueness violation (duplicate username or email).
// Not-found and validation failures use the domain sentinels directly.
var ErrConflict = errors.New("conflict")

// Repository is the persistence boundary. Implementations assign integer ids
// to carts, products and users on create; sales arrive with their ids already
// set by the domain. Callers serialize access per aggregate; the repository
// only guarantees its own internal consistency.
type Repository interface {
	CreateCart(ctx context.Context, cart domain.Cart) (*domain.Cart, error)
	GetCartByID(ctx context.Context, id int) (*domain.Cart, error)
	ListCarts(ctx context.Context) ([]domain.Cart, error)
	UpdateCart(ctx context.Context, cart domain.Cart) (*domain.Cart, error)
	DeleteCart(ctx context.Context, id int) error

	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	GetSaleByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	UpdateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) error
}
