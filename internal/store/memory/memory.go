package memory

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/store"
)

// Store is the in-memory repository used in dev mode and tests. Aggregates
// are cloned on the way in and out so callers never share slices with the
// store's own state.
type Store struct {
	mu sync.RWMutex

	nextCartID    int
	nextProductID int
	nextUserID    int

	cartsByID    map[int]domain.Cart
	salesByID    map[uuid.UUID]domain.Sale
	productsByID map[int]domain.Product
	usersByID    map[int]domain.User
}

func New() *Store {
	return &Store{
		nextCartID:    1,
		nextProductID: 1,
		nextUserID:    1,
		cartsByID:     make(map[int]domain.Cart),
		salesByID:     make(map[uuid.UUID]domain.Sale),
		productsByID:  make(map[int]domain.Product),
		usersByID:     make(map[int]domain.User),
	}
}

// NewSeeded returns a store preloaded with a small catalog and two accounts.
// Seed credentials come from SEED_ADMIN_PASSWORD and SEED_CUSTOMER_PASSWORD;
// hardcoded dev defaults are used when unset, with a warning. Production
// deployments use PostgreSQL, never this store.
func NewSeeded() *Store {
	s := New()

	products := []domain.Product{
		{Title: "Wireless Keyboard", Price: decimal.NewFromFloat(49.90), Description: "Low-profile wireless keyboard", Category: "electronics", Image: "https://img.example.com/keyboard.png"},
		{Title: "USB-C Hub", Price: decimal.NewFromFloat(34.50), Description: "7-in-1 USB-C hub", Category: "electronics", Image: "https://img.example.com/hub.png"},
		{Title: "Desk Lamp", Price: decimal.NewFromFloat(27.00), Description: "Adjustable LED desk lamp", Category: "office", Image: "https://img.example.com/lamp.png"},
		{Title: "Notebook A5", Price: decimal.NewFromFloat(6.20), Description: "Dotted A5 notebook, 120 pages", Category: "office", Image: "https://img.example.com/notebook.png"},
		{Title: "Ceramic Mug", Price: decimal.NewFromFloat(11.80), Description: "350ml ceramic mug", Category: "kitchen", Image: "https://img.example.com/mug.png"},
		{Title: "Water Bottle", Price: decimal.NewFromFloat(15.40), Description: "750ml insulated bottle", Category: "kitchen", Image: "https://img.example.com/bottle.png"},
	}
	for _, p := range products {
		p.ID = s.nextProductID
		s.nextProductID++
		s.productsByID[p.ID] = p
	}

	for _, u := range seedUsers() {
		u.ID = s.nextUserID
		s.nextUserID++
		s.usersByID[u.ID] = u
	}

	return s
}

func seedUsers() []domain.User {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	customerPwd := envOr("SEED_CUSTOMER_PASSWORD", "customer123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CUSTOMER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CUSTOMER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := make([]domain.User, 0, 2)
	for _, u := range []struct {
		username string
		email    string
		password string
		role     string
	}{
		{"admin", "admin@saledesk.local", adminPwd, domain.UserRoleAdmin},
		{"customer", "customer@saledesk.local", customerPwd, domain.UserRoleCustomer},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users = append(users, domain.User{
			Username:  u.username,
			Email:     u.email,
			Password:  string(hash),
			Role:      u.role,
			Status:    domain.UserStatusActive,
			CreatedAt: now,
		})
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cloneCart(cart domain.Cart) domain.Cart {
	cart.Lines = slices.Clone(cart.Lines)
	return cart
}

func cloneSale(sale domain.Sale) domain.Sale {
	sale.Lines = slices.Clone(sale.Lines)
	return sale
}

func (s *Store) CreateCart(_ context.Context, cart domain.Cart) (*domain.Cart, error) {
	if cart.UserID <= 0 || cart.Date.IsZero() {
		return nil, fmt.Errorf("%w: cart owner and date are required", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart.ID = s.nextCartID
	s.nextCartID++
	s.cartsByID[cart.ID] = cloneCart(cart)

	created := cloneCart(cart)
	return &created, nil
}

func (s *Store) GetCartByID(_ context.Context, id int) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.cartsByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: cart %d", domain.ErrNotFound, id)
	}
	found := cloneCart(cart)
	return &found, nil
}

func (s *Store) ListCarts(_ context.Context) ([]domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	carts := make([]domain.Cart, 0, len(s.cartsByID))
	for _, cart := range s.cartsByID {
		carts = append(carts, cloneCart(cart))
	}
	slices.SortFunc(carts, func(a, b domain.Cart) int { return a.ID - b.ID })
	return carts, nil
}

func (s *Store) UpdateCart(_ context.Context, cart domain.Cart) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartsByID[cart.ID]; !ok {
		return nil, fmt.Errorf("%w: cart %d", domain.ErrNotFound, cart.ID)
	}
	s.cartsByID[cart.ID] = cloneCart(cart)

	updated := cloneCart(cart)
	return &updated, nil
}

func (s *Store) DeleteCart(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartsByID[id]; !ok {
		return fmt.Errorf("%w: cart %d", domain.ErrNotFound, id)
	}
	delete(s.cartsByID, id)
	return nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: sale id is required", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.salesByID[sale.ID]; exists {
		return nil, store.ErrConflict
	}
	s.salesByID[sale.ID] = cloneSale(sale)

	created := cloneSale(sale)
	return &created, nil
}

func (s *Store) GetSaleByID(_ context.Context, id uuid.UUID) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.salesByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: sale %s", domain.ErrNotFound, id)
	}
	found := cloneSale(sale)
	return &found, nil
}

func (s *Store) ListSales(_ context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.Sale, 0, len(s.salesByID))
	for _, sale := range s.salesByID {
		sales = append(sales, cloneSale(sale))
	}
	slices.SortFunc(sales, func(a, b domain.Sale) int {
		return a.SaleDate.Compare(b.SaleDate)
	})
	return sales, nil
}

func (s *Store) UpdateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.salesByID[sale.ID]; !ok {
		return nil, fmt.Errorf("%w: sale %s", domain.ErrNotFound, sale.ID)
	}
	s.salesByID[sale.ID] = cloneSale(sale)

	updated := cloneSale(sale)
	return &updated, nil
}

func (s *Store) DeleteSale(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.salesByID[id]; !ok {
		return fmt.Errorf("%w: sale %s", domain.ErrNotFound, id)
	}
	delete(s.salesByID, id)
	return nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Title) == "" || !product.Price.IsPositive() {
		return nil, fmt.Errorf("%w: product title and positive price are required", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextProductID
	s.nextProductID++
	s.productsByID[product.ID] = product

	created := product
	return &created, nil
}

func (s *Store) GetProductByID(_ context.Context, id int) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.productsByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	found := product
	return &found, nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.productsByID))
	for _, product := range s.productsByID {
		products = append(products, product)
	}
	slices.SortFunc(products, func(a, b domain.Product) int { return a.ID - b.ID })
	return products, nil
}

func (s *Store) ListProductsByCategory(_ context.Context, category string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, 16)
	for _, product := range s.productsByID {
		if strings.EqualFold(product.Category, category) {
			products = append(products, product)
		}
	}
	slices.SortFunc(products, func(a, b domain.Product) int { return a.ID - b.ID })
	return products, nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, 8)
	categories := make([]string, 0, 8)
	for _, product := range s.productsByID {
		if product.Category == "" {
			continue
		}
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	slices.Sort(categories)
	return categories, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.productsByID[product.ID]; !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, product.ID)
	}
	s.productsByID[product.ID] = product

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.productsByID[id]; !ok {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	delete(s.productsByID, id)
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.User) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Email) == "" {
		return nil, fmt.Errorf("%w: username and email are required", domain.ErrInvalidArgument)
	}
	user.Username = username

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.usersByID {
		if existing.Username == username || strings.EqualFold(existing.Email, user.Email) {
			return nil, store.ErrConflict
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.usersByID[user.ID] = user

	created := user
	return &created, nil
}

func (s *Store) GetUserByID(_ context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	found := user
	return &found, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.usersByID {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.usersByID))
	for _, user := range s.usersByID {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.User) int { return a.ID - b.ID })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, user domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByID[user.ID]; !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, user.ID)
	}
	s.usersByID[user.ID] = user

	updated := user
	return &updated, nil
}

func (s *Store) DeleteUser(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByID[id]; !ok {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	delete(s.usersByID, id)
	return nil
}
