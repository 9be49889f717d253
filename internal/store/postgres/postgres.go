package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) CreateCart(ctx context.Context, cart domain.Cart) (*domain.Cart, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, cart_date)
		VALUES ($1, $2)
		RETURNING id
	`, cart.UserID, cart.Date).Scan(&cart.ID)
	if err != nil {
		return nil, err
	}

	if err := insertCartLines(ctx, tx, cart.ID, cart.Lines); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := cart
	return &created, nil
}

func insertCartLines(ctx context.Context, tx *sql.Tx, cartID int, lines []domain.CartLine) error {
	for i, line := range lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_lines (cart_id, position, product_id, unit_price, quantity)
			VALUES ($1,$2,$3,$4,$5)
		`, cartID, i, line.ProductID, line.UnitPrice, line.Quantity)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetCartByID(ctx context.Context, id int) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, cart_date
		FROM carts
		WHERE id = $1
	`, id).Scan(&cart.ID, &cart.UserID, &cart.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: cart %d", domain.ErrNotFound, id)
		}
		return nil, err
	}

	cart.Lines, err = s.cartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Store) cartLines(ctx context.Context, cartID int) ([]domain.CartLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, unit_price, quantity
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY position
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0, 8)
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *Store) ListCarts(ctx context.Context) ([]domain.Cart, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, cart_date
		FROM carts
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	carts := make([]domain.Cart, 0, 32)
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(&cart.ID, &cart.UserID, &cart.Date); err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range carts {
		carts[i].Lines, err = s.cartLines(ctx, carts[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return carts, nil
}

func (s *Store) UpdateCart(ctx context.Context, cart domain.Cart) (*domain.Cart, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET user_id = $2, cart_date = $3
		WHERE id = $1
	`, cart.ID, cart.UserID, cart.Date)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: cart %d", domain.ErrNotFound, cart.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cart.ID); err != nil {
		return nil, err
	}
	if err := insertCartLines(ctx, tx, cart.ID, cart.Lines); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated := cart
	return &updated, nil
}

func (s *Store) DeleteCart(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: cart %d", domain.ErrNotFound, id)
	}
	return nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, sale_number, sale_date, is_cancelled, customer_id, customer_name, branch_id, branch_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, sale.ID, sale.SaleNumber, sale.SaleDate, sale.IsCancelled, sale.CustomerID, sale.CustomerName, sale.BranchID, sale.BranchName)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	if err := insertSaleLines(ctx, tx, sale.ID, sale.Lines); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := sale
	return &created, nil
}

func insertSaleLines(ctx context.Context, tx *sql.Tx, saleID uuid.UUID, lines []domain.SaleLine) error {
	for i, line := range lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sale_lines (id, sale_id, position, product_id, quantity, unit_price, discount, is_cancelled)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, line.ID, saleID, i, line.ProductID, line.Quantity, line.UnitPrice, line.Discount, line.IsCancelled)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetSaleByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	var sale domain.Sale
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sale_number, sale_date, is_cancelled, customer_id, customer_name, branch_id, branch_name
		FROM sales
		WHERE id = $1
	`, id).Scan(&sale.ID, &sale.SaleNumber, &sale.SaleDate, &sale.IsCancelled,
		&sale.CustomerID, &sale.CustomerName, &sale.BranchID, &sale.BranchName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: sale %s", domain.ErrNotFound, id)
		}
		return nil, err
	}

	sale.Lines, err = s.saleLines(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *Store) saleLines(ctx context.Context, saleID uuid.UUID) ([]domain.SaleLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, unit_price, discount, is_cancelled
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY position
	`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.SaleLine, 0, 8)
	for rows.Next() {
		var line domain.SaleLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.Discount, &line.IsCancelled); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sale_number, sale_date, is_cancelled, customer_id, customer_name, branch_id, branch_name
		FROM sales
		ORDER BY sale_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 32)
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.SaleNumber, &sale.SaleDate, &sale.IsCancelled,
			&sale.CustomerID, &sale.CustomerName, &sale.BranchID, &sale.BranchName); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		sales[i].Lines, err = s.saleLines(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (s *Store) UpdateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE sales
		SET sale_number = $2, sale_date = $3, is_cancelled = $4,
		    customer_id = $5, customer_name = $6, branch_id = $7, branch_name = $8
		WHERE id = $1
	`, sale.ID, sale.SaleNumber, sale.SaleDate, sale.IsCancelled,
		sale.CustomerID, sale.CustomerName, sale.BranchID, sale.BranchName)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: sale %s", domain.ErrNotFound, sale.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, sale.ID); err != nil {
		return nil, err
	}
	if err := insertSaleLines(ctx, tx, sale.ID, sale.Lines); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated := sale
	return &updated, nil
}

func (s *Store) DeleteSale(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: sale %s", domain.ErrNotFound, id)
	}
	return nil
}

func ratingColumns(rating *domain.Rating) (sql.NullString, sql.NullInt64) {
	if rating == nil {
		return sql.NullString{}, sql.NullInt64{}
	}
	return sql.NullString{String: rating.Rate.String(), Valid: true},
		sql.NullInt64{Int64: int64(rating.Count), Valid: true}
}

func scanRating(rate sql.NullString, count sql.NullInt64) (*domain.Rating, error) {
	if !rate.Valid {
		return nil, nil
	}
	value, err := decimal.NewFromString(rate.String)
	if err != nil {
		return nil, err
	}
	return &domain.Rating{Rate: value, Count: int(count.Int64)}, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	rate, count := ratingColumns(product.Rating)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (title, price, description, category, image, rating_rate, rating_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, product.Title, product.Price, product.Description, product.Category, product.Image, rate, count).Scan(&product.ID)
	if err != nil {
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	var (
		product domain.Product
		rate    sql.NullString
		count   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, price, description, category, image, rating_rate, rating_count
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Title, &product.Price, &product.Description,
		&product.Category, &product.Image, &rate, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
		}
		return nil, err
	}

	product.Rating, err = scanRating(rate, count)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Store) listProductRows(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var (
			product domain.Product
			rate    sql.NullString
			count   sql.NullInt64
		)
		if err := rows.Scan(&product.ID, &product.Title, &product.Price, &product.Description,
			&product.Category, &product.Image, &rate, &count); err != nil {
			return nil, err
		}
		product.Rating, err = scanRating(rate, count)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.listProductRows(ctx, `
		SELECT id, title, price, description, category, image, rating_rate, rating_count
		FROM products
		ORDER BY id
	`)
}

func (s *Store) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.listProductRows(ctx, `
		SELECT id, title, price, description, category, image, rating_rate, rating_count
		FROM products
		WHERE lower(category) = lower($1)
		ORDER BY id
	`, category)
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM products
		WHERE category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]string, 0, 8)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	rate, count := ratingColumns(product.Rating)
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET title = $2, price = $3, description = $4, category = $5, image = $6,
		    rating_rate = $7, rating_count = $8
		WHERE id = $1
	`, product.ID, product.Title, product.Price, product.Description, product.Category, product.Image, rate, count)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, product.ID)
	}

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return nil
}

// Name and address are stored as jsonb; both are optional.
func marshalNullable(v any, isNil bool) (sql.NullString, error) {
	if isNil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	name, err := marshalNullable(user.Name, user.Name == nil)
	if err != nil {
		return nil, err
	}
	address, err := marshalNullable(user.Address, user.Address == nil)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash, name, address, phone, status, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, user.Email, user.Username, user.Password, name, address, user.Phone, user.Status, user.Role, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := user
	return &created, nil
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var (
		user    domain.User
		name    sql.NullString
		address sql.NullString
	)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.Password,
		&name, &address, &user.Phone, &user.Status, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		user.Name = &domain.Name{}
		if err := json.Unmarshal([]byte(name.String), user.Name); err != nil {
			return nil, err
		}
	}
	if address.Valid {
		user.Address = &domain.Address{}
		if err := json.Unmarshal([]byte(address.String), user.Address); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

const userColumns = `id, email, username, password_hash, name, address, phone, status, role, created_at`

func (s *Store) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = lower($1)`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, 32)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	name, err := marshalNullable(user.Name, user.Name == nil)
	if err != nil {
		return nil, err
	}
	address, err := marshalNullable(user.Address, user.Address == nil)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, password_hash = $3, name = $4, address = $5,
		    phone = $6, status = $7, role = $8
		WHERE id = $1
	`, user.ID, user.Email, user.Password, name, address, user.Phone, user.Status, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, user.ID)
	}

	updated := user
	return &updated, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return nil
}
