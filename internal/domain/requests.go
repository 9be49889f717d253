package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type CartLineRequest struct {
	ProductID int             `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type CreateCartRequest struct {
	UserID int               `json:"user_id"`
	Date   string            `json:"date,omitempty"`
	Lines  []CartLineRequest `json:"products"`
}

type UpdateCartRequest struct {
	UserID int               `json:"user_id"`
	Date   string            `json:"date,omitempty"`
	Lines  []CartLineRequest `json:"products"`
}

type SaleItemRequest struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateSaleRequest struct {
	SaleNumber   string            `json:"sale_number"`
	CustomerID   uuid.UUID         `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	BranchID     uuid.UUID         `json:"branch_id"`
	BranchName   string            `json:"branch_name"`
	Items        []SaleItemRequest `json:"items"`
}

type UpdateSaleRequest struct {
	SaleNumber   string            `json:"sale_number"`
	CustomerID   uuid.UUID         `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	BranchID     uuid.UUID         `json:"branch_id"`
	BranchName   string            `json:"branch_name"`
	Items        []SaleItemRequest `json:"items"`
}

type CancelReasonRequest struct {
	Reason string `json:"reason"`
}

// SaleResponse decorates a sale with its derived total so clients do not
// recompute pricing.
type SaleResponse struct {
	Sale        *Sale           `json:"sale"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type CartResponse struct {
	Cart *Cart `json:"cart"`
}

type RatingRequest struct {
	Rate  decimal.Decimal `json:"rate"`
	Count int             `json:"count"`
}

type CreateProductRequest struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *RatingRequest  `json:"rating,omitempty"`
}

type UpdateProductRequest struct {
	Title       *string          `json:"title,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Rating      *RatingRequest   `json:"rating,omitempty"`
}

type CreateUserRequest struct {
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Name     *Name    `json:"name,omitempty"`
	Address  *Address `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Status   string   `json:"status,omitempty"`
	Role     string   `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	Email    *string  `json:"email,omitempty"`
	Password *string  `json:"password,omitempty"`
	Name     *Name    `json:"name,omitempty"`
	Address  *Address `json:"address,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Status   *string  `json:"status,omitempty"`
	Role     *string  `json:"role,omitempty"`
}
