package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is a product entry in a shopping cart. Lines are value-like: they
// have no identity beyond their position in the owning cart, and duplicates
// by product id are allowed.
type CartLine struct {
	ProductID int             `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func NewCartLine(productID int, unitPrice decimal.Decimal, quantity int) (*CartLine, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be greater than zero", ErrOutOfRange)
	}
	if !unitPrice.IsPositive() {
		return nil, fmt.Errorf("%w: unit price must be greater than zero", ErrOutOfRange)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrOutOfRange)
	}
	return &CartLine{ProductID: productID, UnitPrice: unitPrice, Quantity: quantity}, nil
}

func (l *CartLine) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrOutOfRange)
	}
	l.Quantity = quantity
	return nil
}

func (l *CartLine) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if !unitPrice.IsPositive() {
		return fmt.Errorf("%w: unit price must be greater than zero", ErrOutOfRange)
	}
	l.UnitPrice = unitPrice
	return nil
}

// LineTotal is recomputed on every call rather than cached; caching would
// need invalidation on quantity/price updates.
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a mutable, ordered collection of lines owned by one user. The ID is
// assigned by the persistence layer and stays zero until the cart is saved.
type Cart struct {
	ID     int        `json:"id"`
	UserID int        `json:"user_id"`
	Date   time.Time  `json:"date"`
	Lines  []CartLine `json:"products"`
}

func NewCart(userID int, date time.Time, lines []CartLine) (*Cart, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidArgument)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date must be a valid value", ErrInvalidArgument)
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return &Cart{UserID: userID, Date: date, Lines: lines}, nil
}

func (c *Cart) AddLine(line *CartLine) error {
	if line == nil {
		return fmt.Errorf("%w: cart line is required", ErrNilReference)
	}
	c.Lines = append(c.Lines, *line)
	return nil
}

// RemoveLine removes the first line matching productID. Later duplicates are
// left in place.
func (c *Cart) RemoveLine(productID int) error {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: product %d not in cart", ErrNotFound, productID)
}

func (c *Cart) ClearLines() {
	c.Lines = c.Lines[:0]
}
