package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ratingMax = decimal.NewFromInt(5)

// Rating is the aggregated review score shown on product listings.
type Rating struct {
	Rate  decimal.Decimal `json:"rate"`
	Count int             `json:"count"`
}

func NewRating(rate decimal.Decimal, count int) (*Rating, error) {
	if rate.IsNegative() || rate.GreaterThan(ratingMax) {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrOutOfRange)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: rating count cannot be negative", ErrOutOfRange)
	}
	return &Rating{Rate: rate, Count: count}, nil
}

// Product is catalog data. Like carts, products take their id from the
// persistence layer.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *Rating         `json:"rating,omitempty"`
}

func NewProduct(title string, price decimal.Decimal, description string, image string, category string) (*Product, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidArgument)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be greater than zero", ErrOutOfRange)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(image) == "" {
		return nil, fmt.Errorf("%w: image url cannot be empty", ErrInvalidArgument)
	}
	return &Product{
		Title:       title,
		Price:       price,
		Description: description,
		Image:       image,
		Category:    category,
	}, nil
}

func (p *Product) UpdateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidArgument)
	}
	p.Title = title
	return nil
}

func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", ErrOutOfRange)
	}
	p.Price = price
	return nil
}

func (p *Product) UpdateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidArgument)
	}
	p.Description = description
	return nil
}

func (p *Product) UpdateImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return fmt.Errorf("%w: image url cannot be empty", ErrInvalidArgument)
	}
	p.Image = image
	return nil
}

// Category may be blank; uncategorized products are allowed.
func (p *Product) UpdateCategory(category string) {
	p.Category = category
}

func (p *Product) UpdateRating(rating Rating) {
	p.Rating = &rating
}
