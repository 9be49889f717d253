package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCartLineTotal(t *testing.T) {
	line, err := NewCartLine(1, decimal.NewFromFloat(10.50), 3)
	if err != nil {
		t.Fatalf("new cart line: %v", err)
	}
	if got := line.LineTotal(); !got.Equal(decimal.NewFromFloat(31.50)) {
		t.Fatalf("expected line total 31.50, got %s", got)
	}
}

func TestCartLineValidation(t *testing.T) {
	cases := []struct {
		name      string
		productID int
		unitPrice decimal.Decimal
		quantity  int
	}{
		{"zero product id", 0, decimal.NewFromInt(10), 1},
		{"negative quantity", 1, decimal.NewFromInt(10), -1},
		{"zero quantity", 1, decimal.NewFromInt(10), 0},
		{"zero price", 1, decimal.Zero, 1},
		{"negative price", 1, decimal.NewFromInt(-5), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCartLine(tc.productID, tc.unitPrice, tc.quantity); !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestCartLineUpdateRejectsInvalidValues(t *testing.T) {
	line, err := NewCartLine(1, decimal.NewFromInt(10), 1)
	if err != nil {
		t.Fatalf("new cart line: %v", err)
	}
	if err := line.UpdateQuantity(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for zero quantity, got %v", err)
	}
	if err := line.UpdateUnitPrice(decimal.Zero); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for zero price, got %v", err)
	}
	if line.Quantity != 1 || !line.UnitPrice.Equal(decimal.NewFromInt(10)) {
		t.Fatal("failed updates must not mutate the line")
	}
}

func TestNewCartValidation(t *testing.T) {
	if _, err := NewCart(0, time.Now(), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero user id, got %v", err)
	}
	if _, err := NewCart(1, time.Time{}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero date, got %v", err)
	}

	cart, err := NewCart(7, time.Now(), nil)
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}
	if cart.Lines == nil {
		t.Fatal("nil lines must be normalized to an empty slice")
	}
}

func TestCartAddAndRemoveLines(t *testing.T) {
	cart, err := NewCart(1, time.Now(), nil)
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}

	if err := cart.AddLine(nil); !errors.Is(err, ErrNilReference) {
		t.Fatalf("expected ErrNilReference for nil line, got %v", err)
	}

	first, _ := NewCartLine(5, decimal.NewFromInt(2), 1)
	second, _ := NewCartLine(5, decimal.NewFromInt(3), 2)
	if err := cart.AddLine(first); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if err := cart.AddLine(second); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}

	// Removal takes the first match and leaves later duplicates alone.
	if err := cart.RemoveLine(5); err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line after removal, got %d", len(cart.Lines))
	}
	if !cart.Lines[0].UnitPrice.Equal(decimal.NewFromInt(3)) {
		t.Fatal("expected the second duplicate to survive")
	}

	if err := cart.RemoveLine(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing product, got %v", err)
	}

	cart.ClearLines()
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", len(cart.Lines))
	}
}

func TestCartWithMultipleProducts(t *testing.T) {
	first, _ := NewCartLine(1, decimal.NewFromInt(50), 2)
	second, _ := NewCartLine(2, decimal.NewFromInt(30), 1)
	cart, err := NewCart(1, time.Now(), []CartLine{*first, *second})
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}

	if got := cart.Lines[0].LineTotal(); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected first line total 100, got %s", got)
	}
	if got := cart.Lines[1].LineTotal(); !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected second line total 30, got %s", got)
	}
}
