package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale("S-100", uuid.New(), "Ana Souza", uuid.New(), "Main Branch")
	if err != nil {
		t.Fatalf("new sale: %v", err)
	}
	return sale
}

func TestDiscountTierBands(t *testing.T) {
	cases := []struct {
		quantity int
		want     decimal.Decimal
	}{
		{1, decimal.Zero},
		{3, decimal.Zero},
		{4, decimal.NewFromFloat(0.10)},
		{9, decimal.NewFromFloat(0.10)},
		{10, decimal.NewFromFloat(0.20)},
		{15, decimal.NewFromFloat(0.20)},
		{20, decimal.NewFromFloat(0.20)},
		// Above 20 the high band no longer applies and quantity falls
		// back to the 10% tier.
		{21, decimal.NewFromFloat(0.10)},
		{100, decimal.NewFromFloat(0.10)},
	}
	for _, tc := range cases {
		if got := discountTier(tc.quantity); !got.Equal(tc.want) {
			t.Fatalf("quantity %d: expected discount %s, got %s", tc.quantity, tc.want, got)
		}
	}
}

func TestAddItemAppliesTierDiscount(t *testing.T) {
	sale := newTestSale(t)
	if err := sale.AddItem(1, 10, decimal.NewFromInt(20)); err != nil {
		t.Fatalf("add item: %v", err)
	}

	line := sale.Lines[0]
	if !line.Discount.Equal(decimal.NewFromFloat(0.20)) {
		t.Fatalf("expected 20%% discount, got %s", line.Discount)
	}
	if got := sale.TotalAmount(); !got.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("expected total 160, got %s", got)
	}
}

func TestAddItemAboveHighBandFallsBack(t *testing.T) {
	sale := newTestSale(t)
	if err := sale.AddItem(1, 25, decimal.NewFromInt(20)); err != nil {
		t.Fatalf("add item: %v", err)
	}

	line := sale.Lines[0]
	if !line.Discount.Equal(decimal.NewFromFloat(0.10)) {
		t.Fatalf("expected 10%% discount, got %s", line.Discount)
	}
	if got := sale.TotalAmount(); !got.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected total 450, got %s", got)
	}
}

func TestAddItemValidation(t *testing.T) {
	sale := newTestSale(t)
	if err := sale.AddItem(0, 1, decimal.NewFromInt(10)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for product id, got %v", err)
	}
	if err := sale.AddItem(1, 0, decimal.NewFromInt(10)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for quantity, got %v", err)
	}
	if err := sale.AddItem(1, 1, decimal.Zero); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for price, got %v", err)
	}
	if len(sale.Lines) != 0 {
		t.Fatal("failed adds must not append lines")
	}
}

func TestNewSaleLineDiscountRange(t *testing.T) {
	if _, err := NewSaleLine(1, 1, decimal.NewFromInt(10), decimal.NewFromFloat(1.5)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for discount above 1, got %v", err)
	}
	if _, err := NewSaleLine(1, 1, decimal.NewFromInt(10), decimal.NewFromFloat(-0.1)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for negative discount, got %v", err)
	}

	line, err := NewSaleLine(1, 1, decimal.NewFromInt(10), decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("discount of exactly 1 must be accepted: %v", err)
	}
	if !line.LineTotal().IsZero() {
		t.Fatalf("expected zero total at full discount, got %s", line.LineTotal())
	}
}

func TestNewSaleValidation(t *testing.T) {
	cases := []struct {
		name       string
		saleNumber string
		customerID uuid.UUID
		customer   string
		branchID   uuid.UUID
		branch     string
	}{
		{"empty sale number", "", uuid.New(), "c", uuid.New(), "b"},
		{"nil customer id", "S-1", uuid.Nil, "c", uuid.New(), "b"},
		{"blank customer name", "S-1", uuid.New(), "  ", uuid.New(), "b"},
		{"nil branch id", "S-1", uuid.New(), "c", uuid.Nil, "b"},
		{"blank branch name", "S-1", uuid.New(), "c", uuid.New(), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSale(tc.saleNumber, tc.customerID, tc.customer, tc.branchID, tc.branch)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestCancelSaleCascadesToLines(t *testing.T) {
	sale := newTestSale(t)
	if err := sale.AddItem(1, 2, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := sale.AddItem(2, 3, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("add item: %v", err)
	}

	sale.CancelSale()
	if !sale.IsCancelled {
		t.Fatal("expected sale cancelled")
	}
	for i, line := range sale.Lines {
		if !line.IsCancelled {
			t.Fatalf("expected line %d cancelled", i)
		}
	}

	// Cancelling again is a no-op, never an error.
	sale.CancelSale()
	if !sale.IsCancelled {
		t.Fatal("expected sale to stay cancelled")
	}
}

func TestSaleTotalAmountIncludesCancelledLines(t *testing.T) {
	sale := newTestSale(t)
	if err := sale.AddItem(1, 2, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := sale.AddItem(2, 1, decimal.NewFromInt(30)); err != nil {
		t.Fatalf("add item: %v", err)
	}

	before := sale.TotalAmount()
	sale.Lines[0].Cancel()
	after := sale.TotalAmount()

	if !before.Equal(after) {
		t.Fatalf("cancelling a line must not change the total: before %s, after %s", before, after)
	}
	if !after.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected total 50, got %s", after)
	}
}

func TestFindLine(t *testing.T) {
	sale := newTestSale(t)
	if err := sale.AddItem(1, 1, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if got := sale.FindLine(sale.Lines[0].ID); got == nil {
		t.Fatal("expected to find existing line")
	}
	if got := sale.FindLine(uuid.New()); got != nil {
		t.Fatal("expected nil for unknown line id")
	}
}

func TestSaleFromCart(t *testing.T) {
	first, _ := NewCartLine(1, decimal.NewFromInt(50), 2)
	second, _ := NewCartLine(2, decimal.NewFromInt(30), 1)
	cart, err := NewCart(42, time.Now(), []CartLine{*first, *second})
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}

	sale, err := SaleFromCart(cart)
	if err != nil {
		t.Fatalf("sale from cart: %v", err)
	}

	if len(sale.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(sale.Lines))
	}
	if !sale.Lines[0].Discount.IsZero() || !sale.Lines[1].Discount.IsZero() {
		t.Fatal("small quantities must carry no discount")
	}
	if got := sale.TotalAmount(); !got.Equal(decimal.NewFromInt(130)) {
		t.Fatalf("expected total 130, got %s", got)
	}
	if sale.CustomerName != "Customer-42" {
		t.Fatalf("expected placeholder customer name Customer-42, got %s", sale.CustomerName)
	}
	if sale.BranchName != "Default Branch" {
		t.Fatalf("expected placeholder branch, got %s", sale.BranchName)
	}
	if _, err := uuid.Parse(sale.SaleNumber); err != nil {
		t.Fatalf("expected generated uuid sale number, got %q", sale.SaleNumber)
	}
	if len(cart.Lines) != 2 {
		t.Fatal("conversion must not mutate the source cart")
	}
}

func TestSaleFromCartNilCart(t *testing.T) {
	_, err := SaleFromCart(nil)
	if !errors.Is(err, ErrNilReference) {
		t.Fatalf("expected ErrNilReference, got %v", err)
	}
	if !strings.Contains(err.Error(), "cart") {
		t.Fatalf("error should name the missing cart, got %q", err)
	}
}

func TestSaleFromCartDiscountTiers(t *testing.T) {
	bulk, _ := NewCartLine(1, decimal.NewFromInt(20), 10)
	cart, err := NewCart(1, time.Now(), []CartLine{*bulk})
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}

	sale, err := SaleFromCart(cart)
	if err != nil {
		t.Fatalf("sale from cart: %v", err)
	}
	if !sale.Lines[0].Discount.Equal(decimal.NewFromFloat(0.20)) {
		t.Fatalf("expected converted line to price through the tier, got discount %s", sale.Lines[0].Discount)
	}
}
