package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Quantity-based discount bands. The [10,20] band is checked before the >=4
// band, so quantities above 20 fall through to the 10% tier.
var (
	discountTierHigh = decimal.NewFromFloat(0.20)
	discountTierLow  = decimal.NewFromFloat(0.10)
)

func discountTier(quantity int) decimal.Decimal {
	if quantity >= 10 && quantity <= 20 {
		return discountTierHigh
	}
	if quantity >= 4 {
		return discountTierLow
	}
	return decimal.Zero
}

// SaleLine is an item in a sale. Unlike cart lines, sale lines carry their
// own identity so a single line can be targeted for cancellation.
type SaleLine struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   int             `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	IsCancelled bool            `json:"is_cancelled"`
}

func NewSaleLine(productID int, quantity int, unitPrice decimal.Decimal, discount decimal.Decimal) (*SaleLine, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be greater than zero", ErrOutOfRange)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrOutOfRange)
	}
	if !unitPrice.IsPositive() {
		return nil, fmt.Errorf("%w: unit price must be greater than zero", ErrOutOfRange)
	}
	if discount.IsNegative() || discount.GreaterThan(one) {
		return nil, fmt.Errorf("%w: discount must be between 0 and 1", ErrOutOfRange)
	}
	return &SaleLine{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Discount:  discount,
	}, nil
}

// Cancel is one-way and idempotent. There is no uncancel.
func (l *SaleLine) Cancel() {
	l.IsCancelled = true
}

func (l *SaleLine) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrOutOfRange)
	}
	l.Quantity = quantity
	return nil
}

func (l *SaleLine) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if !unitPrice.IsPositive() {
		return fmt.Errorf("%w: unit price must be greater than zero", ErrOutOfRange)
	}
	l.UnitPrice = unitPrice
	return nil
}

func (l *SaleLine) UpdateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(one) {
		return fmt.Errorf("%w: discount must be between 0 and 1", ErrOutOfRange)
	}
	l.Discount = discount
	return nil
}

// LineTotal is quantity * unitPrice * (1 - discount). Cancellation does not
// zero the line; see Sale.TotalAmount.
func (l *SaleLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.
		Mul(decimal.NewFromInt(int64(l.Quantity))).
		Mul(one.Sub(l.Discount))
}

// Sale is an immutable record of a completed purchase. Identity is assigned
// by the domain at construction, independent of persistence.
type Sale struct {
	ID           uuid.UUID  `json:"id"`
	SaleNumber   string     `json:"sale_number"`
	SaleDate     time.Time  `json:"sale_date"`
	IsCancelled  bool       `json:"is_cancelled"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	BranchID     uuid.UUID  `json:"branch_id"`
	BranchName   string     `json:"branch_name"`
	Lines        []SaleLine `json:"items"`
}

func NewSale(saleNumber string, customerID uuid.UUID, customerName string, branchID uuid.UUID, branchName string) (*Sale, error) {
	if strings.TrimSpace(saleNumber) == "" {
		return nil, fmt.Errorf("%w: sale number cannot be empty", ErrInvalidArgument)
	}
	if customerID == uuid.Nil {
		return nil, fmt.Errorf("%w: customer id must be a valid uuid", ErrInvalidArgument)
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, fmt.Errorf("%w: customer name cannot be empty", ErrInvalidArgument)
	}
	if branchID == uuid.Nil {
		return nil, fmt.Errorf("%w: branch id must be a valid uuid", ErrInvalidArgument)
	}
	if strings.TrimSpace(branchName) == "" {
		return nil, fmt.Errorf("%w: branch name cannot be empty", ErrInvalidArgument)
	}

	return &Sale{
		ID:           uuid.New(),
		SaleNumber:   saleNumber,
		SaleDate:     time.Now().UTC(),
		CustomerID:   customerID,
		CustomerName: customerName,
		BranchID:     branchID,
		BranchName:   branchName,
		Lines:        []SaleLine{},
	}, nil
}

// AddItem validates the inputs, computes the quantity discount and appends a
// new line. Callers never pass a discount; the tier function is authoritative.
func (s *Sale) AddItem(productID int, quantity int, unitPrice decimal.Decimal) error {
	if productID <= 0 {
		return fmt.Errorf("%w: product id must be greater than zero", ErrOutOfRange)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrOutOfRange)
	}
	if !unitPrice.IsPositive() {
		return fmt.Errorf("%w: unit price must be greater than zero", ErrOutOfRange)
	}

	line, err := NewSaleLine(productID, quantity, unitPrice, discountTier(quantity))
	if err != nil {
		return err
	}
	s.Lines = append(s.Lines, *line)
	return nil
}

// CancelSale marks the sale cancelled and cascades to every line,
// unconditionally. Terminal; there is no transition back.
func (s *Sale) CancelSale() {
	s.IsCancelled = true
	for i := range s.Lines {
		s.Lines[i].Cancel()
	}
}

// TotalAmount sums every line's total, including cancelled lines. Cancelling
// an item does not reduce the total; callers rely on the recorded figure.
func (s *Sale) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lines {
		total = total.Add(s.Lines[i].LineTotal())
	}
	return total
}

// FindLine returns the line with the given id, or nil.
func (s *Sale) FindLine(lineID uuid.UUID) *SaleLine {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return &s.Lines[i]
		}
	}
	return nil
}

// SaleFromCart builds a new, independent sale from a cart's lines. Customer
// and branch identity are fabricated placeholders derived from the cart
// owner; no directory lookup happens in this version. The source cart is not
// mutated; deleting it after a successful conversion is the caller's job.
func SaleFromCart(cart *Cart) (*Sale, error) {
	if cart == nil {
		return nil, fmt.Errorf("%w: cart is required", ErrNilReference)
	}

	sale, err := NewSale(
		uuid.NewString(),
		uuid.New(),
		fmt.Sprintf("Customer-%d", cart.UserID),
		uuid.New(),
		"Default Branch",
	)
	if err != nil {
		return nil, err
	}

	for _, line := range cart.Lines {
		if err := sale.AddItem(line.ProductID, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	return sale, nil
}
