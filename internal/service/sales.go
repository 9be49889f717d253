package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/pagination"
)

// CancelledByUserReason is recorded when a sale is deleted rather than
// cancelled through the cancellation endpoint.
const CancelledByUserReason = "Cancelled by user"

// CreateSale builds a sale from the request. Items run through the domain's
// pricing, so any discount a caller supplies is ignored.
func (s *Service) CreateSale(ctx context.Context, req domain.CreateSaleRequest) (*domain.Sale, error) {
	sale, err := domain.NewSale(req.SaleNumber, req.CustomerID, req.CustomerName, req.BranchID, req.BranchName)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if err := sale.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.CreateSale(ctx, *sale)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishSaleCreated(ctx, created); err != nil {
		log.Printf("[service] WARN: failed to publish sale created sale=%s: %v", created.ID, err)
	}
	s.metrics.IncrementSaleEvent("created")
	return created, nil
}

func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	return s.repo.GetSaleByID(ctx, id)
}

func compareSales(field string, a, b domain.Sale) int {
	switch field {
	case "sale_number", "saleNumber":
		if a.SaleNumber < b.SaleNumber {
			return -1
		}
		if a.SaleNumber > b.SaleNumber {
			return 1
		}
		return 0
	case "sale_date", "date":
		return a.SaleDate.Compare(b.SaleDate)
	case "customer_name":
		if a.CustomerName < b.CustomerName {
			return -1
		}
		if a.CustomerName > b.CustomerName {
			return 1
		}
		return 0
	case "total_amount", "total":
		return a.TotalAmount().Cmp(b.TotalAmount())
	default:
		return 0
	}
}

func (s *Service) ListSales(ctx context.Context, params pagination.Parameters) (*pagination.Result[domain.Sale], error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.Apply(sales, params, compareSales)
	return &page, nil
}

// UpdateSale replaces the sale's header fields and rebuilds its line set
// through the domain's pricing. A cancelled sale cannot be updated.
func (s *Service) UpdateSale(ctx context.Context, id uuid.UUID, req domain.UpdateSaleRequest) (*domain.Sale, error) {
	existing, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsCancelled {
		return nil, fmt.Errorf("%w: sale %s is cancelled", domain.ErrInvalidArgument, id)
	}

	rebuilt, err := domain.NewSale(req.SaleNumber, req.CustomerID, req.CustomerName, req.BranchID, req.BranchName)
	if err != nil {
		return nil, err
	}
	rebuilt.ID = existing.ID
	rebuilt.SaleDate = existing.SaleDate
	for _, item := range req.Items {
		if err := rebuilt.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateSale(ctx, *rebuilt)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishSaleModified(ctx, updated); err != nil {
		log.Printf("[service] WARN: failed to publish sale modified sale=%s: %v", updated.ID, err)
	}
	s.metrics.IncrementSaleEvent("modified")
	return updated, nil
}

// CancelSale marks the whole sale cancelled. Cancelling an already cancelled
// sale succeeds without publishing a second event.
func (s *Service) CancelSale(ctx context.Context, id uuid.UUID, reason string) (*domain.Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.IsCancelled {
		return sale, nil
	}

	sale.CancelSale()
	updated, err := s.repo.UpdateSale(ctx, *sale)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishSaleCancelled(ctx, updated, reason); err != nil {
		log.Printf("[service] WARN: failed to publish sale cancelled sale=%s: %v", updated.ID, err)
	}
	s.metrics.IncrementSaleEvent("cancelled")
	return updated, nil
}

// CancelSaleItem cancels a single line. The sale's recorded total does not
// change; cancellation is a flag, not a refund.
func (s *Service) CancelSaleItem(ctx context.Context, saleID uuid.UUID, lineID uuid.UUID, reason string) (*domain.Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	line := sale.FindLine(lineID)
	if line == nil {
		return nil, fmt.Errorf("%w: item %s in sale %s", domain.ErrNotFound, lineID, saleID)
	}
	alreadyCancelled := line.IsCancelled
	line.Cancel()

	updated, err := s.repo.UpdateSale(ctx, *sale)
	if err != nil {
		return nil, err
	}

	if !alreadyCancelled {
		if err := s.publisher.PublishItemCancelled(ctx, updated, updated.FindLine(lineID), reason); err != nil {
			log.Printf("[service] WARN: failed to publish item cancelled sale=%s line=%s: %v", saleID, lineID, err)
		}
		s.metrics.IncrementItemsCancelled()
	}
	return updated, nil
}

// DeleteSale removes the record entirely. Downstream consumers see it as a
// cancellation first, since a deleted sale can no longer be queried.
func (s *Service) DeleteSale(ctx context.Context, id uuid.UUID) error {
	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.publisher.PublishSaleCancelled(ctx, sale, CancelledByUserReason); err != nil {
		log.Printf("[service] WARN: failed to publish sale cancelled sale=%s: %v", id, err)
	}
	if err := s.repo.DeleteSale(ctx, id); err != nil {
		return err
	}
	s.metrics.IncrementSaleEvent("deleted")
	return nil
}
