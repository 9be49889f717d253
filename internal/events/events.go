// Package events publishes sale lifecycle notifications. Publishing is fire
// and forget; a failed publish is logged by the caller and never blocks the
// operation that triggered it.
package events

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saledesk/backend/internal/domain"
)

const (
	EventSaleCreated   = "sale.created"
	EventSaleModified  = "sale.modified"
	EventSaleCancelled = "sale.cancelled"
	EventItemCancelled = "sale.item_cancelled"
)

// Envelope is the wire shape for every event.
type Envelope struct {
	Event      string          `json:"event"`
	OccurredAt time.Time       `json:"occurred_at"`
	SaleID     uuid.UUID       `json:"sale_id"`
	SaleNumber string          `json:"sale_number,omitempty"`
	Total      decimal.Decimal `json:"total_amount"`
	LineID     uuid.UUID       `json:"line_id,omitempty"`
	ProductID  int             `json:"product_id,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

type Publisher interface {
	PublishSaleCreated(ctx context.Context, sale *domain.Sale) error
	PublishSaleModified(ctx context.Context, sale *domain.Sale) error
	PublishSaleCancelled(ctx context.Context, sale *domain.Sale, reason string) error
	PublishItemCancelled(ctx context.Context, sale *domain.Sale, line *domain.SaleLine, reason string) error
}

func envelope(event string, sale *domain.Sale) Envelope {
	return Envelope{
		Event:      event,
		OccurredAt: time.Now().UTC(),
		SaleID:     sale.ID,
		SaleNumber: sale.SaleNumber,
		Total:      sale.TotalAmount(),
	}
}

// LogPublisher writes events to the process log. It is the fallback when no
// broker is configured.
type LogPublisher struct{}

func (LogPublisher) publish(env Envelope) error {
	log.Printf("[events] %s sale=%s number=%s total=%s reason=%q",
		env.Event, env.SaleID, env.SaleNumber, env.Total, env.Reason)
	return nil
}

func (p LogPublisher) PublishSaleCreated(_ context.Context, sale *domain.Sale) error {
	return p.publish(envelope(EventSaleCreated, sale))
}

func (p LogPublisher) PublishSaleModified(_ context.Context, sale *domain.Sale) error {
	return p.publish(envelope(EventSaleModified, sale))
}

func (p LogPublisher) PublishSaleCancelled(_ context.Context, sale *domain.Sale, reason string) error {
	env := envelope(EventSaleCancelled, sale)
	env.Reason = reason
	return p.publish(env)
}

func (p LogPublisher) PublishItemCancelled(_ context.Context, sale *domain.Sale, line *domain.SaleLine, reason string) error {
	env := envelope(EventItemCancelled, sale)
	env.LineID = line.ID
	env.ProductID = line.ProductID
	env.Reason = reason
	return p.publish(env)
}
