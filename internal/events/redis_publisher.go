package events

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"saledesk/backend/internal/domain"
)

// RedisPublisher fans events out over a redis pub/sub channel as JSON
// envelopes. Subscribers that are offline miss events; this is notification
// plumbing, not an event store.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(addr string, password string, db int, channel string) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func (p *RedisPublisher) publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.client.Publish(pubCtx, p.channel, payload).Err()
}

func (p *RedisPublisher) PublishSaleCreated(ctx context.Context, sale *domain.Sale) error {
	return p.publish(ctx, envelope(EventSaleCreated, sale))
}

func (p *RedisPublisher) PublishSaleModified(ctx context.Context, sale *domain.Sale) error {
	return p.publish(ctx, envelope(EventSaleModified, sale))
}

func (p *RedisPublisher) PublishSaleCancelled(ctx context.Context, sale *domain.Sale, reason string) error {
	env := envelope(EventSaleCancelled, sale)
	env.Reason = reason
	return p.publish(ctx, env)
}

func (p *RedisPublisher) PublishItemCancelled(ctx context.Context, sale *domain.Sale, line *domain.SaleLine, reason string) error {
	env := envelope(EventItemCancelled, sale)
	env.LineID = line.ID
	env.ProductID = line.ProductID
	env.Reason = reason
	return p.publish(ctx, env)
}
