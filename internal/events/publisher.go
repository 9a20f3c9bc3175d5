package events

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	TypeOfferCreated   = "offer_created"
	TypeOfferAccepted  = "offer_accepted"
	TypeOfferRejected  = "offer_rejected"
	TypeOfferCompleted = "offer_completed"
	TypeOfferExpiry    = "offer_expiry_sweep"
	TypeCleanup        = "cleanup"
)

// Publisher fans offer lifecycle events out to the worker via a redis stream.
type Publisher struct {
	client *redis.Client
	stream string
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, fields map[string]any) error {
	if p == nil || p.client == nil {
		return nil
	}

	values := map[string]any{"type": eventType}
	for k, v := range fields {
		values[k] = v
	}

	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	return err
}

func (p *Publisher) OfferEvent(ctx context.Context, eventType, offerID, postID, recipientID string) error {
	return p.Publish(ctx, eventType, map[string]any{
		"offerId":     offerID,
		"postId":      postID,
		"recipientId": recipientID,
	})
}
