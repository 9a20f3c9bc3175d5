package worker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Eco-nexion/econexion/internal/events"
	"github.com/Eco-nexion/econexion/internal/ids"
	"github.com/Eco-nexion/econexion/internal/models"
	"github.com/Eco-nexion/econexion/internal/repository"
)

const (
	notificationRetentionDays = 30
	pendingOfferTTLDays       = 14
)

// Processor turns offer events into user notifications and handles periodic
// cleanup tasks.
type Processor struct {
	notifications *repository.NotificationRepository
	offers        *repository.OfferRepository
	log           zerolog.Logger
}

func NewProcessor(notifications *repository.NotificationRepository, offers *repository.OfferRepository, log zerolog.Logger) *Processor {
	return &Processor{notifications: notifications, offers: offers, log: log}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	eventType, _ := msg.Values["type"].(string)

	switch eventType {
	case events.TypeOfferCreated:
		return p.notify(ctx, msg, "New offer received", "A recycler made an offer on your post.")
	case events.TypeOfferAccepted:
		return p.notify(ctx, msg, "Offer accepted", "The generator accepted your offer.")
	case events.TypeOfferRejected:
		return p.notify(ctx, msg, "Offer rejected", "The generator rejected your offer.")
	case events.TypeOfferCompleted:
		return p.notify(ctx, msg, "Exchange completed", "The exchange has been marked as completed.")
	case events.TypeOfferExpiry:
		return p.expireOffers(ctx)
	case events.TypeCleanup:
		return p.cleanup(ctx)
	default:
		p.log.Warn().Str("type", eventType).Str("message_id", msg.ID).Msg("unknown event type")
		return nil
	}
}

func (p *Processor) notify(ctx context.Context, msg redis.XMessage, title, body string) error {
	recipientID, _ := msg.Values["recipientId"].(string)
	offerID, _ := msg.Values["offerId"].(string)
	if recipientID == "" || offerID == "" {
		return fmt.Errorf("event %s missing recipient or offer id", msg.ID)
	}

	eventType, _ := msg.Values["type"].(string)
	notification := models.Notification{
		ID:        ids.New(),
		UserID:    recipientID,
		Title:     title,
		Message:   body,
		Kind:      eventType,
		RelatedID: offerID,
	}

	if err := p.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	p.log.Debug().
		Str("user_id", recipientID).
		Str("offer_id", offerID).
		Str("kind", eventType).
		Msg("notification created")
	return nil
}

func (p *Processor) expireOffers(ctx context.Context) error {
	expired, err := p.offers.ExpirePending(ctx, pendingOfferTTLDays)
	if err != nil {
		return fmt.Errorf("expire pending offers: %w", err)
	}
	if expired > 0 {
		p.log.Info().Int64("expired", expired).Msg("stale pending offers rejected")
	}
	return nil
}

func (p *Processor) cleanup(ctx context.Context) error {
	deleted, err := p.notifications.DeleteOlderThan(ctx, notificationRetentionDays)
	if err != nil {
		return fmt.Errorf("prune notifications: %w", err)
	}
	p.log.Info().Int64("deleted", deleted).Msg("notification cleanup finished")
	return nil
}
