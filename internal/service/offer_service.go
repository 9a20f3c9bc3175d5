package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Eco-nexion/econexion/internal/events"
	"github.com/Eco-nexion/econexion/internal/ids"
	"github.com/Eco-nexion/econexion/internal/models"
)

var (
	ErrNotRecycler       = errors.New("only recyclers can make offers")
	ErrOwnPost           = errors.New("cannot bid on your own post")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidTransition = errors.New("offer is not in a state that allows this change")
	ErrNotPostOwner      = errors.New("only the post owner may decide on this offer")
	ErrNotOfferOwner     = errors.New("only the offer creator may do this")
)

// EventSink receives offer lifecycle events for asynchronous processing.
type EventSink interface {
	OfferEvent(ctx context.Context, eventType, offerID, postID, recipientID string) error
}

type OfferService struct {
	offers OfferStore
	posts  PostStore
	sink   EventSink
	log    zerolog.Logger
}

func NewOfferService(offers OfferStore, posts PostStore, sink EventSink, log zerolog.Logger) *OfferService {
	return &OfferService{offers: offers, posts: posts, sink: sink, log: log}
}

type OfferInput struct {
	PostID  string
	Amount  float64
	Message *string
}

func (s *OfferService) Create(ctx context.Context, actor models.User, input OfferInput) (models.Offer, error) {
	if actor.Role != models.RoleRecycler {
		return models.Offer{}, ErrNotRecycler
	}
	if input.Amount <= 0 {
		return models.Offer{}, ErrInvalidAmount
	}

	post, err := s.posts.GetByID(ctx, input.PostID)
	if err != nil {
		return models.Offer{}, err
	}
	if post.UserID == actor.ID {
		return models.Offer{}, ErrOwnPost
	}

	offer := models.Offer{
		ID:      ids.New(),
		PostID:  post.ID,
		UserID:  actor.ID,
		Amount:  input.Amount,
		Message: input.Message,
		Status:  models.OfferStatusPending,
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		return models.Offer{}, err
	}

	s.emit(ctx, events.TypeOfferCreated, offer.ID, post.ID, post.UserID)
	return offer, nil
}

// UpdateTerms lets the recycler adjust amount or message while the offer is
// still pending.
func (s *OfferService) UpdateTerms(ctx context.Context, actor models.User, offerID string, amount float64, message *string) (models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return models.Offer{}, err
	}
	if offer.UserID != actor.ID {
		return models.Offer{}, ErrNotOfferOwner
	}
	if offer.Status != models.OfferStatusPending {
		return models.Offer{}, ErrInvalidTransition
	}
	if amount <= 0 {
		return models.Offer{}, ErrInvalidAmount
	}

	if err := s.offers.UpdateTerms(ctx, offerID, amount, message); err != nil {
		return models.Offer{}, err
	}
	offer.Amount = amount
	offer.Message = message
	return offer, nil
}

func (s *OfferService) Accept(ctx context.Context, actor models.User, offerID string) (models.Offer, error) {
	return s.decide(ctx, actor, offerID, models.OfferStatusAccepted, events.TypeOfferAccepted)
}

func (s *OfferService) Reject(ctx context.Context, actor models.User, offerID string) (models.Offer, error) {
	return s.decide(ctx, actor, offerID, models.OfferStatusRejected, events.TypeOfferRejected)
}

func (s *OfferService) decide(ctx context.Context, actor models.User, offerID string, to models.OfferStatus, eventType string) (models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return models.Offer{}, err
	}

	post, err := s.posts.GetByID(ctx, offer.PostID)
	if err != nil {
		return models.Offer{}, err
	}
	if post.UserID != actor.ID {
		return models.Offer{}, ErrNotPostOwner
	}
	if !models.CanTransition(offer.Status, to) {
		return models.Offer{}, ErrInvalidTransition
	}

	if err := s.offers.UpdateStatus(ctx, offerID, offer.Status, to); err != nil {
		return models.Offer{}, err
	}
	offer.Status = to

	s.emit(ctx, eventType, offer.ID, post.ID, offer.UserID)
	return offer, nil
}

// Complete marks an accepted offer as fulfilled. Either party may record it.
func (s *OfferService) Complete(ctx context.Context, actor models.User, offerID string) (models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return models.Offer{}, err
	}

	post, err := s.posts.GetByID(ctx, offer.PostID)
	if err != nil {
		return models.Offer{}, err
	}
	if post.UserID != actor.ID && offer.UserID != actor.ID {
		return models.Offer{}, ErrNotPostOwner
	}
	if !models.CanTransition(offer.Status, models.OfferStatusCompleted) {
		return models.Offer{}, ErrInvalidTransition
	}

	if err := s.offers.UpdateStatus(ctx, offerID, offer.Status, models.OfferStatusCompleted); err != nil {
		return models.Offer{}, err
	}
	offer.Status = models.OfferStatusCompleted

	recipient := post.UserID
	if actor.ID == post.UserID {
		recipient = offer.UserID
	}
	s.emit(ctx, events.TypeOfferCompleted, offer.ID, post.ID, recipient)
	return offer, nil
}

func (s *OfferService) Delete(ctx context.Context, actor models.User, offerID string) error {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.UserID != actor.ID {
		return ErrNotOfferOwner
	}
	if offer.Status != models.OfferStatusPending {
		return ErrInvalidTransition
	}
	return s.offers.Delete(ctx, offerID)
}

func (s *OfferService) Get(ctx context.Context, offerID string) (models.Offer, error) {
	return s.offers.GetByID(ctx, offerID)
}

// ListReceived returns offers against the generator's posts. The dashboard
// shows pending offers awaiting a decision plus accepted ones still in flight.
func (s *OfferService) ListReceived(ctx context.Context, actor models.User) ([]models.Offer, error) {
	if actor.Role != models.RoleGenerator {
		return nil, ErrNotGenerator
	}
	return s.offers.ListReceived(ctx, actor.ID, []models.OfferStatus{
		models.OfferStatusPending,
		models.OfferStatusAccepted,
	})
}

// ListByPost returns every offer against a post. Callers are responsible for
// the ownership check.
func (s *OfferService) ListByPost(ctx context.Context, postID string) ([]models.Offer, error) {
	return s.offers.ListByPost(ctx, postID)
}

func (s *OfferService) ListSent(ctx context.Context, actor models.User) ([]models.Offer, error) {
	if actor.Role != models.RoleRecycler {
		return nil, ErrNotRecycler
	}
	return s.offers.ListBySender(ctx, actor.ID)
}

func (s *OfferService) emit(ctx context.Context, eventType, offerID, postID, recipientID string) {
	if s.sink == nil {
		return
	}
	if err := s.sink.OfferEvent(ctx, eventType, offerID, postID, recipientID); err != nil {
		s.log.Warn().Err(err).Str("offer_id", offerID).Str("event", eventType).Msg("publish offer event failed")
	}
}
