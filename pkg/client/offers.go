package client

import (
	"context"
	"net/http"
	"time"

	"github.com/Eco-nexion/econexion/internal/models"
)

// Offer mirrors the backend's offer representation.
type Offer struct {
	ID        string             `json:"id"`
	PostID    string             `json:"postId"`
	UserID    string             `json:"userId"`
	Amount    float64            `json:"amount"`
	Message   *string            `json:"message,omitempty"`
	Status    models.OfferStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type CreateOfferInput struct {
	PostID  string  `json:"postId"`
	Amount  float64 `json:"amount"`
	Message *string `json:"message,omitempty"`
}

func (c *Client) Offer(ctx context.Context, id string) (Offer, error) {
	var offer Offer
	if err := c.do(ctx, http.MethodGet, "/api/v1/offers/"+id, nil, &offer); err != nil {
		return Offer{}, err
	}
	return offer, nil
}

// ReceivedOffers lists offers against the generator's posts.
func (c *Client) ReceivedOffers(ctx context.Context) ([]Offer, error) {
	var offers []Offer
	if err := c.do(ctx, http.MethodGet, "/api/v1/offers/received", nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// SentOffers lists the recycler's own offers.
func (c *Client) SentOffers(ctx context.Context) ([]Offer, error) {
	var offers []Offer
	if err := c.do(ctx, http.MethodGet, "/api/v1/offers/sent", nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// CreateOffer validates the recycler-side preconditions locally before
// calling the backend.
func (c *Client) CreateOffer(ctx context.Context, session Session, post Post, input CreateOfferInput) (Offer, error) {
	input.PostID = post.ID
	if err := CanCreateOffer(session, post, input.Amount); err != nil {
		return Offer{}, err
	}

	var offer Offer
	if err := c.do(ctx, http.MethodPost, "/api/v1/offers", input, &offer); err != nil {
		return Offer{}, err
	}
	return offer, nil
}

// AcceptOffer transitions a pending offer to accepted. Invalid transitions
// and non-owner attempts are rejected locally, without a network call.
func (c *Client) AcceptOffer(ctx context.Context, session Session, post Post, offer Offer) (Offer, error) {
	if err := CanDecideOffer(session, post, offer); err != nil {
		return Offer{}, err
	}

	var updated Offer
	if err := c.do(ctx, http.MethodPost, "/api/v1/offers/"+offer.ID+"/accept", nil, &updated); err != nil {
		return Offer{}, err
	}
	return updated, nil
}

// RejectOffer transitions a pending offer to rejected. Terminal from the
// client's perspective: there is no un-reject.
func (c *Client) RejectOffer(ctx context.Context, session Session, post Post, offer Offer) (Offer, error) {
	if err := CanDecideOffer(session, post, offer); err != nil {
		return Offer{}, err
	}

	var updated Offer
	if err := c.do(ctx, http.MethodPost, "/api/v1/offers/"+offer.ID+"/reject", nil, &updated); err != nil {
		return Offer{}, err
	}
	return updated, nil
}

// CompleteOffer records fulfilment of an accepted offer.
func (c *Client) CompleteOffer(ctx context.Context, session Session, post Post, offer Offer) (Offer, error) {
	if err := CanCompleteOffer(session, post, offer); err != nil {
		return Offer{}, err
	}

	var updated Offer
	if err := c.do(ctx, http.MethodPost, "/api/v1/offers/"+offer.ID+"/complete", nil, &updated); err != nil {
		return Offer{}, err
	}
	return updated, nil
}

// DeleteOffer withdraws a pending offer.
func (c *Client) DeleteOffer(ctx context.Context, session Session, offer Offer) error {
	if err := CanDeleteOffer(session, offer); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/offers/"+offer.ID, nil, nil)
}
