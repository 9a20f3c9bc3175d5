package client

import (
	"errors"
	"strings"

	"github.com/Eco-nexion/econexion/internal/models"
)

// Local precondition failures. These block a request before any network
// call; the backend enforces the same rules as a second line of defense.
var (
	ErrNotSignedIn     = errors.New("sign in first")
	ErrWrongRole       = errors.New("your role cannot perform this action")
	ErrNotPostOwner    = errors.New("only the post owner can do this")
	ErrNotOfferOwner   = errors.New("only the offer creator can do this")
	ErrOfferNotPending = errors.New("this offer has already been decided")
	ErrOfferNotOpen    = errors.New("this offer cannot be completed")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrInvalidPost     = errors.New("title, material, a positive quantity, a non-negative price and a location are required")
)

func requireRole(session Session, role models.Role) error {
	if !session.Authenticated() {
		return ErrNotSignedIn
	}
	if session.User.Role != role {
		return ErrWrongRole
	}
	return nil
}

// CanCreatePost checks the generator-side preconditions for publishing.
func CanCreatePost(session Session, input CreatePostInput) error {
	if err := requireRole(session, models.RoleGenerator); err != nil {
		return err
	}
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.WasteType) == "" ||
		strings.TrimSpace(input.Location) == "" ||
		input.Quantity <= 0 || input.Price < 0 {
		return ErrInvalidPost
	}
	return nil
}

// CanCreateOffer checks the recycler-side preconditions for bidding.
func CanCreateOffer(session Session, post Post, amount float64) error {
	if err := requireRole(session, models.RoleRecycler); err != nil {
		return err
	}
	if post.ID == "" {
		return errors.New("offer must reference a post")
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// CanDecideOffer gates accept and reject: post owner only, pending only.
func CanDecideOffer(session Session, post Post, offer Offer) error {
	if !session.Authenticated() {
		return ErrNotSignedIn
	}
	if post.UserID != session.User.ID {
		return ErrNotPostOwner
	}
	if offer.Status != models.OfferStatusPending {
		return ErrOfferNotPending
	}
	return nil
}

// CanCompleteOffer gates fulfilment: either party, accepted offers only.
func CanCompleteOffer(session Session, post Post, offer Offer) error {
	if !session.Authenticated() {
		return ErrNotSignedIn
	}
	if post.UserID != session.User.ID && offer.UserID != session.User.ID {
		return ErrNotPostOwner
	}
	if !models.CanTransition(offer.Status, models.OfferStatusCompleted) {
		return ErrOfferNotOpen
	}
	return nil
}

// CanDeleteOffer: creator only, while still pending.
func CanDeleteOffer(session Session, offer Offer) error {
	if !session.Authenticated() {
		return ErrNotSignedIn
	}
	if offer.UserID != session.User.ID {
		return ErrNotOfferOwner
	}
	if offer.Status != models.OfferStatusPending {
		return ErrOfferNotPending
	}
	return nil
}

// CanDeletePost: owner only.
func CanDeletePost(session Session, post Post) error {
	if !session.Authenticated() {
		return ErrNotSignedIn
	}
	if post.UserID != session.User.ID {
		return ErrNotPostOwner
	}
	return nil
}
