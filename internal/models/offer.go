package models

import "time"

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "PENDING"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
	OfferStatusRejected  OfferStatus = "REJECTED"
	OfferStatusCompleted OfferStatus = "COMPLETED"
)

// CanTransition reports whether an offer may move from one status to another.
// PENDING is the only state that accepts a generator decision; ACCEPTED offers
// may still be completed. REJECTED and COMPLETED are terminal.
func CanTransition(from, to OfferStatus) bool {
	switch from {
	case OfferStatusPending:
		return to == OfferStatusAccepted || to == OfferStatusRejected
	case OfferStatusAccepted:
		return to == OfferStatusCompleted
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OfferStatus) IsTerminal() bool {
	return s == OfferStatusRejected || s == OfferStatusCompleted
}

func (s OfferStatus) Valid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected, OfferStatusCompleted:
		return true
	}
	return false
}

// Offer is a recycler's bid against a post.
type Offer struct {
	ID        string
	PostID    string
	UserID    string
	Amount    float64
	Message   *string
	Status    OfferStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
