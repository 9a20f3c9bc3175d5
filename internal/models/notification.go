package models

import "time"

// Notification is written by the worker when an offer changes status.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Kind      string
	RelatedID string
	Read      bool
	CreatedAt time.Time
}
