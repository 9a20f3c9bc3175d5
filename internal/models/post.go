package models

import "time"

// Post is a waste-material listing published by a generator.
type Post struct {
	ID          string
	UserID      string
	Title       string
	Description string
	WasteType   string
	Quantity    float64
	Unit        string
	Price       float64
	Location    string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
