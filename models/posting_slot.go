package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostingSlot is a user's recurring preferred publish window: a local
// time-of-day in an IANA timezone, optionally pinned to a weekday.
// Collection: posting_slots
type PostingSlot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	UserID    string             `bson:"user_id" json:"user_id"`

	SlotNumber int `bson:"slot_number" json:"slot_number"`
	Hour       int `bson:"hour" json:"hour"`
	Minute     int `bson:"minute" json:"minute"`

	// DayOfWeek constrains the slot to one weekday, 0=Sunday..6=Saturday.
	// Nil means any day.
	DayOfWeek *int `bson:"day_of_week,omitempty" json:"day_of_week,omitempty"`

	// Timezone is an IANA zone name, e.g. "America/New_York".
	Timezone string `bson:"timezone" json:"timezone"`

	Active bool `bson:"active" json:"active"`
}
