package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Song is embedded in its parent playlist document; there is no independent
// song collection. A soft-deleted song stays in the document as a tombstone
// but the flag never reaches API clients.
type Song struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Artist    string             `bson:"artist" json:"artist"`
	Deleted   bool               `bson:"deleted" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// SongPayload is the create shape for a song, standalone or embedded in a
// playlist payload. There is intentionally no deleted field here: clients
// cannot set soft-delete state through a create or update.
type SongPayload struct {
	Title  *string `json:"title" validate:"required"`
	Artist *string `json:"artist" validate:"required"`
}

// SongUpdatePayload carries partial updates; absent fields stay untouched.
type SongUpdatePayload struct {
	Title  *string `json:"title" validate:"omitempty,min=1"`
	Artist *string `json:"artist" validate:"omitempty,min=1"`
}
