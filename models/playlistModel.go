package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Playlist is the root document. Songs live inside it, so every song
// mutation is a whole-playlist write.
type Playlist struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Author      string             `bson:"author" json:"author"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	Songs       []Song             `bson:"songs" json:"songs"`
	Deleted     bool               `bson:"deleted" json:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// PlaylistSummary is the list-view shape: no songs array.
type PlaylistSummary struct {
	ID          primitive.ObjectID `json:"id,omitempty"`
	Name        string             `json:"name"`
	Author      string             `json:"author"`
	Description *string            `json:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ApiView returns the playlist as it is serialized to clients: tombstoned
// songs are filtered out and the songs slice is always non-nil. The deleted
// flags themselves are hidden by the json tags.
func (p Playlist) ApiView() Playlist {
	live := make([]Song, 0, len(p.Songs))
	for _, s := range p.Songs {
		if !s.Deleted {
			live = append(live, s)
		}
	}
	p.Songs = live
	return p
}

// Summary drops the songs array for collection responses.
func (p Playlist) Summary() PlaylistSummary {
	return PlaylistSummary{
		ID:          p.ID,
		Name:        p.Name,
		Author:      p.Author,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FindSong returns a pointer into p.Songs for the live song with the given
// id, or nil when the song is absent or tombstoned.
func (p *Playlist) FindSong(id primitive.ObjectID) *Song {
	for i := range p.Songs {
		if p.Songs[i].ID == id && !p.Songs[i].Deleted {
			return &p.Songs[i]
		}
	}
	return nil
}

// PlaylistPayload is the create shape. Validation order follows field order:
// name before author before the embedded songs.
type PlaylistPayload struct {
	Name        *string       `json:"name" validate:"required,min=6,max=100"`
	Author      *string       `json:"author" validate:"required"`
	Description *string       `json:"description"`
	Songs       []SongPayload `json:"songs" validate:"omitempty,dive"`
}

// PlaylistUpdatePayload carries partial updates. Supplying songs replaces
// the whole embedded list; absent fields stay untouched.
type PlaylistUpdatePayload struct {
	Name        *string       `json:"name" validate:"omitempty,min=6,max=100"`
	Author      *string       `json:"author" validate:"omitempty,min=1"`
	Description *string       `json:"description"`
	Songs       []SongPayload `json:"songs" validate:"omitempty,dive"`
}
