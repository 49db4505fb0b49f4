package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zndionisio-neu/MusicPlaylistAPI/models"
)

// ErrNotFound is returned when no live playlist matches a lookup. A
// soft-deleted playlist is deliberately indistinguishable from a missing one.
var ErrNotFound = errors.New("playlist not found")

// PlaylistFilter narrows Find results. Soft-deleted playlists never match;
// that filter is applied at the query level, not after the fact.
type PlaylistFilter struct {
	// NameContains matches playlists whose name contains the fragment,
	// case-insensitively, when non-empty.
	NameContains string
	// ExcludeSongs projects the songs array away for list views.
	ExcludeSongs bool
}

// PlaylistUpdate carries the field-level changes applied by
// FindOneAndUpdate. Nil fields are left untouched.
type PlaylistUpdate struct {
	Name        *string
	Author      *string
	Description *string
	Songs       *[]models.Song
}

// PlaylistStore is the document-store seam the controllers depend on.
// Production runs on MongoDB; tests and smoke mode run on the in-memory
// implementation. FindOne and FindOneAndUpdate only ever see live
// playlists, but the documents they return still carry tombstoned songs:
// song-level filtering happens in application logic.
type PlaylistStore interface {
	Find(ctx context.Context, filter PlaylistFilter) ([]models.Playlist, error)
	FindOne(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
	FindOneAndUpdate(ctx context.Context, id primitive.ObjectID, update PlaylistUpdate) (*models.Playlist, error)
	Save(ctx context.Context, playlist *models.Playlist) error
}
