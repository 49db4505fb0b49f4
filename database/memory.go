package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zndionisio-neu/MusicPlaylistAPI/models"
)

// MemoryPlaylistStore keeps playlists in a mutex-guarded map. It backs the
// test suites and the SKIP_DB smoke mode, mirroring the Mongo store's
// semantics: query-level filtering of deleted playlists, documents returned
// with their song tombstones intact.
type MemoryPlaylistStore struct {
	mu        sync.RWMutex
	playlists map[primitive.ObjectID]*models.Playlist
}

func NewMemoryPlaylistStore() *MemoryPlaylistStore {
	return &MemoryPlaylistStore{playlists: make(map[primitive.ObjectID]*models.Playlist)}
}

func (s *MemoryPlaylistStore) Find(_ context.Context, filter PlaylistFilter) ([]models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fragment := strings.ToLower(filter.NameContains)

	var result []models.Playlist
	for _, p := range s.playlists {
		if p.Deleted {
			continue
		}
		if fragment != "" && !strings.Contains(strings.ToLower(p.Name), fragment) {
			continue
		}
		clone := clonePlaylist(p)
		if filter.ExcludeSongs {
			clone.Songs = nil
		}
		result = append(result, *clone)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID.Hex() < result[j].ID.Hex()
	})
	return result, nil
}

func (s *MemoryPlaylistStore) FindOne(_ context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlists[id]
	if !ok || p.Deleted {
		return nil, ErrNotFound
	}
	return clonePlaylist(p), nil
}

func (s *MemoryPlaylistStore) FindOneAndUpdate(_ context.Context, id primitive.ObjectID, update PlaylistUpdate) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok || p.Deleted {
		return nil, ErrNotFound
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Author != nil {
		p.Author = *update.Author
	}
	if update.Description != nil {
		description := *update.Description
		p.Description = &description
	}
	if update.Songs != nil {
		p.Songs = append([]models.Song(nil), (*update.Songs)...)
	}
	p.UpdatedAt = time.Now()

	return clonePlaylist(p), nil
}

func (s *MemoryPlaylistStore) Save(_ context.Context, playlist *models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlists[playlist.ID] = clonePlaylist(playlist)
	return nil
}

// clonePlaylist deep-copies so callers can never mutate stored state through
// a returned document.
func clonePlaylist(p *models.Playlist) *models.Playlist {
	clone := *p
	if p.Description != nil {
		description := *p.Description
		clone.Description = &description
	}
	if p.Songs != nil {
		clone.Songs = append([]models.Song(nil), p.Songs...)
	}
	return &clone
}
