package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zndionisio-neu/MusicPlaylistAPI/models"
)

func seedPlaylist(t *testing.T, store *MemoryPlaylistStore, name string, deleted bool) models.Playlist {
	t.Helper()

	now := time.Now()
	playlist := models.Playlist{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Author:  "tester",
		Deleted: deleted,
		Songs: []models.Song{
			{ID: primitive.NewObjectID(), Title: "Opener", Artist: "Band", CreatedAt: now, UpdatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Save(context.Background(), &playlist))
	return playlist
}

func TestFindExcludesDeletedPlaylists(t *testing.T) {
	store := NewMemoryPlaylistStore()
	seedPlaylist(t, store, "Alive Mix", false)
	seedPlaylist(t, store, "Ghost Mix", true)

	playlists, err := store.Find(context.Background(), PlaylistFilter{})
	require.NoError(t, err)

	require.Len(t, playlists, 1)
	assert.Equal(t, "Alive Mix", playlists[0].Name)
}

func TestFindNameContainsIsCaseInsensitive(t *testing.T) {
	store := NewMemoryPlaylistStore()
	seedPlaylist(t, store, "Morning Coffee", false)
	seedPlaylist(t, store, "Evening Wind Down", false)

	playlists, err := store.Find(context.Background(), PlaylistFilter{NameContains: "COFFEE"})
	require.NoError(t, err)

	require.Len(t, playlists, 1)
	assert.Equal(t, "Morning Coffee", playlists[0].Name)
}

func TestFindExcludeSongsProjection(t *testing.T) {
	store := NewMemoryPlaylistStore()
	seedPlaylist(t, store, "With Songs", false)

	playlists, err := store.Find(context.Background(), PlaylistFilter{ExcludeSongs: true})
	require.NoError(t, err)

	require.Len(t, playlists, 1)
	assert.Nil(t, playlists[0].Songs)
}

func TestFindOneHidesDeletedPlaylist(t *testing.T) {
	store := NewMemoryPlaylistStore()
	live := seedPlaylist(t, store, "Live", false)
	dead := seedPlaylist(t, store, "Dead", true)

	_, err := store.FindOne(context.Background(), live.ID)
	assert.NoError(t, err)

	_, err = store.FindOne(context.Background(), dead.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindOne(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindOneReturnsTombstonedSongs(t *testing.T) {
	store := NewMemoryPlaylistStore()
	playlist := seedPlaylist(t, store, "Tombstones", false)
	playlist.Songs[0].Deleted = true
	require.NoError(t, store.Save(context.Background(), &playlist))

	loaded, err := store.FindOne(context.Background(), playlist.ID)
	require.NoError(t, err)

	// Song-level filtering is the application's job, not the store's.
	require.Len(t, loaded.Songs, 1)
	assert.True(t, loaded.Songs[0].Deleted)
}

func TestFindOneAndUpdateAppliesOnlySuppliedFields(t *testing.T) {
	store := NewMemoryPlaylistStore()
	playlist := seedPlaylist(t, store, "Before Name", false)

	name := "After Name"
	updated, err := store.FindOneAndUpdate(context.Background(), playlist.ID, PlaylistUpdate{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "After Name", updated.Name)
	assert.Equal(t, "tester", updated.Author)
	assert.Len(t, updated.Songs, 1)
	assert.True(t, updated.UpdatedAt.After(playlist.UpdatedAt) || updated.UpdatedAt.Equal(playlist.UpdatedAt))
}

func TestFindOneAndUpdateRejectsDeletedPlaylist(t *testing.T) {
	store := NewMemoryPlaylistStore()
	playlist := seedPlaylist(t, store, "Doomed Mix", true)

	name := "No Matter"
	_, err := store.FindOneAndUpdate(context.Background(), playlist.ID, PlaylistUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReturnedDocumentsAreIsolatedClones(t *testing.T) {
	store := NewMemoryPlaylistStore()
	playlist := seedPlaylist(t, store, "Original", false)

	loaded, err := store.FindOne(context.Background(), playlist.ID)
	require.NoError(t, err)
	loaded.Name = "Tampered"
	loaded.Songs[0].Title = "Tampered Song"

	reloaded, err := store.FindOne(context.Background(), playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", reloaded.Name)
	assert.Equal(t, "Opener", reloaded.Songs[0].Title)
}

func TestSaveReplacesExistingDocument(t *testing.T) {
	store := NewMemoryPlaylistStore()
	playlist := seedPlaylist(t, store, "First Version", false)

	playlist.Name = "Second Version"
	playlist.Deleted = true
	require.NoError(t, store.Save(context.Background(), &playlist))

	_, err := store.FindOne(context.Background(), playlist.ID)
	assert.ErrorIs(t, err, ErrNotFound, "saving a tombstoned document hides it from reads")
}
