package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zndionisio-neu/MusicPlaylistAPI/database"
	"github.com/zndionisio-neu/MusicPlaylistAPI/helpers"
	"github.com/zndionisio-neu/MusicPlaylistAPI/middleware"
	"github.com/zndionisio-neu/MusicPlaylistAPI/models"
)

// storeTimeout bounds every storage call so a hung connection cannot hang
// the request lifecycle.
const storeTimeout = 5 * time.Second

// PlaylistController owns the playlist-level routes. The store and the
// per-playlist lock set are injected, so the same handlers run against
// MongoDB in production and the in-memory store in tests and smoke mode.
type PlaylistController struct {
	store database.PlaylistStore
	locks *helpers.KeyedMutex
}

func NewPlaylistController(store database.PlaylistStore, locks *helpers.KeyedMutex) *PlaylistController {
	return &PlaylistController{store: store, locks: locks}
}

// GetPlaylists lists every live playlist without its songs. An empty
// collection is reported as not found.
func (pc *PlaylistController) GetPlaylists() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		playlists, err := pc.store.Find(ctx, database.PlaylistFilter{ExcludeSongs: true})
		if err != nil {
			storeFailure(c, err)
			return
		}
		if len(playlists) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Could not load playlists."})
			return
		}

		summaries := make([]models.PlaylistSummary, 0, len(playlists))
		for _, p := range playlists {
			summaries = append(summaries, p.Summary())
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func (pc *PlaylistController) GetPlaylistByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		playlist, err := pc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, playlist.ApiView())
	}
}

// SearchPlaylistsByName matches the name fragment case-insensitively.
func (pc *PlaylistController) SearchPlaylistsByName() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		playlists, err := pc.store.Find(ctx, database.PlaylistFilter{
			NameContains: c.Param("playlistName"),
			ExcludeSongs: true,
		})
		if err != nil {
			storeFailure(c, err)
			return
		}
		if len(playlists) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}

		summaries := make([]models.PlaylistSummary, 0, len(playlists))
		for _, p := range playlists {
			summaries = append(summaries, p.Summary())
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func (pc *PlaylistController) CreatePlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		payload := c.MustGet(middleware.PlaylistPayloadKey).(models.PlaylistPayload)

		now := time.Now()
		playlist := models.Playlist{
			ID:          primitive.NewObjectID(),
			Name:        *payload.Name,
			Author:      *payload.Author,
			Description: payload.Description,
			Songs:       newSongs(payload.Songs, now),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := pc.store.Save(ctx, &playlist); err != nil {
			storeFailure(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Playlist has been created.",
			"document": playlist.ApiView(),
		})
	}
}

// UpdatePlaylist applies a partial update. The deleted flag is not part of
// the payload shape, so it cannot be flipped from here; only the delete
// handlers transition it.
func (pc *PlaylistController) UpdatePlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		payload := c.MustGet(middleware.PlaylistUpdatePayloadKey).(models.PlaylistUpdatePayload)

		update := database.PlaylistUpdate{
			Name:        payload.Name,
			Author:      payload.Author,
			Description: payload.Description,
		}
		if payload.Songs != nil {
			songs := newSongs(payload.Songs, time.Now())
			update.Songs = &songs
		}

		// Replacing the songs array races with the song-level mutators.
		unlock := pc.locks.Lock(c.Param("playlistId"))
		defer unlock()

		playlist, err := pc.store.FindOneAndUpdate(ctx, pathObjectID(c, "playlistId"), update)
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Playlist has been updated.",
			"document": playlist.ApiView(),
		})
	}
}

// DeletePlaylist soft-deletes: the record stays in storage as a tombstone.
// A second delete finds no live playlist and reports not found.
func (pc *PlaylistController) DeletePlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		unlock := pc.locks.Lock(c.Param("playlistId"))
		defer unlock()

		playlist, err := pc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		playlist.Deleted = true
		playlist.UpdatedAt = time.Now()

		if err := pc.store.Save(ctx, playlist); err != nil {
			storeFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Playlist has been deleted.",
			"document": playlist.ApiView(),
		})
	}
}

// newSongs materializes embedded song payloads with fresh ids.
func newSongs(payloads []models.SongPayload, now time.Time) []models.Song {
	songs := make([]models.Song, 0, len(payloads))
	for _, p := range payloads {
		songs = append(songs, models.Song{
			ID:        primitive.NewObjectID(),
			Title:     *p.Title,
			Artist:    *p.Artist,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return songs
}

// pathObjectID parses a path id the RequireObjectID middleware has already
// vetted.
func pathObjectID(c *gin.Context, name string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(c.Param(name))
	return id
}

// storeFailure reports an unexpected persistence failure without leaking
// internals to the client.
func storeFailure(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("store operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
}
