package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zndionisio-neu/MusicPlaylistAPI/database"
	"github.com/zndionisio-neu/MusicPlaylistAPI/helpers"
	"github.com/zndionisio-neu/MusicPlaylistAPI/middleware"
	"github.com/zndionisio-neu/MusicPlaylistAPI/models"
)

// SongController owns the nested song routes. Songs are embedded documents,
// so every mutation here loads the parent playlist, edits it and writes the
// whole document back; the keyed mutex serializes those cycles per playlist.
type SongController struct {
	store database.PlaylistStore
	locks *helpers.KeyedMutex
}

func NewSongController(store database.PlaylistStore, locks *helpers.KeyedMutex) *SongController {
	return &SongController{store: store, locks: locks}
}

// GetSongs lists the live songs of a playlist. Tombstoned songs are
// filtered in application logic since the store returns the whole document.
func (sc *SongController) GetSongs() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		playlist, err := sc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		songs := playlist.ApiView().Songs
		if len(songs) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Songs not found."})
			return
		}
		c.JSON(http.StatusOK, songs)
	}
}

func (sc *SongController) GetSongByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		playlist, err := sc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		song := playlist.FindSong(pathObjectID(c, "songId"))
		if song == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found."})
			return
		}
		c.JSON(http.StatusOK, song)
	}
}

// SearchSongsByTitle matches the title fragment case-insensitively within
// one playlist.
func (sc *SongController) SearchSongsByTitle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		playlist, err := sc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		fragment := strings.ToLower(c.Param("songTitle"))
		var matches []models.Song
		for _, song := range playlist.ApiView().Songs {
			if strings.Contains(strings.ToLower(song.Title), fragment) {
				matches = append(matches, song)
			}
		}
		if len(matches) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Songs not found."})
			return
		}
		c.JSON(http.StatusOK, matches)
	}
}

// AddSong appends a song to a live playlist.
func (sc *SongController) AddSong() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		payload := c.MustGet(middleware.SongPayloadKey).(models.SongPayload)

		unlock := sc.locks.Lock(c.Param("playlistId"))
		defer unlock()

		playlist, err := sc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		now := time.Now()
		song := models.Song{
			ID:        primitive.NewObjectID(),
			Title:     *payload.Title,
			Artist:    *payload.Artist,
			CreatedAt: now,
			UpdatedAt: now,
		}
		playlist.Songs = append(playlist.Songs, song)
		playlist.UpdatedAt = now

		if err := sc.store.Save(ctx, playlist); err != nil {
			storeFailure(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Song has been added.",
			"document": song,
		})
	}
}

// UpdateSong assigns only the supplied fields, leaving the rest untouched.
func (sc *SongController) UpdateSong() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		payload := c.MustGet(middleware.SongUpdatePayloadKey).(models.SongUpdatePayload)

		unlock := sc.locks.Lock(c.Param("playlistId"))
		defer unlock()

		playlist, err := sc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		song := playlist.FindSong(pathObjectID(c, "songId"))
		if song == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found."})
			return
		}

		now := time.Now()
		if payload.Title != nil {
			song.Title = *payload.Title
		}
		if payload.Artist != nil {
			song.Artist = *payload.Artist
		}
		song.UpdatedAt = now
		playlist.UpdatedAt = now

		if err := sc.store.Save(ctx, playlist); err != nil {
			storeFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Song has been updated.",
			"document": song,
		})
	}
}

// DeleteSong tombstones a song inside its playlist. The record stays in the
// document; it just stops appearing in reads. Deleting it again finds no
// live song and reports not found.
func (sc *SongController) DeleteSong() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		unlock := sc.locks.Lock(c.Param("playlistId"))
		defer unlock()

		playlist, err := sc.store.FindOne(ctx, pathObjectID(c, "playlistId"))
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found."})
			return
		}
		if err != nil {
			storeFailure(c, err)
			return
		}

		song := playlist.FindSong(pathObjectID(c, "songId"))
		if song == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found."})
			return
		}

		now := time.Now()
		song.Deleted = true
		song.UpdatedAt = now
		playlist.UpdatedAt = now

		if err := sc.store.Save(ctx, playlist); err != nil {
			storeFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Song has been removed.",
			"document": song,
		})
	}
}
