package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zndionisio-neu/MusicPlaylistAPI/controllers"
	"github.com/zndionisio-neu/MusicPlaylistAPI/database"
	"github.com/zndionisio-neu/MusicPlaylistAPI/helpers"
	"github.com/zndionisio-neu/MusicPlaylistAPI/routes"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg("no .env file found, relying on process environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	var store database.PlaylistStore
	var client *mongo.Client

	if os.Getenv("SKIP_DB") == "true" {
		// Smoke-test mode: serve from memory, nothing survives a restart.
		log.Warn().Msg("SKIP_DB=true, running on the in-memory store")
		store = database.NewMemoryPlaylistStore()
	} else {
		uri := os.Getenv("MONGODB_URL")
		if uri == "" {
			log.Fatal().Msg("MONGODB_URL is not set")
		}
		var err error
		client, err = database.Connect(context.Background(), uri)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to MongoDB")
		}
		store = database.NewMongoPlaylistStore(database.OpenCollection(client, "playlists"))
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Music Playlist API!"})
	})

	// Every unmatched path still produces a structured JSON error.
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	locks := helpers.NewKeyedMutex()
	routes.PlaylistRoute(router, controllers.NewPlaylistController(store, locks))
	routes.SongRoute(router, controllers.NewSongController(store, locks))

	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Info().Str("port", port).Msg("Music Playlist API is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("MongoDB disconnect failed")
		}
	}
}
