package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/zndionisio-neu/MusicPlaylistAPI/controllers"
	"github.com/zndionisio-neu/MusicPlaylistAPI/middleware"
)

// PlaylistRoute wires the playlist-level endpoints. Sanitization runs
// before everything else so id validation and payload validation only ever
// see trimmed values.
func PlaylistRoute(router *gin.Engine, controller *controllers.PlaylistController) {
	playlists := router.Group("/api/v1/playlists")
	playlists.Use(middleware.Sanitize())
	{
		playlists.GET("", controller.GetPlaylists())
		playlists.GET("/name/:playlistName", controller.SearchPlaylistsByName())
		playlists.POST("", middleware.ValidatePlaylist(), controller.CreatePlaylist())

		byID := playlists.Group("/:playlistId", middleware.RequireObjectID("playlistId"))
		{
			byID.GET("", controller.GetPlaylistByID())
			byID.PUT("", middleware.ValidatePlaylistUpdate(), controller.UpdatePlaylist())
			byID.PATCH("", middleware.ValidatePlaylistUpdate(), controller.UpdatePlaylist())
			byID.DELETE("", controller.DeletePlaylist())
		}
	}
}
