package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/zndionisio-neu/MusicPlaylistAPI/controllers"
	"github.com/zndionisio-neu/MusicPlaylistAPI/middleware"
)

// SongRoute wires the nested song endpoints under a playlist.
func SongRoute(router *gin.Engine, controller *controllers.SongController) {
	songs := router.Group("/api/v1/playlists/:playlistId/songs",
		middleware.Sanitize(),
		middleware.RequireObjectID("playlistId"),
	)
	{
		songs.GET("", controller.GetSongs())
		songs.GET("/title/:songTitle", controller.SearchSongsByTitle())
		songs.POST("", middleware.ValidateSong(), controller.AddSong())

		byID := songs.Group("/:songId", middleware.RequireObjectID("songId"))
		{
			byID.GET("", controller.GetSongByID())
			byID.PUT("", middleware.ValidateSongUpdate(), controller.UpdateSong())
			byID.PATCH("", middleware.ValidateSongUpdate(), controller.UpdateSong())
			byID.DELETE("", controller.DeleteSong())
		}
	}
}
