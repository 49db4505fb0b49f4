package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireObjectID rejects requests whose named path parameters are not
// well-formed Mongo object ids, before any lookup reaches the store. This
// keeps malformed ids as 400s instead of surfacing as storage errors.
// Absent parameters pass.
func RequireObjectID(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range params {
			value := c.Param(name)
			if value == "" {
				continue
			}
			if _, err := primitive.ObjectIDFromHex(value); err != nil {
				label := strings.TrimSuffix(name, "Id")
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": "Invalid " + label + " id.",
				})
				return
			}
		}
		c.Next()
	}
}
