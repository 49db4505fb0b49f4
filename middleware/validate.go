package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/zndionisio-neu/MusicPlaylistAPI/models"
)

var validate = validator.New()

// Context keys under which validated payloads are stashed for the handlers.
const (
	PlaylistPayloadKey       = "playlistPayload"
	PlaylistUpdatePayloadKey = "playlistUpdatePayload"
	SongPayloadKey           = "songPayload"
	SongUpdatePayloadKey     = "songUpdatePayload"
)

// ValidatePlaylist guards playlist creation. Checks run in declaration
// order and stop at the first failure, so a payload missing both name and
// author is reported for name.
func ValidatePlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload models.PlaylistPayload
		if !bindPayload(c, &payload, "Playlist", "name", "author") {
			return
		}
		if err := validate.Struct(payload); err != nil {
			abortValidation(c, "Playlist", err)
			return
		}
		c.Set(PlaylistPayloadKey, payload)
		c.Next()
	}
}

// ValidatePlaylistUpdate guards partial playlist updates: every field is
// optional, but a supplied field must satisfy the create rules.
func ValidatePlaylistUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload models.PlaylistUpdatePayload
		if !bindPayload(c, &payload, "Playlist") {
			return
		}
		if msg := firstEmptySupplied("Playlist", []suppliedField{
			{"name", payload.Name},
			{"author", payload.Author},
		}); msg != "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := validate.Struct(payload); err != nil {
			abortValidation(c, "Playlist", err)
			return
		}
		c.Set(PlaylistUpdatePayloadKey, payload)
		c.Next()
	}
}

// ValidateSong guards song creation.
func ValidateSong() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload models.SongPayload
		if !bindPayload(c, &payload, "Song", "title", "artist") {
			return
		}
		if err := validate.Struct(payload); err != nil {
			abortValidation(c, "Song", err)
			return
		}
		c.Set(SongPayloadKey, payload)
		c.Next()
	}
}

// ValidateSongUpdate guards partial song updates.
func ValidateSongUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload models.SongUpdatePayload
		if !bindPayload(c, &payload, "Song") {
			return
		}
		if msg := firstEmptySupplied("Song", []suppliedField{
			{"title", payload.Title},
			{"artist", payload.Artist},
		}); msg != "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := validate.Struct(payload); err != nil {
			abortValidation(c, "Song", err)
			return
		}
		c.Set(SongUpdatePayloadKey, payload)
		c.Next()
	}
}

// bindPayload decodes the (already sanitized) body. An empty body binds to
// the zero payload so required-field validation produces the message, the
// way the original service treated an absent body as an empty object.
// Payload structs carry no deleted field, so a client-supplied deleted flag
// is dropped right here. The required list carries the entity's required
// fields in validation order; when the decoder trips on a wrong-typed
// field, a missing required field is still reported first.
func bindPayload(c *gin.Context, payload any, entity string, required ...string) bool {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload."})
		return false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": decodeErrorMessage(entity, raw, required, err),
		})
		return false
	}
	return true
}

// decodeErrorMessage translates decoder failures. Required-field checks
// precede type checks, so a payload missing a required field reports that
// field even when a later field carries the wrong type.
func decodeErrorMessage(entity string, raw []byte, required []string, err error) string {
	var body map[string]any
	parsed := json.Unmarshal(raw, &body) == nil

	if parsed {
		for _, field := range required {
			value, ok := body[field]
			if !ok || value == nil || value == "" {
				return fmt.Sprintf("%s '%s' is required and must be a string.", entity, field)
			}
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		switch {
		case typeErr.Field == "songs":
			// Distinguish a non-array songs value from a non-object
			// element inside an otherwise well-formed array.
			if parsed {
				if songs, ok := body["songs"].([]any); ok {
					for i, item := range songs {
						if _, isObject := item.(map[string]any); !isObject {
							return fmt.Sprintf("Song at index %d must be an object.", i)
						}
					}
				}
			}
			return "'songs' must be an array."
		case strings.HasPrefix(typeErr.Field, "songs."):
			child := strings.TrimPrefix(typeErr.Field, "songs.")
			return fmt.Sprintf("Song '%s' must be a string.", child)
		default:
			return fmt.Sprintf("%s '%s' must be a string.", entity, typeErr.Field)
		}
	}
	return "Invalid request payload."
}

type suppliedField struct {
	name  string
	value *string
}

// firstEmptySupplied enforces the partial-update rule: a field may be
// absent, but once supplied it must be non-empty. The sanitizer has already
// trimmed, so a bare comparison against "" suffices. The omitempty tags
// cannot catch this themselves because they skip empty strings outright.
func firstEmptySupplied(entity string, fields []suppliedField) string {
	for _, f := range fields {
		if f.value != nil && *f.value == "" {
			return fmt.Sprintf("%s '%s' is required and must be a string.", entity, f.name)
		}
	}
	return ""
}

func abortValidation(c *gin.Context, entity string, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": validationMessage(entity, err),
	})
}

// songIndexPattern matches namespaces like "PlaylistPayload.Songs[2].Title"
// produced by diving into the embedded song payloads.
var songIndexPattern = regexp.MustCompile(`Songs\[(\d+)\]\.(\w+)$`)

// validationMessage renders the first validation failure, preserving the
// wording clients of the original service rely on.
func validationMessage(entity string, err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request payload."
	}

	fe := fieldErrs[0]
	if m := songIndexPattern.FindStringSubmatch(fe.StructNamespace()); m != nil {
		index, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("Song at index %d must have a string '%s'.", index, strings.ToLower(m[2]))
	}

	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s '%s' is required and must be a string.", entity, field)
	case "min":
		return fmt.Sprintf("%s '%s' must be at least %s characters.", entity, field, fe.Param())
	case "max":
		return fmt.Sprintf("%s '%s' must be at most %s characters.", entity, field, fe.Param())
	}
	return fmt.Sprintf("%s '%s' is invalid.", entity, field)
}
