package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSanitizeTrimsBodyStrings(t *testing.T) {
	router := gin.New()
	var seen map[string]any
	router.POST("/x", Sanitize(), func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		require.NoError(t, json.Unmarshal(raw, &seen))
		c.Status(http.StatusOK)
	})

	body := `{"name":"  My Playlist  ","count":3,"songs":[{"title":" Song A ","artist":"A"}]}`
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "My Playlist", seen["name"])
	assert.Equal(t, float64(3), seen["count"], "non-string values pass through")
	song := seen["songs"].([]any)[0].(map[string]any)
	assert.Equal(t, "Song A", song["title"])
}

func TestSanitizeTrimsBodyWithoutContentTypeHeader(t *testing.T) {
	router := gin.New()
	var seen map[string]any
	router.POST("/x", Sanitize(), func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		require.NoError(t, json.Unmarshal(raw, &seen))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"  padded  "}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "padded", seen["name"])
}

func TestSanitizeTrimsQueryAndParams(t *testing.T) {
	router := gin.New()
	var gotParam, gotQuery string
	router.GET("/x/:name", Sanitize(), func(c *gin.Context) {
		gotParam = c.Param("name")
		gotQuery = c.Query("q")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x/%20chill%20?q=%20jazz%20", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "chill", gotParam)
	assert.Equal(t, "jazz", gotQuery)
}

func TestSanitizeToleratesEmptyAndMalformedBodies(t *testing.T) {
	router := gin.New()
	status := http.StatusTeapot
	router.POST("/x", Sanitize(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, body := range []string{"", "   ", `{"broken":`} {
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		status = rr.Code

		assert.Equal(t, http.StatusOK, status, "body %q must pass through", body)
	}
}
