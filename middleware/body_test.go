package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodySizeLimiterRejectsDeclaredOversize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handlerRan := false
	bytesRead := 0

	router := gin.New()
	router.POST("/", BodySizeLimiter(10), func(c *gin.Context) {
		handlerRan = true
		b, _ := io.ReadAll(c.Request.Body)
		bytesRead = len(b)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 1000)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The oversized request must never reach the handler.
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, handlerRan)
	assert.Zero(t, bytesRead)
}

func TestBodySizeLimiterPassesSmallBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got string

	router := gin.New()
	router.POST("/", BodySizeLimiter(10), func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		got = string(b)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", got)
}
