package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveWithGinMiddleware(t *testing.T, handler gin.HandlerFunc, path string) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-1")
		c.Next()
	})
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET(path, handler)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return logs
}

func TestGinMiddlewareLogsAtInfoOnSuccess(t *testing.T) {
	logs := serveWithGinMiddleware(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}, "/items")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "http request", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/items", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestGinMiddlewareLogsAtWarnOnClientError(t *testing.T) {
	logs := serveWithGinMiddleware(t, func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{})
	}, "/items")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestGinMiddlewareLogsAtErrorOnServerError(t *testing.T) {
	logs := serveWithGinMiddleware(t, func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{})
	}, "/items")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) {
		panic("unexpected")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}
