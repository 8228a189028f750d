package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/farm_orders/pkg/httpx"
	"github.com/Gunvolt24/farm_orders/pkg/logger"
)

func TestRequestLogger_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(httpx.RequestIDMiddleware(), httpx.RequestLogger(logger.FromZap(zap.New(core))))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/catalog", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/order/preview", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.POST("/order/email", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for _, rq := range []struct{ method, path string }{
		{http.MethodGet, "/ping"},
		{http.MethodGet, "/catalog"},
		{http.MethodPost, "/order/preview"},
		{http.MethodPost, "/order/email"},
	} {
		req := httptest.NewRequest(rq.method, rq.path, http.NoBody)
		req.Header.Set("X-Request-ID", "rid-"+rq.path)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 3, "/ping не логируется")

	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[0].ContextMap()
	require.Equal(t, "rid-/catalog", fields["request_id"])
	require.Equal(t, "http", fields["source"])
}
