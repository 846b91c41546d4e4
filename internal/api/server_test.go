package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"zoracoin/internal/api/health"
	"zoracoin/pkg/logger"
)

func TestServerRoutes(t *testing.T) {
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	h := health.New(logger.NewNop(), "zora-coin-mcp", "1.0.0", "", nil)
	srv := NewServer(ServerConfig{ServiceName: "zora-coin-mcp", Version: "1.0.0", MCP: mcp}, h, logger.NewNop())

	tests := []struct {
		path string
		code int
	}{
		{path: "/", code: http.StatusOK},
		{path: "/health/live", code: http.StatusOK},
		{path: "/health", code: http.StatusOK},
		{path: "/metrics", code: http.StatusOK},
		{path: MCPPath, code: http.StatusAccepted},
		{path: "/nope", code: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"service":"zora-coin-mcp","version":"1.0.0","status":"running"}`, rec.Body.String())
}
