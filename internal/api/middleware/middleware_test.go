package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"burst-backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(router, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	w = serve(router, http.MethodGet, "/", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(router, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS(&config.Config{AllowedOrigins: []string{"https://app.burst.test"}}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/", map[string]string{"Origin": "https://app.burst.test"})
	assert.Equal(t, "https://app.burst.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodGet, "/", map[string]string{"Origin": "https://evil.test"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodOptions, "/", map[string]string{"Origin": "https://app.burst.test"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAllowedHosts(t *testing.T) {
	tests := []struct {
		host    string
		allowed []string
		want    int
	}{
		{"localhost:8000", []string{"localhost"}, http.StatusOK},
		{"burst.test", []string{".burst.test"}, http.StatusOK},
		{"www.burst.test", []string{".burst.test"}, http.StatusOK},
		{"burst.test.evil", []string{".burst.test"}, http.StatusBadRequest},
		{"anything", []string{"*"}, http.StatusOK},
		{"other.test", []string{"burst.test"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			router := gin.New()
			router.Use(AllowedHosts(tt.allowed))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
