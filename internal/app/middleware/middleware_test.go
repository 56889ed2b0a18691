package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	r := newEngine(SessionMiddleware("", time.Hour))

	t.Run("should issue a session cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, DefaultSessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, cookies[0].Value, w.Body.String())
		assert.NoError(t, uuid.Validate(w.Body.String()))
	})

	t.Run("should keep a valid cookie", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: id})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("should replace a forged cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "../../etc/passwd"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.NotEqual(t, "../../etc/passwd", w.Body.String())
		assert.NoError(t, uuid.Validate(w.Body.String()))
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("should reject requests beyond the burst", func(t *testing.T) {
		r := newEngine(NewRateLimiter(1, 2, nil).Middleware())

		codes := make([]int, 0, 3)
		for range 3 {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
			codes = append(codes, w.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("should track clients separately", func(t *testing.T) {
		r := newEngine(NewRateLimiter(1, 1, nil).Middleware())

		for _, ip := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.RemoteAddr = ip
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, ip)
		}
	})
}

func TestSecurityMiddleware(t *testing.T) {
	r := newEngine(SecurityMiddleware(), MetricsMiddleware())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(CORSMiddleware("https://hotel.example"))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://hotel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://hotel.example", w.Header().Get("Access-Control-Allow-Origin"))
}
