package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) (*gin.Engine, *string) {
	var seen string
	r := gin.New()
	r.Use(mw...)
	r.Any("/ping", func(c *gin.Context) {
		seen = GetCustomerID(c) + GetRequestID(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCustomerSession_IssuesCookie(t *testing.T) {
	r, seen := newEngine(CustomerSession(false))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.Equal(t, cookies[0].Value, *seen)
}

func TestCustomerSession_ReusesValidCookie(t *testing.T) {
	r, seen := newEngine(CustomerSession(true))
	id := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	w := serve(r, req)

	assert.Equal(t, id, *seen)
	assert.True(t, w.Result().Cookies()[0].Secure)
}

func TestCustomerSession_ReplacesMalformedCookie(t *testing.T) {
	r, seen := newEngine(CustomerSession(false))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "../../etc/passwd"})
	serve(r, req)

	assert.NoError(t, uuid.Validate(*seen))
}

func TestRequestID(t *testing.T) {
	r, seen := newEngine(RequestID())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NoError(t, uuid.Validate(generated))
	assert.Equal(t, generated, *seen)

	incoming := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = serve(r, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestRequestSizeLimit(t *testing.T) {
	r, _ := newEngine(RequestSizeLimit(8))

	w := serve(r, httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{"a":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	log := logrus.New()
	log.SetOutput(&strings.Builder{})
	r, _ := newEngine(RateLimit(1, client, log))

	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_WindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	r, _ := newEngine(RateLimit(1, client, logrus.New()))

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	var hasDeadline bool
	r.GET("/ping", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.True(t, hasDeadline)
}

func TestSecurityHeaders(t *testing.T) {
	r, _ := newEngine(SecurityHeaders())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"https://shop.example.in", "*.medicare.in"}

	assert.True(t, isOriginAllowed("https://shop.example.in", allowed))
	assert.True(t, isOriginAllowed("https://admin.medicare.in", allowed))
	assert.False(t, isOriginAllowed("https://evil.example.in", allowed))
	assert.True(t, isOriginAllowed("https://anything", []string{"*"}))
}
