package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-0123456789ab"

func init() {
	gin.SetMode(gin.TestMode)
}

// whoami отвечает личностью запроса: "<id>/<role>" или "anonymous"
func whoami(c *gin.Context) {
	id, ok := GetIdentity(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.SubjectID+"/"+string(id.Role))
}

func newPropagator() (*auth.Propagator, *auth.TokenCodec) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	source := auth.FirstOf(auth.CookieSource("jobPortalToken"), auth.BearerSource())
	return auth.NewPropagator(codec, source, auth.DefaultPublicRoutes()), codec
}

func newIdentityRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/api/v1/jobs", whoami)
	r.POST("/api/v1/jobs", whoami)
	r.GET("/api/v1/application", whoami)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	p, codec := newPropagator()
	r := newIdentityRouter(Authenticate(p))

	token, err := codec.Issue("rec-1", models.UserRoleRecruiter)
	require.NoError(t, err)

	t.Run("protected without token", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodPost, "/api/v1/jobs", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("forged headers are ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", nil)
		req.Header.Set(auth.HeaderUserID, "rec-1")
		req.Header.Set(auth.HeaderUserRole, "recruiter")
		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("cookie token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", nil)
		req.AddCookie(&http.Cookie{Name: "jobPortalToken", Value: token})
		w := do(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rec-1/recruiter", w.Body.String())
	})

	t.Run("public route stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Bearer broken")
		w := do(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})
}

func TestPropagateIdentity_SetsTrustedHeaders(t *testing.T) {
	p, codec := newPropagator()
	r := gin.New()
	r.Use(PropagateIdentity(p))
	r.GET("/api/v1/application", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.Header.Get(auth.HeaderUserID)+"|"+c.Request.Header.Get(auth.HeaderUserRole))
	})
	r.GET("/api/v1/jobs", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.Header.Get(auth.HeaderUserID)+"|"+c.Request.Header.Get(auth.HeaderUserRole))
	})

	token, err := codec.Issue("app-1", models.UserRoleApplicant)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/application", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(auth.HeaderUserRole, "admin")
	w := do(r, req)
	assert.Equal(t, "app-1|applicant", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set(auth.HeaderUserID, "forged")
	w = do(r, req)
	assert.Equal(t, "|", w.Body.String())
}

func TestTrustedIdentity(t *testing.T) {
	r := newIdentityRouter(TrustedIdentity(auth.DefaultPublicRoutes()))

	t.Run("headers carry identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/application", nil)
		req.Header.Set(auth.HeaderUserID, "app-1")
		req.Header.Set(auth.HeaderUserRole, "applicant")
		w := do(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "app-1/applicant", w.Body.String())
	})

	t.Run("missing identity on protected route", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/application", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown role is not an identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/application", nil)
		req.Header.Set(auth.HeaderUserID, "app-1")
		req.Header.Set(auth.HeaderUserRole, "root")
		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("public route without identity", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("k", 2, time.Minute))
	assert.True(t, limiter.Allow("k", 2, time.Minute))
	assert.False(t, limiter.Allow("k", 2, time.Minute))
	assert.True(t, limiter.Allow("other", 2, time.Minute))

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("k", 2, time.Minute))

	assert.True(t, limiter.Allow("k", 0, time.Minute), "non-positive limit disables limiting")
}

func TestRateLimit_Middleware(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewRateLimiter(), ByClientIP("login"), 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := do(r, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := do(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimit_BySubjectSkipsAnonymous(t *testing.T) {
	r := gin.New()
	r.POST("/apply", RateLimit(NewRateLimiter(), BySubject("apply"), 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := do(r, httptest.NewRequest(http.MethodPost, "/apply", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRedisLimiter_NilClientAllows(t *testing.T) {
	limiter := NewRedisLimiter(nil)
	assert.True(t, limiter.Allow("k", 1, time.Minute))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := do(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "gw-123")
	w := do(r, req)
	assert.Equal(t, "gw-123", w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "bad id\nwith newline")
	w = do(r, req)
	assert.NotEqual(t, "bad id\nwith newline", w.Header().Get(HeaderRequestID))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}
