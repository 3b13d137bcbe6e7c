package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobportal_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPropagator(t *testing.T) (*Propagator, string) {
	t.Helper()
	codec := NewTokenCodec(testSecret, time.Hour)
	token, err := codec.Issue("r1", models.UserRoleRecruiter)
	require.NoError(t, err)
	source := FirstOf(CookieSource("jobPortalToken"), BearerSource())
	return NewPropagator(codec, source, DefaultPublicRoutes()), token
}

func TestPropagator_Resolve(t *testing.T) {
	p, token := newTestPropagator(t)

	t.Run("protected without token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/application", nil)
		id, err := p.Resolve(r)
		assert.Nil(t, id)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("protected with invalid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/application", nil)
		r.Header.Set("Authorization", "Bearer nope")
		id, err := p.Resolve(r)
		assert.Nil(t, id)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("protected with bearer", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		id, err := p.Resolve(r)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, "r1", id.SubjectID)
		assert.Equal(t, models.UserRoleRecruiter, id.Role)
	})

	t.Run("protected with cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/api/v1/jobs/42", nil)
		r.AddCookie(&http.Cookie{Name: "jobPortalToken", Value: token})
		id, err := p.Resolve(r)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, "r1", id.SubjectID)
	})

	t.Run("public without token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/42", nil)
		id, err := p.Resolve(r)
		assert.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("public with invalid token stays anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		r.Header.Set("Authorization", "Bearer broken")
		id, err := p.Resolve(r)
		assert.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("public with valid token attaches identity", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/my-jobs", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		id, err := p.Resolve(r)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, "r1", id.SubjectID)
	})
}

func TestPublicRoute_Matches(t *testing.T) {
	route := PublicRoute{Method: http.MethodGet, Prefix: "/api/v1/jobs"}

	assert.True(t, route.Matches(http.MethodGet, "/api/v1/jobs"))
	assert.True(t, route.Matches(http.MethodGet, "/api/v1/jobs/42"))
	assert.False(t, route.Matches(http.MethodGet, "/api/v1/jobsearch"))
	assert.False(t, route.Matches(http.MethodPost, "/api/v1/jobs"))

	anyMethod := PublicRoute{Prefix: "/api/v1/health/"}
	assert.True(t, anyMethod.Matches(http.MethodPost, "/api/v1/health"))
}

func TestBearerSource(t *testing.T) {
	src := BearerSource()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, src(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, src(r))

	r.Header.Set("Authorization", "bearer abc ")
	assert.Equal(t, "abc", src(r))
}

func TestSourcesByName_Order(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "jobPortalToken", Value: "from-cookie"})
	r.Header.Set("Authorization", "Bearer from-header")

	assert.Equal(t, "from-cookie", SourcesByName([]string{"cookie", "bearer"}, "jobPortalToken")(r))
	assert.Equal(t, "from-header", SourcesByName([]string{"bearer", "cookie"}, "jobPortalToken")(r))
	assert.Empty(t, SourcesByName(nil, "jobPortalToken")(r))
}

func TestIdentityHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("x-user-id", "forged")
	h.Set("X-User-Role", "admin")

	StripIdentityHeaders(h)
	_, ok := IdentityFromHeaders(h)
	assert.False(t, ok)

	SetIdentityHeaders(h, Identity{SubjectID: "a1", Role: models.UserRoleApplicant})
	id, ok := IdentityFromHeaders(h)
	require.True(t, ok)
	assert.Equal(t, "a1", id.SubjectID)
	assert.Equal(t, models.UserRoleApplicant, id.Role)

	h.Set(HeaderUserRole, "root")
	_, ok = IdentityFromHeaders(h)
	assert.False(t, ok)
}

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{SubjectID: "a1", Role: models.UserRoleApplicant})
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "a1", id.SubjectID)
}
