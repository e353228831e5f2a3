package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobportal/internal/auth"
	"github.com/justsurfingit/jobportal/internal/config"
	"github.com/justsurfingit/jobportal/internal/metrics"
	"github.com/justsurfingit/jobportal/internal/models"
)

type fakeVerifier struct {
	identity models.Identity
	err      error
	calls    int
	kinds    []auth.TokenType
}

func (f *fakeVerifier) VerifyType(_ context.Context, _ string, kind auth.TokenType) (models.Identity, error) {
	f.calls++
	f.kinds = append(f.kinds, kind)
	return f.identity, f.err
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestGate(t *testing.T, v IdentityVerifier) *Gate {
	t.Helper()
	policy, err := NewPolicy(config.DefaultPublicPaths())
	require.NoError(t, err)
	return NewGate(policy, v, quietLogger(), nil)
}

func TestPolicyIsPublic(t *testing.T) {
	policy, err := NewPolicy(config.DefaultPublicPaths())
	require.NoError(t, err)

	cases := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "admin/login/", true},
		{http.MethodPost, "api/token/", true},
		{http.MethodPost, "api/token/refresh/", true},
		{http.MethodGet, "api/docs/index", true},
		{http.MethodGet, "static/app.css", true},
		{http.MethodGet, "media/resumes/a.pdf", true},
		{http.MethodGet, "favicon.ico", true},
		{http.MethodPost, "api/apply", true},
		{http.MethodPost, "api/apply/", true},
		{http.MethodGet, "api/apply", false},
		{http.MethodPost, "api/applicants", true},
		{http.MethodGet, "api/applicants", false},
		{http.MethodGet, "api/jobs", false},
		{http.MethodGet, "admin/", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, policy.IsPublic(tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}

func TestNewPolicyRejectsBadPattern(t *testing.T) {
	_, err := NewPolicy([]config.PublicPath{{Pattern: "("}})
	assert.Error(t, err)
}

func TestEvaluatePublicPathSkipsVerifier(t *testing.T) {
	v := &fakeVerifier{}
	g := newTestGate(t, v)

	d := g.Evaluate(httptest.NewRequest(http.MethodPost, "/api/apply/", nil))
	assert.Equal(t, OutcomeForward, d.Outcome)
	assert.Nil(t, d.Identity)
	assert.Zero(t, v.calls)
}

func TestEvaluateAPIRejectsMissingOrMalformedHeader(t *testing.T) {
	v := &fakeVerifier{}
	g := newTestGate(t, v)

	for _, header := range []string{"", "Token abc", "Bearer ", "bearer abc", "Basic dXNlcg=="} {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		d := g.Evaluate(req)
		assert.Equal(t, OutcomeReject, d.Outcome, header)
		assert.Equal(t, http.StatusUnauthorized, d.Status, header)
		assert.Equal(t, "Authentication credentials were not provided or are invalid.", d.Body["detail"])
	}
	assert.Zero(t, v.calls)
}

func TestEvaluateAPIVerificationFailuresShareOneResponse(t *testing.T) {
	for _, kind := range []auth.FailureKind{auth.FailureInvalid, auth.FailureExpired, auth.FailureMalformed} {
		v := &fakeVerifier{err: &auth.VerificationError{Kind: kind}}
		g := newTestGate(t, v)

		req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
		req.Header.Set("Authorization", "Bearer token")
		d := g.Evaluate(req)

		assert.Equal(t, OutcomeReject, d.Outcome, kind)
		assert.Equal(t, http.StatusUnauthorized, d.Status, kind)
		assert.Equal(t, "Authentication credentials were not provided or are invalid.", d.Body["detail"])
	}
}

func TestEvaluateAPIUnexpectedErrorIs500(t *testing.T) {
	v := &fakeVerifier{err: errors.New("connection refused")}
	g := newTestGate(t, v)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.Header.Set("Authorization", "Bearer token")
	d := g.Evaluate(req)

	assert.Equal(t, OutcomeError, d.Outcome)
	assert.Equal(t, http.StatusInternalServerError, d.Status)
	assert.Equal(t, "Error processing authentication.", d.Body["detail"])
}

func TestEvaluateAPIForwardsIdentity(t *testing.T) {
	v := &fakeVerifier{identity: models.Identity{UserID: 7, Email: "a@x.com", Role: models.RoleStandard}}
	g := newTestGate(t, v)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.Header.Set("Authorization", "Bearer token")
	d := g.Evaluate(req)

	require.Equal(t, OutcomeForward, d.Outcome)
	require.NotNil(t, d.Identity)
	assert.Equal(t, uint(7), d.Identity.UserID)
	assert.Equal(t, []auth.TokenType{auth.TokenAccess}, v.kinds)
}

func TestEvaluateNonAPIRedirectsWithoutSession(t *testing.T) {
	v := &fakeVerifier{err: &auth.VerificationError{Kind: auth.FailureExpired}}
	g := newTestGate(t, v)

	d := g.Evaluate(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	assert.Equal(t, OutcomeRedirect, d.Outcome)
	assert.Equal(t, http.StatusFound, d.Status)
	assert.Equal(t, "/admin/login/?next=%2Fadmin%2F", d.Location)
	assert.Zero(t, v.calls)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
	d = g.Evaluate(req)
	assert.Equal(t, OutcomeRedirect, d.Outcome)
	assert.Equal(t, []auth.TokenType{auth.TokenSession}, v.kinds)
}

func TestEvaluateNonAPIForwardsValidSession(t *testing.T) {
	v := &fakeVerifier{identity: models.Identity{UserID: 1, Role: models.RoleElevated}}
	g := newTestGate(t, v)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "session"})
	d := g.Evaluate(req)
	assert.Equal(t, OutcomeForward, d.Outcome)
	require.NotNil(t, d.Identity)
	assert.True(t, d.Identity.Elevated())
}

func TestMiddlewareStopsBeforeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	policy, err := NewPolicy(config.DefaultPublicPaths())
	require.NoError(t, err)
	m := metrics.New()
	g := NewGate(policy, &fakeVerifier{err: &auth.VerificationError{Kind: auth.FailureInvalid}}, quietLogger(), m)

	reached := 0
	r := gin.New()
	r.Use(g.Middleware())
	r.GET("/api/jobs", func(c *gin.Context) { reached++ })

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided or are invalid."}`, w.Body.String())
	assert.Zero(t, reached)
	assert.Equal(t, 1.0, m.GateDecisionCount("reject"))
}

func TestRequireElevated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name     string
		identity models.Identity
		want     int
	}{
		{"standard", models.Identity{UserID: 1, Role: models.RoleStandard}, http.StatusForbidden},
		{"elevated", models.Identity{UserID: 2, Role: models.RoleElevated}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGate(t, &fakeVerifier{identity: tc.identity})
			r := gin.New()
			r.Use(g.Middleware())
			r.PATCH("/api/applications/:id/status", RequireElevated(), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPatch, "/api/applications/1/status", nil)
			req.Header.Set("Authorization", "Bearer token")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
