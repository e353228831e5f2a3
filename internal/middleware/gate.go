// Package middleware holds the gin middleware that runs before any handler:
// the access gate, role checks and apply throttling.
package middleware

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/auth"
	"github.com/justsurfingit/jobportal/internal/config"
	"github.com/justsurfingit/jobportal/internal/logging"
	"github.com/justsurfingit/jobportal/internal/metrics"
	"github.com/justsurfingit/jobportal/internal/models"
)

const (
	SessionCookie = "portal_session"
	LoginPath     = "/admin/login/"

	identityKey = "identity"
)

var staticPrefixes = []string{"static/", "media/", "favicon.ico"}

// IdentityVerifier resolves a token of the given type to a stored user.
type IdentityVerifier interface {
	VerifyType(ctx context.Context, token string, kind auth.TokenType) (models.Identity, error)
}

type publicRule struct {
	re      *regexp.Regexp
	methods map[string]struct{}
}

// Policy is the compiled allow-list. It is built once and never mutated.
type Policy struct {
	rules []publicRule
}

func NewPolicy(paths []config.PublicPath) (*Policy, error) {
	rules := make([]publicRule, 0, len(paths))
	for _, p := range paths {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, err
		}
		rule := publicRule{re: re}
		if len(p.Methods) > 0 {
			rule.methods = make(map[string]struct{}, len(p.Methods))
			for _, m := range p.Methods {
				rule.methods[strings.ToUpper(m)] = struct{}{}
			}
		}
		rules = append(rules, rule)
	}
	return &Policy{rules: rules}, nil
}

// IsPublic reports whether a normalized path is reachable without credentials.
func (p *Policy) IsPublic(method, path string) bool {
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, rule := range p.rules {
		if !rule.re.MatchString(path) {
			continue
		}
		if rule.methods == nil {
			return true
		}
		if _, ok := rule.methods[method]; ok {
			return true
		}
	}
	return false
}

func NormalizePath(path string) string {
	return strings.TrimLeft(path, "/")
}

func isAPIPath(path string) bool {
	return path == "api" || strings.HasPrefix(path, "api/")
}

type Outcome string

const (
	OutcomeForward  Outcome = "forward"
	OutcomeReject   Outcome = "reject"
	OutcomeRedirect Outcome = "redirect"
	OutcomeError    Outcome = "error"
)

// Decision is the gate's verdict for one request.
type Decision struct {
	Outcome  Outcome
	Identity *models.Identity
	Status   int
	Body     gin.H
	Location string
}

type Gate struct {
	policy   *Policy
	verifier IdentityVerifier
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewGate(policy *Policy, verifier IdentityVerifier, log logrus.FieldLogger, m *metrics.Metrics) *Gate {
	return &Gate{policy: policy, verifier: verifier, log: log, metrics: m}
}

// Evaluate classifies the request. It reads headers and cookies only.
func (g *Gate) Evaluate(r *http.Request) Decision {
	path := NormalizePath(r.URL.Path)
	if g.policy.IsPublic(r.Method, path) {
		return Decision{Outcome: OutcomeForward}
	}
	if isAPIPath(path) {
		return g.evaluateBearer(r)
	}
	return g.evaluateSession(r)
}

func (g *Gate) evaluateBearer(r *http.Request) Decision {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return unauthenticated()
	}
	identity, err := g.verifier.VerifyType(r.Context(), strings.TrimSpace(token), auth.TokenAccess)
	if err != nil {
		if verr, ok := auth.AsVerificationError(err); ok {
			g.log.WithField("kind", verr.Kind).WithField("path", r.URL.Path).Warn("bearer token rejected")
			return unauthenticated()
		}
		g.log.WithError(err).Error("error processing authentication")
		return verificationFailed()
	}
	return Decision{Outcome: OutcomeForward, Identity: &identity}
}

func (g *Gate) evaluateSession(r *http.Request) Decision {
	redirect := Decision{
		Outcome:  OutcomeRedirect,
		Status:   http.StatusFound,
		Location: LoginPath + "?next=" + url.QueryEscape(r.URL.Path),
	}
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return redirect
	}
	identity, err := g.verifier.VerifyType(r.Context(), cookie.Value, auth.TokenSession)
	if err != nil {
		if verr, ok := auth.AsVerificationError(err); ok {
			g.log.WithField("kind", verr.Kind).Info("session rejected")
			return redirect
		}
		g.log.WithError(err).Error("error processing authentication")
		return verificationFailed()
	}
	return Decision{Outcome: OutcomeForward, Identity: &identity}
}

func unauthenticated() Decision {
	return Decision{
		Outcome: OutcomeReject,
		Status:  http.StatusUnauthorized,
		Body:    gin.H{"detail": apperr.ErrNotAuthenticated.Message},
	}
}

func verificationFailed() Decision {
	return Decision{
		Outcome: OutcomeError,
		Status:  http.StatusInternalServerError,
		Body:    gin.H{"detail": "Error processing authentication."},
	}
}

// Middleware applies Evaluate ahead of every handler.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := g.Evaluate(c.Request)
		g.metrics.GateDecision(string(d.Outcome))
		switch d.Outcome {
		case OutcomeForward:
			if d.Identity != nil {
				c.Set(identityKey, *d.Identity)
				logging.SetUserID(c, d.Identity.UserID)
			}
			c.Next()
		case OutcomeRedirect:
			c.Redirect(d.Status, d.Location)
			c.Abort()
		default:
			c.AbortWithStatusJSON(d.Status, d.Body)
		}
	}
}

// IdentityFrom returns the identity attached by the gate, if any.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// RequireIdentity rejects requests the gate forwarded without an identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			err := apperr.ErrNotAuthenticated
			c.AbortWithStatusJSON(err.HTTPStatus(), err.Body())
			return
		}
		c.Next()
	}
}

// RequireElevated allows only elevated identities through.
func RequireElevated() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			err := apperr.ErrNotAuthenticated
			c.AbortWithStatusJSON(err.HTTPStatus(), err.Body())
			return
		}
		if !identity.Elevated() {
			err := apperr.ErrPermissionDenied
			c.AbortWithStatusJSON(err.HTTPStatus(), err.Body())
			return
		}
		c.Next()
	}
}
