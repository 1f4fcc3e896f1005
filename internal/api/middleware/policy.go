package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/identity"
	"github.com/traymate/backend/internal/pkg/metrics"
)

type requirementKind int

const (
	requirePublic requirementKind = iota
	requireAuthenticated
	requireRole
)

// Requirement is what a caller must satisfy to reach a route.
type Requirement struct {
	kind requirementKind
	role domain.Role
}

// Public lets anyone through.
func Public() Requirement { return Requirement{kind: requirePublic} }

// Authenticated requires a resolved identity of any role.
func Authenticated() Requirement { return Requirement{kind: requireAuthenticated} }

// RequireRole requires a resolved identity with exactly the given role.
func RequireRole(role domain.Role) Requirement {
	return Requirement{kind: requireRole, role: role}
}

func (r Requirement) String() string {
	switch r.kind {
	case requirePublic:
		return "public"
	case requireAuthenticated:
		return "authenticated"
	default:
		return "role:" + r.role.String()
	}
}

// Rule binds a requirement to a method and path pattern. An empty Method
// matches every method. Pattern is either an exact path or "prefix/**",
// which matches the prefix itself and everything below it.
type Rule struct {
	Method      string
	Pattern     string
	Requirement Requirement
}

func (r Rule) matches(method, p string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return p == prefix || p == prefix+"/" || strings.HasPrefix(p, prefix+"/")
	}
	return p == r.Pattern
}

// Decision is the outcome of evaluating a request against a Policy.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Policy is an ordered rule table evaluated first-match. Requests that match
// no rule must be authenticated.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultRules returns the route table of the Traymate API.
func DefaultRules() []Rule {
	return []Rule{
		{Method: http.MethodOptions, Pattern: "/**", Requirement: Public()},
		{Pattern: "/", Requirement: Public()},
		{Pattern: "/health", Requirement: Public()},
		{Pattern: "/health/**", Requirement: Public()},
		{Pattern: "/metrics", Requirement: Public()},
		{Pattern: "/swagger/**", Requirement: Public()},
		{Method: http.MethodPost, Pattern: "/auth/login", Requirement: Public()},
		{Pattern: "/auth/register", Requirement: RequireRole(domain.RoleAdmin)},
		{Pattern: "/admin/**", Requirement: RequireRole(domain.RoleAdmin)},
		{Pattern: "/caregiver/**", Requirement: RequireRole(domain.RoleCaregiver)},
		{Pattern: "/kitchen/**", Requirement: RequireRole(domain.RoleKitchenStaff)},
	}
}

// Requirement returns the requirement of the first rule matching the request.
func (p *Policy) Requirement(method, urlPath string) Requirement {
	clean := cleanPath(urlPath)
	for _, r := range p.rules {
		if r.matches(method, clean) {
			return r.Requirement
		}
	}
	return Authenticated()
}

// Decide evaluates a request. ok reports whether id is a resolved identity.
func (p *Policy) Decide(method, urlPath string, id domain.Identity, ok bool) Decision {
	req := p.Requirement(method, urlPath)
	switch req.kind {
	case requirePublic:
		return Allow
	case requireAuthenticated:
		if !ok {
			return DenyUnauthenticated
		}
		return Allow
	default:
		if !ok {
			return DenyUnauthenticated
		}
		if id.Role != req.role {
			return DenyForbidden
		}
		return Allow
	}
}

// Middleware enforces the policy, reading the identity attached by Identity.
func (p *Policy) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id, ok := identity.FromContext(req.Context())
			decision := p.Decide(req.Method, req.URL.Path, id, ok)
			metrics.AccessDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case DenyUnauthenticated:
				return domain.ErrUnauthenticated
			case DenyForbidden:
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// cleanPath resolves dot segments and drops a trailing slash so that
// "/admin/../auth/register/" is judged as "/auth/register".
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}
