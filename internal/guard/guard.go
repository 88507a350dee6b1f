// Package guard enforces authentication and role requirements before a
// navigation or command is allowed to proceed.
package guard

import (
	"context"
	"net/url"

	"github.com/amanf244/mars4/internal/api"
	"github.com/amanf244/mars4/internal/session"
)

// Rule declares what a route requires
type Rule struct {
	RequiresAuth bool
	Role         string // required role, empty = any authenticated user
	GuestOnly    bool   // e.g. the login page
}

// Decision is the guard's verdict
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectForbidden
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectForbidden:
		return "redirect-forbidden"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Outcome carries the verdict plus the destination for redirects
type Outcome struct {
	Decision Decision
	Location string
}

// Allowed reports whether navigation may proceed
func (o Outcome) Allowed() bool {
	return o.Decision == Allow
}

// Guard checks navigation targets against the session. It always awaits
// session restoration first, so checks fired before restore resolves all
// observe the same outcome.
type Guard struct {
	sessions *session.Manager

	LoginPath     string
	ForbiddenPath string
	AdminHome     string
	UserHome      string
}

// New creates a guard with the default destinations
func New(sessions *session.Manager) *Guard {
	return &Guard{
		sessions:      sessions,
		LoginPath:     "/login",
		ForbiddenPath: "/403",
		AdminHome:     "/dashboard/admin",
		UserHome:      "/dashboard/user",
	}
}

// Check evaluates a rule for the given navigation target. The target is
// preserved as a redirect parameter so a successful login can forward the
// user to where they were headed.
func (g *Guard) Check(ctx context.Context, target string, rule Rule) Outcome {
	// Idempotent and coalesced; restore failures resolve to an
	// unauthenticated ready session rather than surfacing here.
	_ = g.sessions.Restore(ctx)

	authenticated := g.sessions.IsAuthenticated()

	if rule.GuestOnly && authenticated {
		home := g.UserHome
		if g.sessions.IsAdmin() {
			home = g.AdminHome
		}
		return Outcome{Decision: RedirectHome, Location: home}
	}

	if rule.RequiresAuth && !authenticated {
		location := g.LoginPath
		if target != "" && target != g.LoginPath {
			location += "?redirect=" + url.QueryEscape(target)
		}
		return Outcome{Decision: RedirectLogin, Location: location}
	}

	if rule.Role != "" && g.sessions.Role() != rule.Role {
		return Outcome{Decision: RedirectForbidden, Location: g.ForbiddenPath}
	}

	return Outcome{Decision: Allow}
}

// RequireRole is a convenience rule for admin-gated commands
func RequireRole(role string) Rule {
	return Rule{RequiresAuth: true, Role: role}
}

// RequireAuth is a convenience rule for authenticated commands
func RequireAuth() Rule {
	return Rule{RequiresAuth: true}
}

// AdminRule gates admin-only surfaces
func AdminRule() Rule {
	return RequireRole(api.RoleAdmin)
}
