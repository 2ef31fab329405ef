// Package routing decides where a session may navigate. The decision table
// maps each role to a home location and a set of allowed path prefixes;
// everything outside a role's area bounces to that role's home, and anonymous
// visitors bounce to the login entry. The table is configuration data, so new
// roles or areas extend the table rather than the algorithm.
package routing

import (
	"fmt"
	"strings"

	"github.com/agriverse/agriverse/internal/shared"
)

// SessionState is the router's view of the session lifecycle.
type SessionState int

const (
	// StateUnresolved means the session is still being restored; the router
	// must take no action to avoid a redirect flicker before restore completes.
	StateUnresolved SessionState = iota
	// StateAnonymous means no identity is present.
	StateAnonymous
	// StateAuthenticated means an identity with a role is present.
	StateAuthenticated
)

// Snapshot is the router input: session state plus role when authenticated.
type Snapshot struct {
	State SessionState
	Role  shared.Role
}

// Decision is the router output. Redirect is false when the current location
// is acceptable as-is.
type Decision struct {
	Redirect bool
	Target   string
}

// Rule describes one role's navigation area.
type Rule struct {
	Home     string
	Prefixes []string
}

// Policy is an immutable role-to-area decision table.
type Policy struct {
	rules     map[shared.Role]Rule
	entry     []string
	loginPath string
}

// NewPolicy validates and builds a Policy. Every home location must fall
// under one of its own role's prefixes, which makes the policy loop-free by
// construction: redirecting into home can never trigger another redirect.
func NewPolicy(rules map[shared.Role]Rule, entryLocations []string, loginPath string) (*Policy, error) {
	if loginPath == "" {
		return nil, fmt.Errorf("routing: login path required")
	}
	for role, rule := range rules {
		if rule.Home == "" || len(rule.Prefixes) == 0 {
			return nil, fmt.Errorf("routing: role %q needs a home and at least one prefix", role)
		}
		if !matchesAny(rule.Home, rule.Prefixes) {
			return nil, fmt.Errorf("routing: role %q home %q not covered by its own prefixes", role, rule.Home)
		}
	}
	copied := make(map[shared.Role]Rule, len(rules))
	for role, rule := range rules {
		copied[role] = Rule{Home: rule.Home, Prefixes: append([]string(nil), rule.Prefixes...)}
	}
	return &Policy{
		rules:     copied,
		entry:     append([]string(nil), entryLocations...),
		loginPath: loginPath,
	}, nil
}

// DefaultPolicy returns the production decision table.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(map[shared.Role]Rule{
		shared.RoleFarmer: {
			Home: "/dashboard",
			Prefixes: []string{
				"/dashboard", "/storage", "/marketplace", "/settings",
				"/resources", "/waste", "/coops", "/farmgpt", "/warechain",
			},
		},
		shared.RoleBuyer: {
			Home:     "/buyer",
			Prefixes: []string{"/buyer", "/marketplace", "/profile"},
		},
		shared.RoleGodownAdmin: {
			Home:     "/admin",
			Prefixes: []string{"/admin", "/requests", "/godowns", "/market"},
		},
	}, []string{"/login", "/signup"}, "/login")
	if err != nil {
		panic(err)
	}
	return p
}

// Evaluate applies the routing rules to the current location. It is pure and
// idempotent: evaluating again at the decided target yields no redirect.
func (p *Policy) Evaluate(snap Snapshot, location string) Decision {
	if snap.State == StateUnresolved {
		return Decision{}
	}

	if snap.State == StateAnonymous {
		// Entry locations stay reachable while anonymous so an in-progress
		// login/signup is never bounced away mid-flight.
		if matchesAny(location, p.entry) {
			return Decision{}
		}
		return Decision{Redirect: true, Target: p.loginPath}
	}

	rule, ok := p.rules[snap.Role]
	if !ok {
		return Decision{Redirect: true, Target: p.loginPath}
	}
	if matchesAny(location, rule.Prefixes) {
		return Decision{}
	}
	return Decision{Redirect: true, Target: rule.Home}
}

// Home returns the home location for a role, falling back to login for
// unknown roles.
func (p *Policy) Home(role shared.Role) string {
	if rule, ok := p.rules[role]; ok {
		return rule.Home
	}
	return p.loginPath
}

// Allows reports whether the role may visit the location without a redirect.
func (p *Policy) Allows(role shared.Role, location string) bool {
	rule, ok := p.rules[role]
	return ok && matchesAny(location, rule.Prefixes)
}

// matchesAny is segment-aware prefix matching: /dashboard covers /dashboard
// and /dashboard/requests but not /dashboardx.
func matchesAny(location string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if location == prefix {
			return true
		}
		if strings.HasPrefix(location, prefix) && len(location) > len(prefix) && location[len(prefix)] == '/' {
			return true
		}
	}
	return false
}
