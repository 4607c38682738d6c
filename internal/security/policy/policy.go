// Package policy holds the static path → access table consulted after a
// request has been authenticated.
//
// Patterns come in three forms:
//
//	/users/me     exact path
//	/admin/**     /admin itself and everything below /admin/
//	/js*          any path starting with the literal "/js"
//
// The most specific matching rule decides: exact beats prefix, a longer
// literal beats a shorter one, a rule restricted to methods beats one that is
// not, and among equals the first declared wins. A path no rule matches is
// denied.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

// Access is the predicate a rule applies to the principal.
type Access int

const (
	Public Access = iota
	Authenticated
	HasRole
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case HasRole:
		return "role"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// ParseAccess is the inverse of Access.String.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, nil
	case "authenticated", "any-authenticated":
		return Authenticated, nil
	case "role", "has-role":
		return HasRole, nil
	default:
		return 0, fmt.Errorf("policy: unknown access %q", s)
	}
}

// Rule maps a path pattern to the access it requires.
type Rule struct {
	Pattern string
	Methods []string // empty matches every method
	Access  Access
	Role    string // only for HasRole
}

func PublicRule(pattern string) Rule {
	return Rule{Pattern: pattern, Access: Public}
}

func AuthenticatedRule(pattern string) Rule {
	return Rule{Pattern: pattern, Access: Authenticated}
}

func RoleRule(pattern, role string) Rule {
	return Rule{Pattern: pattern, Access: HasRole, Role: role}
}

// Decision reasons.
const (
	ReasonPublic        = "public"
	ReasonAuthenticated = "authenticated"
	ReasonRoleGranted   = "role_granted"
	ReasonNoRule        = "no_matching_rule"
	ReasonUnauthorized  = "authentication_required"
	ReasonMissingRole   = "missing_role"
)

// Decision is the outcome of Authorize. Rule is empty when nothing matched.
type Decision struct {
	Allowed bool
	Reason  string
	Rule    Rule
}

var ErrInvalidRule = errors.New("policy: invalid rule")

type matchKind int

const (
	kindRawPrefix matchKind = iota
	kindSegmentPrefix
	kindExact
)

type compiledRule struct {
	Rule
	kind    matchKind
	literal string
	methods map[string]struct{}
	order   int
}

// Policy is immutable once built and safe for concurrent use.
type Policy struct {
	rules []compiledRule
}

// New validates and compiles rules in declared order.
func New(rules ...Rule) (*Policy, error) {
	p := &Policy{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		cr, err := compile(r, i)
		if err != nil {
			return nil, err
		}
		p.rules = append(p.rules, cr)
	}
	return p, nil
}

func compile(r Rule, order int) (compiledRule, error) {
	if !strings.HasPrefix(r.Pattern, "/") {
		return compiledRule{}, fmt.Errorf("%w: pattern %q must start with /", ErrInvalidRule, r.Pattern)
	}

	cr := compiledRule{Rule: r, order: order}
	switch {
	case strings.HasSuffix(r.Pattern, "/**"):
		cr.kind = kindSegmentPrefix
		cr.literal = strings.TrimSuffix(r.Pattern, "/**")
	case strings.HasSuffix(r.Pattern, "*"):
		cr.kind = kindRawPrefix
		cr.literal = strings.TrimSuffix(r.Pattern, "*")
	default:
		cr.kind = kindExact
		cr.literal = r.Pattern
	}
	if strings.Contains(cr.literal, "*") {
		return compiledRule{}, fmt.Errorf("%w: wildcard only allowed at the end of %q", ErrInvalidRule, r.Pattern)
	}

	switch r.Access {
	case Public, Authenticated:
		cr.Role = ""
	case HasRole:
		cr.Role = domain.NormalizeRole(r.Role)
		if cr.Role == "" {
			return compiledRule{}, fmt.Errorf("%w: pattern %q requires a role", ErrInvalidRule, r.Pattern)
		}
	default:
		return compiledRule{}, fmt.Errorf("%w: pattern %q has unknown access %d", ErrInvalidRule, r.Pattern, r.Access)
	}

	if len(r.Methods) > 0 {
		cr.methods = make(map[string]struct{}, len(r.Methods))
		for _, m := range r.Methods {
			cr.methods[strings.ToUpper(strings.TrimSpace(m))] = struct{}{}
		}
	}
	return cr, nil
}

func (r compiledRule) matches(path, method string) bool {
	if r.methods != nil {
		if _, ok := r.methods[strings.ToUpper(method)]; !ok {
			return false
		}
	}
	switch r.kind {
	case kindExact:
		return path == r.literal
	case kindSegmentPrefix:
		return path == r.literal || strings.HasPrefix(path, r.literal+"/")
	default:
		return strings.HasPrefix(path, r.literal)
	}
}

// moreSpecific reports whether r should win over other. Declared order breaks
// ties, so an equal rule never replaces an earlier one.
func (r compiledRule) moreSpecific(other compiledRule) bool {
	if (r.kind == kindExact) != (other.kind == kindExact) {
		return r.kind == kindExact
	}
	if len(r.literal) != len(other.literal) {
		return len(r.literal) > len(other.literal)
	}
	if (r.methods != nil) != (other.methods != nil) {
		return r.methods != nil
	}
	return false
}

// Match returns the rule that governs path and method.
func (p *Policy) Match(path, method string) (Rule, bool) {
	best := -1
	for i, r := range p.rules {
		if !r.matches(path, method) {
			continue
		}
		if best < 0 || r.moreSpecific(p.rules[best]) {
			best = i
		}
	}
	if best < 0 {
		return Rule{}, false
	}
	return p.rules[best].Rule, true
}

// Authorize decides whether principal may reach path. A nil principal means
// the request carried no verified token.
func (p *Policy) Authorize(path, method string, principal *domain.Principal) Decision {
	rule, ok := p.Match(path, method)
	if !ok {
		return Decision{Reason: ReasonNoRule}
	}

	switch rule.Access {
	case Public:
		return Decision{Allowed: true, Reason: ReasonPublic, Rule: rule}
	case Authenticated:
		if principal == nil {
			return Decision{Reason: ReasonUnauthorized, Rule: rule}
		}
		return Decision{Allowed: true, Reason: ReasonAuthenticated, Rule: rule}
	case HasRole:
		if principal == nil {
			return Decision{Reason: ReasonUnauthorized, Rule: rule}
		}
		if !principal.HasRole(rule.Role) {
			return Decision{Reason: ReasonMissingRole, Rule: rule}
		}
		return Decision{Allowed: true, Reason: ReasonRoleGranted, Rule: rule}
	default:
		return Decision{Reason: ReasonNoRule, Rule: rule}
	}
}

// Rules returns a copy of the compiled table in declared order.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	for i, r := range p.rules {
		out[i] = r.Rule
	}
	return out
}

// DefaultRules is the table the service runs with when no policy file is
// configured: every public path, bounded on segments as PublicPaths matches
// them, then the role areas, then a catch-all requiring authentication.
func DefaultRules(publicPrefixes []string) []Rule {
	rules := make([]Rule, 0, len(publicPrefixes)+4)
	for _, prefix := range publicPrefixes {
		if prefix == "" {
			continue
		}
		rules = append(rules, PublicRule(strings.TrimSuffix(prefix, "/")+"/**"))
	}
	return append(rules,
		AuthenticatedRule("/users/me"),
		RoleRule("/admin/**", domain.RoleAdmin),
		RoleRule("/user/**", domain.RoleUser),
		AuthenticatedRule("/**"),
	)
}
