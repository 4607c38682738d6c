package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventzone/eventzone-api/internal/core/domain"
	"github.com/eventzone/eventzone-api/internal/security/policy"
)

var publicPrefixes = []string{"/auth/", "/health", "/js/", "/favicon.ico"}

func defaultPolicy(t *testing.T) *policy.Policy {
	t.Helper()
	p, err := policy.New(policy.DefaultRules(publicPrefixes)...)
	require.NoError(t, err)
	return p
}

func principal(roles ...string) *domain.Principal {
	return &domain.Principal{Subject: "someone@example.com", Roles: roles}
}

func TestAuthorize_DefaultTable(t *testing.T) {
	p := defaultPolicy(t)

	tests := []struct {
		name      string
		path      string
		principal *domain.Principal
		allowed   bool
		reason    string
	}{
		{"public without principal", "/auth/login", nil, true, policy.ReasonPublic},
		{"public with principal", "/health/ready", principal(domain.RoleUser), true, policy.ReasonPublic},
		{"static asset", "/js/app.js", nil, true, policy.ReasonPublic},
		{"exact public path", "/favicon.ico", nil, true, policy.ReasonPublic},
		{"public name is not a raw prefix", "/healthcheck-internal", nil, false, policy.ReasonUnauthorized},
		{"public file is not a raw prefix", "/favicon.icon", nil, false, policy.ReasonUnauthorized},
		{"profile needs auth", "/users/me", nil, false, policy.ReasonUnauthorized},
		{"profile any role", "/users/me", principal(domain.RoleUser), true, policy.ReasonAuthenticated},
		{"admin with admin", "/admin/panel", principal(domain.RoleAdmin), true, policy.ReasonRoleGranted},
		{"admin root", "/admin", principal(domain.RoleAdmin), true, policy.ReasonRoleGranted},
		{"admin with user", "/admin/panel", principal(domain.RoleUser), false, policy.ReasonMissingRole},
		{"admin anonymous", "/admin/panel", nil, false, policy.ReasonUnauthorized},
		{"adminx is not admin area", "/adminx", principal(domain.RoleUser), true, policy.ReasonAuthenticated},
		{"user area", "/user/dashboard", principal(domain.RoleUser), true, policy.ReasonRoleGranted},
		{"user area for admin only", "/user/dashboard", principal(domain.RoleAdmin), false, policy.ReasonMissingRole},
		{"catch all", "/events/42", principal(domain.RoleUser), true, policy.ReasonAuthenticated},
		{"catch all anonymous", "/events/42", nil, false, policy.ReasonUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Authorize(tt.path, "GET", tt.principal)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestAuthorize_FailsClosedWithoutMatch(t *testing.T) {
	p, err := policy.New(policy.RoleRule("/admin/**", domain.RoleAdmin))
	require.NoError(t, err)

	d := p.Authorize("/events", "GET", principal(domain.RoleAdmin))
	assert.False(t, d.Allowed)
	assert.Equal(t, policy.ReasonNoRule, d.Reason)

	empty, err := policy.New()
	require.NoError(t, err)
	assert.False(t, empty.Authorize("/", "GET", principal(domain.RoleAdmin)).Allowed)
}

func TestMatch_Specificity(t *testing.T) {
	p, err := policy.New(
		policy.AuthenticatedRule("/**"),
		policy.RoleRule("/events/**", domain.RoleAdmin),
		policy.Rule{Pattern: "/events/**", Methods: []string{"get"}, Access: policy.Public},
		policy.AuthenticatedRule("/events/mine"),
		policy.RoleRule("/events/mine", domain.RoleUser),
	)
	require.NoError(t, err)

	r, ok := p.Match("/events/42", "GET")
	require.True(t, ok)
	assert.Equal(t, policy.Public, r.Access, "method restricted rule wins over same pattern")

	r, _ = p.Match("/events/42", "POST")
	assert.Equal(t, policy.HasRole, r.Access, "longer prefix wins over catch-all")

	r, _ = p.Match("/events/mine", "GET")
	assert.Equal(t, policy.Authenticated, r.Access, "exact wins over prefix, first declared wins among equals")

	r, _ = p.Match("/tickets", "DELETE")
	assert.Equal(t, "/**", r.Pattern)
}

func TestAuthorize_RoleNormalization(t *testing.T) {
	p, err := policy.New(policy.RoleRule("/admin/**", "ROLE_admin"))
	require.NoError(t, err)

	assert.True(t, p.Authorize("/admin/x", "GET", principal(domain.RoleAdmin)).Allowed)
	assert.Equal(t, domain.RoleAdmin, p.Rules()[0].Role)
}

func TestNew_InvalidRules(t *testing.T) {
	for name, r := range map[string]policy.Rule{
		"relative pattern":  policy.PublicRule("admin"),
		"inner wildcard":    policy.PublicRule("/a/*/b"),
		"role without name": policy.RoleRule("/admin/**", " "),
		"unknown access":    {Pattern: "/x", Access: policy.Access(42)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := policy.New(r)
			assert.ErrorIs(t, err, policy.ErrInvalidRule)
		})
	}
}

func TestParse(t *testing.T) {
	rules, err := policy.Parse([]byte(`
rules:
  - pattern: /auth/*
    access: public
  - pattern: /events/**
    methods: [GET]
    access: public
  - pattern: /admin/**
    access: role
    role: ADMIN
  - pattern: /**
    access: authenticated
`))
	require.NoError(t, err)
	require.Len(t, rules, 4)
	assert.Equal(t, []string{"GET"}, rules[1].Methods)
	assert.Equal(t, policy.HasRole, rules[2].Access)
	assert.Equal(t, "ADMIN", rules[2].Role)

	p, err := policy.New(rules...)
	require.NoError(t, err)
	assert.True(t, p.Authorize("/events/1", "GET", nil).Allowed)
	assert.False(t, p.Authorize("/events/1", "POST", nil).Allowed)
}

func TestParse_Errors(t *testing.T) {
	_, err := policy.Parse([]byte(`rules: []`))
	assert.ErrorIs(t, err, policy.ErrInvalidRule)

	_, err = policy.Parse([]byte("rules:\n  - pattern: /x\n    access: sometimes\n"))
	assert.Error(t, err)

	_, err = policy.Parse([]byte("rules: [::"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - pattern: /**\n    access: authenticated\n"), 0o600))

	rules, err := policy.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []policy.Rule{policy.AuthenticatedRule("/**")}, rules)

	_, err = policy.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
