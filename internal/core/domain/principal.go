package domain

// Principal is the identity rebuilt from a verified token for the duration of
// one request. It is never stored.
type Principal struct {
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
}

// HasRole reports whether role, once normalized, is among the principal's roles.
func (p Principal) HasRole(role string) bool {
	want := NormalizeRole(role)
	for _, r := range p.Roles {
		if r == want {
			return true
		}
	}
	return false
}
