// Package token mints and decodes the signed session tokens carried by the
// jwt_token cookie or the Authorization header.
//
// Tokens are HS256 JWTs holding the subject, the normalized role list, the
// issue time and the expiry. Nothing is stored server side: a token is valid
// exactly as long as its signature checks out and it has not expired.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

// MinSecretLength is the shortest signing secret accepted, matching the
// HS256 output size.
const MinSecretLength = 32

// DefaultTTL is the validity window used when none is configured.
const DefaultTTL = 10 * time.Hour

var signingMethod = jwt.SigningMethodHS256

// expiryLeeway keeps a token valid at the exact instant of its exp claim;
// jwt alone rejects now == exp.
const expiryLeeway = time.Nanosecond

var (
	ErrSecretTooShort = fmt.Errorf("token: signing secret must be at least %d bytes", MinSecretLength)
	ErrInvalidClaims  = errors.New("token: subject and at least one role are required")
)

// Claims is the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// Codec signs and verifies tokens with a process-wide secret. It holds no
// mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

type Option func(*Codec)

// WithIssuer sets the iss claim written and required by the codec.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret []byte, ttl time.Duration, opts ...Option) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(expiryLeeway),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}
	c.parser = jwt.NewParser(parserOpts...)
	return c, nil
}

// TTL is the validity window applied to every minted token.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Mint issues a token for subject valid from now until now+TTL.
func (c *Codec) Mint(subject string, roles []string) (string, error) {
	roles = domain.NormalizeRoles(roles)
	if subject == "" || len(roles) == 0 {
		return "", ErrInvalidClaims
	}

	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies raw and returns the principal it carries. Errors wrap one of
// domain.ErrTokenMalformed, domain.ErrTokenBadSignature, domain.ErrTokenExpired
// or, for failures that are not the caller's fault, domain.ErrInternalFault.
func (c *Codec) Decode(raw string) (domain.Principal, error) {
	if raw == "" {
		return domain.Principal{}, domain.ErrTokenMalformed
	}

	var claims Claims
	_, err := c.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return domain.Principal{}, classify(err)
	}

	if claims.Subject == "" || len(claims.Roles) == 0 {
		return domain.Principal{}, fmt.Errorf("%w: missing subject or roles", domain.ErrTokenMalformed)
	}

	return domain.Principal{Subject: claims.Subject, Roles: claims.Roles}, nil
}

// classify maps jwt parser errors onto the domain taxonomy. The parser checks
// the signature before the time claims, so a re-dated token is reported as a
// bad signature rather than as expired.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", domain.ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: decode token: %v", domain.ErrInternalFault, err)
	}
}
