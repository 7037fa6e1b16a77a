package token

import (
	"bytes"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes the two token flavors carried in the knd claim.
type Kind string

const (
	// KindAccess is an exported constant or variable used by the authentication engine.
	KindAccess Kind = "access"
	// KindRefresh is an exported constant or variable used by the authentication engine.
	KindRefresh Kind = "refresh"
)

const minSecretBytes = 32

var (
	// ErrExpired is an exported constant or variable used by the authentication engine.
	ErrExpired = errors.New("token expired")
	// ErrBadSignature is an exported constant or variable used by the authentication engine.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrWrongKind is an exported constant or variable used by the authentication engine.
	ErrWrongKind = errors.New("token kind mismatch")
	// ErrMalformed is an exported constant or variable used by the authentication engine.
	ErrMalformed = errors.New("token malformed")
)

// Scope is the tenant binding embedded in every token.
type Scope struct {
	OrganizationID string
	BranchID       string
}

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

// Claims is the signed payload of both token kinds.
type Claims struct {
	Role   string `json:"role"`
	Org    string `json:"org"`
	Branch string `json:"branch,omitempty"`
	Family string `json:"fam"`
	Kind   string `json:"knd"`
	Epoch  int64  `json:"epoch"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens with HS256 and kind-specific
// secrets.
//
// Codec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Codec struct {
	config Config
	now    func() time.Time
}

// NewCodec validates the configuration and returns a [Codec]. The now
// function drives issued-at and expiry stamps; pass nil for time.Now.
func NewCodec(cfg Config, now func() time.Time) (*Codec, error) {
	if len(cfg.AccessSecret) < minSecretBytes {
		return nil, errors.New("access secret must be at least 32 bytes")
	}
	if len(cfg.RefreshSecret) < minSecretBytes {
		return nil, errors.New("refresh secret must be at least 32 bytes")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if now == nil {
		now = time.Now
	}

	return &Codec{config: cfg, now: now}, nil
}

// Issue serializes and signs a token of the given kind. The epoch is the
// account's invalidation epoch captured at issuance; family is the random
// id shared by the access/refresh pair minted together.
func (c *Codec) Issue(subject, role string, scope Scope, family string, kind Kind, epoch int64) (string, error) {
	if subject == "" {
		return "", errors.New("empty subject")
	}
	if family == "" {
		return "", errors.New("empty token family")
	}

	ttl := c.config.AccessTTL
	if kind == KindRefresh {
		ttl = c.config.RefreshTTL
	}

	now := c.now()
	claims := Claims{
		Role:   role,
		Org:    scope.OrganizationID,
		Branch: scope.BranchID,
		Family: family,
		Kind:   string(kind),
		Epoch:  epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if c.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{c.config.Audience}
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secretFor(kind))
}

// Verify checks signature, expiry, and kind. The signature is always
// checked against the expected kind's secret, so a token of the other kind
// fails verification even before its knd claim is inspected.
func (c *Codec) Verify(tokenStr string, expect Kind) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}
	if c.config.Audience != "" {
		options = append(options, jwt.WithAudience(c.config.Audience))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secretFor(expect), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.Subject == "" || claims.Family == "" {
		return nil, ErrMalformed
	}
	// Reachable when both kinds were misconfigured with related secrets or
	// a caller forged the claim; the signature check alone already rejects
	// cross-kind tokens under distinct secrets.
	if claims.Kind != string(expect) {
		return nil, ErrWrongKind
	}

	return claims, nil
}

// DecodeExpired is Verify without the expiry check. Sign-out uses it so an
// expired refresh token can still identify the account being signed out.
// Signature and kind checks still apply.
func (c *Codec) DecodeExpired(tokenStr string, expect Kind) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secretFor(expect), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrBadSignature
		}
		return nil, ErrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformed
	}
	if claims.Subject == "" || claims.Family == "" {
		return nil, ErrMalformed
	}
	if claims.Kind != string(expect) {
		return nil, ErrWrongKind
	}

	return claims, nil
}

func (c *Codec) secretFor(kind Kind) []byte {
	if kind == KindRefresh {
		return c.config.RefreshSecret
	}
	return c.config.AccessSecret
}
