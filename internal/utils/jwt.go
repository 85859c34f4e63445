package utils // package utils provides token issuance/verification and password hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure except expiry: bad
// signature, malformed token, unexpected algorithm or missing claims.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpired is returned for a correctly signed token past its exp.
var ErrTokenExpired = errors.New("token expired")

// DefaultAccessTTL is the session lifetime.
const DefaultAccessTTL = 8 * time.Hour

// Claims is the signed payload of an access token. UserID is duplicated in
// the standard sub claim.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AccessToken is a signed JWT string together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenConfig is injected into the issuer at construction.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenIssuer signs and verifies HS256 access tokens with one secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenIssuer validates cfg and returns an issuer. A zero TTL falls
// back to DefaultAccessTTL.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: empty signing secret")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &TokenIssuer{secret: []byte(cfg.Secret), ttl: ttl, issuer: cfg.Issuer, now: time.Now}, nil
}

// WithClock returns a copy of the issuer that reads time from now.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *t
	cp.now = now
	return &cp
}

// TTL reports the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue builds and signs a token for the given identity. iat is now and
// exp is now + TTL, both in whole seconds as stored in the token.
func (t *TokenIssuer) Issue(userID, username, role string) (AccessToken, error) {
	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(t.ttl)
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks the signature over the exact issued header and payload,
// then the expiry, and returns the claims. Only HS256 is accepted.
func (t *TokenIssuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		// Expiry is only reported once the signature has been checked.
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid || claims.UserID == "" || claims.Subject != claims.UserID || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
