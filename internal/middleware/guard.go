package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/gold-cinema/internal/utils"
)

var (
	// ErrUnauthenticated means no usable credentials were presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")
)

// TokenVerifier checks a raw access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

// Authenticate extracts the bearer token from an Authorization header value
// and verifies it. A missing header, a scheme other than Bearer, an empty
// token and any verification failure all yield ErrUnauthenticated.
func Authenticate(v TokenVerifier, header string) (*utils.Claims, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := v.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return claims, nil
}

// Authorize passes when claims carry one of the given roles. With no roles
// listed any authenticated caller is accepted.
func Authorize(claims *utils.Claims, roles ...string) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if claims.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
