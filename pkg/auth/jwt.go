package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huggodev/vntl-api/internal/model"
)

// ErrInvalidToken is the single failure returned for any malformed, tampered
// or expired token. Callers are never told which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of an access token.
type Claims struct {
	Username string
	Role     model.Role
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HMAC-signed bearer tokens.
// There is no revocation list: logout is client-side discard, and a leaked
// token stays valid until its expiry. Known limitation, kept deliberately.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token for the user: subject, role, issued-at and
// expiry, HS256 over the shared secret.
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, shape and expiry. It fails closed: every failure
// collapses to ErrInvalidToken and no partial identity is returned.
func (s *TokenService) Verify(token string) (*Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Claims{Username: claims.Subject, Role: role}, nil
}

// ExtractUsername returns the subject of a valid token. Fails exactly like
// Verify on malformed input.
func (s *TokenService) ExtractUsername(token string) (string, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// ExtractRole returns the role of a valid token. Fails exactly like Verify on
// malformed input.
func (s *TokenService) ExtractRole(token string) (model.Role, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}
