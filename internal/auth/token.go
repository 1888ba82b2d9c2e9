package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMalformed is returned when a presented token is not a JWT.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired is returned when the expiry claim has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for bad signatures and any other
	// verification failure.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the session token payload: the subject user plus the standard
// registered claims (exp, iat, sub).
type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates symmetric-signed session tokens. Tokens
// are not persisted anywhere; validity is purely a function of the signature
// and the expiry claim, so compromise is bounded only by the TTL.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given signing secret and
// token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token for the given user, expiring after the
// configured TTL.
func (s *TokenService) Issue(userID uint64, email string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a presented token, returning the embedded
// claims. Signature verification and the expiry check must both pass.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
