package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/plataforma/accounts-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// JWTTokenService issues and verifies HS256 tokens asserting (id, role).
// The secret is process-wide, injected once at construction.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTTokenService(secret string, ttl time.Duration) *JWTTokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenService{secret: []byte(secret), ttl: ttl}
}

func (s *JWTTokenService) Issue(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"exp":  time.Now().Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *JWTTokenService) Verify(raw string) (domain.Caller, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, domain.ErrExpiredToken
		}
		return domain.Caller{}, domain.ErrInvalidToken
	}
	if !tkn.Valid {
		return domain.Caller{}, domain.ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	if id == "" || !domain.ValidRole(role) {
		return domain.Caller{}, domain.ErrInvalidToken
	}

	return domain.Caller{ID: id, Role: role}, nil
}
