package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/GlebRadaev/mileage/internal/domain"
)

const Issuer = "mileage"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carry the principal in the registered subject plus a role.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

func (c *Claims) Principal() domain.Principal {
	return domain.Principal{ID: c.Subject, Role: domain.Role(c.Role)}
}

type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// GenerateJWT signs a token for p. Production tokens come from the identity service; this is used by tooling and tests.
func (s *JWTService) GenerateJWT(p domain.Principal, expirationTime time.Time) (string, error) {
	claims := Claims{
		Role: string(p.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   p.ID,
			ExpiresAt: expirationTime.Unix(),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.Issuer != Issuer || !domain.Role(claims.Role).Valid() {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
