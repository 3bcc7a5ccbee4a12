// Package session issues and validates the signed guest-session tokens that
// bind a shopper to their server-held cart. There are no user accounts here;
// the token carries nothing but the cart identity.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token expired")
)

type Claims struct {
	CartID uuid.UUID `json:"cart_id"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey []byte
	duration  time.Duration
}

func NewService(secretKey string, duration time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		duration:  duration,
	}
}

// Issue mints a fresh cart identity and a token bound to it.
func (s *Service) Issue(now time.Time) (uuid.UUID, string, error) {
	cartID := uuid.New()
	token, err := s.Token(cartID, now)
	if err != nil {
		return uuid.Nil, "", err
	}
	return cartID, token, nil
}

func (s *Service) Token(cartID uuid.UUID, now time.Time) (string, error) {
	claims := Claims{
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) Validate(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.CartID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}

	return claims.CartID, nil
}
