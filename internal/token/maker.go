package token

import (
	"time"

	"movieshop/internal/apperr"
	"movieshop/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID uint       `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Maker issues and verifies the signed credentials the rest of the system
// treats as an opaque capability.
type Maker struct {
	secret   []byte
	duration time.Duration
}

func NewMaker(secret string, duration time.Duration) *Maker {
	return &Maker{
		secret:   []byte(secret),
		duration: duration,
	}
}

func (m *Maker) Issue(userID uint, role model.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Maker) Verify(signedToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperr.ErrAuth
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return nil, apperr.ErrAuth
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.ErrAuth
	}

	return claims, nil
}
