package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Maker signs and verifies cart session tokens so a browser cannot forge a
// cart ID into another session's cart.
type Maker struct {
	secret []byte
	issuer string
}

func NewMaker(secret string) *Maker {
	return &Maker{
		secret: []byte(secret),
		issuer: "storefront",
	}
}

type Claims struct {
	CartID string `json:"cart_id"`
	jwt.RegisteredClaims
}

func NewCartID() string {
	return "c_" + uuid.NewString()
}

func (m *Maker) New(cartID string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cartID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Maker) Parse(tokenStr string) (Claims, error) {
	var c Claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	if c.Issuer != "" && c.Issuer != m.issuer {
		return Claims{}, errors.New("invalid issuer")
	}

	return c, nil
}
