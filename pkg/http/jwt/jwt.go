package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "propel"

// AuthClaims is the access token payload.
type AuthClaims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

// GenToken generates an access token and a refresh token pair.
func GenToken(userId string, secretKey []byte, accessExpire, refreshExpire time.Duration) (aToken, rToken string, err error) {
	now := time.Now()

	aClaims := &AuthClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(accessExpire)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	aToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if err != nil {
		return "", "", err
	}

	rClaims := jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(refreshExpire)),
	}
	rToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if err != nil {
		return "", "", err
	}

	return aToken, rToken, nil
}

// ParseToken validates an access token and returns its claims.
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(aToken, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
