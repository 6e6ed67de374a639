package utils

import (
	"errors"
	"time"

	"cofondo-backend/config"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken mints a session token for a wallet address.
func GenerateToken(wallet string) (string, error) {
	claims := jwt.MapClaims{
		"sub": wallet,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ParseToken validates a session token and returns the wallet it was
// minted for.
func ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	wallet, _ := claims["sub"].(string)
	if wallet == "" {
		return "", errors.New("token missing subject")
	}
	return wallet, nil
}
