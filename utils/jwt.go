package utils

import (
	"errors"
	"time"

	"roamstay/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "roamstay-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given user. The admin flag
// rides along in the claims so middleware can resolve the actor without
// a database lookup on every request.
func GenerateToken(userID, email string, isAdmin bool, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"admin": isAdmin,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractActorFromToken returns the user ID, email and admin flag held
// in a valid token.
func ExtractActorFromToken(tokenString string) (string, string, bool, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", false, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", false, errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	admin, _ := claims["admin"].(bool)
	if sub == "" {
		return "", "", false, errors.New("token missing subject")
	}
	return sub, email, admin, nil
}
