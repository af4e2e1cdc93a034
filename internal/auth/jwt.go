package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret string

const (
	accessTokenTTL  = time.Hour * 24
	refreshTokenTTL = time.Hour * 24 * 7
)

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

func GenerateAccessToken(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// GenerateRefreshToken mints a token usable only against the refresh
// endpoint; the auth middleware rejects it for regular requests.
func GenerateRefreshToken(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"username":   username,
		"token_type": "refresh",
		"exp":        time.Now().Add(refreshTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func GenerateTokenPair(userID uint, username string) (access string, refresh string, err error) {
	access, err = GenerateAccessToken(userID, username)

	if err != nil {
		return "", "", err
	}

	refresh, err = GenerateRefreshToken(userID, username)

	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	return token, nil
}

// IsRefreshToken reports whether the verified token carries the refresh
// token_type claim.
func IsRefreshToken(token *jwt.Token) bool {
	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return false
	}

	tokenType, ok := claims["token_type"].(string)

	return ok && tokenType == "refresh"
}
