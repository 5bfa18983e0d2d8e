package jwt

import (
	"errors"
	"fmt"
	"time"

	"travkings/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// NewSessionToken выпускает подписанный токен административной сессии
func NewSessionToken(admin models.Admin, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = admin.ID
	claims["name"] = admin.Name
	claims["username"] = admin.Username
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseSessionToken проверяет подпись и срок действия токена.
// Просроченный или поврежденный токен неотличим от отсутствующего.
func ParseSessionToken(tokenString, secret string) (models.Admin, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Admin{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Admin{}, ErrInvalidToken
	}

	admin := models.Admin{}
	if admin.ID, ok = claims["uid"].(string); !ok {
		return models.Admin{}, ErrInvalidToken
	}
	if admin.Username, ok = claims["username"].(string); !ok {
		return models.Admin{}, ErrInvalidToken
	}
	admin.Name, _ = claims["name"].(string)

	return admin, nil
}
