package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"travkings/internal/domain/models"
	appjwt "travkings/internal/lib/jwt"
	"travkings/internal/lib/logger/sl"
	"travkings/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier проверяет пару логин/пароль и возвращает администратора.
// Выделен в интерфейс, чтобы источник учетных данных можно было заменить
// (конфиг, таблица в БД, внешний IdP) без изменения сервиса.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (models.Admin, error)
}

type Auth struct {
	log      *slog.Logger
	verifier CredentialVerifier
	secret   string
	tokenTTL time.Duration
}

func New(log *slog.Logger, verifier CredentialVerifier, secret string, tokenTTL time.Duration) *Auth {
	return &Auth{
		log:      log,
		verifier: verifier,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Login проверяет учетные данные и выпускает сессионный токен.
// При любой ошибке проверки возвращается одинаковый ErrInvalidCredentials:
// ответ не раскрывает, логин был неверным или пароль.
func (a *Auth) Login(ctx context.Context, username, password string) (string, models.Admin, error) {
	const op = "services.Auth.Login"

	log := a.log.With(slog.String("op", op))

	admin, err := a.verifier.Verify(ctx, username, password)
	if err != nil {
		log.Info("login rejected", slog.String("username", username))

		return "", models.Admin{}, fmt.Errorf("%s: %w", op, storage.ErrInvalidCredentials)
	}

	token, err := appjwt.NewSessionToken(admin, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to issue session token", sl.Err(err))

		return "", models.Admin{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin logged in", slog.String("username", admin.Username))

	return token, admin, nil
}

// TokenTTL возвращает срок жизни сессии для настройки cookie
func (a *Auth) TokenTTL() time.Duration {
	return a.tokenTTL
}

// FixedAdmin сверяет данные с единственной парой из конфигурации.
// Пароль хранится только в виде bcrypt-хеша.
type FixedAdmin struct {
	username     string
	passwordHash string
}

func NewFixedAdmin(username, passwordHash string) *FixedAdmin {
	return &FixedAdmin{username: username, passwordHash: passwordHash}
}

func (v *FixedAdmin) Verify(_ context.Context, username, password string) (models.Admin, error) {
	usernameOK := username == v.username
	passwordOK := bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil

	if !usernameOK || !passwordOK {
		return models.Admin{}, storage.ErrInvalidCredentials
	}

	return models.Admin{
		ID:       "1",
		Name:     "Admin",
		Username: v.username,
	}, nil
}
