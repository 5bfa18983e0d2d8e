package jwt

import (
	"testing"
	"time"

	"travkings/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	admin := models.Admin{ID: "1", Name: "Admin", Username: "admin"}

	token, err := NewSessionToken(admin, "secret", time.Hour)
	require.NoError(t, err)

	parsed, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)

	assert.Equal(t, admin.ID, parsed.ID)
	assert.Equal(t, admin.Username, parsed.Username)
	assert.Equal(t, admin.Name, parsed.Name)
}

func TestSessionToken_Expired(t *testing.T) {
	admin := models.Admin{ID: "1", Username: "admin"}

	token, err := NewSessionToken(admin, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	admin := models.Admin{ID: "1", Username: "admin"}

	token, err := NewSessionToken(admin, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Garbage(t *testing.T) {
	_, err := ParseSessionToken("not.a.token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
