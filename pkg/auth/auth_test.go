package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/config"
	"github.com/arnavshah/vendor-match-api/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) *Authenticator {
	t.Helper()
	a, err := New(config.AuthConfig{
		JWTSecret:       "jwt-secret",
		APIMasterSecret: "master-secret",
		TokenTTL:        time.Hour,
		BcryptCost:      bcrypt.MinCost,
	})
	require.NoError(t, err)
	return a
}

func TestNewRequiresSecrets(t *testing.T) {
	_, err := New(config.AuthConfig{APIMasterSecret: "x"})
	assert.Error(t, err)
	_, err = New(config.AuthConfig{JWTSecret: "x"})
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	a := newTestAuth(t)

	token, err := a.CreateToken("admin")
	require.NoError(t, err)

	claims, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	a := newTestAuth(t)
	other, err := New(config.AuthConfig{JWTSecret: "other", APIMasterSecret: "master-secret"})
	require.NoError(t, err)

	token, err := other.CreateToken("admin")
	require.NoError(t, err)
	_, err = a.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	a := newTestAuth(t)
	claims := &Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	_, err = a.VerifyToken(token)
	assert.Error(t, err)
}

func TestHMACKeys(t *testing.T) {
	a := newTestAuth(t)

	key := a.GenerateHMACKey("planner")
	name, err := a.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "planner", name)

	_, err = a.VerifyHMACKey("planner.deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = a.VerifyHMACKey("no-dot")
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = a.VerifyHMACKey("a.b.c")
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	assert.Equal(t, key, SignKey([]byte("master-secret"), "planner"))
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "pla...f00d", KeyPreview("planner.0123456789f00d"))
	assert.Equal(t, "****", KeyPreview("short"))
}

func TestPasswordHash(t *testing.T) {
	a := newTestAuth(t)
	hash, err := a.HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestEnsureAdminExistsAndResolveAPIKey(t *testing.T) {
	a := newTestAuth(t)
	db, err := database.Open(config.DatabaseConfig{DataPath: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())})
	require.NoError(t, err)

	created, err := a.EnsureAdminExists(db, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = a.EnsureAdminExists(db, "someone-else", "pw")
	require.NoError(t, err)
	assert.False(t, created)

	key := a.GenerateHMACKey("planner")
	first, err := ResolveAPIKey(db, key, "planner", 500)
	require.NoError(t, err)
	assert.Equal(t, "planner", first.Name)
	assert.Equal(t, 500, first.RateLimit)
	assert.NotNil(t, first.LastUsed)

	second, err := ResolveAPIKey(db, key, "planner", 999)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 500, second.RateLimit)

	require.NoError(t, db.Delete(&database.APIKey{}, first.ID).Error)
	_, err = ResolveAPIKey(db, key, "planner", 500)
	assert.ErrorIs(t, err, ErrKeyRevoked)

	var count int64
	require.NoError(t, db.Unscoped().Model(&database.APIKey{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "a revoked key is not recreated")
}
