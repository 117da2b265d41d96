package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/config"
	"github.com/arnavshah/vendor-match-api/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtAlgorithm = jwt.SigningMethodHS256

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidKeyFormat = errors.New("invalid key format")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrKeyRevoked       = errors.New("api key revoked")
)

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies admin tokens and API keys
type Authenticator struct {
	jwtSecret    []byte
	masterSecret []byte
	tokenTTL     time.Duration
	bcryptCost   int
}

// New creates an Authenticator. Both secrets are required.
func New(cfg config.AuthConfig) (*Authenticator, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.APIMasterSecret == "" {
		return nil, errors.New("API_MASTER_SECRET is not set")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = 14
	}
	return &Authenticator{
		jwtSecret:    []byte(cfg.JWTSecret),
		masterSecret: []byte(cfg.APIMasterSecret),
		tokenTTL:     ttl,
		bcryptCost:   cost,
	}, nil
}

// HashPassword hashes a password using bcrypt
func (a *Authenticator) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for a user
func (a *Authenticator) CreateToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(a.jwtSecret)
}

// VerifyToken verifies a JWT token
func (a *Authenticator) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateHMACKey creates a signed API key of the form "<name>.<hexsig>"
func (a *Authenticator) GenerateHMACKey(name string) string {
	return SignKey(a.masterSecret, name)
}

// SignKey signs name with secret. It is shared with the key generator CLI.
func SignKey(secret []byte, name string) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(name))
	return name + "." + hex.EncodeToString(h.Sum(nil))
}

// VerifyHMACKey validates an HMAC-signed API key and returns its name
func (a *Authenticator) VerifyHMACKey(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", ErrInvalidKeyFormat
	}

	expected := SignKey(a.masterSecret, parts[0])
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return "", ErrInvalidSignature
	}
	return parts[0], nil
}

// KeyPreview masks a key for display, keeping its first three and last four characters.
func KeyPreview(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}

// ResolveAPIKey fetches the record for a verified key, creating it on first
// use, and stamps LastUsed. A revoked key yields ErrKeyRevoked.
func ResolveAPIKey(db *gorm.DB, key, name string, defaultLimit int) (*database.APIKey, error) {
	var apiKey database.APIKey
	err := db.Unscoped().Where(database.APIKey{Key: key}).Take(&apiKey).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		apiKey = database.APIKey{
			Key:        key,
			Name:       name,
			KeyPreview: KeyPreview(key),
			RateLimit:  defaultLimit,
		}
		if err := db.Create(&apiKey).Error; err != nil {
			return nil, fmt.Errorf("register api key: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("resolve api key: %w", err)
	case apiKey.DeletedAt.Valid:
		return nil, ErrKeyRevoked
	}

	now := time.Now()
	if err := db.Model(&apiKey).Update("last_used", now).Error; err != nil {
		return nil, fmt.Errorf("stamp api key: %w", err)
	}
	apiKey.LastUsed = &now
	return &apiKey, nil
}

// EnsureAdminExists creates the first admin when the table is empty.
// It reports whether a user was created.
func (a *Authenticator) EnsureAdminExists(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := a.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := database.MasterUser{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
