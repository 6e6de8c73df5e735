package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer  = "dirscan"
	scanScope    = "scan"
	secretKeyLen = 32
)

// ErrAuthNotInitialized is returned when tokens are used before InitAuthService
var ErrAuthNotInitialized = errors.New("auth service not initialized")

// AuthService signs and validates API tokens
type AuthService struct {
	secretKey   []byte
	tokenExpiry time.Duration
}

// ScanClaims are the claims carried by a dirscan API token
type ScanClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

var (
	authMu      sync.RWMutex
	authService *AuthService
)

// InitAuthService initializes the package-level auth service. An empty
// secretKey loads the persisted key file, generating it on first use.
func InitAuthService(secretKey string, tokenExpiry time.Duration) (*AuthService, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		persisted, err := loadOrCreateSecretKey(secretKeyFile())
		if err != nil {
			return nil, err
		}
		secretKey = persisted
	}

	if len(secretKey) < secretKeyLen {
		log.Printf("[AUTH] Warning: secret key is only %d bytes, recommended minimum is %d for HMAC-SHA256", len(secretKey), secretKeyLen)
	}

	if tokenExpiry == 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	svc := &AuthService{
		secretKey:   []byte(secretKey),
		tokenExpiry: tokenExpiry,
	}

	authMu.Lock()
	authService = svc
	authMu.Unlock()

	return svc, nil
}

func secretKeyFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return filepath.Join(os.TempDir(), ".dirscan-secret-key")
	}
	return filepath.Join(homeDir, ".dirscan-secret-key")
}

// loadOrCreateSecretKey reads the key stored in keyFile or writes a new random one
func loadOrCreateSecretKey(keyFile string) (string, error) {
	if data, err := os.ReadFile(keyFile); err == nil && len(strings.TrimSpace(string(data))) > 0 {
		log.Printf("[AUTH] Loaded persisted secret key from %s", keyFile)
		return strings.TrimSpace(string(data)), nil
	}

	randomBytes := make([]byte, secretKeyLen)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	secretKey := hex.EncodeToString(randomBytes)

	if err := os.WriteFile(keyFile, []byte(secretKey), 0o600); err != nil {
		return "", fmt.Errorf("failed to persist secret key to %s: %w", keyFile, err)
	}
	log.Printf("[AUTH] Generated and persisted secret key to %s", keyFile)

	return secretKey, nil
}

func currentAuthService() *AuthService {
	authMu.RLock()
	defer authMu.RUnlock()
	return authService
}

// GenerateToken creates a scan token for subject
func GenerateToken(subject string) (string, error) {
	svc := currentAuthService()
	if svc == nil {
		return "", ErrAuthNotInitialized
	}
	return svc.GenerateToken(subject)
}

// ValidateToken verifies and parses a scan token
func ValidateToken(tokenString string) (*ScanClaims, error) {
	svc := currentAuthService()
	if svc == nil {
		return nil, ErrAuthNotInitialized
	}
	return svc.ValidateToken(tokenString)
}

// GenerateToken creates a signed token for subject valid for the configured expiry
func (s *AuthService) GenerateToken(subject string) (string, error) {
	now := time.Now()

	claims := ScanClaims{
		Scope: scanScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken verifies signature, issuer, expiry and scope
func (s *AuthService) ValidateToken(tokenString string) (*ScanClaims, error) {
	claims := &ScanClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Scope != scanScope {
		return nil, fmt.Errorf("token scope %q does not allow scanning", claims.Scope)
	}

	return claims, nil
}

// TokenExpiry returns the lifetime of newly generated tokens
func (s *AuthService) TokenExpiry() time.Duration {
	return s.tokenExpiry
}
