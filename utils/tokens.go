package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminator values. Minting and verification must agree on
// these so a verification token can never be replayed as a login token.
const (
	TokenTypeAccess            = "access"
	TokenTypeRefresh           = "refresh"
	TokenTypeEmailVerification = "email_verification"
	TokenTypePasswordReset     = "password_reset"
)

// Verification and reset lifetimes are fixed on purpose: a misconfigured
// TTL must not widen the window of the security-sensitive flows.
const (
	emailVerificationTTL = 24 * time.Hour
	passwordResetTTL     = time.Hour
)

// HS256 requires at least a 256-bit key.
const minKeyBytes = 32

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	Username  string   `json:"username"`
	TokenType string   `json:"token_type"`
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the four token kinds. It holds no
// mutable state beyond the key loaded at construction.
type TokenService struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenService{
		key:        deriveKey(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// deriveKey repeats a short secret cyclically up to the HS256 minimum.
// Deterministic, and never produces a key below minKeyBytes.
func deriveKey(secret string) []byte {
	raw := []byte(secret)
	if len(raw) >= minKeyBytes {
		return raw
	}
	key := make([]byte, minKeyBytes)
	for i := range key {
		key[i] = raw[i%len(raw)]
	}
	return key
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) GenerateAccessToken(username string, roles []string) (string, error) {
	return s.sign(Claims{Username: username, TokenType: TokenTypeAccess, Roles: roles}, s.accessTTL)
}

func (s *TokenService) GenerateRefreshToken(username string) (string, error) {
	return s.sign(Claims{Username: username, TokenType: TokenTypeRefresh}, s.refreshTTL)
}

func (s *TokenService) GenerateEmailVerificationToken(email string) (string, error) {
	return s.sign(Claims{Username: email, TokenType: TokenTypeEmailVerification}, emailVerificationTTL)
}

func (s *TokenService) GeneratePasswordResetToken(email string) (string, error) {
	return s.sign(Claims{Username: email, TokenType: TokenTypePasswordReset}, passwordResetTTL)
}

func (s *TokenService) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// Parse checks signature then expiry. Failures collapse to ErrInvalidToken;
// callers that care about a specific kind use ParseOfType.
func (s *TokenService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseOfType additionally enforces the token_type discriminator.
func (s *TokenService) ParseOfType(tokenStr, tokenType string) (*Claims, error) {
	claims, err := s.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// SubjectOf extracts the subject of any valid token.
func (s *TokenService) SubjectOf(tokenStr string) (string, error) {
	claims, err := s.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
