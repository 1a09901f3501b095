package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/servehub/servehub-api/config"
)

// Token kinds carried in the "typ" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair is the access/refresh pair returned by register, login and refresh
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenClaims are the claims embedded in every token issued by this service
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

var (
	// ErrInvalidToken is returned when a token fails signature or claims validation
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when an access token is presented where a
	// refresh token is required, or vice versa
	ErrWrongTokenType = errors.New("wrong token type")
)

// IssueTokenPair creates a signed access/refresh token pair for a user
func IssueTokenPair(userID uint) (*TokenPair, error) {
	cfg := config.GetConfig()

	access, err := signToken(userID, TokenTypeAccess,
		time.Duration(cfg.AccessTokenTTLMin)*time.Minute, cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := signToken(userID, TokenTypeRefresh,
		time.Duration(cfg.RefreshTokenTTLHrs)*time.Hour, cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func signToken(userID uint, tokenType string, ttl time.Duration, secret string) (string, error) {
	now := time.Now().UTC()
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a token of the expected type and returns
// its claims
func VerifyToken(tokenString, expectedType string) (*TokenClaims, error) {
	cfg := config.GetConfig()

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
