// Package auth validates bearer tokens issued by the interpreter and
// exposes the caller identity to route handlers. The gateway never issues
// tokens itself.
package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Role values carried in token claims.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// TokenClaims represents the identity claims embedded in interpreter tokens
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role
func (c *TokenClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Service validates JWT tokens
type Service struct {
	logger    *zap.Logger
	jwtSecret []byte
}

// NewService creates a token validation service
func NewService(logger *zap.Logger, jwtSecret string) *Service {
	return &Service{
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
	}
}

// ValidateToken parses and validates a JWT token and returns its claims
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("token missing user id")
	}

	return claims, nil
}
