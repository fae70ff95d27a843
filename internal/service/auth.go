// Package service holds the flow controllers behind the HTTP handlers:
// anonymous auth, consent capture, profiling sessions and itineraries.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

const tokenIssuer = "rij-bfa"

// AuthService issues and checks the anonymous access tokens that identify a
// traveler across profiling, itinerary and trip calls.
type AuthService struct {
	jwtSecret []byte
	accessTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(jwtSecret string, accessTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// ============================================================
// IssueAnonymous: POST /v1/auth/anonymous
// ============================================================

func (s *AuthService) IssueAnonymous(ctx context.Context) (*domain.AnonymousAuthResponse, error) {
	_, span := authTracer.Start(ctx, "AuthService.IssueAnonymous")
	defer span.End()

	userID := uuid.NewString()
	token, err := s.signAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("anonymous user issued", zap.String("user_id", userID))
	return &domain.AnonymousAuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.accessTTL.Seconds()),
		UserID:      userID,
	}, nil
}

// ============================================================
// ValidateAccessToken: used by middleware
// ============================================================

// JWTClaims represents the custom claims in access tokens.
type JWTClaims struct {
	Type      string `json:"type"`
	Anonymous bool   `json:"anon"`
	jwt.RegisteredClaims
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}
	if claims.Type != "access" {
		return nil, &domain.ErrUnauthorized{Message: "invalid token type"}
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid token subject"}
	}

	return claims, nil
}

func (s *AuthService) signAccessToken(userID string) (string, error) {
	now := s.now()
	claims := JWTClaims{
		Type:      "access",
		Anonymous: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
