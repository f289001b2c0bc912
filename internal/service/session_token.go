package service

import (
	"errors"
	"fmt"
	"quiz-forge/internal/config"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/logger"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const sessionTokenIssuer = "quiz-forge"

var (
	ErrMissingSigningKey   = errors.New("session signing key is not configured")
	ErrInvalidSessionToken = errors.New("invalid session token")
)

// SessionTokenService issues and validates the signed tokens that bind an
// HTTP client to its quiz session.
type SessionTokenService interface {
	Issue(sessionID string) (token string, expiresAt time.Time, err error)
	Validate(token string) (*dto.SessionClaims, error)
}

type sessionTokenServiceImpl struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenService creates a HS256 token service from the JWT config.
func NewSessionTokenService(cfg config.JWTConfig) (SessionTokenService, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSigningKey
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionTokenServiceImpl{
		secret: []byte(cfg.SecretKey),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *sessionTokenServiceImpl) Issue(sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := dto.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionTokenIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *sessionTokenServiceImpl) Validate(tokenString string) (*dto.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionTokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		logger.Get().Debug("Session token rejected",
			zap.Bool("expired", errors.Is(err, jwt.ErrTokenExpired)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*dto.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
