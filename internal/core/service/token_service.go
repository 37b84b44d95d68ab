package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/account-service/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues HS256 JWTs carrying the username as subject.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a token for subject expiring after the configured TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse verifies the signature, algorithm and expiry of token and returns its
// subject. Every failure collapses to domain.ErrInvalidToken.
func (s *TokenService) Parse(token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

// Validate reports whether token is trustworthy and names expectedSubject.
func (s *TokenService) Validate(token, expectedSubject string) bool {
	subject, err := s.Parse(token)
	if err != nil {
		return false
	}
	return expectedSubject != "" && subject == expectedSubject
}

// ExtractSubject returns the sub claim without checking the signature or
// expiry. The result is untrusted until Validate accepts it.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", errors.Join(domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
