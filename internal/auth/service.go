package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDisabled           = errors.New("token issuing is disabled")
)

const tokenTTL = 24 * time.Hour

// Service issues and checks bearer tokens for chart writes. With no JWT
// secret every request is allowed.
type Service struct {
	jwtSecret  []byte
	apiKeyHash []byte
	now        func() time.Time
}

func NewService(jwtSecret, apiKeyHash string) *Service {
	return &Service{
		jwtSecret:  []byte(jwtSecret),
		apiKeyHash: []byte(apiKeyHash),
		now:        time.Now,
	}
}

// Enabled reports whether writes need a token.
func (s *Service) Enabled() bool {
	return len(s.jwtSecret) > 0
}

type TokenResult struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Login exchanges an API key for a token.
func (s *Service) Login(apiKey, subject string) (*TokenResult, error) {
	if !s.Enabled() || len(s.apiKeyHash) == 0 {
		return nil, ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(apiKey)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if subject == "" {
		subject = "api"
	}
	return s.IssueToken(subject)
}

func (s *Service) IssueToken(subject string) (*TokenResult, error) {
	now := s.now()
	expires := now.Add(tokenTTL)

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResult{Token: signed, Subject: subject, ExpiresAt: expires.Unix()}, nil
}

// ValidateToken returns the token's subject.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	subject, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("invalid token subject")
	}

	return subject, nil
}
