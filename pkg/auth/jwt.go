package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "triage-assistant"

var ErrInvalidToken = errors.New("invalid token")

// StaffClaims identifies the clinic staff member calling the API.
type StaffClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

type JWTService interface {
	GenerateToken(subject, name string, ttl time.Duration) (string, error)
	ValidateToken(token string) (*StaffClaims, error)
}

// HMACService signs and verifies HS256 tokens with a shared secret.
type HMACService struct {
	secret []byte
	now    func() time.Time
}

func NewHMACService(secret string) *HMACService {
	return &HMACService{secret: []byte(secret), now: time.Now}
}

func (s *HMACService) GenerateToken(subject, name string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	now := s.now()
	claims := StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: name,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *HMACService) ValidateToken(token string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
