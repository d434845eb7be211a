package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfigured      = errors.New("admin credentials not configured")
)

type LoginInput struct {
	AdminID int64
	APIKey  string
}

// Service verifies admin credentials: the id must be allowlisted and the key
// must match the configured bcrypt hash.
type Service struct {
	adminIDs map[int64]struct{}
	keyHash  []byte
}

func NewService(adminIDs []int64, apiKeyHash string) *Service {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &Service{adminIDs: ids, keyHash: []byte(strings.TrimSpace(apiKeyHash))}
}

func (s *Service) IsAdmin(id int64) bool {
	_, ok := s.adminIDs[id]
	return ok
}

func (s *Service) Login(_ context.Context, in LoginInput) (int64, error) {
	if len(s.keyHash) == 0 || len(s.adminIDs) == 0 {
		return 0, ErrNotConfigured
	}
	if in.AdminID == 0 || strings.TrimSpace(in.APIKey) == "" {
		return 0, ErrInvalidCredentials
	}
	if !s.IsAdmin(in.AdminID) {
		return 0, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(in.APIKey)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return in.AdminID, nil
}

// HashAPIKey produces the value for ADMIN_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrInvalidCredentials
	}
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
