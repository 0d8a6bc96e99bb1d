package mocks

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/domain"
)

// GenerateTestKeys creates an RSA key pair for signing session tokens in tests.
func GenerateTestKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

// NewTestUser returns a verified and approved user.
func NewTestUser(id, username string, role domain.Role) *domain.User {
	return &domain.User{
		ID:         id,
		Username:   username,
		Email:      username + "@example.com",
		Role:       role,
		IsVerified: true,
		IsApproved: true,
	}
}
