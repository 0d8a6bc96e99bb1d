package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	temporaryPasswordLength = 16

	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	// Quote characters are left out so the password survives templating downstream.
	symbols = "!@#$%^&*()+_-=}{[]|:;/?.><,~"
)

var ErrPasswordPolicy = errors.New("generated password violates policy")

// GenerateTemporaryPassword returns a random 16 character password with at
// least one digit, symbol, uppercase and lowercase letter and no quotes.
// It never retries: a password that fails the policy check is an error.
func GenerateTemporaryPassword() (string, error) {
	all := lowercase + uppercase + digits + symbols
	required := []string{lowercase, uppercase, digits, symbols}

	password := make([]byte, 0, temporaryPasswordLength)
	for _, set := range required {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}
	for len(password) < temporaryPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}

	// Fisher-Yates so the required classes are not always in front.
	for i := len(password) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("failed to shuffle password: %w", err)
		}
		password[i], password[j.Int64()] = password[j.Int64()], password[i]
	}

	result := string(password)
	if !SatisfiesPasswordPolicy(result) {
		return "", ErrPasswordPolicy
	}
	return result, nil
}

// SatisfiesPasswordPolicy checks a temporary password against the fixed policy.
func SatisfiesPasswordPolicy(password string) bool {
	if len(password) != temporaryPasswordLength {
		return false
	}
	if strings.ContainsAny(password, "\"'`") {
		return false
	}
	return strings.ContainsAny(password, lowercase) &&
		strings.ContainsAny(password, uppercase) &&
		strings.ContainsAny(password, digits) &&
		strings.ContainsAny(password, symbols)
}

func randomChar(set string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random character: %w", err)
	}
	return set[idx.Int64()], nil
}

// PasswordHasher wraps bcrypt with a configured cost (salt rounds).
type PasswordHasher struct {
	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareDummy spends the same work as Compare for a username that does not
// exist, so response timing does not reveal which usernames are registered.
func (h *PasswordHasher) CompareDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
