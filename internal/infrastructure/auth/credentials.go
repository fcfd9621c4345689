package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gosettle/internal/domain"
)

// Credential is one configured API principal. The password is stored as a
// bcrypt hash, never in the clear.
type Credential struct {
	Username     string
	PasswordHash string
	Role         domain.Role
}

// CredentialStore authenticates username/password pairs against the
// credentials loaded from configuration.
type CredentialStore struct {
	byUsername map[string]Credential
}

// NewCredentialStore creates a credential store from configured credentials.
// Later entries with the same username win.
func NewCredentialStore(credentials []Credential) *CredentialStore {
	byUsername := make(map[string]Credential, len(credentials))
	for _, cred := range credentials {
		byUsername[cred.Username] = cred
	}
	return &CredentialStore{byUsername: byUsername}
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate checks a username/password pair and returns the matching
// principal. Unknown usernames and wrong passwords both come back as
// domain.ErrUnauthorized.
func (s *CredentialStore) Authenticate(username, password string) (*domain.User, error) {
	cred, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &domain.User{
		ID:       "user-" + cred.Username,
		Username: cred.Username,
		Role:     cred.Role,
	}, nil
}
