package auth

import "os"

// EnvironmentStore implements TokenStore backed by environment variables.
// It is read-only and only serves the default profile.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-variable token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(token *Token) error {
	return ErrStoreReadOnly
}

// Retrieve reads the token from FBFRAMES_ACCESS_TOKEN
func (e *EnvironmentStore) Retrieve(name string) (*Token, error) {
	if name != "" && name != DefaultTokenName {
		return nil, ErrTokenNotFound
	}

	value := os.Getenv("FBFRAMES_ACCESS_TOKEN")
	if value == "" {
		return nil, ErrTokenNotFound
	}

	return &Token{
		Name:        DefaultTokenName,
		AccessToken: value,
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreReadOnly
}

// Exists checks if the environment variable is set
func (e *EnvironmentStore) Exists(name string) bool {
	if name != "" && name != DefaultTokenName {
		return false
	}
	return os.Getenv("FBFRAMES_ACCESS_TOKEN") != ""
}
