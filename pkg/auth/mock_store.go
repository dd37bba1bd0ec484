package auth

import "sync"

// MockStore is an in-memory TokenStore for tests
type MockStore struct {
	mu     sync.Mutex
	tokens map[string]Token

	// FailStore makes Store return an error, for fallback testing
	FailStore bool
}

// NewMockStore creates an empty in-memory token store
func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]Token)}
}

func (m *MockStore) Store(token *Token) error {
	if m.FailStore {
		return ErrStoreReadOnly
	}
	if token == nil || token.Name == "" {
		return ErrInvalidToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Name] = *token
	return nil
}

func (m *MockStore) Retrieve(name string) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[name]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return &token, nil
}

func (m *MockStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[name]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, name)
	return nil
}

func (m *MockStore) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[name]
	return ok
}
