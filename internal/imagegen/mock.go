package imagegen

import (
	"context"
	"sync"
)

// MockOracle is a deterministic Oracle for tests. It returns a fixed
// reference (or error) and records every prompt.
type MockOracle struct {
	mu      sync.Mutex
	Ref     string
	Err     error
	Prompts []string
}

func (m *MockOracle) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Ref, nil
}
