package testing

import (
	"sync"

	"github.com/aristath/megafacil/internal/domain"
)

// MockHistorySource is an in-memory history source for testing
type MockHistorySource struct {
	mu      sync.RWMutex
	dataset domain.Dataset
	err     error
	calls   int
}

// NewMockHistorySource creates a mock serving ds
func NewMockHistorySource(ds domain.Dataset) *MockHistorySource {
	return &MockHistorySource{dataset: ds}
}

// SetDataset sets the dataset to return
func (m *MockHistorySource) SetDataset(ds domain.Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataset = ds
}

// SetError sets the error to return
func (m *MockHistorySource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Get returns a copy of the dataset, or the configured error
func (m *MockHistorySource) Get() (domain.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.Dataset{}, m.err
	}
	return m.dataset.Clone(), nil
}

// Calls reports how many times Get was called
func (m *MockHistorySource) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}
