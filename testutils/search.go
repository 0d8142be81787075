// Package testutils provides shared testing utilities across the application.
package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jonesrussell/geosearch/internal/search"
)

// MockSearchClient is a mock implementation of the search client interface.
type MockSearchClient struct {
	mock.Mock
}

// NewMockSearchClient creates a new mock search client instance.
func NewMockSearchClient() *MockSearchClient {
	return &MockSearchClient{}
}

// Search returns the scripted raw response page for the query.
func (m *MockSearchClient) Search(ctx context.Context, query search.Query) ([]byte, error) {
	args := m.Called(ctx, query)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	val, ok := args.Get(0).([]byte)
	if !ok {
		return nil, ErrInvalidResult
	}
	return val, nil
}

// Ensure MockSearchClient implements search.Client
var _ search.Client = (*MockSearchClient)(nil)
