package publish

import (
	"context"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock implementation of ArtifactPublisher for testing.
type MockPublisher struct {
	mock.Mock
}

var _ contract.ArtifactPublisher = &MockPublisher{} // Compile-time check

// Publish implements the ArtifactPublisher interface.
func (m *MockPublisher) Publish(ctx context.Context, key string, localPath string) error {
	args := m.Called(ctx, key, localPath)
	return args.Error(0)
}
