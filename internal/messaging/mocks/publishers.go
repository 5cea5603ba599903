package mocks

import (
	"context"
	"scenario-server/internal/messaging"

	"github.com/stretchr/testify/mock"
)

// Mock ProgressPublisher
type ProgressPublisher struct {
	mock.Mock
}

func (m *ProgressPublisher) PublishProgressUpdate(ctx context.Context, payload messaging.ProgressUpdate) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
