package mocks

import (
	"context"
	"scenario-server/internal/models"
	"scenario-server/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock ScenarioEngine
type ScenarioEngine struct {
	mock.Mock
}

func (m *ScenarioEngine) Advance(ctx context.Context, userID uuid.UUID, req service.AdvanceRequest) (*models.AdvanceResult, error) {
	args := m.Called(ctx, userID, req)
	result, _ := args.Get(0).(*models.AdvanceResult)
	return result, args.Error(1)
}
func (m *ScenarioEngine) GetPosition(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	args := m.Called(ctx, userID, scenarioID)
	progress, _ := args.Get(0).(*models.PlayerProgress)
	return progress, args.Error(1)
}
func (m *ScenarioEngine) GetStepView(ctx context.Context, stepID uuid.UUID) (*service.StepView, error) {
	args := m.Called(ctx, stepID)
	view, _ := args.Get(0).(*service.StepView)
	return view, args.Error(1)
}
