package mocks

import (
	"context"
	"scenario-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock StepRepository
type StepRepository struct {
	mock.Mock
}

func (m *StepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScenarioStep, error) {
	args := m.Called(ctx, id)
	step, _ := args.Get(0).(*models.ScenarioStep)
	return step, args.Error(1)
}

// Mock QuizRepository
type QuizRepository struct {
	mock.Mock
}

func (m *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}
func (m *QuizRepository) CheckAnswer(ctx context.Context, quizID uuid.UUID, answer int) (bool, error) {
	args := m.Called(ctx, quizID, answer)
	return args.Bool(0), args.Error(1)
}

// Mock ProgressRepository
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) GetByUserAndScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	args := m.Called(ctx, userID, scenarioID)
	progress, _ := args.Get(0).(*models.PlayerProgress)
	return progress, args.Error(1)
}
func (m *ProgressRepository) CommitPosition(ctx context.Context, userID, scenarioID, fromStepID, toStepID uuid.UUID, frozen bool) error {
	args := m.Called(ctx, userID, scenarioID, fromStepID, toStepID, frozen)
	return args.Error(0)
}
func (m *ProgressRepository) MarkCompleted(ctx context.Context, userID, scenarioID, finalStepID uuid.UUID) error {
	args := m.Called(ctx, userID, scenarioID, finalStepID)
	return args.Error(0)
}
