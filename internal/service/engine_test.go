package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scenario-server/internal/messaging"
	messagingMocks "scenario-server/internal/messaging/mocks"
	"scenario-server/internal/models"
	repositoryMocks "scenario-server/internal/repository/mocks"
	"scenario-server/internal/service"
)

type engineFixture struct {
	steps     *repositoryMocks.StepRepository
	quizzes   *repositoryMocks.QuizRepository
	progress  *repositoryMocks.ProgressRepository
	publisher *messagingMocks.ProgressPublisher
	engine    service.ScenarioEngine
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		steps:     new(repositoryMocks.StepRepository),
		quizzes:   new(repositoryMocks.QuizRepository),
		progress:  new(repositoryMocks.ProgressRepository),
		publisher: new(messagingMocks.ProgressPublisher),
	}
	f.engine = service.NewScenarioEngine(f.steps, f.quizzes, f.progress, f.publisher, zap.NewNop())
	return f
}

func (f *engineFixture) assertNoWrites(t *testing.T) {
	t.Helper()
	f.progress.AssertNotCalled(t, "CommitPosition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.progress.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishProgressUpdate", mock.Anything, mock.Anything)
}

func dialogStep(scenarioID uuid.UUID, next uuid.NullUUID, rawContent string) *models.ScenarioStep {
	return &models.ScenarioStep{
		ID:         uuid.New(),
		ScenarioID: scenarioID,
		Type:       models.StepTypeDialog,
		Content:    json.RawMessage(rawContent),
		NextStepID: next,
	}
}

func choiceContent(goodNext, badNext uuid.UUID) string {
	return fmt.Sprintf(`{"choices": [
		{"good": true, "next": "%s", "text": "Lock the workstation"},
		{"good": false, "next": "%s", "text": "Leave it unlocked"}
	]}`, goodNext, badNext)
}

func intPtr(v int) *int { return &v }

func TestAdvanceNormalSteps(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()

	t.Run("Dialog step with a next step advances", func(t *testing.T) {
		f := newEngineFixture()
		nextID := uuid.New()
		step := dialogStep(scenarioID, uuid.NullUUID{UUID: nextID, Valid: true}, `{"dialogs": [{"text": "hi"}]}`)

		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, nextID, false).Return(nil).Once()
		f.publisher.On("PublishProgressUpdate", ctx, mock.MatchedBy(func(p messaging.ProgressUpdate) bool {
			return p.UserID == userID.String() &&
				p.ScenarioID == scenarioID.String() &&
				p.StepID == nextID.String() &&
				p.Status == string(models.AdvanceStatusAdvanced)
		})).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusAdvanced, result.Status)
		assert.False(t, result.Frozen)
		require.True(t, result.TargetStepID.Valid)
		assert.Equal(t, nextID, result.TargetStepID.UUID)
		f.progress.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Terminal step without gating completes the scenario", func(t *testing.T) {
		f := newEngineFixture()
		step := dialogStep(scenarioID, uuid.NullUUID{}, `{"dialogs": [{"text": "the end"}]}`)

		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("MarkCompleted", ctx, userID, scenarioID, step.ID).Return(nil).Once()
		f.publisher.On("PublishProgressUpdate", ctx, mock.MatchedBy(func(p messaging.ProgressUpdate) bool {
			return p.Status == string(models.AdvanceStatusCompleted) && p.StepID == step.ID.String()
		})).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusCompleted, result.Status)
		assert.False(t, result.TargetStepID.Valid)
		f.progress.AssertExpectations(t)
	})

	t.Run("Repeating the same request yields the same decision", func(t *testing.T) {
		f := newEngineFixture()
		nextID := uuid.New()
		step := dialogStep(scenarioID, uuid.NullUUID{UUID: nextID, Valid: true}, ``)

		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Twice()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, nextID, false).Return(nil).Twice()
		f.publisher.On("PublishProgressUpdate", ctx, mock.Anything).Return(nil).Twice()

		req := service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID}
		first, err := f.engine.Advance(ctx, userID, req)
		require.NoError(t, err)
		second, err := f.engine.Advance(ctx, userID, req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Publish failure does not fail the request", func(t *testing.T) {
		f := newEngineFixture()
		nextID := uuid.New()
		step := dialogStep(scenarioID, uuid.NullUUID{UUID: nextID, Valid: true}, ``)

		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, nextID, false).Return(nil).Once()
		f.publisher.On("PublishProgressUpdate", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusAdvanced, result.Status)
	})

	t.Run("Concurrent position change surfaces a conflict", func(t *testing.T) {
		f := newEngineFixture()
		nextID := uuid.New()
		step := dialogStep(scenarioID, uuid.NullUUID{UUID: nextID, Valid: true}, ``)

		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, nextID, false).
			Return(models.ErrProgressConflict).Once()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		assert.ErrorIs(t, err, models.ErrProgressConflict)
		f.publisher.AssertNotCalled(t, "PublishProgressUpdate", mock.Anything, mock.Anything)
	})
}

func TestAdvanceChoiceSteps(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()
	goodNext := uuid.New()
	badNext := uuid.New()

	newChoiceStep := func() *models.ScenarioStep {
		return &models.ScenarioStep{
			ID:         uuid.New(),
			ScenarioID: scenarioID,
			Type:       models.StepTypeChoice,
			Content:    json.RawMessage(choiceContent(goodNext, badNext)),
		}
	}

	t.Run("Missing choice index requires a choice", func(t *testing.T) {
		f := newEngineFixture()
		step := newChoiceStep()
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusChoiceRequired, result.Status)
		f.assertNoWrites(t)
	})

	t.Run("Good option advances normally", func(t *testing.T) {
		f := newEngineFixture()
		step := newChoiceStep()
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, goodNext, false).Return(nil).Once()
		f.publisher.On("PublishProgressUpdate", ctx, mock.Anything).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, ChoiceIndex: intPtr(0),
		})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusAdvanced, result.Status)
		assert.Equal(t, goodNext, result.TargetStepID.UUID)
		f.progress.AssertExpectations(t)
	})

	t.Run("Bad option moves frozen onto the bad branch", func(t *testing.T) {
		f := newEngineFixture()
		step := newChoiceStep()
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, badNext, true).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, ChoiceIndex: intPtr(1),
		})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusAdvancedFrozen, result.Status)
		assert.True(t, result.Frozen)
		assert.Equal(t, badNext, result.TargetStepID.UUID)
		f.progress.AssertExpectations(t)
		f.publisher.AssertNotCalled(t, "PublishProgressUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Out of range index is rejected without persistence", func(t *testing.T) {
		f := newEngineFixture()
		step := newChoiceStep()
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Twice()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, ChoiceIndex: intPtr(2),
		})
		assert.ErrorIs(t, err, service.ErrInvalidChoice)

		_, err = f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, ChoiceIndex: intPtr(-1),
		})
		assert.ErrorIs(t, err, service.ErrInvalidChoice)
		f.assertNoWrites(t)
	})

	t.Run("Choice gating wins over an attached quiz", func(t *testing.T) {
		f := newEngineFixture()
		step := newChoiceStep()
		step.QuizID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, QuizAnswer: intPtr(0),
		})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusChoiceRequired, result.Status)
		f.quizzes.AssertNotCalled(t, "CheckAnswer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdvanceQuizGatedSteps(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()
	quizID := uuid.New()

	newQuizStep := func(next uuid.NullUUID) *models.ScenarioStep {
		return &models.ScenarioStep{
			ID:         uuid.New(),
			ScenarioID: scenarioID,
			Type:       models.StepTypeDialog,
			Content:    json.RawMessage(`{"dialogs": [{"text": "quiz time"}]}`),
			QuizID:     uuid.NullUUID{UUID: quizID, Valid: true},
			NextStepID: next,
		}
	}

	t.Run("Missing answer requires the quiz", func(t *testing.T) {
		f := newEngineFixture()
		step := newQuizStep(uuid.NullUUID{UUID: uuid.New(), Valid: true})
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusQuizRequired, result.Status)
		f.quizzes.AssertNotCalled(t, "CheckAnswer", mock.Anything, mock.Anything, mock.Anything)
		f.assertNoWrites(t)
	})

	t.Run("Wrong answer keeps the user in place", func(t *testing.T) {
		f := newEngineFixture()
		step := newQuizStep(uuid.NullUUID{UUID: uuid.New(), Valid: true})
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.quizzes.On("CheckAnswer", ctx, quizID, 1).Return(false, nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, QuizAnswer: intPtr(1),
		})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusQuizWrong, result.Status)
		f.assertNoWrites(t)
	})

	t.Run("Correct answer advances", func(t *testing.T) {
		f := newEngineFixture()
		nextID := uuid.New()
		step := newQuizStep(uuid.NullUUID{UUID: nextID, Valid: true})
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.quizzes.On("CheckAnswer", ctx, quizID, 0).Return(true, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, nextID, false).Return(nil).Once()
		f.publisher.On("PublishProgressUpdate", ctx, mock.Anything).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, QuizAnswer: intPtr(0),
		})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusAdvanced, result.Status)
		assert.Equal(t, nextID, result.TargetStepID.UUID)
	})

	t.Run("Correct answer on a terminal step completes the scenario", func(t *testing.T) {
		f := newEngineFixture()
		step := newQuizStep(uuid.NullUUID{})
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.quizzes.On("CheckAnswer", ctx, quizID, 2).Return(true, nil).Once()
		f.progress.On("MarkCompleted", ctx, userID, scenarioID, step.ID).Return(nil).Once()
		f.publisher.On("PublishProgressUpdate", ctx, mock.Anything).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, QuizAnswer: intPtr(2),
		})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusCompleted, result.Status)
		f.progress.AssertExpectations(t)
	})

	t.Run("Negative answer is rejected", func(t *testing.T) {
		f := newEngineFixture()
		step := newQuizStep(uuid.NullUUID{UUID: uuid.New(), Valid: true})
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, QuizAnswer: intPtr(-1),
		})
		assert.ErrorIs(t, err, service.ErrInvalidQuizAnswer)
		f.quizzes.AssertNotCalled(t, "CheckAnswer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Dangling quiz reference is reported", func(t *testing.T) {
		f := newEngineFixture()
		step := newQuizStep(uuid.NullUUID{UUID: uuid.New(), Valid: true})
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.quizzes.On("CheckAnswer", ctx, quizID, 0).Return(false, models.ErrQuizNotFound).Once()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{
			ScenarioID: scenarioID, CurrentStepID: step.ID, QuizAnswer: intPtr(0),
		})
		assert.ErrorIs(t, err, models.ErrQuizNotFound)
	})
}

func TestAdvanceBadBranch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()

	t.Run("Bad branch step moves frozen toward the ending", func(t *testing.T) {
		f := newEngineFixture()
		nextID := uuid.New()
		step := dialogStep(scenarioID, uuid.NullUUID{UUID: nextID, Valid: true}, `{"meta": {"branch": "bad"}}`)
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, nextID, true).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusAdvancedFrozen, result.Status)
		assert.True(t, result.Frozen)
		f.publisher.AssertNotCalled(t, "PublishProgressUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Bad ending is terminal and never persisted", func(t *testing.T) {
		f := newEngineFixture()
		step := dialogStep(scenarioID, uuid.NullUUID{UUID: uuid.New(), Valid: true}, `{"meta": {"badEnding": true}}`)
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusBadEnding, result.Status)
		assert.True(t, result.Frozen)
		assert.False(t, result.TargetStepID.Valid)
		f.assertNoWrites(t)
	})

	t.Run("Bad branch routing pre-empts choice gating", func(t *testing.T) {
		f := newEngineFixture()
		nextID := uuid.New()
		step := &models.ScenarioStep{
			ID:         uuid.New(),
			ScenarioID: scenarioID,
			Type:       models.StepTypeChoice,
			Content: json.RawMessage(fmt.Sprintf(
				`{"meta": {"branch": "bad"}, "choices": [{"good": true, "next": "%s", "text": "x"}]}`, uuid.New())),
			NextStepID: uuid.NullUUID{UUID: nextID, Valid: true},
		}
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.progress.On("CommitPosition", ctx, userID, scenarioID, step.ID, nextID, true).Return(nil).Once()

		result, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		require.NoError(t, err)
		assert.Equal(t, models.AdvanceStatusAdvancedFrozen, result.Status)
		assert.Equal(t, nextID, result.TargetStepID.UUID)
	})

	t.Run("Bad branch dead end is an integrity error", func(t *testing.T) {
		f := newEngineFixture()
		step := dialogStep(scenarioID, uuid.NullUUID{}, `{"meta": {"branch": "bad"}}`)
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		assert.ErrorIs(t, err, models.ErrContentIntegrity)
		f.assertNoWrites(t)
	})
}

func TestAdvanceStepLookup(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()

	t.Run("Unknown step", func(t *testing.T) {
		f := newEngineFixture()
		stepID := uuid.New()
		f.steps.On("GetByID", ctx, stepID).Return(nil, models.ErrStepNotFound).Once()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: stepID})
		assert.ErrorIs(t, err, models.ErrStepNotFound)
	})

	t.Run("Step from another scenario is treated as unknown", func(t *testing.T) {
		f := newEngineFixture()
		step := dialogStep(uuid.New(), uuid.NullUUID{UUID: uuid.New(), Valid: true}, ``)
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: step.ID})
		assert.ErrorIs(t, err, models.ErrStepNotFound)
		f.assertNoWrites(t)
	})

	t.Run("Repository failure maps to internal error", func(t *testing.T) {
		f := newEngineFixture()
		stepID := uuid.New()
		f.steps.On("GetByID", ctx, stepID).Return(nil, errors.New("connection refused")).Once()

		_, err := f.engine.Advance(ctx, userID, service.AdvanceRequest{ScenarioID: scenarioID, CurrentStepID: stepID})
		assert.ErrorIs(t, err, models.ErrInternalServer)
	})
}

func TestGetPosition(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()

	t.Run("Returns the stored progress", func(t *testing.T) {
		f := newEngineFixture()
		progress := &models.PlayerProgress{
			ID:             uuid.New(),
			UserID:         userID,
			ScenarioID:     scenarioID,
			CurrentStepID:  uuid.New(),
			FurthestStepID: uuid.New(),
		}
		f.progress.On("GetByUserAndScenario", ctx, userID, scenarioID).Return(progress, nil).Once()

		got, err := f.engine.GetPosition(ctx, userID, scenarioID)
		require.NoError(t, err)
		assert.Equal(t, progress, got)
	})

	t.Run("Not started", func(t *testing.T) {
		f := newEngineFixture()
		f.progress.On("GetByUserAndScenario", ctx, userID, scenarioID).Return(nil, models.ErrProgressNotFound).Once()

		_, err := f.engine.GetPosition(ctx, userID, scenarioID)
		assert.ErrorIs(t, err, models.ErrProgressNotFound)
	})
}

func TestGetStepView(t *testing.T) {
	ctx := context.Background()

	t.Run("Sanitizes choice routing away", func(t *testing.T) {
		f := newEngineFixture()
		step := &models.ScenarioStep{
			ID:         uuid.New(),
			ScenarioID: uuid.New(),
			Type:       models.StepTypeChoice,
			Content:    json.RawMessage(choiceContent(uuid.New(), uuid.New())),
		}
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()

		view, err := f.engine.GetStepView(ctx, step.ID)
		require.NoError(t, err)
		assert.Equal(t, step.ID, view.ID)
		assert.Equal(t, models.StepTypeChoice, view.Type)
		assert.NotContains(t, string(view.Content), "good")
		assert.NotContains(t, string(view.Content), "next")
		assert.Contains(t, string(view.Content), "Lock the workstation")
		assert.Nil(t, view.Quiz)
	})

	t.Run("Attaches the quiz for quiz gated steps", func(t *testing.T) {
		f := newEngineFixture()
		quiz := &models.Quiz{ID: uuid.New(), Question: "Which port does HTTPS use?", Options: []string{"80", "443", "8080"}}
		step := &models.ScenarioStep{
			ID:         uuid.New(),
			ScenarioID: uuid.New(),
			Type:       models.StepTypeDialog,
			Content:    json.RawMessage(`{"dialogs": [{"text": "pop quiz"}]}`),
			QuizID:     uuid.NullUUID{UUID: quiz.ID, Valid: true},
		}
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.quizzes.On("GetByID", ctx, quiz.ID).Return(quiz, nil).Once()

		view, err := f.engine.GetStepView(ctx, step.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Quiz)
		assert.Equal(t, quiz.Question, view.Quiz.Question)
	})

	t.Run("Dangling quiz reference is reported", func(t *testing.T) {
		f := newEngineFixture()
		step := &models.ScenarioStep{
			ID:         uuid.New(),
			ScenarioID: uuid.New(),
			Type:       models.StepTypeDialog,
			QuizID:     uuid.NullUUID{UUID: uuid.New(), Valid: true},
		}
		f.steps.On("GetByID", ctx, step.ID).Return(step, nil).Once()
		f.quizzes.On("GetByID", ctx, step.QuizID.UUID).Return(nil, models.ErrQuizNotFound).Once()

		_, err := f.engine.GetStepView(ctx, step.ID)
		assert.ErrorIs(t, err, models.ErrQuizNotFound)
	})

	t.Run("Unknown step", func(t *testing.T) {
		f := newEngineFixture()
		stepID := uuid.New()
		f.steps.On("GetByID", ctx, stepID).Return(nil, models.ErrStepNotFound).Once()

		_, err := f.engine.GetStepView(ctx, stepID)
		assert.ErrorIs(t, err, models.ErrStepNotFound)
	})
}
