package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scenario-server/internal/content"
	"scenario-server/internal/messaging"
	"scenario-server/internal/models"
	"scenario-server/internal/repository"
)

// AdvanceRequest carries one attempt to move forward from a step.
type AdvanceRequest struct {
	ScenarioID    uuid.UUID
	CurrentStepID uuid.UUID
	ChoiceIndex   *int
	QuizAnswer    *int
}

// StepView is a client-safe projection of a step: content with routing
// outcomes stripped, plus the quiz question when the step is quiz-gated.
type StepView struct {
	ID      uuid.UUID       `json:"id"`
	Type    models.StepType `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
	Quiz    *models.Quiz    `json:"quiz,omitempty"`
}

// ScenarioEngine decides how a user's position moves through a scenario.
//
// The engine itself is stateless and synchronous: every Advance call derives
// its whole decision from the inputs it is given, making it re-computable
// under contention. Serializing concurrent commits per user is the progress
// repository's job.
type ScenarioEngine interface {
	// Advance evaluates one progression attempt from req.CurrentStepID and
	// persists the new position when the decision indicates movement.
	// Gating statuses are returned as results, never as errors.
	Advance(ctx context.Context, userID uuid.UUID, req AdvanceRequest) (*models.AdvanceResult, error)

	// GetPosition returns the user's progress row for a scenario.
	GetPosition(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error)

	// GetStepView returns a step prepared for client display.
	GetStepView(ctx context.Context, stepID uuid.UUID) (*StepView, error)
}

type scenarioEngine struct {
	steps     repository.StepRepository
	quizzes   repository.QuizRepository
	progress  repository.ProgressRepository
	publisher messaging.ProgressPublisher
	logger    *zap.Logger

	badBranch stepProcessor
	choice    stepProcessor
	quizGate  stepProcessor
	normal    stepProcessor
}

// NewScenarioEngine wires the engine with its collaborators.
func NewScenarioEngine(
	steps repository.StepRepository,
	quizzes repository.QuizRepository,
	progress repository.ProgressRepository,
	publisher messaging.ProgressPublisher,
	logger *zap.Logger,
) ScenarioEngine {
	log := logger.Named("ScenarioEngine")
	return &scenarioEngine{
		steps:     steps,
		quizzes:   quizzes,
		progress:  progress,
		publisher: publisher,
		logger:    log,
		badBranch: &badBranchProcessor{logger: log},
		choice:    &choiceProcessor{logger: log},
		quizGate:  &quizGateProcessor{quizzes: quizzes, logger: log},
		normal:    &normalProcessor{},
	}
}

func (e *scenarioEngine) Advance(ctx context.Context, userID uuid.UUID, req AdvanceRequest) (*models.AdvanceResult, error) {
	log := e.logger.With(
		zap.Stringer("userID", userID),
		zap.Stringer("scenarioID", req.ScenarioID),
		zap.Stringer("currentStepID", req.CurrentStepID),
	)
	log.Debug("Advance called")

	step, err := e.steps.GetByID(ctx, req.CurrentStepID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrStepNotFound) {
			log.Warn("Current step not found")
			return nil, models.ErrStepNotFound
		}
		log.Error("Failed to load current step", zap.Error(err))
		return nil, models.ErrInternalServer
	}

	if step.ScenarioID != req.ScenarioID {
		// Step exists but belongs to another scenario; treat as not found
		// rather than leaking cross-scenario structure.
		log.Warn("Step does not belong to requested scenario", zap.Stringer("ownerScenarioID", step.ScenarioID))
		return nil, models.ErrStepNotFound
	}

	info, err := content.Extract(step.Type, step.Content)
	if err != nil {
		log.Error("Step content failed extraction", zap.String("stepType", string(step.Type)), zap.Error(err))
		return nil, err
	}

	sc := newStepContext(userID, step, info, AdvanceInput{
		ChoiceIndex: req.ChoiceIndex,
		QuizAnswer:  req.QuizAnswer,
	})

	processor := e.resolveProcessor(sc)
	result, err := processor.Process(ctx, sc)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("status", string(result.Status)))

	switch {
	case result.Moved():
		if err := e.progress.CommitPosition(ctx, userID, step.ScenarioID, step.ID, result.TargetStepID.UUID, result.Frozen); err != nil {
			if errors.Is(err, models.ErrProgressConflict) {
				log.Warn("Position moved concurrently, decision not committed")
				return nil, models.ErrProgressConflict
			}
			log.Error("Failed to commit new position", zap.Error(err))
			return nil, models.ErrInternalServer
		}
	case result.Status == models.AdvanceStatusCompleted:
		if err := e.progress.MarkCompleted(ctx, userID, step.ScenarioID, step.ID); err != nil {
			log.Error("Failed to mark scenario completed", zap.Error(err))
			return nil, models.ErrInternalServer
		}
	}

	e.publishProgressUpdate(ctx, log, userID, step, result)

	log.Info("Advance decided")
	return &result, nil
}

// publishProgressUpdate emits an event for durable movement. Publish failures
// are logged and never fail the request; the decision is already committed.
func (e *scenarioEngine) publishProgressUpdate(ctx context.Context, log *zap.Logger, userID uuid.UUID, step *models.ScenarioStep, result models.AdvanceResult) {
	if e.publisher == nil {
		return
	}
	if result.Status != models.AdvanceStatusAdvanced && result.Status != models.AdvanceStatusCompleted {
		return
	}

	stepID := step.ID
	if result.TargetStepID.Valid {
		stepID = result.TargetStepID.UUID
	}
	payload := messaging.ProgressUpdate{
		UserID:     userID.String(),
		ScenarioID: step.ScenarioID.String(),
		StepID:     stepID.String(),
		Status:     string(result.Status),
		OccurredAt: time.Now().UTC(),
	}
	if err := e.publisher.PublishProgressUpdate(ctx, payload); err != nil {
		log.Warn("Failed to publish progress update", zap.Error(err))
	}
}

func (e *scenarioEngine) GetPosition(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	progress, err := e.progress.GetByUserAndScenario(ctx, userID, scenarioID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrProgressNotFound) {
			return nil, models.ErrProgressNotFound
		}
		e.logger.Error("Failed to load player progress",
			zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return nil, models.ErrInternalServer
	}
	return progress, nil
}

func (e *scenarioEngine) GetStepView(ctx context.Context, stepID uuid.UUID) (*StepView, error) {
	log := e.logger.With(zap.Stringer("stepID", stepID))

	step, err := e.steps.GetByID(ctx, stepID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrStepNotFound) {
			return nil, models.ErrStepNotFound
		}
		log.Error("Failed to load step", zap.Error(err))
		return nil, models.ErrInternalServer
	}

	sanitized, err := content.Sanitize(step.Type, step.Content)
	if err != nil {
		log.Error("Step content failed sanitizing", zap.Error(err))
		return nil, err
	}

	view := &StepView{ID: step.ID, Type: step.Type, Content: sanitized}

	if step.QuizID.Valid {
		quiz, err := e.quizzes.GetByID(ctx, step.QuizID.UUID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrQuizNotFound) {
				log.Error("Step references a quiz that does not exist", zap.Stringer("quizID", step.QuizID.UUID))
				return nil, models.ErrQuizNotFound
			}
			log.Error("Failed to load quiz", zap.Stringer("quizID", step.QuizID.UUID), zap.Error(err))
			return nil, models.ErrInternalServer
		}
		view.Quiz = quiz
	}

	return view, nil
}
