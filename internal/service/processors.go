package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scenario-server/internal/models"
	"scenario-server/internal/repository"
)

// stepProcessor turns a step context into an advance decision. The four
// implementations below form a sealed set; resolveProcessor picks one per
// request.
type stepProcessor interface {
	Process(ctx context.Context, sc StepContext) (models.AdvanceResult, error)
}

// --- Bad-Branch ---

// badBranchProcessor handles steps flagged as bad branch or bad ending.
// Movement inside the bad branch is always frozen so the furthest-progress
// pointer keeps resuming from the last good-path step.
type badBranchProcessor struct {
	logger *zap.Logger
}

func (p *badBranchProcessor) Process(_ context.Context, sc StepContext) (models.AdvanceResult, error) {
	if sc.BadEnding {
		// Terminal: no target, never persisted as forward progress.
		return models.AdvanceResult{Status: models.AdvanceStatusBadEnding, Frozen: true}, nil
	}

	if !sc.Current.NextStepID.Valid {
		p.logger.Error("Bad-branch step has no onward step and is not an ending",
			zap.Stringer("stepID", sc.Current.ID))
		return models.AdvanceResult{}, fmt.Errorf("%w: bad-branch step %s has no next step", models.ErrContentIntegrity, sc.Current.ID)
	}

	return models.AdvanceResult{
		Status:       models.AdvanceStatusAdvancedFrozen,
		TargetStepID: sc.Current.NextStepID,
		Frozen:       true,
	}, nil
}

// --- Choice ---

// choiceProcessor validates and routes a submitted choice on a CHOICE step.
type choiceProcessor struct {
	logger *zap.Logger
}

func (p *choiceProcessor) Process(_ context.Context, sc StepContext) (models.AdvanceResult, error) {
	if sc.Input.ChoiceIndex == nil {
		return models.AdvanceResult{Status: models.AdvanceStatusChoiceRequired}, nil
	}

	idx := *sc.Input.ChoiceIndex
	if idx < 0 || idx >= len(sc.Content.Choices) {
		p.logger.Warn("Submitted choice index matches no option",
			zap.Stringer("stepID", sc.Current.ID),
			zap.Int("choiceIndex", idx),
			zap.Int("optionsAvailable", len(sc.Content.Choices)))
		return models.AdvanceResult{}, fmt.Errorf("%w: index %d for step with %d options", ErrInvalidChoice, idx, len(sc.Content.Choices))
	}

	option := sc.Content.Choices[idx]
	info := models.ChoiceInfo{Good: option.Good, NextStepID: option.Next}

	if !info.Good {
		// A bad option leads onto the bad branch; picking it must not be
		// recorded as forward progress.
		return models.AdvanceResult{
			Status:       models.AdvanceStatusAdvancedFrozen,
			TargetStepID: uuid.NullUUID{UUID: info.NextStepID, Valid: true},
			Frozen:       true,
		}, nil
	}

	return models.AdvanceResult{
		Status:       models.AdvanceStatusAdvanced,
		TargetStepID: uuid.NullUUID{UUID: info.NextStepID, Valid: true},
	}, nil
}

// --- Quiz-Gate ---

// quizGateProcessor withholds advancement on quiz-carrying steps until the
// associated quiz is answered correctly. There is no retry limit at this
// layer; the caller may re-prompt indefinitely.
type quizGateProcessor struct {
	quizzes repository.QuizRepository
	logger  *zap.Logger
}

func (p *quizGateProcessor) Process(ctx context.Context, sc StepContext) (models.AdvanceResult, error) {
	if sc.Input.QuizAnswer == nil {
		return models.AdvanceResult{Status: models.AdvanceStatusQuizRequired}, nil
	}

	answer := *sc.Input.QuizAnswer
	if answer < 0 {
		return models.AdvanceResult{}, fmt.Errorf("%w: answer index must be non-negative", ErrInvalidQuizAnswer)
	}

	correct, err := p.quizzes.CheckAnswer(ctx, sc.Current.QuizID.UUID, answer)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrQuizNotFound) {
			p.logger.Error("Step references a quiz that does not exist",
				zap.Stringer("stepID", sc.Current.ID),
				zap.Stringer("quizID", sc.Current.QuizID.UUID))
			return models.AdvanceResult{}, models.ErrQuizNotFound
		}
		p.logger.Error("Failed to check quiz answer", zap.Stringer("quizID", sc.Current.QuizID.UUID), zap.Error(err))
		return models.AdvanceResult{}, models.ErrInternalServer
	}

	if !correct {
		return models.AdvanceResult{Status: models.AdvanceStatusQuizWrong}, nil
	}

	if !sc.Current.NextStepID.Valid {
		// Correct answer on the final step completes the scenario.
		return models.AdvanceResult{Status: models.AdvanceStatusCompleted}, nil
	}

	return models.AdvanceResult{
		Status:       models.AdvanceStatusAdvanced,
		TargetStepID: sc.Current.NextStepID,
	}, nil
}

// --- Normal ---

// normalProcessor is the default forward movement for steps with no gating.
type normalProcessor struct{}

func (p *normalProcessor) Process(_ context.Context, sc StepContext) (models.AdvanceResult, error) {
	if !sc.Current.NextStepID.Valid {
		return models.AdvanceResult{Status: models.AdvanceStatusCompleted}, nil
	}
	return models.AdvanceResult{
		Status:       models.AdvanceStatusAdvanced,
		TargetStepID: sc.Current.NextStepID,
	}, nil
}
