package service

import (
	"github.com/google/uuid"

	"scenario-server/internal/models"
)

// AdvanceInput is the caller-supplied part of an advance request. Both fields
// are optional; their presence is what distinguishes "show me the gate" from
// "here is my answer".
type AdvanceInput struct {
	ChoiceIndex *int
	QuizAnswer  *int
}

// StepContext is the immutable snapshot the resolver and processors operate
// on. It is assembled fresh for every advance request and never persisted.
type StepContext struct {
	UserID    uuid.UUID
	Current   *models.ScenarioStep
	Content   models.ContentInfo
	BadBranch bool
	BadEnding bool
	Input     AdvanceInput
}

func newStepContext(userID uuid.UUID, step *models.ScenarioStep, info models.ContentInfo, input AdvanceInput) StepContext {
	return StepContext{
		UserID:    userID,
		Current:   step,
		Content:   info,
		BadBranch: info.Meta.IsBadBranch(),
		BadEnding: info.Meta.IsBadEnding(),
		Input:     input,
	}
}
