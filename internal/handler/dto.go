package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"scenario-server/internal/models"
)

// APIError is the standardized error response body.
type APIError struct {
	Message string `json:"message"`
}

// AdvanceRequestDTO is the body of POST /api/scenarios/:scenario_id/advance.
// ChoiceIndex is the 0-based index of the selected option on a CHOICE step;
// QuizAnswer is the 0-based index of the selected quiz option.
type AdvanceRequestDTO struct {
	CurrentStepID uuid.UUID `json:"current_step_id"`
	ChoiceIndex   *int      `json:"choice_index,omitempty"`
	QuizAnswer    *int      `json:"quiz_answer,omitempty"`
}

// AdvanceResponseDTO mirrors the engine's decision for the client.
type AdvanceResponseDTO struct {
	Status       string     `json:"status"`
	TargetStepID *uuid.UUID `json:"target_step_id,omitempty"`
	Frozen       bool       `json:"frozen"`
}

func newAdvanceResponseDTO(result *models.AdvanceResult) AdvanceResponseDTO {
	dto := AdvanceResponseDTO{
		Status: string(result.Status),
		Frozen: result.Frozen,
	}
	if result.TargetStepID.Valid {
		target := result.TargetStepID.UUID
		dto.TargetStepID = &target
	}
	return dto
}

// PositionResponseDTO exposes both progress pointers.
type PositionResponseDTO struct {
	ScenarioID     uuid.UUID  `json:"scenario_id"`
	CurrentStepID  uuid.UUID  `json:"current_step_id"`
	FurthestStepID uuid.UUID  `json:"furthest_step_id"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// QuizDTO is a quiz without its correct option.
type QuizDTO struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Options  []string  `json:"options"`
}

// StepResponseDTO is a step prepared for display: sanitized content, quiz
// question included when the step is quiz-gated.
type StepResponseDTO struct {
	ID      uuid.UUID       `json:"id"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
	Quiz    *QuizDTO        `json:"quiz,omitempty"`
}
