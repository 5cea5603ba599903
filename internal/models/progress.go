package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerProgress tracks a user's position within one scenario.
//
// CurrentStepID is the display pointer: where the user is shown right now,
// including detours into the bad branch. FurthestStepID is the resume and
// completion pointer and is never moved by frozen advancement, so re-entering
// the scenario resumes from the last good-path step.
type PlayerProgress struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"userId"`
	ScenarioID     uuid.UUID  `db:"scenario_id" json:"scenarioId"`
	CurrentStepID  uuid.UUID  `db:"current_step_id" json:"currentStepId"`
	FurthestStepID uuid.UUID  `db:"furthest_step_id" json:"furthestStepId"`
	CompletedAt    *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsCompleted reports whether the user has reached the end of the scenario.
func (p *PlayerProgress) IsCompleted() bool {
	return p.CompletedAt != nil
}
