package models

import "github.com/google/uuid"

// AdvanceStatus tags the outcome of a single advance request.
// Gating statuses (QUIZ_REQUIRED, QUIZ_WRONG, CHOICE_REQUIRED) are normal
// outcomes, not errors.
type AdvanceStatus string

const (
	AdvanceStatusQuizRequired   AdvanceStatus = "QUIZ_REQUIRED"
	AdvanceStatusQuizWrong      AdvanceStatus = "QUIZ_WRONG"
	AdvanceStatusChoiceRequired AdvanceStatus = "CHOICE_REQUIRED"
	AdvanceStatusAdvancedFrozen AdvanceStatus = "ADVANCED_FROZEN"
	AdvanceStatusBadEnding      AdvanceStatus = "BAD_ENDING"
	AdvanceStatusAdvanced       AdvanceStatus = "ADVANCED"
	AdvanceStatusCompleted      AdvanceStatus = "COMPLETED"
)

// AdvanceResult is the engine's decision for one advance request.
// Frozen results move the display pointer only; the furthest-progress pointer
// must not be updated when persisting them.
type AdvanceResult struct {
	Status       AdvanceStatus `json:"status"`
	TargetStepID uuid.NullUUID `json:"targetStepId,omitempty"`
	Frozen       bool          `json:"frozen"`
}

// Moved reports whether the result carries a new display position to persist.
func (r AdvanceResult) Moved() bool {
	return r.Status == AdvanceStatusAdvanced || r.Status == AdvanceStatusAdvancedFrozen
}
