package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StepType discriminates the content schema stored in ScenarioStep.Content.
type StepType string

const (
	StepTypeDialog  StepType = "DIALOG"
	StepTypeChoice  StepType = "CHOICE"
	StepTypeOverlay StepType = "OVERLAY"
	StepTypeModal   StepType = "MODAL"
	StepTypeEtc     StepType = "ETC"
)

// ScenarioStep is one unit of scenario content. Owned by content authoring;
// the engine only ever reads it.
type ScenarioStep struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ScenarioID uuid.UUID       `db:"scenario_id" json:"scenarioId"`
	Type       StepType        `db:"type" json:"type"`
	Content    json.RawMessage `db:"content" json:"content"`
	QuizID     uuid.NullUUID   `db:"quiz_id" json:"quizId,omitempty"`
	NextStepID uuid.NullUUID   `db:"next_step_id" json:"nextStepId,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// BranchBad is the StepMeta.Branch value marking a step as part of the bad branch.
const BranchBad = "bad"

// StepMeta carries the routing flags embedded in step content.
// Both fields are optional in authored content; absence means
// "not bad branch, not bad ending".
type StepMeta struct {
	Branch    *string `json:"branch,omitempty"`
	BadEnding *bool   `json:"badEnding,omitempty"`
}

// IsBadBranch reports whether the meta marks the step as part of the bad branch.
func (m *StepMeta) IsBadBranch() bool {
	return m != nil && m.Branch != nil && *m.Branch == BranchBad
}

// IsBadEnding reports whether the meta marks the step as a terminal bad ending.
func (m *StepMeta) IsBadEnding() bool {
	return m != nil && m.BadEnding != nil && *m.BadEnding
}

// DialogLine is a single displayed line within a DIALOG or OVERLAY step.
type DialogLine struct {
	Text      string `json:"text"`
	Character string `json:"character,omitempty"`
	Image     string `json:"image,omitempty"`
}

// DialogContent is the content schema for DIALOG and OVERLAY steps.
type DialogContent struct {
	Meta    *StepMeta    `json:"meta,omitempty"`
	Dialogs []DialogLine `json:"dialogs,omitempty"`
}

// ChoiceOption is one selectable option on a CHOICE step. Good marks whether
// picking it keeps the user on the success path; Next is the target step.
type ChoiceOption struct {
	Good bool      `json:"good"`
	Next uuid.UUID `json:"next"`
	Text string    `json:"text"`
}

// ChoiceContent is the content schema for CHOICE steps.
type ChoiceContent struct {
	Meta    *StepMeta      `json:"meta,omitempty"`
	Choices []ChoiceOption `json:"choices"`
}

// ModalContent is the content schema for MODAL and ETC steps.
type ModalContent struct {
	Meta  *StepMeta `json:"meta,omitempty"`
	Title string    `json:"title,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// ContentInfo is the minimal projection of a step's content needed for
// routing, extracted once per advance request so the raw payload is not
// re-parsed across checks.
type ContentInfo struct {
	Meta       *StepMeta
	HasChoices bool
	Choices    []ChoiceOption
}

// ChoiceInfo is the resolved outcome of a submitted choice.
type ChoiceInfo struct {
	Good       bool
	NextStepID uuid.UUID
}
