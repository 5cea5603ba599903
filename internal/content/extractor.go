// Package content parses authored step payloads into the projections the
// engine and the transport layer need. Extraction is a pure transform: it
// tolerates unknown and absent optional fields and touches no I/O.
package content

import (
	"encoding/json"
	"fmt"

	"scenario-server/internal/models"
)

// envelope is a superset of every per-type content schema. Fields a given
// step type does not carry simply stay zero, which gives the tolerant
// single-pass read the extractor needs.
type envelope struct {
	Meta    *models.StepMeta      `json:"meta"`
	Dialogs []models.DialogLine   `json:"dialogs"`
	Choices []models.ChoiceOption `json:"choices"`
	Title   string                `json:"title"`
	Text    string                `json:"text"`
}

// Extract builds the ContentInfo projection for a step's raw content.
//
// Absent meta yields a nil Meta, treated downstream as "not bad branch, not
// bad ending". HasChoices is true whenever the payload carries a non-empty
// choices sequence regardless of the declared type, so a future step type
// carrying choices is still routed correctly. A payload that cannot be parsed
// into the schema implied by the declared type is a content-integrity error.
func Extract(stepType models.StepType, raw json.RawMessage) (models.ContentInfo, error) {
	if len(raw) == 0 {
		if stepType == models.StepTypeChoice {
			return models.ContentInfo{}, fmt.Errorf("%w: CHOICE step has no content", models.ErrContentIntegrity)
		}
		return models.ContentInfo{}, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.ContentInfo{}, fmt.Errorf("%w: cannot parse %s content: %v", models.ErrContentIntegrity, stepType, err)
	}

	if stepType == models.StepTypeChoice && len(env.Choices) == 0 {
		return models.ContentInfo{}, fmt.Errorf("%w: CHOICE step carries no options", models.ErrContentIntegrity)
	}

	return models.ContentInfo{
		Meta:       env.Meta,
		HasChoices: len(env.Choices) > 0,
		Choices:    env.Choices,
	}, nil
}
