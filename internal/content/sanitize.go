package content

import (
	"encoding/json"
	"fmt"

	"scenario-server/internal/models"
)

// sanitizedChoice is a ChoiceOption with the routing fields stripped.
// Clients pick options by index; good/next would leak the outcome.
type sanitizedChoice struct {
	Text string `json:"text"`
}

type sanitizedContent struct {
	Meta    *models.StepMeta    `json:"meta,omitempty"`
	Dialogs []models.DialogLine `json:"dialogs,omitempty"`
	Choices []sanitizedChoice   `json:"choices,omitempty"`
	Title   string              `json:"title,omitempty"`
	Text    string              `json:"text,omitempty"`
}

// Sanitize re-encodes step content for client display, dropping the good
// flags and target step ids from choice options.
func Sanitize(stepType models.StepType, raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s content: %v", models.ErrContentIntegrity, stepType, err)
	}

	out := sanitizedContent{
		Meta:    env.Meta,
		Dialogs: env.Dialogs,
		Title:   env.Title,
		Text:    env.Text,
	}
	for _, opt := range env.Choices {
		out.Choices = append(out.Choices, sanitizedChoice{Text: opt.Text})
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}
