package models

import (
	"time"

	"github.com/google/uuid"
)

// Quiz gates advancement on the step that references it.
// CorrectOption is a 0-based index into Options and is never sent to clients.
type Quiz struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Question      string    `db:"question" json:"question"`
	Options       []string  `db:"options" json:"options"`
	CorrectOption int       `db:"correct_option" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
