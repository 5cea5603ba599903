// Package repository holds the persistence collaborators consumed by the
// scenario engine. Interfaces live here; postgres and redis implementations
// sit alongside them.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"scenario-server/internal/models"
)

// DBTX abstracts over *pgxpool.Pool and pgx.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StepRepository provides read access to authored scenario steps.
type StepRepository interface {
	// GetByID retrieves a step by its unique ID.
	// Returns models.ErrStepNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScenarioStep, error)
}

// QuizRepository provides read access to quizzes and answer validation.
type QuizRepository interface {
	// GetByID retrieves a quiz by its unique ID.
	// Returns models.ErrQuizNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)

	// CheckAnswer reports whether the submitted 0-based option index is the
	// quiz's correct answer. Returns models.ErrQuizNotFound for unknown ids.
	CheckAnswer(ctx context.Context, quizID uuid.UUID, answer int) (bool, error)
}

// ProgressRepository persists a user's position within a scenario.
//
// Implementations must keep the display pointer and the furthest-progress
// pointer as two independently-settable fields: frozen commits update only
// the former.
type ProgressRepository interface {
	// GetByUserAndScenario loads the user's progress row for a scenario.
	// Returns models.ErrProgressNotFound if the user has not started it.
	GetByUserAndScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error)

	// CommitPosition durably records a movement decision computed from
	// fromStepID. It serializes per-user updates and returns
	// models.ErrProgressConflict when the stored display pointer no longer
	// matches fromStepID, so a decision computed from a stale position is
	// never committed.
	CommitPosition(ctx context.Context, userID, scenarioID, fromStepID, toStepID uuid.UUID, frozen bool) error

	// MarkCompleted records that the user finished the scenario at
	// finalStepID, moving both pointers there and stamping completion.
	MarkCompleted(ctx context.Context, userID, scenarioID, finalStepID uuid.UUID) error
}
