package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"scenario-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ StepRepository = (*pgStepRepository)(nil)

type pgStepRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgStepRepository creates a new postgres-backed step repository.
func NewPgStepRepository(db DBTX, logger *zap.Logger) StepRepository {
	return &pgStepRepository{
		db:     db,
		logger: logger.Named("PgStepRepo"),
	}
}

const getStepByIDQuery = `
SELECT id, scenario_id, type, content, quiz_id, next_step_id, created_at
FROM scenario_steps
WHERE id = $1`

// GetByID retrieves a single step record.
func (r *pgStepRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScenarioStep, error) {
	step := &models.ScenarioStep{}

	err := r.db.QueryRow(ctx, getStepByIDQuery, id).Scan(
		&step.ID,
		&step.ScenarioID,
		&step.Type,
		&step.Content,
		&step.QuizID,
		&step.NextStepID,
		&step.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrStepNotFound
		}
		r.logger.Error("Failed to get scenario step", zap.Stringer("stepID", id), zap.Error(err))
		return nil, err
	}

	return step, nil
}
