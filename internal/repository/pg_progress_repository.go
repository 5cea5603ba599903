package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"scenario-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ ProgressRepository = (*pgProgressRepository)(nil)

type pgProgressRepository struct {
	pool   *pgxpool.Pool // pool, not DBTX: commits open their own transactions
	logger *zap.Logger
}

// NewPgProgressRepository creates a new postgres-backed progress repository.
func NewPgProgressRepository(pool *pgxpool.Pool, logger *zap.Logger) ProgressRepository {
	return &pgProgressRepository{
		pool:   pool,
		logger: logger.Named("PgProgressRepo"),
	}
}

const getProgressQuery = `
SELECT id, user_id, scenario_id, current_step_id, furthest_step_id, completed_at, created_at, updated_at
FROM player_progress
WHERE user_id = $1 AND scenario_id = $2`

const getProgressForUpdateQuery = getProgressQuery + `
FOR UPDATE`

const insertProgressQuery = `
INSERT INTO player_progress (id, user_id, scenario_id, current_step_id, furthest_step_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

const updateDisplayPointerQuery = `
UPDATE player_progress
SET current_step_id = $1, updated_at = $2
WHERE id = $3`

const updateBothPointersQuery = `
UPDATE player_progress
SET current_step_id = $1, furthest_step_id = $1, updated_at = $2
WHERE id = $3`

const markCompletedQuery = `
UPDATE player_progress
SET current_step_id = $1, furthest_step_id = $1, completed_at = $2, updated_at = $2
WHERE id = $3`

func (r *pgProgressRepository) GetByUserAndScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	return scanProgress(r.pool.QueryRow(ctx, getProgressQuery, userID, scenarioID))
}

// CommitPosition records a movement decision inside a transaction. The row is
// re-read FOR UPDATE so two concurrent advances for the same user cannot both
// move the pointer from the same starting step: the second one sees a display
// pointer that no longer matches fromStepID and is rejected with
// models.ErrProgressConflict.
func (r *pgProgressRepository) CommitPosition(ctx context.Context, userID, scenarioID, fromStepID, toStepID uuid.UUID, frozen bool) error {
	logFields := []zap.Field{
		zap.Stringer("userID", userID),
		zap.Stringer("scenarioID", scenarioID),
		zap.Stringer("fromStepID", fromStepID),
		zap.Stringer("toStepID", toStepID),
		zap.Bool("frozen", frozen),
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()

		progress, err := scanProgress(tx.QueryRow(ctx, getProgressForUpdateQuery, userID, scenarioID))
		if err != nil {
			if !errors.Is(err, models.ErrProgressNotFound) {
				return err
			}
			// First advance in this scenario: create the row. A frozen first
			// move keeps the furthest pointer at the starting step.
			furthest := toStepID
			if frozen {
				furthest = fromStepID
			}
			if _, err := tx.Exec(ctx, insertProgressQuery, uuid.New(), userID, scenarioID, toStepID, furthest, now); err != nil {
				r.logger.Error("Failed to insert player progress", append(logFields, zap.Error(err))...)
				return err
			}
			return nil
		}

		if progress.CurrentStepID != fromStepID {
			r.logger.Warn("Stale advance rejected", append(logFields, zap.Stringer("storedStepID", progress.CurrentStepID))...)
			return models.ErrProgressConflict
		}

		query := updateBothPointersQuery
		if frozen {
			query = updateDisplayPointerQuery
		}
		if _, err := tx.Exec(ctx, query, toStepID, now, progress.ID); err != nil {
			r.logger.Error("Failed to update player progress", append(logFields, zap.Error(err))...)
			return err
		}
		return nil
	})
}

func (r *pgProgressRepository) MarkCompleted(ctx context.Context, userID, scenarioID, finalStepID uuid.UUID) error {
	logFields := []zap.Field{
		zap.Stringer("userID", userID),
		zap.Stringer("scenarioID", scenarioID),
		zap.Stringer("finalStepID", finalStepID),
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()

		progress, err := scanProgress(tx.QueryRow(ctx, getProgressForUpdateQuery, userID, scenarioID))
		if err != nil {
			if !errors.Is(err, models.ErrProgressNotFound) {
				return err
			}
			// Completing a scenario the user never had a row for (single-step
			// scenario): insert it already completed.
			id := uuid.New()
			if _, err := tx.Exec(ctx, insertProgressQuery, id, userID, scenarioID, finalStepID, finalStepID, now); err != nil {
				r.logger.Error("Failed to insert completed player progress", append(logFields, zap.Error(err))...)
				return err
			}
			if _, err := tx.Exec(ctx, markCompletedQuery, finalStepID, now, id); err != nil {
				r.logger.Error("Failed to stamp completion", append(logFields, zap.Error(err))...)
				return err
			}
			return nil
		}

		if _, err := tx.Exec(ctx, markCompletedQuery, finalStepID, now, progress.ID); err != nil {
			r.logger.Error("Failed to mark progress completed", append(logFields, zap.Error(err))...)
			return err
		}
		return nil
	})
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (r *pgProgressRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			r.logger.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit progress transaction: %w", err)
	}
	return nil
}

func scanProgress(row pgx.Row) (*models.PlayerProgress, error) {
	progress := &models.PlayerProgress{}
	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.ScenarioID,
		&progress.CurrentStepID,
		&progress.FurthestStepID,
		&progress.CompletedAt,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}
