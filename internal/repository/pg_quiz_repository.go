package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"scenario-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ QuizRepository = (*pgQuizRepository)(nil)

type pgQuizRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgQuizRepository creates a new postgres-backed quiz repository.
func NewPgQuizRepository(db DBTX, logger *zap.Logger) QuizRepository {
	return &pgQuizRepository{
		db:     db,
		logger: logger.Named("PgQuizRepo"),
	}
}

const getQuizByIDQuery = `
SELECT id, question, options, correct_option, created_at
FROM quizzes
WHERE id = $1`

func (r *pgQuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	quiz := &models.Quiz{}
	var optionsJSON []byte // options is stored as jsonb

	err := r.db.QueryRow(ctx, getQuizByIDQuery, id).Scan(
		&quiz.ID,
		&quiz.Question,
		&optionsJSON,
		&quiz.CorrectOption,
		&quiz.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrQuizNotFound
		}
		r.logger.Error("Failed to get quiz", zap.Stringer("quizID", id), zap.Error(err))
		return nil, err
	}

	if err := json.Unmarshal(optionsJSON, &quiz.Options); err != nil {
		r.logger.Error("Failed to unmarshal quiz options", zap.Stringer("quizID", id), zap.Error(err))
		return nil, err
	}

	return quiz, nil
}

// CheckAnswer compares a submitted 0-based option index against the stored
// correct option. An out-of-range index is simply a wrong answer.
func (r *pgQuizRepository) CheckAnswer(ctx context.Context, quizID uuid.UUID, answer int) (bool, error) {
	quiz, err := r.GetByID(ctx, quizID)
	if err != nil {
		return false, err
	}
	return quiz.CorrectOption == answer, nil
}
