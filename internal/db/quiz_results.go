package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// -----------------------------------------------------------------------------
// Quiz Result Methods
// -----------------------------------------------------------------------------

// SaveQuizResult stores a quiz result snapshot.
func (db *DB) SaveQuizResult(ctx context.Context, r *types.QuizResult) error {
	talents, err := json.Marshal(r.Talents)
	if err != nil {
		return fmt.Errorf("failed to marshal talents: %w", err)
	}
	interests, err := json.Marshal(r.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}
	recs, err := json.Marshal(r.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO quiz_results (id, student_id, name, talents, interests, hybrid_mode, recommendations, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.StudentID, r.Name, talents, interests, string(r.HybridMode), recs, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

const quizResultColumns = `id, student_id, name, talents, interests, hybrid_mode, recommendations, created_at`

// ListQuizResults retrieves a student's quiz results, newest first.
func (db *DB) ListQuizResults(ctx context.Context, studentID string) ([]types.QuizResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+quizResultColumns+` FROM quiz_results
		 WHERE student_id = $1 ORDER BY created_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	defer rows.Close()

	results := []types.QuizResult{}
	for rows.Next() {
		r, err := scanQuizResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

// GetQuizResult retrieves a quiz result owned by the student. Returns nil
// when it does not exist or belongs to someone else.
func (db *DB) GetQuizResult(ctx context.Context, studentID, resultID string) (*types.QuizResult, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+quizResultColumns+` FROM quiz_results WHERE id = $1 AND student_id = $2`,
		resultID, studentID,
	)
	r, err := scanQuizResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// DeleteQuizResult deletes a quiz result owned by the student.
func (db *DB) DeleteQuizResult(ctx context.Context, studentID, resultID string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM quiz_results WHERE id = $1 AND student_id = $2`,
		resultID, studentID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz result: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanQuizResult(row pgx.Row) (*types.QuizResult, error) {
	var r types.QuizResult
	var talents, interests, recs []byte
	var mode string
	if err := row.Scan(&r.ID, &r.StudentID, &r.Name, &talents, &interests, &mode, &recs, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan quiz result: %w", err)
	}
	r.HybridMode = types.HybridMode(mode)

	if err := json.Unmarshal(talents, &r.Talents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal talents: %w", err)
	}
	if err := json.Unmarshal(interests, &r.Interests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
	}
	if err := json.Unmarshal(recs, &r.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}
	return &r, nil
}
