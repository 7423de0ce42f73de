package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// SaveQuizResult stores a quiz result snapshot.
func (s *Store) SaveQuizResult(ctx context.Context, r *types.QuizResult) error {
	talents, err := json.Marshal(r.Talents)
	if err != nil {
		return fmt.Errorf("sqlite: encode talents: %w", err)
	}
	interests, err := json.Marshal(r.Interests)
	if err != nil {
		return fmt.Errorf("sqlite: encode interests: %w", err)
	}
	recs, err := json.Marshal(r.Recommendations)
	if err != nil {
		return fmt.Errorf("sqlite: encode recommendations: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_results (id, student_id, name, talents, interests, hybrid_mode, recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StudentID, r.Name, string(talents), string(interests), string(r.HybridMode),
		string(recs), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save quiz result: %w", err)
	}
	return nil
}

const quizResultColumns = `id, student_id, name, talents, interests, hybrid_mode, recommendations, created_at`

// ListQuizResults returns a student's quiz results, newest first.
func (s *Store) ListQuizResults(ctx context.Context, studentID string) ([]types.QuizResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+quizResultColumns+` FROM quiz_results
		 WHERE student_id = ? ORDER BY created_at DESC, rowid DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list quiz results: %w", err)
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

// GetQuizResult returns a quiz result owned by the student, or nil.
func (s *Store) GetQuizResult(ctx context.Context, studentID, resultID string) (*types.QuizResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+quizResultColumns+` FROM quiz_results WHERE id = ? AND student_id = ?`,
		resultID, studentID,
	)
	r, err := scanQuizResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// DeleteQuizResult deletes a quiz result owned by the student.
func (s *Store) DeleteQuizResult(ctx context.Context, studentID, resultID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM quiz_results WHERE id = ? AND student_id = ?`,
		resultID, studentID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: delete quiz result: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: delete quiz result: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuizResult(row scanner) (*types.QuizResult, error) {
	var r types.QuizResult
	var talents, interests, recs, mode, createdAt string
	if err := row.Scan(&r.ID, &r.StudentID, &r.Name, &talents, &interests, &mode, &recs, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: scan quiz result: %w", err)
	}
	r.HybridMode = types.HybridMode(mode)

	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(talents), &r.Talents); err != nil {
		return nil, fmt.Errorf("sqlite: decode talents: %w", err)
	}
	if err := json.Unmarshal([]byte(interests), &r.Interests); err != nil {
		return nil, fmt.Errorf("sqlite: decode interests: %w", err)
	}
	if err := json.Unmarshal([]byte(recs), &r.Recommendations); err != nil {
		return nil, fmt.Errorf("sqlite: decode recommendations: %w", err)
	}
	return &r, nil
}
