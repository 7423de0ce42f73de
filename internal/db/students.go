package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// -----------------------------------------------------------------------------
// Student Methods
// -----------------------------------------------------------------------------

// GetStudentWithProfile retrieves a student with talents, interests and skill
// progress. Returns nil when the student does not exist.
func (db *DB) GetStudentWithProfile(ctx context.Context, studentID string) (*types.StudentProfile, error) {
	var p types.StudentProfile
	var mode *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, year, hybrid_mode, embedding, created_at, updated_at
		 FROM students WHERE id = $1`,
		studentID,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Year, &mode, &p.Embedding, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if mode != nil {
		p.HybridMode = types.HybridMode(*mode)
	}

	if p.Talents, err = db.listTalents(ctx, studentID); err != nil {
		return nil, err
	}
	if p.Interests, err = db.listInterests(ctx, studentID); err != nil {
		return nil, err
	}
	if p.SkillProgress, err = db.getSkillProgress(ctx, studentID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) listTalents(ctx context.Context, studentID string) ([]types.Talent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT type, name, measured_score, confidence
		 FROM talents WHERE student_id = $1 ORDER BY position`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list talents: %w", err)
	}
	defer rows.Close()

	talents := []types.Talent{}
	for rows.Next() {
		var t types.Talent
		var confidence string
		if err := rows.Scan(&t.Type, &t.Name, &t.MeasuredScore, &confidence); err != nil {
			return nil, fmt.Errorf("failed to scan talent: %w", err)
		}
		t.Confidence = types.Confidence(confidence)
		talents = append(talents, t)
	}
	return talents, rows.Err()
}

func (db *DB) listInterests(ctx context.Context, studentID string) ([]types.Interest, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT topic, strength, confidence, mapped_concepts
		 FROM interests WHERE student_id = $1 ORDER BY position`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	defer rows.Close()

	interests := []types.Interest{}
	for rows.Next() {
		var i types.Interest
		var confidence string
		if err := rows.Scan(&i.Topic, &i.Strength, &confidence, &i.MappedConcepts); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		i.Confidence = types.Confidence(confidence)
		if len(i.MappedConcepts) == 0 {
			i.MappedConcepts = nil
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}

func (db *DB) getSkillProgress(ctx context.Context, studentID string) (map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, proficiency FROM skill_progress WHERE student_id = $1`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]int)
	for rows.Next() {
		var skillID string
		var proficiency int
		if err := rows.Scan(&skillID, &proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan skill progress: %w", err)
		}
		progress[skillID] = proficiency
	}
	return progress, rows.Err()
}

// SaveStudentProfile creates or updates a student and replaces its talents and
// interests in a single transaction.
func (db *DB) SaveStudentProfile(ctx context.Context, p *types.StudentProfile) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	embedding := p.Embedding
	if embedding == nil {
		embedding = []float64{}
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO students (id, name, email, year, hybrid_mode, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		     name = $2,
		     email = $3,
		     year = $4,
		     hybrid_mode = $5,
		     embedding = $6,
		     updated_at = NOW()`,
		p.ID, p.Name, p.Email, p.Year, nullIfEmpty(string(p.HybridMode)), embedding,
	)
	if err != nil {
		return fmt.Errorf("failed to save student: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM talents WHERE student_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear talents: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM interests WHERE student_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear interests: %w", err)
	}

	for i, t := range p.Talents {
		_, err = tx.Exec(ctx,
			`INSERT INTO talents (student_id, position, type, name, measured_score, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, i, t.Type, t.Name, t.MeasuredScore, string(t.Confidence),
		)
		if err != nil {
			return fmt.Errorf("failed to save talent %s: %w", t.Name, err)
		}
	}
	for i, in := range p.Interests {
		concepts := in.MappedConcepts
		if concepts == nil {
			concepts = []string{}
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO interests (student_id, position, topic, strength, confidence, mapped_concepts)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, i, in.Topic, in.Strength, string(in.Confidence), concepts,
		)
		if err != nil {
			return fmt.Errorf("failed to save interest %s: %w", in.Topic, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetInferredHybridMode stores an inferred mode unless the student has chosen
// a mode or replaced its profile since seen.
func (db *DB) SetInferredHybridMode(ctx context.Context, studentID string, mode types.HybridMode, seen time.Time) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE students SET hybrid_mode = $1
		 WHERE id = $2
		   AND (hybrid_mode IS NULL OR hybrid_mode = '')
		   AND updated_at = $3`,
		nullIfEmpty(string(mode)), studentID, seen,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set hybrid mode: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// SetSkillProgress records a student's proficiency (0-100) in a skill.
func (db *DB) SetSkillProgress(ctx context.Context, studentID, skillID string, proficiency int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO skill_progress (student_id, skill_id, proficiency)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (student_id, skill_id) DO UPDATE SET proficiency = $3`,
		studentID, skillID, proficiency,
	)
	if err != nil {
		return fmt.Errorf("failed to set skill progress: %w", err)
	}
	return nil
}

// nullIfEmpty returns nil for empty strings, otherwise the string pointer
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
