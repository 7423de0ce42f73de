package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// GetStudentWithProfile loads a student with talents, interests and skill
// progress. Returns nil when the student does not exist.
func (s *Store) GetStudentWithProfile(ctx context.Context, studentID string) (*types.StudentProfile, error) {
	var p types.StudentProfile
	var mode, embedding, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, year, hybrid_mode, embedding, created_at, updated_at
		 FROM students WHERE id = ?`,
		studentID,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Year, &mode, &embedding, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: get student: %w", err)
	}
	p.HybridMode = types.HybridMode(mode)
	if err := json.Unmarshal([]byte(embedding), &p.Embedding); err != nil {
		return nil, fmt.Errorf("sqlite: decode embedding: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if p.Talents, err = s.listTalents(ctx, studentID); err != nil {
		return nil, err
	}
	if p.Interests, err = s.listInterests(ctx, studentID); err != nil {
		return nil, err
	}
	if p.SkillProgress, err = s.getSkillProgress(ctx, studentID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) listTalents(ctx context.Context, studentID string) ([]types.Talent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, name, measured_score, confidence FROM talents
		 WHERE student_id = ? ORDER BY position`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list talents: %w", err)
	}
	defer rows.Close()

	talents := []types.Talent{}
	for rows.Next() {
		var t types.Talent
		var confidence string
		if err := rows.Scan(&t.Type, &t.Name, &t.MeasuredScore, &confidence); err != nil {
			return nil, fmt.Errorf("sqlite: scan talent: %w", err)
		}
		t.Confidence = types.Confidence(confidence)
		talents = append(talents, t)
	}
	return talents, rows.Err()
}

func (s *Store) listInterests(ctx context.Context, studentID string) ([]types.Interest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT topic, strength, confidence, mapped_concepts FROM interests
		 WHERE student_id = ? ORDER BY position`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list interests: %w", err)
	}
	defer rows.Close()

	interests := []types.Interest{}
	for rows.Next() {
		var i types.Interest
		var confidence, concepts string
		if err := rows.Scan(&i.Topic, &i.Strength, &confidence, &concepts); err != nil {
			return nil, fmt.Errorf("sqlite: scan interest: %w", err)
		}
		i.Confidence = types.Confidence(confidence)
		if err := json.Unmarshal([]byte(concepts), &i.MappedConcepts); err != nil {
			return nil, fmt.Errorf("sqlite: decode mapped concepts: %w", err)
		}
		if len(i.MappedConcepts) == 0 {
			i.MappedConcepts = nil
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}

func (s *Store) getSkillProgress(ctx context.Context, studentID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill_id, proficiency FROM skill_progress WHERE student_id = ?`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get skill progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]int)
	for rows.Next() {
		var skillID string
		var proficiency int
		if err := rows.Scan(&skillID, &proficiency); err != nil {
			return nil, fmt.Errorf("sqlite: scan skill progress: %w", err)
		}
		progress[skillID] = proficiency
	}
	return progress, rows.Err()
}

// SaveStudentProfile creates or updates a student and replaces its talents
// and interests.
func (s *Store) SaveStudentProfile(ctx context.Context, p *types.StudentProfile) error {
	embedding := p.Embedding
	if embedding == nil {
		embedding = []float64{}
	}
	encoded, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("sqlite: encode embedding: %w", err)
	}

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO students (id, name, email, year, hybrid_mode, embedding, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name,
		     email = excluded.email,
		     year = excluded.year,
		     hybrid_mode = excluded.hybrid_mode,
		     embedding = excluded.embedding,
		     updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Email, p.Year, string(p.HybridMode), string(encoded),
		formatTime(created), formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save student: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM talents WHERE student_id = ?`, p.ID); err != nil {
		return fmt.Errorf("sqlite: clear talents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM interests WHERE student_id = ?`, p.ID); err != nil {
		return fmt.Errorf("sqlite: clear interests: %w", err)
	}

	for i, t := range p.Talents {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO talents (student_id, position, type, name, measured_score, confidence)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, i, t.Type, t.Name, t.MeasuredScore, string(t.Confidence),
		)
		if err != nil {
			return fmt.Errorf("sqlite: save talent %s: %w", t.Name, err)
		}
	}
	for i, in := range p.Interests {
		concepts := in.MappedConcepts
		if concepts == nil {
			concepts = []string{}
		}
		encodedConcepts, err := json.Marshal(concepts)
		if err != nil {
			return fmt.Errorf("sqlite: encode mapped concepts: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO interests (student_id, position, topic, strength, confidence, mapped_concepts)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, i, in.Topic, in.Strength, string(in.Confidence), string(encodedConcepts),
		)
		if err != nil {
			return fmt.Errorf("sqlite: save interest %s: %w", in.Topic, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// SetInferredHybridMode stores an inferred mode unless the student has chosen
// a mode or replaced its profile since seen.
func (s *Store) SetInferredHybridMode(ctx context.Context, studentID string, mode types.HybridMode, seen time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE students SET hybrid_mode = ?
		 WHERE id = ?
		   AND (hybrid_mode IS NULL OR hybrid_mode = '')
		   AND updated_at = ?`,
		string(mode), studentID, formatTime(seen),
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: set hybrid mode: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: set hybrid mode: %w", err)
	}
	return n == 1, nil
}

// SetSkillProgress records a student's proficiency (0-100) in a skill.
func (s *Store) SetSkillProgress(ctx context.Context, studentID, skillID string, proficiency int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skill_progress (student_id, skill_id, proficiency) VALUES (?, ?, ?)
		 ON CONFLICT (student_id, skill_id) DO UPDATE SET proficiency = excluded.proficiency`,
		studentID, skillID, proficiency,
	)
	if err != nil {
		return fmt.Errorf("sqlite: set skill progress: %w", err)
	}
	return nil
}
