package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// GetAllCareerPaths returns the catalog in insertion order with skills,
// courses, specialized training and active co-ops.
func (s *Store) GetAllCareerPaths(ctx context.Context) ([]types.CareerPath, error) {
	return s.loadCareerPaths(ctx, "")
}

// GetCareerPath returns a single career path, or nil when it does not exist.
func (s *Store) GetCareerPath(ctx context.Context, pathID string) (*types.CareerPath, error) {
	paths, err := s.loadCareerPaths(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	return &paths[0], nil
}

func (s *Store) loadCareerPaths(ctx context.Context, pathID string) ([]types.CareerPath, error) {
	paths, index, err := s.listPathRows(ctx, pathID)
	if err != nil || len(paths) == 0 {
		return paths, err
	}
	if err := s.attachSkills(ctx, pathID, paths, index); err != nil {
		return nil, err
	}
	if err := s.attachTraining(ctx, pathID, paths, index); err != nil {
		return nil, err
	}
	if err := s.attachCoops(ctx, pathID, paths, index); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Store) listPathRows(ctx context.Context, pathID string) ([]types.CareerPath, map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, industry, subfield, marketing_blurb, system_blurb, is_hybrid, hybrid_type
		 FROM career_paths WHERE (?1 = '' OR id = ?1) ORDER BY seq`,
		pathID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: list career paths: %w", err)
	}
	defer rows.Close()

	paths := []types.CareerPath{}
	index := make(map[string]int)
	for rows.Next() {
		var p types.CareerPath
		if err := rows.Scan(&p.ID, &p.Name, &p.Industry, &p.Subfield, &p.MarketingBlurb,
			&p.SystemBlurb, &p.IsHybrid, &p.HybridType); err != nil {
			return nil, nil, fmt.Errorf("sqlite: scan career path: %w", err)
		}
		p.Skills = []types.Skill{}
		index[p.ID] = len(paths)
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("sqlite: list career paths: %w", err)
	}
	return paths, index, nil
}

func (s *Store) attachSkills(ctx context.Context, pathID string, paths []types.CareerPath, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.path_id, s.id, s.name, s.description,
		        c.title, c.provider, c.duration_hours
		 FROM skills s
		 LEFT JOIN courses c ON c.skill_id = s.id
		 WHERE (?1 = '' OR s.path_id = ?1)
		 ORDER BY s.path_id, s.position, c.position`,
		pathID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: list skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var sk types.Skill
		var title, provider sql.NullString
		var hours sql.NullInt64
		if err := rows.Scan(&owner, &sk.ID, &sk.Name, &sk.Description, &title, &provider, &hours); err != nil {
			return fmt.Errorf("sqlite: scan skill: %w", err)
		}
		i, ok := index[owner]
		if !ok {
			continue
		}
		p := &paths[i]

		if n := len(p.Skills); n == 0 || p.Skills[n-1].ID != sk.ID {
			p.Skills = append(p.Skills, sk)
		}
		if title.Valid {
			last := &p.Skills[len(p.Skills)-1]
			last.Courses = append(last.Courses, types.Course{
				Title:         title.String,
				Provider:      provider.String,
				DurationHours: int(hours.Int64),
			})
		}
	}
	return rows.Err()
}

func (s *Store) attachTraining(ctx context.Context, pathID string, paths []types.CareerPath, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path_id, title, description FROM specialized_training
		 WHERE (?1 = '' OR path_id = ?1) ORDER BY path_id, position`,
		pathID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: list specialized training: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var t types.SpecializedTraining
		if err := rows.Scan(&owner, &t.Title, &t.Description); err != nil {
			return fmt.Errorf("sqlite: scan specialized training: %w", err)
		}
		if i, ok := index[owner]; ok {
			paths[i].SpecializedTraining = append(paths[i].SpecializedTraining, t)
		}
	}
	return rows.Err()
}

func (s *Store) attachCoops(ctx context.Context, pathID string, paths []types.CareerPath, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path_id, company, title, openings, active FROM coop_opportunities
		 WHERE active = 1 AND (?1 = '' OR path_id = ?1) ORDER BY path_id, position`,
		pathID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: list co-op opportunities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var c types.CoopOpportunity
		if err := rows.Scan(&owner, &c.Company, &c.Title, &c.Openings, &c.Active); err != nil {
			return fmt.Errorf("sqlite: scan co-op opportunity: %w", err)
		}
		if i, ok := index[owner]; ok {
			paths[i].CoopOpportunities = append(paths[i].CoopOpportunities, c)
		}
	}
	return rows.Err()
}

// SaveCareerPath creates or replaces a career path and its children. A new
// path is appended to the end of the catalog; an existing one keeps its place.
func (s *Store) SaveCareerPath(ctx context.Context, p *types.CareerPath) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO career_paths (id, seq, name, industry, subfield, marketing_blurb, system_blurb, is_hybrid, hybrid_type)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM career_paths), ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name,
		     industry = excluded.industry,
		     subfield = excluded.subfield,
		     marketing_blurb = excluded.marketing_blurb,
		     system_blurb = excluded.system_blurb,
		     is_hybrid = excluded.is_hybrid,
		     hybrid_type = excluded.hybrid_type`,
		p.ID, p.Name, p.Industry, p.Subfield, p.MarketingBlurb, p.SystemBlurb, p.IsHybrid, p.HybridType,
	)
	if err != nil {
		return fmt.Errorf("sqlite: save career path: %w", err)
	}

	keep := make([]any, 0, len(p.Skills)+1)
	keep = append(keep, p.ID)
	for i, sk := range p.Skills {
		keep = append(keep, sk.ID)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO skills (id, path_id, position, name, description) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			     path_id = excluded.path_id,
			     position = excluded.position,
			     name = excluded.name,
			     description = excluded.description`,
			sk.ID, p.ID, i, sk.Name, sk.Description,
		)
		if err != nil {
			return fmt.Errorf("sqlite: save skill %s: %w", sk.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE skill_id = ?`, sk.ID); err != nil {
			return fmt.Errorf("sqlite: clear courses: %w", err)
		}
		for j, c := range sk.Courses {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO courses (skill_id, position, title, provider, duration_hours) VALUES (?, ?, ?, ?, ?)`,
				sk.ID, j, c.Title, c.Provider, c.DurationHours,
			)
			if err != nil {
				return fmt.Errorf("sqlite: save course %s: %w", c.Title, err)
			}
		}
	}

	prune := `DELETE FROM skills WHERE path_id = ?`
	if len(p.Skills) > 0 {
		prune += ` AND id NOT IN (?` + strings.Repeat(`, ?`, len(p.Skills)-1) + `)`
	}
	if _, err := tx.ExecContext(ctx, prune, keep...); err != nil {
		return fmt.Errorf("sqlite: prune skills: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM specialized_training WHERE path_id = ?`, p.ID); err != nil {
		return fmt.Errorf("sqlite: clear specialized training: %w", err)
	}
	for i, t := range p.SpecializedTraining {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO specialized_training (path_id, position, title, description) VALUES (?, ?, ?, ?)`,
			p.ID, i, t.Title, t.Description,
		)
		if err != nil {
			return fmt.Errorf("sqlite: save specialized training: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM coop_opportunities WHERE path_id = ?`, p.ID); err != nil {
		return fmt.Errorf("sqlite: clear co-op opportunities: %w", err)
	}
	for i, c := range p.CoopOpportunities {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO coop_opportunities (path_id, position, company, title, openings, active)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, i, c.Company, c.Title, c.Openings, c.Active,
		)
		if err != nil {
			return fmt.Errorf("sqlite: save co-op opportunity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
