package db

import (
	"context"
	"fmt"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// -----------------------------------------------------------------------------
// Career Path Methods
// -----------------------------------------------------------------------------

// GetAllCareerPaths retrieves the catalog in insertion order with skills,
// courses, specialized training and active co-ops.
func (db *DB) GetAllCareerPaths(ctx context.Context) ([]types.CareerPath, error) {
	return db.loadCareerPaths(ctx, "")
}

// GetCareerPath retrieves a single career path. Returns nil when it does not exist.
func (db *DB) GetCareerPath(ctx context.Context, pathID string) (*types.CareerPath, error) {
	paths, err := db.loadCareerPaths(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	return &paths[0], nil
}

// loadCareerPaths loads every path, or only pathID when it is non-empty.
func (db *DB) loadCareerPaths(ctx context.Context, pathID string) ([]types.CareerPath, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, industry, subfield, marketing_blurb, system_blurb, is_hybrid, hybrid_type
		 FROM career_paths WHERE ($1 = '' OR id = $1) ORDER BY seq`,
		pathID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list career paths: %w", err)
	}
	defer rows.Close()

	paths := []types.CareerPath{}
	index := make(map[string]int)
	for rows.Next() {
		var p types.CareerPath
		if err := rows.Scan(&p.ID, &p.Name, &p.Industry, &p.Subfield, &p.MarketingBlurb,
			&p.SystemBlurb, &p.IsHybrid, &p.HybridType); err != nil {
			return nil, fmt.Errorf("failed to scan career path: %w", err)
		}
		p.Skills = []types.Skill{}
		index[p.ID] = len(paths)
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list career paths: %w", err)
	}
	if len(paths) == 0 {
		return paths, nil
	}

	if err := db.attachSkills(ctx, pathID, paths, index); err != nil {
		return nil, err
	}
	if err := db.attachTraining(ctx, pathID, paths, index); err != nil {
		return nil, err
	}
	if err := db.attachCoops(ctx, pathID, paths, index); err != nil {
		return nil, err
	}
	return paths, nil
}

func (db *DB) attachSkills(ctx context.Context, pathID string, paths []types.CareerPath, index map[string]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT s.path_id, s.id, s.name, s.description,
		        c.title, c.provider, c.duration_hours
		 FROM skills s
		 LEFT JOIN courses c ON c.skill_id = s.id
		 WHERE ($1 = '' OR s.path_id = $1)
		 ORDER BY s.path_id, s.position, c.position`,
		pathID,
	)
	if err != nil {
		return fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var s types.Skill
		var title, provider *string
		var hours *int
		if err := rows.Scan(&owner, &s.ID, &s.Name, &s.Description, &title, &provider, &hours); err != nil {
			return fmt.Errorf("failed to scan skill: %w", err)
		}
		i, ok := index[owner]
		if !ok {
			continue
		}
		p := &paths[i]

		// Course rows repeat their skill; extend the last skill when it matches.
		if n := len(p.Skills); n == 0 || p.Skills[n-1].ID != s.ID {
			p.Skills = append(p.Skills, s)
		}
		if title != nil {
			last := &p.Skills[len(p.Skills)-1]
			course := types.Course{Title: *title}
			if provider != nil {
				course.Provider = *provider
			}
			if hours != nil {
				course.DurationHours = *hours
			}
			last.Courses = append(last.Courses, course)
		}
	}
	return rows.Err()
}

func (db *DB) attachTraining(ctx context.Context, pathID string, paths []types.CareerPath, index map[string]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT path_id, title, description FROM specialized_training
		 WHERE ($1 = '' OR path_id = $1) ORDER BY path_id, position`,
		pathID,
	)
	if err != nil {
		return fmt.Errorf("failed to list specialized training: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var t types.SpecializedTraining
		if err := rows.Scan(&owner, &t.Title, &t.Description); err != nil {
			return fmt.Errorf("failed to scan specialized training: %w", err)
		}
		if i, ok := index[owner]; ok {
			paths[i].SpecializedTraining = append(paths[i].SpecializedTraining, t)
		}
	}
	return rows.Err()
}

func (db *DB) attachCoops(ctx context.Context, pathID string, paths []types.CareerPath, index map[string]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT path_id, company, title, openings, active FROM coop_opportunities
		 WHERE active AND ($1 = '' OR path_id = $1) ORDER BY path_id, position`,
		pathID,
	)
	if err != nil {
		return fmt.Errorf("failed to list co-op opportunities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var c types.CoopOpportunity
		if err := rows.Scan(&owner, &c.Company, &c.Title, &c.Openings, &c.Active); err != nil {
			return fmt.Errorf("failed to scan co-op opportunity: %w", err)
		}
		if i, ok := index[owner]; ok {
			paths[i].CoopOpportunities = append(paths[i].CoopOpportunities, c)
		}
	}
	return rows.Err()
}

// SaveCareerPath creates or replaces a career path and its children. Skills
// keep their IDs so recorded progress survives a reseed.
func (db *DB) SaveCareerPath(ctx context.Context, p *types.CareerPath) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO career_paths (id, name, industry, subfield, marketing_blurb, system_blurb, is_hybrid, hybrid_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     name = $2, industry = $3, subfield = $4, marketing_blurb = $5,
		     system_blurb = $6, is_hybrid = $7, hybrid_type = $8`,
		p.ID, p.Name, p.Industry, p.Subfield, p.MarketingBlurb, p.SystemBlurb, p.IsHybrid, p.HybridType,
	)
	if err != nil {
		return fmt.Errorf("failed to save career path: %w", err)
	}

	skillIDs := make([]string, 0, len(p.Skills))
	for i, s := range p.Skills {
		skillIDs = append(skillIDs, s.ID)
		_, err = tx.Exec(ctx,
			`INSERT INTO skills (id, path_id, position, name, description)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET path_id = $2, position = $3, name = $4, description = $5`,
			s.ID, p.ID, i, s.Name, s.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to save skill %s: %w", s.Name, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM courses WHERE skill_id = $1`, s.ID); err != nil {
			return fmt.Errorf("failed to clear courses: %w", err)
		}
		for j, c := range s.Courses {
			_, err = tx.Exec(ctx,
				`INSERT INTO courses (skill_id, position, title, provider, duration_hours)
				 VALUES ($1, $2, $3, $4, $5)`,
				s.ID, j, c.Title, c.Provider, c.DurationHours,
			)
			if err != nil {
				return fmt.Errorf("failed to save course %s: %w", c.Title, err)
			}
		}
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM skills WHERE path_id = $1 AND NOT (id = ANY($2))`, p.ID, skillIDs,
	); err != nil {
		return fmt.Errorf("failed to prune skills: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM specialized_training WHERE path_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear specialized training: %w", err)
	}
	for i, t := range p.SpecializedTraining {
		_, err = tx.Exec(ctx,
			`INSERT INTO specialized_training (path_id, position, title, description) VALUES ($1, $2, $3, $4)`,
			p.ID, i, t.Title, t.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to save specialized training: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM coop_opportunities WHERE path_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear co-op opportunities: %w", err)
	}
	for i, c := range p.CoopOpportunities {
		_, err = tx.Exec(ctx,
			`INSERT INTO coop_opportunities (path_id, position, company, title, openings, active)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, i, c.Company, c.Title, c.Openings, c.Active,
		)
		if err != nil {
			return fmt.Errorf("failed to save co-op opportunity: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
