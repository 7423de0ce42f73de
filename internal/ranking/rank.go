// Package ranking scores career paths against a student profile.
package ranking

import (
	"math"
	"sort"

	"github.com/jonathan/skilltree-advisor/internal/embedding"
	"github.com/jonathan/skilltree-advisor/internal/hybrid"
	"github.com/jonathan/skilltree-advisor/internal/mapping"
	"github.com/jonathan/skilltree-advisor/internal/matching"
	"github.com/jonathan/skilltree-advisor/internal/types"
)

const (
	// MaxResults is the number of recommendations returned per student.
	MaxResults = 6
	// maxListedSkills caps the required and matched skill lists on each result.
	maxListedSkills = 5
)

// Scorer ranks career paths. It is safe for concurrent use.
type Scorer struct {
	tables mapping.Tables
}

// NewScorer returns a Scorer that reads skills from tables.
// A nil tables uses the embedded defaults.
func NewScorer(tables mapping.Tables) *Scorer {
	if tables == nil {
		tables = mapping.Default()
	}
	return &Scorer{tables: tables}
}

// ScoreCareerPaths resolves the student's hybrid mode and ranks the catalog.
// Persisting an inferred mode is left to the caller; see hybrid.Resolve.
func (s *Scorer) ScoreCareerPaths(student *types.StudentProfile, catalog []types.CareerPath) []types.CareerPathRecommendation {
	mode, _ := hybrid.Resolve(student)
	return s.Score(student, mode, catalog)
}

// Score ranks the catalog for a student scored under the given hybrid mode.
// At most MaxResults recommendations are returned, sorted by descending match
// score with ties kept in catalog order.
func (s *Scorer) Score(student *types.StudentProfile, mode types.HybridMode, catalog []types.CareerPath) []types.CareerPathRecommendation {
	recs := make([]types.CareerPathRecommendation, 0, len(catalog))
	if len(catalog) == 0 {
		return recs
	}

	studentSkills := s.StudentSkills(student)
	studentSet := toSet(studentSkills)

	for i := range catalog {
		recs = append(recs, s.scorePath(student, mode, studentSkills, studentSet, &catalog[i]))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})
	if len(recs) > MaxResults {
		recs = recs[:MaxResults]
	}
	return recs
}

// StudentSkills derives the student's skills: the forward mapping of every
// interest topic and talent name, plus the talent names themselves.
func (s *Scorer) StudentSkills(student *types.StudentProfile) []string {
	talents := student.TalentNames()
	items := append(student.InterestTopics(), talents...)

	skills := mapping.ForwardSkills(s.tables, items)
	seen := toSet(skills)
	for _, t := range talents {
		if !seen[t] {
			seen[t] = true
			skills = append(skills, t)
		}
	}
	return skills
}

func (s *Scorer) scorePath(
	student *types.StudentProfile,
	mode types.HybridMode,
	studentSkills []string,
	studentSet map[string]bool,
	path *types.CareerPath,
) types.CareerPathRecommendation {
	score := baseScore(student.Embedding, path)

	required := mapping.BackwardSkills(s.tables, path.Industry, path.Subfield)
	overlap := matching.Overlap(studentSkills, required)
	treeOverlap := treeSkillOverlap(path, studentSet, toSet(required))

	var fragments []types.ReasoningFragment

	count := max(len(overlap.Overlap), treeOverlap)
	score += float64(count * overlapPoints)
	switch {
	case count >= strongAlignmentCount:
		score += strongAlignmentBonus
		fragments = append(fragments, types.ReasoningFragment{Kind: types.FragmentStrongAlignment, Count: count})
	case count > 0:
		fragments = append(fragments, types.ReasoningFragment{Kind: types.FragmentSkillsAligned, Count: count})
	}

	if f, ok := s.hybridBoost(mode, path); ok {
		score += float64(f.Bonus)
		fragments = append(fragments, f)
	}

	if len(fragments) == 0 {
		level := types.FitMedium
		if score > highFitThreshold {
			level = types.FitHigh
		}
		fragments = append(fragments, types.ReasoningFragment{Kind: types.FragmentFallback, Level: level})
	}

	rec := types.CareerPathRecommendation{
		ID:                   path.ID,
		Industry:             path.Industry,
		Subfield:             path.Subfield,
		SkillTree:            path.Name,
		MarketingBlurb:       path.MarketingBlurb,
		MatchScore:           finalScore(score),
		Reasoning:            RenderReasoning(fragments),
		Fragments:            fragments,
		RequiredSkills:       head(required, maxListedSkills),
		StudentMatchedSkills: head(overlap.Overlap, maxListedSkills),
		CoopAvailable:        path.HasActiveCoop(),
		Skills:               skillProgress(student, path),
		IsHybrid:             path.IsHybrid,
		HybridType:           path.HybridType,
		SystemBlurb:          path.SystemBlurb,
		HybridRole:           mode,
	}
	if len(path.SpecializedTraining) > 0 {
		training := path.SpecializedTraining[0]
		rec.SpecializedTraining = &training
	}
	return rec
}

// baseScore is the embedding similarity between the student and the path,
// scaled to 0-100.
func baseScore(studentEmbedding []float64, path *types.CareerPath) float64 {
	sim := embedding.Similarity(studentEmbedding, embedding.Embed(embedding.PathText(path)))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return sim * 100
}

// treeSkillOverlap counts the path's own skills that the student has or the
// industry requires. Membership is exact.
func treeSkillOverlap(path *types.CareerPath, studentSet, requiredSet map[string]bool) int {
	n := 0
	for _, skill := range path.Skills {
		if studentSet[skill.Name] || requiredSet[skill.Name] {
			n++
		}
	}
	return n
}

// finalScore caps the raw score to 0-100 and rounds half up.
func finalScore(raw float64) int {
	capped := math.Max(0, math.Min(raw, 100))
	return int(math.Floor(capped + 0.5))
}

func skillProgress(student *types.StudentProfile, path *types.CareerPath) []types.SkillProgress {
	out := make([]types.SkillProgress, 0, len(path.Skills))
	for _, skill := range path.Skills {
		out = append(out, types.SkillProgress{
			Name:        skill.Name,
			Description: skill.Description,
			Progress:    student.Progress(skill.ID),
		})
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) == 0 {
		return nil
	}
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
