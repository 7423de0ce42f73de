// Package types provides type definitions for structured data used throughout the skill tree advisor.
//
//nolint:revive // types is a standard Go package name pattern
package types

// FragmentKind identifies why part of a match score was awarded.
type FragmentKind string

const (
	FragmentStrongAlignment FragmentKind = "strong_alignment"
	FragmentSkillsAligned   FragmentKind = "skills_aligned"
	FragmentHybridAffinity  FragmentKind = "hybrid_affinity"
	FragmentAICuration      FragmentKind = "ai_curation"
	FragmentDesignExecution FragmentKind = "design_execution"
	FragmentDirectCreation  FragmentKind = "direct_creation"
	FragmentFallback        FragmentKind = "fallback"
)

// FitLevel qualifies a fallback explanation.
type FitLevel string

const (
	FitHigh   FitLevel = "High"
	FitMedium FitLevel = "Medium"
)

// ReasoningFragment is a single typed explanation of a score component.
// Count is set for alignment fragments, Bonus for hybrid boosts, Level for the fallback.
type ReasoningFragment struct {
	Kind  FragmentKind `json:"kind"`
	Count int          `json:"count,omitempty"`
	Bonus int          `json:"bonus,omitempty"`
	Level FitLevel     `json:"level,omitempty"`
}

// SkillProgress is a path skill annotated with the student's proficiency.
type SkillProgress struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Progress    int    `json:"progress"`
}

// CareerPathRecommendation is a scored, explained career path. It is a value object.
type CareerPathRecommendation struct {
	ID                   string               `json:"id"`
	Industry             string               `json:"industry"`
	Subfield             string               `json:"subfield"`
	SkillTree            string               `json:"skillTree"`
	MarketingBlurb       string               `json:"marketingBlurb"`
	MatchScore           int                  `json:"matchScore"`
	Reasoning            string               `json:"reasoning"`
	Fragments            []ReasoningFragment  `json:"fragments"`
	RequiredSkills       []string             `json:"requiredSkills,omitempty"`
	StudentMatchedSkills []string             `json:"studentMatchedSkills,omitempty"`
	CoopAvailable        bool                 `json:"coopAvailable"`
	SpecializedTraining  *SpecializedTraining `json:"specializedTraining,omitempty"`
	Skills               []SkillProgress      `json:"skills"`
	IsHybrid             bool                 `json:"isHybrid"`
	HybridType           string               `json:"hybridType,omitempty"`
	SystemBlurb          string               `json:"systemBlurb,omitempty"`
	HybridRole           HybridMode           `json:"hybridRole,omitempty"`
}

// HasFragment reports whether a fragment of the given kind explains the score.
func (r *CareerPathRecommendation) HasFragment(kind FragmentKind) bool {
	for _, f := range r.Fragments {
		if f.Kind == kind {
			return true
		}
	}
	return false
}
