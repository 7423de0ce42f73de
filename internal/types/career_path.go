// Package types provides type definitions for structured data used throughout the skill tree advisor.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Skill is one node of a skill tree.
type Skill struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Courses     []Course `json:"courses,omitempty"`
}

// Course is a training course attached to a skill.
type Course struct {
	Title         string `json:"title"`
	Provider      string `json:"provider,omitempty"`
	DurationHours int    `json:"durationHours,omitempty"`
}

// SpecializedTraining is a training record attached to a career path.
type SpecializedTraining struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CoopOpportunity is a co-op placement linked to a career path.
type CoopOpportunity struct {
	Company  string `json:"company"`
	Title    string `json:"title"`
	Openings int    `json:"openings"`
	Active   bool   `json:"active"`
}

// CareerPath is a skill tree within an industry subfield. It is reference data.
type CareerPath struct {
	ID                  string                `json:"id"`
	Name                string                `json:"name"`
	Industry            string                `json:"industry"`
	Subfield            string                `json:"subfield"`
	MarketingBlurb      string                `json:"marketingBlurb"`
	SystemBlurb         string                `json:"systemBlurb,omitempty"`
	IsHybrid            bool                  `json:"isHybrid"`
	HybridType          string                `json:"hybridType,omitempty"`
	Skills              []Skill               `json:"skills"`
	SpecializedTraining []SpecializedTraining `json:"specializedTraining,omitempty"`
	CoopOpportunities   []CoopOpportunity     `json:"coopOpportunities,omitempty"`
}

// SkillNames returns the path's skill names in tree order.
func (c *CareerPath) SkillNames() []string {
	names := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		names = append(names, s.Name)
	}
	return names
}

// HasActiveCoop reports whether at least one active co-op is linked to the path.
func (c *CareerPath) HasActiveCoop() bool {
	for _, coop := range c.CoopOpportunities {
		if coop.Active {
			return true
		}
	}
	return false
}
