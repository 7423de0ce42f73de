// Package hybrid classifies students into one of the four hybrid archetypes.
package hybrid

import (
	"strings"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// signal fires for a mode when any keyword is contained in a talent name or
// interest topic.
type signal struct {
	mode             types.HybridMode
	talentKeywords   []string
	interestKeywords []string
}

// signals are evaluated in order; the first one that fires wins.
var signals = []signal{
	{
		mode:           types.HybridModeDirectCreator,
		talentKeywords: []string{"drawing", "sculpting", "sketching", "crafting"},
	},
	{
		mode:             types.HybridModeAICurator,
		interestKeywords: []string{"ai", "machine learning"},
	},
	{
		mode:             types.HybridModeSystemArchitect,
		talentKeywords:   []string{"coding", "programming", "scripting", "automation", "systems"},
		interestKeywords: []string{"gaming", "sci-fi", "technology", "systems", "logic"},
	},
	{
		mode:           types.HybridModeDesignExecutor,
		talentKeywords: []string{"3d printing", "manufacturing", "prototyping", "execution"},
	},
}

// Infer returns the first archetype whose keywords appear in the talent names
// or interest topics, or HybridModeNone when nothing fires. Matching is plain
// case-insensitive containment.
func Infer(talentNames, interestTopics []string) types.HybridMode {
	talents := lowerAll(talentNames)
	interests := lowerAll(interestTopics)

	for _, s := range signals {
		if containsAny(talents, s.talentKeywords) || containsAny(interests, s.interestKeywords) {
			return s.mode
		}
	}
	return types.HybridModeNone
}

// Resolve returns the mode to score a profile with. An explicit mode is kept
// as is. Otherwise the mode is inferred, and shouldPersist reports whether the
// caller ought to store it on the student.
func Resolve(profile *types.StudentProfile) (mode types.HybridMode, shouldPersist bool) {
	if profile.HybridMode.IsSet() {
		return profile.HybridMode, false
	}
	mode = Infer(profile.TalentNames(), profile.InterestTopics())
	return mode, mode.IsSet()
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.ToLower(item)
	}
	return out
}

func containsAny(items, keywords []string) bool {
	for _, item := range items {
		for _, k := range keywords {
			if strings.Contains(item, k) {
				return true
			}
		}
	}
	return false
}
