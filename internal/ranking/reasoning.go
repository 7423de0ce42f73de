package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

const fragmentSeparator = " | "

// RenderReasoning turns reasoning fragments into the human-readable summary
// shown next to a recommendation.
func RenderReasoning(fragments []types.ReasoningFragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if text := RenderFragment(f); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, fragmentSeparator)
}

// RenderFragment renders a single fragment. Unknown kinds render empty.
func RenderFragment(f types.ReasoningFragment) string {
	switch f.Kind {
	case types.FragmentStrongAlignment:
		return fmt.Sprintf("%d industry-required skills matched", f.Count)
	case types.FragmentSkillsAligned:
		if f.Count == 1 {
			return "1 skill aligned"
		}
		return fmt.Sprintf("%d skills aligned", f.Count)
	case types.FragmentHybridAffinity:
		return fmt.Sprintf("Hybrid system design affinity (+%d)", f.Bonus)
	case types.FragmentAICuration:
		return "AI curation alignment"
	case types.FragmentDesignExecution:
		return "Design execution alignment"
	case types.FragmentDirectCreation:
		return "Direct creation alignment"
	case types.FragmentFallback:
		level := f.Level
		if level == "" {
			level = types.FitMedium
		}
		return fmt.Sprintf("%s fit: strong talent/interest overlap", level)
	default:
		return ""
	}
}
