package ranking

import (
	"github.com/jonathan/skilltree-advisor/internal/types"
)

// Score components.
const (
	overlapPoints        = 10
	strongAlignmentCount = 3
	strongAlignmentBonus = 20
	highFitThreshold     = 80

	aiCuratorBonus      = 25
	designExecutorBonus = 20
	directCreatorBonus  = 30
)

// hybridBoost returns the single hybrid bonus that applies to a path, if any.
// SYSTEM_ARCHITECT on a hybrid path earns the summed weights of the path's
// hybrid skills; the other modes earn flat bonuses.
func (s *Scorer) hybridBoost(mode types.HybridMode, path *types.CareerPath) (types.ReasoningFragment, bool) {
	if path.IsHybrid && mode == types.HybridModeSystemArchitect {
		bonus := 0
		for _, skill := range path.Skills {
			if w, ok := s.tables.HybridWeight(skill.Name); ok {
				bonus += w
			}
		}
		if bonus <= 0 {
			return types.ReasoningFragment{}, false
		}
		return types.ReasoningFragment{Kind: types.FragmentHybridAffinity, Bonus: bonus}, true
	}

	switch {
	case path.IsHybrid && mode == types.HybridModeAICurator:
		return types.ReasoningFragment{Kind: types.FragmentAICuration, Bonus: aiCuratorBonus}, true
	case path.IsHybrid && mode == types.HybridModeDesignExecutor:
		return types.ReasoningFragment{Kind: types.FragmentDesignExecution, Bonus: designExecutorBonus}, true
	case !path.IsHybrid && mode == types.HybridModeDirectCreator:
		return types.ReasoningFragment{Kind: types.FragmentDirectCreation, Bonus: directCreatorBonus}, true
	}
	return types.ReasoningFragment{}, false
}
