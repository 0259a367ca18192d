package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Hockey stack bonuses.
const (
	HockeyPairBonus        = 0.45
	HockeyTripleBonus      = 1.1
	HockeyQuadBonus        = 1.6
	HockeyQuadExcessBonus  = 0.25
	HockeyCrossGameBonus   = 0.35
	HockeyPowerPlayBonus   = 0.35
	HockeyGoalieSupport    = 0.18
	HockeyGoaliePenalty    = 0.65
)

// HockeyScorer scores team/line stacks: tiered bonuses for 2/3/4+ same
// team skater groups, power-play unit pairings, cross-game mini stacks,
// and goalie support against goalie conflicts.
type HockeyScorer struct{}

func (h *HockeyScorer) Key() string  { return "nhl" }
func (h *HockeyScorer) Name() string { return "NHL" }

func (h *HockeyScorer) RosterSchema() []string {
	return []string{"C", "C", "W", "W", "D", "D", "UTIL", "UTIL", "G"}
}

func (h *HockeyScorer) Defaults() Defaults {
	return Defaults{
		NumLineups:       150,
		CapPct:           40.0,
		MaxRepeat:        5,
		MaxRepeatLimit:   7,
		MinUsagePct:      4.0,
		BreadthPenalty:   0.045,
		StalledThreshold: 3,
		SelectionWindow:  5000,
		Weights: Weights{
			Projection:  0.55,
			Correlation: 0.40,
			Uniqueness:  0.25,
			Chalk:       0.20,
		},
	}
}

func (h *HockeyScorer) ComputeFeatures(ctx Context) Features {
	maps := ctx.Players

	goalieID := ""
	for _, pid := range ctx.PlayerIDs {
		if strings.ToUpper(maps.Position[pid]) == "G" {
			goalieID = pid
			break
		}
	}
	goalieTeam := ""
	goalieOpp := ""
	if goalieID != "" {
		goalieTeam = maps.Team[goalieID]
		goalieOpp = maps.Opponent[goalieID]
	}

	skaterTeamCounts := make(map[string]int)
	gameTeamSets := make(map[string]map[string]struct{})
	type ppGroup struct{ team, unit string }
	powerPlayGroups := make(map[ppGroup]int)

	for _, pid := range ctx.PlayerIDs {
		pos := strings.ToUpper(maps.Position[pid])
		team := maps.Team[pid]
		if pos == "G" || team == "" {
			continue
		}
		skaterTeamCounts[team]++
		if game := maps.Game[pid]; game != "" {
			if gameTeamSets[game] == nil {
				gameTeamSets[game] = make(map[string]struct{})
			}
			gameTeamSets[game][team] = struct{}{}
		}
		unit := strings.ToUpper(maps.RosterOrder[pid])
		if strings.HasPrefix(unit, "POWER PLAY") {
			powerPlayGroups[ppGroup{team, unit}]++
		}
	}

	stackScore := 0.0
	pairStacks := 0
	tripleStacks := 0
	maxStack := 0
	for _, count := range skaterTeamCounts {
		if count > maxStack {
			maxStack = count
		}
		switch {
		case count >= 4:
			tripleStacks++
			stackScore += HockeyQuadBonus + HockeyQuadExcessBonus*float64(count-4)
		case count == 3:
			tripleStacks++
			stackScore += HockeyTripleBonus
		case count == 2:
			pairStacks++
			stackScore += HockeyPairBonus
		}
	}

	crossGames := 0
	for _, teams := range gameTeamSets {
		if len(teams) >= 2 {
			crossGames++
		}
	}
	stackScore += HockeyCrossGameBonus * float64(crossGames)

	ppPairsTotal := 0
	ppBonus := 0.0
	for _, count := range powerPlayGroups {
		if count >= 2 {
			pairs := count * (count - 1) / 2
			ppPairsTotal += pairs
			ppBonus += HockeyPowerPlayBonus * float64(pairs)
		}
	}
	stackScore += ppBonus

	goalieSupport := 0
	goalieConflict := 0
	if goalieID != "" {
		for _, pid := range ctx.PlayerIDs {
			if pid == goalieID {
				continue
			}
			team := maps.Team[pid]
			if team != "" && team == goalieTeam {
				goalieSupport++
			}
			if team != "" && team == goalieOpp {
				goalieConflict++
			}
		}
		stackScore += HockeyGoalieSupport * float64(goalieSupport)
		stackScore -= HockeyGoaliePenalty * float64(goalieConflict)
	}

	tags := map[string]any{
		"max_stack":        maxStack,
		"pair_stacks":      pairStacks,
		"triple_stacks":    tripleStacks,
		"cross_games":      crossGames,
		"goalie_support":   goalieSupport,
		"goalie_conflict":  goalieConflict,
		"power_play_pairs": ppPairsTotal,
		"power_play_bonus": ppBonus,
	}
	return Features{Correlation: stackScore, Tags: tags}
}

func (h *HockeyScorer) SummaryLines(selected []Features) []string {
	total := len(selected)
	if total == 0 {
		return nil
	}
	stackCounts := make(map[int]int)
	crossTotal := 0
	goalieConflicts := 0
	goalieConflictLineups := 0
	ppPairsTotal := 0
	for _, feat := range selected {
		maxStack, _ := feat.Tags["max_stack"].(int)
		stackCounts[maxStack]++
		cross, _ := feat.Tags["cross_games"].(int)
		crossTotal += cross
		conflict, _ := feat.Tags["goalie_conflict"].(int)
		if conflict > 0 {
			goalieConflicts += conflict
			goalieConflictLineups++
		}
		ppPairs, _ := feat.Tags["power_play_pairs"].(int)
		ppPairsTotal += ppPairs
	}

	sizes := make([]int, 0, len(stackCounts))
	for size := range stackCounts {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	parts := make([]string, 0, len(sizes))
	for _, size := range sizes {
		parts = append(parts, fmt.Sprintf("%d-man:%d", size, stackCounts[size]))
	}
	stackSummary := strings.Join(parts, ", ")
	if stackSummary == "" {
		stackSummary = "n/a"
	}

	lines := []string{
		fmt.Sprintf("Max stack sizes seen: %s.", stackSummary),
		fmt.Sprintf("Cross-game mini-stacks: %d total instances.", crossTotal),
		fmt.Sprintf("Goalie conflicts: %d skaters across %d lineups.", goalieConflicts, goalieConflictLineups),
	}
	if ppPairsTotal > 0 {
		lines = append(lines, fmt.Sprintf("Power-play pairs: %d total pairings benefited from bonuses.", ppPairsTotal))
	}
	return lines
}
