package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Football stack bonuses.
const (
	// FootballDoubleStackBonus rewards two or more pass-catchers (or a
	// back) from the quarterback's team.
	FootballDoubleStackBonus = 1.0
	// FootballBringBackBonus rewards at least one player from the
	// quarterback's opponent.
	FootballBringBackBonus = 0.6
)

// footballStackPositions are the positions that correlate with the QB.
var footballStackPositions = map[string]struct{}{"WR": {}, "TE": {}, "RB": {}}

// FootballScorer scores QB-anchored stacks: a bonus for a double stack
// with the quarterback's team and a bonus for a bring-back from the
// opposing side of that game.
type FootballScorer struct{}

func (f *FootballScorer) Key() string  { return "nfl" }
func (f *FootballScorer) Name() string { return "NFL" }

func (f *FootballScorer) RosterSchema() []string {
	return []string{"QB", "RB", "RB", "WR", "WR", "WR", "TE", "FLEX", "DEF"}
}

func (f *FootballScorer) Defaults() Defaults {
	return Defaults{
		NumLineups:       150,
		CapPct:           50.0,
		MaxRepeat:        7,
		MaxRepeatLimit:   9,
		MinUsagePct:      1.0,
		BreadthPenalty:   0.05,
		StalledThreshold: 3,
		SelectionWindow:  5000,
		Weights: Weights{
			Projection:  0.55,
			Correlation: 0.25,
			Uniqueness:  0.45,
			Chalk:       0.05,
		},
	}
}

func (f *FootballScorer) ComputeFeatures(ctx Context) Features {
	maps := ctx.Players
	qbID := ""
	for i, pid := range ctx.PlayerIDs {
		pos := maps.Position[pid]
		if pos == "" && i < len(ctx.SlotLabels) {
			pos = ctx.SlotLabels[i]
		}
		if strings.ToUpper(pos) == "QB" {
			qbID = pid
			break
		}
	}
	if qbID == "" {
		return Features{Correlation: 0.0, Tags: map[string]any{}}
	}

	qbTeam := maps.Team[qbID]
	qbOpp := maps.Opponent[qbID]

	teammates := 0
	bringbacks := 0
	for _, pid := range ctx.PlayerIDs {
		if pid == qbID {
			continue
		}
		pos := strings.ToUpper(maps.Position[pid])
		team := maps.Team[pid]
		if qbTeam != "" && team == qbTeam {
			if _, stackPos := footballStackPositions[pos]; stackPos {
				teammates++
			}
		}
		if qbOpp != "" && team == qbOpp {
			bringbacks++
		}
	}

	stackScore := 0.0
	if teammates >= 2 {
		stackScore += FootballDoubleStackBonus
	}
	if bringbacks >= 1 {
		stackScore += FootballBringBackBonus
	}

	tags := map[string]any{
		"qb_team":         qbTeam,
		"qb_opponent":     qbOpp,
		"double_stack":    teammates >= 2,
		"bringbacks":      bringbacks,
		"teammates_count": teammates,
	}
	return Features{Correlation: stackScore, Tags: tags}
}

func (f *FootballScorer) SummaryLines(selected []Features) []string {
	total := len(selected)
	if total == 0 {
		return nil
	}
	doubleCount := 0
	bringCount := 0
	bothCount := 0
	teamCounter := make(map[string]int)
	for _, feat := range selected {
		double, _ := feat.Tags["double_stack"].(bool)
		brings, _ := feat.Tags["bringbacks"].(int)
		if double {
			doubleCount++
		}
		if brings >= 1 {
			bringCount++
		}
		if double && brings >= 1 {
			bothCount++
		}
		if team, _ := feat.Tags["qb_team"].(string); team != "" {
			teamCounter[team]++
		}
	}
	lines := []string{
		fmt.Sprintf("QB double stacks: %d/%d", doubleCount, total),
		fmt.Sprintf("Bring-backs: %d/%d", bringCount, total),
		fmt.Sprintf("Double+bring: %d/%d", bothCount, total),
	}
	if len(teamCounter) > 0 {
		lines = append(lines, "Top QB teams: "+topCounts(teamCounter, 5))
	}
	return lines
}

// topCounts formats the n highest-count entries as "key:count, ...".
func topCounts(counter map[string]int, n int) string {
	type kv struct {
		key   string
		count int
	}
	entries := make([]kv, 0, len(counter))
	for k, c := range counter {
		entries = append(entries, kv{k, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s:%d", e.key, e.count)
	}
	return strings.Join(parts, ", ")
}
