// Package pool measures player usage across a lineup pool and prunes
// lineups built around under-exposed players.
package pool

import (
	"errors"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
)

// ErrEmptyPool indicates a usage computation over zero lineups.
var ErrEmptyPool = errors.New("lineup pool is empty")

// Usage computes the fraction of pool lineups containing each player.
// Blank cells are not players.
func Usage(tbl *csvtable.Table, rosterCols []int) (map[string]float64, error) {
	total := tbl.Len()
	if total == 0 {
		return nil, ErrEmptyPool
	}
	counts := make(map[string]int)
	for row := 0; row < total; row++ {
		for _, col := range rosterCols {
			pid := csvtable.ExtractPlayerID(tbl.Cell(row, col))
			if pid != "" {
				counts[pid]++
			}
		}
	}
	usage := make(map[string]float64, len(counts))
	for pid, cnt := range counts {
		usage[pid] = float64(cnt) / float64(total)
	}
	return usage, nil
}

// UniquePlayers returns the set of distinct player IDs in the pool.
func UniquePlayers(tbl *csvtable.Table, rosterCols []int) map[string]struct{} {
	set := make(map[string]struct{})
	for row := 0; row < tbl.Len(); row++ {
		for _, col := range rosterCols {
			pid := csvtable.ExtractPlayerID(tbl.Cell(row, col))
			if pid != "" {
				set[pid] = struct{}{}
			}
		}
	}
	return set
}

// PruneStats reports what pruning removed.
type PruneStats struct {
	LineupsBefore  int
	LineupsAfter   int
	RemovedLineups int
	PlayersBefore  int
	PlayersAfter   int
	RemovedPlayers int
}

// Prune removes every lineup containing at least one player whose pool
// usage is strictly below minUsageFrac. A player exactly at the
// threshold is kept. Returns the surviving pool, stats, and the
// low-usage player set. Callers must recompute usage on the survivors
// since the denominator shrinks.
func Prune(tbl *csvtable.Table, rosterCols []int, usage map[string]float64, minUsageFrac float64) (*csvtable.Table, PruneStats, map[string]struct{}) {
	low := make(map[string]struct{})
	for pid, frac := range usage {
		if frac < minUsageFrac {
			low[pid] = struct{}{}
		}
	}
	before := tbl.Len()
	playersBefore := len(UniquePlayers(tbl, rosterCols))
	stats := PruneStats{
		LineupsBefore: before,
		LineupsAfter:  before,
		PlayersBefore: playersBefore,
		PlayersAfter:  playersBefore,
	}
	if len(low) == 0 {
		return tbl, stats, low
	}

	keep := make([]int, 0, before)
	for row := 0; row < before; row++ {
		contaminated := false
		for _, col := range rosterCols {
			pid := csvtable.ExtractPlayerID(tbl.Cell(row, col))
			if _, bad := low[pid]; bad {
				contaminated = true
				break
			}
		}
		if !contaminated {
			keep = append(keep, row)
		}
	}
	pruned := tbl.Subset(keep)
	playersAfter := len(UniquePlayers(pruned, rosterCols))
	stats.LineupsAfter = pruned.Len()
	stats.RemovedLineups = before - pruned.Len()
	stats.PlayersAfter = playersAfter
	stats.RemovedPlayers = playersBefore - playersAfter
	return pruned, stats, low
}
