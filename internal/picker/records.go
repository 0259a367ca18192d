// Package picker holds the selection engine: per-lineup scoring records,
// metric normalization, and the greedy constrained selector.
package picker

import (
	"math"
	"strconv"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
	"github.com/mikehipps/simple-dfs/internal/players"
	"github.com/mikehipps/simple-dfs/internal/scoring"
)

// usageEpsilon floors pool usage before the log so a player absent from
// the usage map (post-prune edge cases) cannot produce -Inf.
const usageEpsilon = 1e-6

// Record is one candidate lineup with its scoring inputs. Records are
// built once from the pool table and never mutated.
type Record struct {
	Index       int
	Salary      int
	PlayerIDs   []string
	PlayerTexts []string
	ProjSum     float64
	UniqLogSum  float64
	ChalkSum    float64
	Features    scoring.Features
}

// BuildRecords assembles scoring records for every pool row. Players
// missing from the projections table score as zero projection; the
// returned count of distinct unknown IDs feeds the data-integrity
// warning.
func BuildRecords(tbl *csvtable.Table, rosterCols []int, scorer scoring.Scorer, store *players.Store, usage map[string]float64) ([]Record, int) {
	slotLabels := tbl.SlotLabels(rosterCols)
	salaryCol := tbl.FirstColumn("Budget", "Salary")

	unknown := make(map[string]struct{})
	records := make([]Record, 0, tbl.Len())
	for row := 0; row < tbl.Len(); row++ {
		ids := make([]string, len(rosterCols))
		texts := make([]string, len(rosterCols))
		for i, col := range rosterCols {
			texts[i] = tbl.Cell(row, col)
			ids[i] = csvtable.ExtractPlayerID(texts[i])
		}

		salary := 0
		if salaryCol >= 0 {
			if v, err := strconv.Atoi(tbl.Cell(row, salaryCol)); err == nil {
				salary = v
			}
		}

		projSum := 0.0
		uniqLogSum := 0.0
		chalkSum := 0.0
		for _, pid := range ids {
			proj, ok := store.Projection[pid]
			if !ok && pid != "" {
				unknown[pid] = struct{}{}
			}
			projSum += proj
			u := usage[pid]
			if u < usageEpsilon {
				u = usageEpsilon
			}
			uniqLogSum += -math.Log(u)
			chalkSum += usage[pid]
		}

		features := scorer.ComputeFeatures(scoring.Context{
			PlayerIDs:  ids,
			SlotLabels: slotLabels,
			Players:    store,
			Usage:      usage,
		})

		records = append(records, Record{
			Index:       row,
			Salary:      salary,
			PlayerIDs:   ids,
			PlayerTexts: texts,
			ProjSum:     projSum,
			UniqLogSum:  uniqLogSum,
			ChalkSum:    chalkSum,
			Features:    features,
		})
	}
	return records, len(unknown)
}
