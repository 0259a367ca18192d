package picker

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mikehipps/simple-dfs/internal/scoring"
)

// Config tunes one greedy selection run.
type Config struct {
	NumLineups       int
	CapPct           float64
	MaxRepeat        int
	MaxRepeatLimit   int
	BreadthPenalty   float64
	SelectionWindow  int
	StalledThreshold int
	Seed             int64
	Weights          scoring.Weights
}

// Selected is a picked lineup with its composite score at pick time.
type Selected struct {
	Record
	Score float64
}

// Diagnostics reports how a selection run went. Under-fill is normal
// and visible as Picked < Target.
type Diagnostics struct {
	CapPct         float64
	CapCount       int
	MaxRepeatStart int
	MaxRepeatFinal int
	Relaxations    int
	Picked         int
	Target         int
	Considered     int
	Window         int
	FallbackUsed   bool
}

// selectionState is the mutable state of a single run.
type selectionState struct {
	selected  []Selected
	counts    map[string]int
	seenSets  map[string]struct{}
	maxRepeat int
}

// setKey canonicalizes a lineup's player-ID set for exact-duplicate
// detection.
func setKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// passesCaps applies the hard constraints: per-player exposure cap,
// exact-duplicate guard, and pairwise overlap against every already
// selected lineup. The overlap scan is skipped once the threshold
// reaches the roster size, since no lineup could then violate it.
func passesCaps(rec *Record, st *selectionState, capCount int) bool {
	for _, pid := range rec.PlayerIDs {
		if st.counts[pid]+1 > capCount {
			return false
		}
	}
	if _, dup := st.seenSets[setKey(rec.PlayerIDs)]; dup {
		return false
	}
	if st.maxRepeat < len(rec.PlayerIDs) {
		current := make(map[string]struct{}, len(rec.PlayerIDs))
		for _, pid := range rec.PlayerIDs {
			current[pid] = struct{}{}
		}
		for i := range st.selected {
			overlap := 0
			for _, pid := range st.selected[i].PlayerIDs {
				if _, ok := current[pid]; ok {
					overlap++
				}
			}
			if overlap > st.maxRepeat {
				return false
			}
		}
	}
	return true
}

// bestInBatch finds the passing candidate in batch maximizing the
// composite score minus the quadratic near-cap breadth penalty.
// Returns -1 when nothing in the batch passes.
func bestInBatch(batch []int, records []Record, scores []float64, st *selectionState, capCount int, breadthPenalty float64) (int, float64) {
	bestIdx := -1
	bestScore := math.Inf(-1)
	for _, idx := range batch {
		rec := &records[idx]
		if !passesCaps(rec, st, capCount) {
			continue
		}
		penalty := 0.0
		for _, pid := range rec.PlayerIDs {
			filled := float64(st.counts[pid]) / float64(capCount)
			penalty += filled * filled
		}
		score := scores[idx] - breadthPenalty*penalty
		if score > bestScore {
			bestScore = score
			bestIdx = idx
		}
	}
	return bestIdx, bestScore
}

func (st *selectionState) apply(rec *Record, score float64) {
	st.selected = append(st.selected, Selected{Record: *rec, Score: score})
	st.seenSets[setKey(rec.PlayerIDs)] = struct{}{}
	for _, pid := range rec.PlayerIDs {
		st.counts[pid]++
	}
}

// Select ranks the candidate records and greedily picks up to
// cfg.NumLineups of them under the exposure cap, duplicate, and overlap
// constraints, relaxing the overlap threshold when selection stalls.
// Ranking order is deterministic given cfg.Seed.
func Select(records []Record, cfg Config, log *logrus.Entry) ([]Selected, map[string]int, Diagnostics) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	diag := Diagnostics{
		CapPct:         cfg.CapPct,
		MaxRepeatStart: cfg.MaxRepeat,
		MaxRepeatFinal: cfg.MaxRepeat,
		Target:         cfg.NumLineups,
		Considered:     len(records),
	}

	capCount := int(math.Floor(cfg.CapPct/100.0*float64(cfg.NumLineups) + 1e-9))
	diag.CapCount = capCount
	if capCount < 1 {
		// Exposure cap rounds to zero lineups per player; nothing can be
		// picked and the caller reports it.
		log.WithFields(logrus.Fields{
			"cap_pct":   cfg.CapPct,
			"n_target":  cfg.NumLineups,
			"cap_count": capCount,
		}).Warn("Exposure cap allows zero lineups per player")
		return nil, map[string]int{}, diag
	}

	// Rank: composite score with a seeded random tiebreak, descending.
	projNorm := Normalize(metric(records, func(r *Record) float64 { return r.ProjSum }))
	corrNorm := Normalize(metric(records, func(r *Record) float64 { return r.Features.Correlation }))
	uniqNorm := Normalize(metric(records, func(r *Record) float64 { return r.UniqLogSum }))
	chalkNorm := Normalize(metric(records, func(r *Record) float64 { return r.ChalkSum }))

	scores := make([]float64, len(records))
	tiebreaks := make([]float64, len(records))
	order := make([]int, len(records))
	for i := range records {
		scores[i] = cfg.Weights.Projection*projNorm[i] +
			cfg.Weights.Correlation*corrNorm[i] +
			cfg.Weights.Uniqueness*uniqNorm[i] -
			cfg.Weights.Chalk*chalkNorm[i] +
			records[i].Features.Extra
		tiebreaks[i] = rng.Float64()
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return tiebreaks[ia] > tiebreaks[ib]
	})

	window := len(order)
	if cfg.SelectionWindow > 0 && cfg.SelectionWindow < window {
		window = cfg.SelectionWindow
	}
	diag.Window = window

	st := &selectionState{
		counts:    make(map[string]int),
		seenSets:  make(map[string]struct{}),
		maxRepeat: cfg.MaxRepeat,
	}
	pointer := 0
	stalled := 0

	for len(st.selected) < cfg.NumLineups && pointer < len(order) {
		end := pointer + window
		if end > len(order) {
			end = len(order)
		}
		batch := order[pointer:end]
		bestIdx, bestScore := bestInBatch(batch, records, scores, st, capCount, cfg.BreadthPenalty)
		if bestIdx >= 0 {
			st.apply(&records[bestIdx], bestScore)
			stalled = 0
			if len(st.selected)%10 == 0 || len(st.selected) == cfg.NumLineups {
				log.WithFields(logrus.Fields{
					"picked": len(st.selected),
					"target": cfg.NumLineups,
				}).Debug("Selection progress")
			}
			continue
		}
		stalled++
		if cfg.StalledThreshold > 0 && stalled >= cfg.StalledThreshold && st.maxRepeat < cfg.MaxRepeatLimit {
			st.maxRepeat++
			diag.Relaxations++
			stalled = 0
			log.WithFields(logrus.Fields{
				"max_repeat":  st.maxRepeat,
				"relaxations": diag.Relaxations,
			}).Debug("Relaxed overlap threshold")
		} else {
			pointer += window
		}
	}

	// The windowed sweep can strand feasible candidates in skipped
	// segments of the ranked order. One full-order pass at the final
	// threshold recovers them before reporting under-fill.
	if len(st.selected) < cfg.NumLineups && window < len(order) {
		diag.FallbackUsed = true
		for len(st.selected) < cfg.NumLineups {
			bestIdx, bestScore := bestInBatch(order, records, scores, st, capCount, cfg.BreadthPenalty)
			if bestIdx < 0 {
				break
			}
			st.apply(&records[bestIdx], bestScore)
		}
		log.WithFields(logrus.Fields{
			"picked": len(st.selected),
			"target": cfg.NumLineups,
		}).Debug("Full-order fallback sweep finished")
	}

	diag.MaxRepeatFinal = st.maxRepeat
	diag.Picked = len(st.selected)
	return st.selected, st.counts, diag
}

func metric(records []Record, f func(*Record) float64) []float64 {
	out := make([]float64, len(records))
	for i := range records {
		out[i] = f(&records[i])
	}
	return out
}
