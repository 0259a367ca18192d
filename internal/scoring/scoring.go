// Package scoring defines the sport-specific correlation scorer
// capability and the fixed set of variants selected by sport key at
// configuration time. Scorers are pure functions of the lineup plus the
// player attribute maps; tunables live in exported constants.
package scoring

import (
	"fmt"
	"sort"

	"github.com/mikehipps/simple-dfs/internal/players"
)

// Weights are the composite-score weights for the greedy selector.
type Weights struct {
	Projection  float64
	Correlation float64
	Uniqueness  float64
	Chalk       float64
}

// Defaults are the baseline selector knobs a sport ships with. Any of
// them can be overridden from the CLI.
type Defaults struct {
	NumLineups       int
	CapPct           float64
	MaxRepeat        int
	MaxRepeatLimit   int
	MinUsagePct      float64
	BreadthPenalty   float64
	StalledThreshold int
	SelectionWindow  int
	Weights          Weights
}

// Features is the scorer output for one lineup: a correlation bonus, an
// optional additive score term, and diagnostic tags consumed by the
// summary report.
type Features struct {
	Correlation float64
	Extra       float64
	Tags        map[string]any
}

// Context is the read-only view of a lineup a scorer evaluates.
type Context struct {
	PlayerIDs  []string
	SlotLabels []string
	Players    *players.Store
	Usage      map[string]float64
}

// Scorer is the closed capability interface for sport-specific scoring.
type Scorer interface {
	// Key is the sport key the scorer registers under.
	Key() string
	// Name is the human-readable sport name used in summaries.
	Name() string
	// RosterSchema lists the expected slot labels in column order, or
	// nil when any inferred roster is acceptable.
	RosterSchema() []string
	// Defaults returns the sport's baseline selector tuning.
	Defaults() Defaults
	// ComputeFeatures produces correlation metrics and tags for a lineup.
	ComputeFeatures(ctx Context) Features
	// SummaryLines renders sport-specific summary rows from the features
	// of the selected lineups.
	SummaryLines(selected []Features) []string
}

func baseDefaults() Defaults {
	return Defaults{
		NumLineups:       150,
		CapPct:           40.0,
		MaxRepeat:        5,
		MaxRepeatLimit:   7,
		MinUsagePct:      2.0,
		BreadthPenalty:   0.04,
		StalledThreshold: 3,
		SelectionWindow:  5000,
		Weights: Weights{
			Projection:  0.55,
			Correlation: 0.30,
			Uniqueness:  0.30,
			Chalk:       0.15,
		},
	}
}

var registry = map[string]Scorer{}

func register(s Scorer) {
	registry[s.Key()] = s
}

func init() {
	register(&GenericScorer{})
	register(&FootballScorer{})
	register(&HockeyScorer{})
}

// ForSport returns the scorer registered under the given sport key.
func ForSport(key string) (Scorer, error) {
	if s, ok := registry[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown sport %q (available: %v)", key, Sports())
}

// Sports lists the registered sport keys in sorted order.
func Sports() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
