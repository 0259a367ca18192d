// Package pipeline wires the selection stages together: load, prune,
// score, select, export. A run is single-threaded and deterministic
// given the configured seed.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
	"github.com/mikehipps/simple-dfs/internal/picker"
	"github.com/mikehipps/simple-dfs/internal/players"
	"github.com/mikehipps/simple-dfs/internal/pool"
	"github.com/mikehipps/simple-dfs/internal/report"
	"github.com/mikehipps/simple-dfs/internal/scoring"
	"github.com/mikehipps/simple-dfs/pkg/config"
	"github.com/mikehipps/simple-dfs/pkg/logger"
)

var (
	// ErrNoRosterColumns indicates the pool table had no inferable roster slots.
	ErrNoRosterColumns = errors.New("no roster columns could be inferred from the lineup CSV")
	// ErrRosterSchema indicates the pool's roster labels do not match the sport's schema.
	ErrRosterSchema = errors.New("lineup CSV roster columns do not match the sport roster schema")
	// ErrEmptyAfterPrune indicates pruning removed every lineup.
	ErrEmptyAfterPrune = errors.New("no candidate lineups remain after pruning")
	// ErrNoSelection indicates the selector picked zero lineups.
	ErrNoSelection = errors.New("selector could not find any lineups under the given constraints")
)

// Result carries everything a caller needs to export or inspect a run.
type Result struct {
	Selected       []picker.Selected
	Counts         map[string]int
	Diag           picker.Diagnostics
	PruneStats     pool.PruneStats
	LowPlayers     map[string]struct{}
	Usage          map[string]float64
	Pool           *csvtable.Table
	RosterCols     []int
	Store          *players.Store
	PoolBefore     int
	UnknownPlayers int
	Summary        []string
}

// Execute runs the selection engine over already-loaded tables.
func Execute(lineups, projections *csvtable.Table, scorer scoring.Scorer, cfg *config.Config, log *logrus.Entry) (*Result, error) {
	rosterCols := lineups.RosterColumns()
	if len(rosterCols) == 0 {
		return nil, ErrNoRosterColumns
	}
	if schema := scorer.RosterSchema(); schema != nil {
		labels := lineups.SlotLabels(rosterCols)
		if !labelsMatch(labels, schema) {
			return nil, fmt.Errorf("%w: have %v, want %v", ErrRosterSchema, labels, schema)
		}
	}

	poolBefore := lineups.Len()
	usage, err := pool.Usage(lineups, rosterCols)
	if err != nil {
		return nil, err
	}

	var pruneStats pool.PruneStats
	lowPlayers := make(map[string]struct{})
	minUsageFrac := cfg.MinUsagePct / 100.0
	if minUsageFrac > 0 {
		log.WithFields(logrus.Fields{
			"min_usage_pct": cfg.MinUsagePct,
			"pool_size":     lineups.Len(),
		}).Info("Pruning lineups using under-exposed players")
		lineups, pruneStats, lowPlayers = pool.Prune(lineups, rosterCols, usage, minUsageFrac)
		if lineups.Len() == 0 {
			return nil, ErrEmptyAfterPrune
		}
		// Usage shifts after pruning since the denominator shrinks.
		usage, err = pool.Usage(lineups, rosterCols)
		if err != nil {
			return nil, err
		}
	} else {
		pruneStats = pool.PruneStats{
			LineupsBefore: poolBefore,
			LineupsAfter:  poolBefore,
		}
	}

	store, err := players.Build(projections)
	if err != nil {
		return nil, err
	}

	records, unknown := picker.BuildRecords(lineups, rosterCols, scorer, store, usage)
	if unknown > 0 {
		log.WithFields(logrus.Fields{
			"unknown_players": unknown,
		}).Warn("Lineups reference players missing from the projections CSV; they score as zero")
	}

	selected, counts, diag := picker.Select(records, picker.Config{
		NumLineups:       cfg.NumLineups,
		CapPct:           cfg.CapPct,
		MaxRepeat:        cfg.MaxRepeat,
		MaxRepeatLimit:   cfg.MaxRepeatLimit,
		BreadthPenalty:   cfg.BreadthPenalty,
		SelectionWindow:  cfg.SelectionWindow,
		StalledThreshold: cfg.StalledThreshold,
		Seed:             cfg.Seed,
		Weights:          cfg.Weights(),
	}, log)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w (picked=%d, target=%d, cap_count=%d)",
			ErrNoSelection, diag.Picked, diag.Target, diag.CapCount)
	}
	log.WithFields(logrus.Fields{
		"picked":      diag.Picked,
		"target":      diag.Target,
		"relaxations": diag.Relaxations,
	}).Info("Selection complete")

	result := &Result{
		Selected:       selected,
		Counts:         counts,
		Diag:           diag,
		PruneStats:     pruneStats,
		LowPlayers:     lowPlayers,
		Usage:          usage,
		Pool:           lineups,
		RosterCols:     rosterCols,
		Store:          store,
		PoolBefore:     poolBefore,
		UnknownPlayers: unknown,
	}
	result.Summary = report.SummaryLines(report.SummaryInput{
		Scorer:      scorer,
		Selected:    selected,
		Counts:      counts,
		Usage:       usage,
		Players:     store,
		Diag:        diag,
		PoolBefore:  poolBefore,
		PoolAfter:   lineups.Len(),
		PruneStats:  pruneStats,
		LowPlayers:  len(lowPlayers),
		MinUsagePct: cfg.MinUsagePct,
	})
	return result, nil
}

// Run loads the input files, executes the engine, and writes the three
// outputs under cfg.OutDir.
func Run(cfg *config.Config) error {
	scorer, err := scoring.ForSport(cfg.Sport)
	if err != nil {
		return err
	}
	cfg.ApplyDefaults(scorer.Defaults())

	runID := uuid.New().String()
	log := logger.WithRunContext(runID, scorer.Key())

	log.WithField("path", cfg.LineupCSV).Info("Loading lineup pool")
	lineups, err := csvtable.Load(cfg.LineupCSV)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"lineups": lineups.Len(),
		"columns": len(lineups.Headers),
	}).Info("Lineup pool loaded")

	log.WithField("path", cfg.ProjectionsCSV).Info("Loading projections")
	projections, err := csvtable.Load(cfg.ProjectionsCSV)
	if err != nil {
		return err
	}

	result, err := Execute(lineups, projections, scorer, cfg, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	prefix := cfg.OutPrefix
	if prefix == "" {
		stem := strings.TrimSuffix(filepath.Base(cfg.LineupCSV), filepath.Ext(cfg.LineupCSV))
		prefix = fmt.Sprintf("%s_%s", scorer.Key(), stem)
	}

	selectedPath := filepath.Join(cfg.OutDir, prefix+"_selected_lineups.csv")
	usagePath := filepath.Join(cfg.OutDir, prefix+"_usage_report.csv")
	summaryPath := filepath.Join(cfg.OutDir, prefix+"_summary.txt")

	if err := writeFile(selectedPath, func(f *os.File) error {
		return report.WriteSelectedCSV(f, result.Pool, result.RosterCols, result.Selected)
	}); err != nil {
		return err
	}
	log.WithField("path", selectedPath).Info("Wrote selected lineups")

	if err := writeFile(usagePath, func(f *os.File) error {
		return report.WriteUsageCSV(f, result.Counts, result.Usage, result.Store, cfg.NumLineups)
	}); err != nil {
		return err
	}
	log.WithField("path", usagePath).Info("Wrote usage report")

	summary := strings.Join(result.Summary, "\n") + "\n"
	if err := os.WriteFile(summaryPath, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	log.WithField("path", summaryPath).Info("Wrote summary")

	fmt.Print(summary)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func labelsMatch(have, want []string) bool {
	if len(have) != len(want) {
		return false
	}
	for i := range have {
		if !strings.EqualFold(have[i], want[i]) {
			return false
		}
	}
	return true
}
