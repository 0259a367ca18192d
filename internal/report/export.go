// Package report renders the three run outputs: the selected-lineup
// CSV, the per-player usage delta CSV, and the free-text summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
	"github.com/mikehipps/simple-dfs/internal/picker"
	"github.com/mikehipps/simple-dfs/internal/players"
	"github.com/mikehipps/simple-dfs/internal/pool"
	"github.com/mikehipps/simple-dfs/internal/scoring"
)

// usageReportHeader is the fixed column order of the usage report.
var usageReportHeader = []string{
	"Player",
	"Player ID",
	"Position",
	"Team",
	"Selected Lineups",
	"Selected %",
	"Pool %",
	"Delta %",
	"Proj",
	"Ownership",
}

// WriteSelectedCSV writes the selected lineups in the pool table's
// column order. Duplicate-label suffixes ("WR.1") are collapsed back to
// the bare label and roster cells are reduced to bare player IDs; other
// columns pass through untouched.
func WriteSelectedCSV(w io.Writer, tbl *csvtable.Table, rosterCols []int, selected []picker.Selected) error {
	if len(selected) == 0 {
		return fmt.Errorf("no selected lineups to export")
	}
	writer := csv.NewWriter(w)

	headers := make([]string, len(tbl.Headers))
	for i, h := range tbl.Headers {
		headers[i] = csvtable.NormalizeSlotLabel(h)
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	rosterSet := make(map[int]struct{}, len(rosterCols))
	for _, col := range rosterCols {
		rosterSet[col] = struct{}{}
	}
	for _, lu := range selected {
		row := make([]string, len(tbl.Headers))
		for col := range tbl.Headers {
			cell := tbl.Cell(lu.Index, col)
			if _, isRoster := rosterSet[col]; isRoster {
				cell = csvtable.ExtractPlayerID(cell)
			}
			row[col] = cell
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write lineup row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteUsageCSV writes the per-player selected% vs pool% delta report,
// sorted by selected-lineup count descending.
func WriteUsageCSV(w io.Writer, counts map[string]int, usage map[string]float64, store *players.Store, nTarget int) error {
	if len(counts) == 0 {
		return fmt.Errorf("no selection counts to export")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(usageReportHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, pid := range sortedByCount(counts) {
		cnt := counts[pid]
		selectedPct := 100.0 * float64(cnt) / float64(maxInt(1, nTarget))
		poolPct := 100.0 * usage[pid]
		own := ""
		if v, ok := store.Ownership[pid]; ok {
			own = fmt.Sprintf("%.1f", v)
		}
		row := []string{
			store.DisplayName(pid),
			pid,
			store.Position[pid],
			store.Team[pid],
			fmt.Sprintf("%d", cnt),
			fmt.Sprintf("%.1f", selectedPct),
			fmt.Sprintf("%.1f", poolPct),
			fmt.Sprintf("%+.1f", selectedPct-poolPct),
			fmt.Sprintf("%.2f", store.Projection[pid]),
			own,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write usage row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SummaryInput collects everything the text summary reports on.
type SummaryInput struct {
	Scorer      scoring.Scorer
	Selected    []picker.Selected
	Counts      map[string]int
	Usage       map[string]float64
	Players     *players.Store
	Diag        picker.Diagnostics
	PoolBefore  int
	PoolAfter   int
	PruneStats  pool.PruneStats
	LowPlayers  int
	MinUsagePct float64
}

// SummaryLines renders the free-text run summary: pick counts, prune
// stats, cap and relaxation diagnostics, projection stats, the sport
// scorer's own lines, and the top exposures table.
func SummaryLines(in SummaryInput) []string {
	lines := []string{fmt.Sprintf(
		"%s picker selected %d/%d lineups (pool before=%d, after=%d).",
		in.Scorer.Name(), len(in.Selected), in.Diag.Target, in.PoolBefore, in.PoolAfter,
	)}
	if in.PruneStats.RemovedLineups > 0 {
		lines = append(lines, fmt.Sprintf(
			"Pruned %d lineups (%d low-usage players < %.2f%%).",
			in.PruneStats.RemovedLineups, in.LowPlayers, in.MinUsagePct,
		))
	}
	lines = append(lines, fmt.Sprintf(
		"Exposure cap %.1f%% -> %d lineups, overlap %d -> %d (relaxed %dx).",
		in.Diag.CapPct, in.Diag.CapCount, in.Diag.MaxRepeatStart, in.Diag.MaxRepeatFinal, in.Diag.Relaxations,
	))
	if in.Diag.FallbackUsed {
		lines = append(lines, "Full-order fallback sweep ran after the windowed pass under-filled.")
	}
	if in.Diag.Picked < in.Diag.Target {
		lines = append(lines, "WARNING: Could not fill the full target under current caps/overlap settings.")
	}
	if len(in.Selected) > 0 {
		projValues := make([]float64, len(in.Selected))
		for i, lu := range in.Selected {
			projValues[i] = lu.ProjSum
		}
		mean := stat.Mean(projValues, nil)
		sorted := append([]float64(nil), projValues...)
		sort.Float64s(sorted)
		median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
		lines = append(lines, fmt.Sprintf(
			"Projection avg %.2f, median %.2f, range %.2f-%.2f.",
			mean, median, sorted[0], sorted[len(sorted)-1],
		))
	}

	feats := make([]scoring.Features, len(in.Selected))
	for i, lu := range in.Selected {
		feats[i] = lu.Features
	}
	lines = append(lines, in.Scorer.SummaryLines(feats)...)

	atCap := make([]string, 0)
	for _, pid := range sortedByCount(in.Counts) {
		if in.Counts[pid] >= in.Diag.CapCount && in.Diag.CapCount > 0 {
			atCap = append(atCap, pid)
		}
	}
	if len(atCap) > 0 {
		lines = append(lines, fmt.Sprintf("Players at cap (%d): %s", len(atCap), strings.Join(atCap, ", ")))
	}

	lines = append(lines, "Top exposures (selected% | pool% | delta | POS | TEAM | player [id] | proj | own):")
	top := sortedByCount(in.Counts)
	if len(top) > 12 {
		top = top[:12]
	}
	for _, pid := range top {
		cnt := in.Counts[pid]
		selectedPct := 100.0 * float64(cnt) / float64(maxInt(1, in.Diag.Target))
		poolPct := 100.0 * in.Usage[pid]
		line := fmt.Sprintf(
			"  %5.1f%% | %5.1f%% | %+5.1f | %-3s | %-3s | %s [%s] | %5.2f",
			selectedPct, poolPct, selectedPct-poolPct,
			in.Players.Position[pid], in.Players.Team[pid],
			in.Players.DisplayName(pid), pid, in.Players.Projection[pid],
		)
		if own, ok := in.Players.Ownership[pid]; ok {
			line += fmt.Sprintf(" | %4.1f%%", own)
		}
		lines = append(lines, line)
	}
	return lines
}

// sortedByCount orders player IDs by selection count descending, with a
// stable ID order between equal counts.
func sortedByCount(counts map[string]int) []string {
	ids := make([]string, 0, len(counts))
	for pid := range counts {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
