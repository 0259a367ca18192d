package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
	"github.com/mikehipps/simple-dfs/internal/picker"
	"github.com/mikehipps/simple-dfs/internal/players"
	"github.com/mikehipps/simple-dfs/internal/pool"
	"github.com/mikehipps/simple-dfs/internal/scoring"
)

func testStore() *players.Store {
	return &players.Store{
		Projection: map[string]float64{"a": 12.5, "b": 9.0},
		Position:   map[string]string{"a": "C", "b": "W"},
		Team:       map[string]string{"a": "COL", "b": "VGK"},
		Ownership:  map[string]float64{"a": 30.5},
		Name:       map[string]string{"a": "Alpha One"},
		Opponent:   map[string]string{},
		Game:       map[string]string{},
	}
}

func TestWriteSelectedCSV(t *testing.T) {
	tbl, err := csvtable.Read(strings.NewReader(
		"C,W,Budget\nAlpha One(a),Beta Two(b),55000\nAlpha One(a),Gamma(c),54000\n"))
	require.NoError(t, err)
	selected := []picker.Selected{
		{Record: picker.Record{Index: 1}},
		{Record: picker.Record{Index: 0}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSelectedCSV(&buf, tbl, []int{0, 1}, selected))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "C,W,Budget", lines[0])
	assert.Equal(t, "a,c,54000", lines[1])
	assert.Equal(t, "a,b,55000", lines[2])
}

func TestWriteSelectedCSVCollapsesDuplicateLabels(t *testing.T) {
	tbl, err := csvtable.Read(strings.NewReader("RB,RB.1\nx(1),y(2)\n"))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteSelectedCSV(&buf, tbl, []int{0, 1}, []picker.Selected{{Record: picker.Record{Index: 0}}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "RB,RB", lines[0])
	assert.Equal(t, "1,2", lines[1])
}

func TestWriteSelectedCSVEmpty(t *testing.T) {
	tbl := &csvtable.Table{Headers: []string{"C"}}
	var buf bytes.Buffer
	assert.Error(t, WriteSelectedCSV(&buf, tbl, []int{0}, nil))
}

func TestWriteUsageCSV(t *testing.T) {
	var buf bytes.Buffer
	counts := map[string]int{"a": 3, "b": 1}
	usage := map[string]float64{"a": 0.5, "b": 0.25}
	require.NoError(t, WriteUsageCSV(&buf, counts, usage, testStore(), 4))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(usageReportHeader, ","), lines[0])
	// Sorted by selected count descending; "a" first.
	assert.Equal(t, "Alpha One,a,C,COL,3,75.0,50.0,+25.0,12.50,30.5", lines[1])
	// No ownership entry for "b" renders blank.
	assert.Equal(t, "b,b,W,VGK,1,25.0,25.0,+0.0,9.00,", lines[2])
}

func TestSummaryLines(t *testing.T) {
	selected := []picker.Selected{
		{Record: picker.Record{PlayerIDs: []string{"a", "b"}, ProjSum: 20.0, Features: scoring.Features{Tags: map[string]any{}}}},
		{Record: picker.Record{PlayerIDs: []string{"a", "b"}, ProjSum: 30.0, Features: scoring.Features{Tags: map[string]any{}}}},
	}
	in := SummaryInput{
		Scorer:   &scoring.GenericScorer{},
		Selected: selected,
		Counts:   map[string]int{"a": 2, "b": 2},
		Usage:    map[string]float64{"a": 0.5, "b": 0.5},
		Players:  testStore(),
		Diag: picker.Diagnostics{
			CapPct:         40.0,
			CapCount:       2,
			MaxRepeatStart: 5,
			MaxRepeatFinal: 6,
			Relaxations:    1,
			Picked:         2,
			Target:         5,
		},
		PoolBefore:  100,
		PoolAfter:   90,
		PruneStats:  pool.PruneStats{RemovedLineups: 10},
		LowPlayers:  3,
		MinUsagePct: 2.0,
	}
	lines := SummaryLines(in)
	text := strings.Join(lines, "\n")
	assert.Contains(t, lines[0], "selected 2/5 lineups")
	assert.Contains(t, text, "Pruned 10 lineups (3 low-usage players < 2.00%).")
	assert.Contains(t, text, "Exposure cap 40.0% -> 2 lineups, overlap 5 -> 6 (relaxed 1x).")
	assert.Contains(t, text, "WARNING: Could not fill the full target")
	assert.Contains(t, text, "Projection avg 25.00")
	assert.Contains(t, text, "Players at cap (2): a, b")
	assert.Contains(t, text, "Top exposures")
}

func TestSummaryLinesFullTargetNoWarning(t *testing.T) {
	selected := []picker.Selected{
		{Record: picker.Record{PlayerIDs: []string{"a"}, ProjSum: 10.0, Features: scoring.Features{Tags: map[string]any{}}}},
	}
	in := SummaryInput{
		Scorer:   &scoring.GenericScorer{},
		Selected: selected,
		Counts:   map[string]int{"a": 1},
		Usage:    map[string]float64{"a": 1.0},
		Players:  testStore(),
		Diag:     picker.Diagnostics{CapCount: 5, Picked: 1, Target: 1, CapPct: 100},
	}
	text := strings.Join(SummaryLines(in), "\n")
	assert.NotContains(t, text, "WARNING")
	assert.NotContains(t, text, "Pruned")
}
