package pipeline

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
	"github.com/mikehipps/simple-dfs/internal/players"
	"github.com/mikehipps/simple-dfs/internal/pool"
	"github.com/mikehipps/simple-dfs/internal/scoring"
	"github.com/mikehipps/simple-dfs/pkg/config"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log.WithField("test", true)
}

func mustTable(t *testing.T, raw string) *csvtable.Table {
	t.Helper()
	tbl, err := csvtable.Read(strings.NewReader(raw))
	require.NoError(t, err)
	return tbl
}

func testProjections(t *testing.T) *csvtable.Table {
	return mustTable(t,
		"Id,FPPG,Position\n"+
			"a,20.0,C\n"+
			"b,15.0,W\n"+
			"c,10.0,W\n"+
			"d,5.0,C\n")
}

func testConfig() *config.Config {
	return &config.Config{
		NumLineups:       2,
		CapPct:           100,
		MaxRepeat:        2, // overlap guard off at roster size
		MaxRepeatLimit:   2,
		SelectionWindow:  5,
		StalledThreshold: 3,
		WProj:            1.0,
	}
}

func TestExecuteSelectsLineups(t *testing.T) {
	lineups := mustTable(t,
		"C,W,Budget\n"+
			"Aa(a),Bb(b),50000\n"+
			"Aa(a),Cc(c),48000\n"+
			"Dd(d),Bb(b),47000\n")
	scorer, err := scoring.ForSport("generic")
	require.NoError(t, err)

	result, err := Execute(lineups, testProjections(t), scorer, testConfig(), testLog())
	require.NoError(t, err)
	require.Len(t, result.Selected, 2)
	// Highest projected sum first: a+b = 35.
	assert.Equal(t, 0, result.Selected[0].Index)
	assert.Equal(t, 3, result.PoolBefore)
	assert.Equal(t, []int{0, 1}, result.RosterCols)
	assert.Zero(t, result.UnknownPlayers)
	assert.NotEmpty(t, result.Summary)
}

func TestExecuteCountsUnknownPlayers(t *testing.T) {
	lineups := mustTable(t,
		"C,W\n"+
			"Aa(a),Zz(zz)\n"+
			"Aa(a),Bb(b)\n")
	scorer, _ := scoring.ForSport("generic")
	result, err := Execute(lineups, testProjections(t), scorer, testConfig(), testLog())
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnknownPlayers)
}

func TestExecuteNoRosterColumns(t *testing.T) {
	lineups := mustTable(t, "Budget,Fppg\n50000,120.5\n")
	scorer, _ := scoring.ForSport("generic")
	_, err := Execute(lineups, testProjections(t), scorer, testConfig(), testLog())
	assert.ErrorIs(t, err, ErrNoRosterColumns)
}

func TestExecuteRosterSchemaMismatch(t *testing.T) {
	lineups := mustTable(t, "C,W\nAa(a),Bb(b)\n")
	scorer, err := scoring.ForSport("nhl")
	require.NoError(t, err)
	_, err = Execute(lineups, testProjections(t), scorer, testConfig(), testLog())
	assert.ErrorIs(t, err, ErrRosterSchema)
}

func TestExecuteEmptyPool(t *testing.T) {
	lineups := &csvtable.Table{Headers: []string{"C", "W"}}
	scorer, _ := scoring.ForSport("generic")
	_, err := Execute(lineups, testProjections(t), scorer, testConfig(), testLog())
	assert.ErrorIs(t, err, pool.ErrEmptyPool)
}

func TestExecuteMissingProjectionColumn(t *testing.T) {
	lineups := mustTable(t, "C,W\nAa(a),Bb(b)\n")
	projections := mustTable(t, "Id,Position\na,C\nb,W\n")
	scorer, _ := scoring.ForSport("generic")
	_, err := Execute(lineups, projections, scorer, testConfig(), testLog())
	assert.ErrorIs(t, err, players.ErrMissingColumn)
}

func TestExecutePruneRemovesEverything(t *testing.T) {
	lineups := mustTable(t,
		"C,W\n"+
			"Aa(a),Bb(b)\n"+
			"Dd(d),Cc(c)\n")
	cfg := testConfig()
	cfg.MinUsagePct = 99.0 // every player sits at 50% pool usage
	scorer, _ := scoring.ForSport("generic")
	_, err := Execute(lineups, testProjections(t), scorer, cfg, testLog())
	assert.ErrorIs(t, err, ErrEmptyAfterPrune)
}

func TestExecuteNoSelectionUnderZeroCap(t *testing.T) {
	lineups := mustTable(t, "C,W\nAa(a),Bb(b)\n")
	cfg := testConfig()
	cfg.NumLineups = 10
	cfg.CapPct = 1.0 // cap resolves below one lineup
	scorer, _ := scoring.ForSport("generic")
	_, err := Execute(lineups, testProjections(t), scorer, cfg, testLog())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSelection))
}
