package csvtable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlayerID(t *testing.T) {
	assert.Equal(t, "123-456", ExtractPlayerID("Connor McDavid(123-456)"))
	assert.Equal(t, "123-456", ExtractPlayerID("Connor McDavid (123-456) "))
	assert.Equal(t, "78901", ExtractPlayerID("78901"))
	assert.Equal(t, "Leon Draisaitl", ExtractPlayerID("  Leon Draisaitl  "))
	assert.Equal(t, "", ExtractPlayerID(""))
	// Only the trailing parenthesized group is the ID.
	assert.Equal(t, "99-1", ExtractPlayerID("Smith (Jr.) Watson(99-1)"))
}

func TestExtractPlayerName(t *testing.T) {
	assert.Equal(t, "Connor McDavid", ExtractPlayerName("Connor McDavid(123-456)"))
	assert.Equal(t, "78901", ExtractPlayerName("78901"))
}

func TestNormalizeSlotLabel(t *testing.T) {
	assert.Equal(t, "WR", NormalizeSlotLabel("WR.1"))
	assert.Equal(t, "WR", NormalizeSlotLabel("WR"))
	assert.Equal(t, "", NormalizeSlotLabel(""))
}

func TestReadPadsShortRows(t *testing.T) {
	tbl, err := Read(strings.NewReader("A,B,C\n1,2\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "", tbl.Cell(0, 2))
}

func TestRosterColumns(t *testing.T) {
	tbl, err := Read(strings.NewReader("QB,RB,RB.1,WR,Budget,FPPG,Notes\na,b,c,d,60000,123.4,x\n"))
	require.NoError(t, err)
	cols := tbl.RosterColumns()
	assert.Equal(t, []int{0, 1, 2, 3}, cols)
	assert.Equal(t, []string{"QB", "RB", "RB", "WR"}, tbl.SlotLabels(cols))
}

func TestFirstColumn(t *testing.T) {
	tbl, err := Read(strings.NewReader("Pos,Id\nC,1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.FirstColumn("ID", "Id"))
	assert.Equal(t, 0, tbl.FirstColumn("Position", "Pos"))
	assert.Equal(t, -1, tbl.FirstColumn("Team"))
}

func TestSubset(t *testing.T) {
	tbl, err := Read(strings.NewReader("A\n1\n2\n3\n"))
	require.NoError(t, err)
	sub := tbl.Subset([]int{2, 0})
	require.Equal(t, 2, sub.Len())
	assert.Equal(t, "3", sub.Cell(0, 0))
	assert.Equal(t, "1", sub.Cell(1, 0))
}
