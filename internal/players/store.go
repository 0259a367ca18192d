// Package players builds per-player attribute lookups from a projections
// table. Columns are resolved by trying an ordered alias list per field;
// the first matching header wins.
package players

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mikehipps/simple-dfs/internal/csvtable"
)

// ErrMissingColumn indicates a required projections column could not be
// detected. Wrapped errors name the missing field.
var ErrMissingColumn = errors.New("required column not found in projections CSV")

var (
	idAliases        = []string{"Id", "ID", "PlayerId", "Player_ID", "PLAYER_ID", "player_id"}
	projAliases      = []string{"FPPG", "Projection", "Proj", "PROJ", "Fantasy Points"}
	posAliases       = []string{"Position", "Pos", "POS"}
	teamAliases      = []string{"Team", "TEAM", "team"}
	oppAliases       = []string{"Opponent", "Opp", "OPP"}
	gameAliases      = []string{"Game", "Matchup", "MATCHUP", "MatchUp"}
	ownAliases       = []string{"Projected Ownership", "Ownership", "OWN", "Own"}
	rosterOrdAliases = []string{"Roster Order", "RosterOrder", "Line", "PP Line"}
)

// Store holds parallel id -> attribute maps. Optional attributes simply
// have no entry for players the source file did not cover.
type Store struct {
	Projection  map[string]float64
	Position    map[string]string
	Team        map[string]string
	Opponent    map[string]string
	Game        map[string]string
	Ownership   map[string]float64
	Name        map[string]string
	RosterOrder map[string]string
}

// Build constructs a Store from a projections table. The ID, projection,
// and position columns are required; team, opponent, game, ownership,
// name, and roster-order columns are each independently optional.
// Duplicate player IDs are last-write-wins.
func Build(tbl *csvtable.Table) (*Store, error) {
	idCol := tbl.FirstColumn(idAliases...)
	if idCol < 0 {
		return nil, fmt.Errorf("%w: player ID", ErrMissingColumn)
	}
	projCol := tbl.FirstColumn(projAliases...)
	if projCol < 0 {
		return nil, fmt.Errorf("%w: projection", ErrMissingColumn)
	}
	posCol := tbl.FirstColumn(posAliases...)
	if posCol < 0 {
		return nil, fmt.Errorf("%w: position", ErrMissingColumn)
	}
	teamCol := tbl.FirstColumn(teamAliases...)
	oppCol := tbl.FirstColumn(oppAliases...)
	gameCol := tbl.FirstColumn(gameAliases...)
	ownCol := tbl.FirstColumn(ownAliases...)
	rosterOrdCol := tbl.FirstColumn(rosterOrdAliases...)

	firstNameCol := tbl.ColumnIndex("First Name")
	lastNameCol := tbl.ColumnIndex("Last Name")
	nameCol := tbl.FirstColumn("Name", "Player")

	store := &Store{
		Projection:  make(map[string]float64),
		Position:    make(map[string]string),
		Team:        make(map[string]string),
		Opponent:    make(map[string]string),
		Game:        make(map[string]string),
		Ownership:   make(map[string]float64),
		Name:        make(map[string]string),
		RosterOrder: make(map[string]string),
	}

	for row := 0; row < tbl.Len(); row++ {
		pid := tbl.Cell(row, idCol)
		if pid == "" {
			continue
		}
		proj, err := strconv.ParseFloat(tbl.Cell(row, projCol), 64)
		if err != nil {
			proj = 0.0
		}
		store.Projection[pid] = proj
		store.Position[pid] = tbl.Cell(row, posCol)
		if teamCol >= 0 {
			if v := tbl.Cell(row, teamCol); v != "" {
				store.Team[pid] = v
			}
		}
		if oppCol >= 0 {
			if v := tbl.Cell(row, oppCol); v != "" {
				store.Opponent[pid] = v
			}
		}
		if gameCol >= 0 {
			if v := tbl.Cell(row, gameCol); v != "" {
				store.Game[pid] = v
			}
		}
		if ownCol >= 0 {
			if own, err := strconv.ParseFloat(tbl.Cell(row, ownCol), 64); err == nil {
				store.Ownership[pid] = own
			}
		}
		if rosterOrdCol >= 0 {
			if v := tbl.Cell(row, rosterOrdCol); v != "" {
				store.RosterOrder[pid] = v
			}
		}
		if name := fullName(tbl, row, firstNameCol, lastNameCol, nameCol); name != "" {
			store.Name[pid] = name
		}
	}
	return store, nil
}

func fullName(tbl *csvtable.Table, row, firstCol, lastCol, nameCol int) string {
	if firstCol >= 0 && lastCol >= 0 {
		full := strings.TrimSpace(tbl.Cell(row, firstCol) + " " + tbl.Cell(row, lastCol))
		if full != "" {
			return full
		}
	}
	if nameCol >= 0 {
		return tbl.Cell(row, nameCol)
	}
	return ""
}

// DisplayName returns the player's name, falling back to the raw ID.
func (s *Store) DisplayName(pid string) string {
	if name, ok := s.Name[pid]; ok && name != "" {
		return name
	}
	return pid
}
