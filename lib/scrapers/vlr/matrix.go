package vlr

import (
	"context"
	"regexp"
	"strings"
	"vlrgg-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// matrixTables groups the head-to-head tables of one map by kind. Any
// of the three may be nil.
type matrixTables struct {
	normal  *goquery.Selection
	fkfd    *goquery.Selection
	opKills *goquery.Selection
}

// extractMatrix builds the player-vs-player matrix for a map. Matrix
// tables usually live in the performance view rather than the main
// container, so a missing table triggers a secondary fetch.
func (c *Client) extractMatrix(ctx context.Context, container *goquery.Selection, matchURL, gameID string) *MatrixData {
	ctx, span := tracer.Start(ctx, "extractMatrix")
	defer span.End()
	span.SetAttributes(attribute.String("game_id", gameID))

	tables := collectMatrixTables(container)
	scope := container
	if tables.normal == nil {
		perf := c.fetchPerformance(ctx, matchURL, gameID)
		if perf != nil {
			perfScope := gameContainer(perf, gameID)
			if perfScope == nil {
				perfScope = perf.Selection
			}
			tables = collectMatrixTables(perfScope)
			scope = perfScope
		}
	}

	var matrix *MatrixData
	if tables.normal != nil {
		matrix = parseMatrixTable(tables.normal, c.origin)
	}
	if matrix == nil {
		// No readable matrix table anywhere. Visible rosters still
		// give the two axes.
		columns, rows := fallbackAxes(scope)
		if len(columns) == 0 && len(rows) == 0 {
			return nil
		}
		matrix = &MatrixData{ColumnPlayers: columns, RowPlayers: rows}
	}
	matrix.GameID = gameID

	if tables.fkfd != nil {
		matrix.FkFd = parseAuxTable(tables.fkfd, matrix)
	}
	if tables.opKills != nil {
		matrix.OpKills = parseAuxTable(tables.opKills, matrix)
	}

	span.SetAttributes(
		attribute.Int("columns", len(matrix.ColumnPlayers)),
		attribute.Int("rows", len(matrix.RowPlayers)),
	)
	return matrix
}

// collectMatrixTables classifies every candidate matrix table in a
// scope. Tables tagged neither fkfd nor op serve as the main matrix
// when no mod-normal table exists; a bare inset table is the last
// candidate.
func collectMatrixTables(scope *goquery.Selection) matrixTables {
	var tables matrixTables
	if scope == nil {
		return tables
	}

	var untagged *goquery.Selection
	scope.Find("table.mod-matrix").Each(func(_ int, table *goquery.Selection) {
		switch {
		case table.HasClass("mod-normal"):
			if tables.normal == nil {
				tables.normal = table
			}
		case table.HasClass("mod-fkfd"):
			if tables.fkfd == nil {
				tables.fkfd = table
			}
		case table.HasClass("mod-op"):
			if tables.opKills == nil {
				tables.opKills = table
			}
		default:
			if untagged == nil {
				untagged = table
			}
		}
	})
	if tables.normal == nil {
		tables.normal = untagged
	}
	if tables.normal == nil {
		// Some layouts render the matrix as a plain inset table.
		candidate := scope.Find("table.wf-table-inset").FilterFunction(func(_ int, table *goquery.Selection) bool {
			return !table.HasClass("mod-overview") && !table.HasClass("mod-adv-stats")
		}).First()
		if candidate.Length() > 0 {
			tables.normal = candidate
		}
	}
	return tables
}

// parseMatrixPlayer reads one axis cell: player name, team tag, team
// logo.
func parseMatrixPlayer(cell *goquery.Selection, origin string) PlayerRef {
	var ref PlayerRef

	teamDiv := cell.Find(".team").First()
	switch {
	case teamDiv.Length() > 0 && teamDiv.ChildrenFiltered("div").Length() > 0:
		inner := teamDiv.ChildrenFiltered("div")
		ref.Name = htmlutil.CleanText(inner.Eq(0).Text())
		if inner.Length() > 1 {
			if team := htmlutil.CleanText(inner.Eq(1).Text()); team != "" {
				ref.Team = strptr(team)
			}
		}
	case teamDiv.Length() > 0:
		lines := textLines(teamDiv)
		if len(lines) > 0 {
			ref.Name = lines[0]
		}
		if len(lines) > 1 {
			ref.Team = strptr(lines[1])
		}
	default:
		ref.Name = htmlutil.CleanText(cell.Text())
	}

	if src, ok := cell.Find("img").First().Attr("src"); ok && src != "" {
		ref.TeamLogo = strptr(htmlutil.NormalizeAssetURL(origin, src))
	}
	return ref
}

// textLines splits a selection's rendered text into trimmed non-empty
// lines.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	for _, line := range strings.Split(sel.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func parseMatrixTable(table *goquery.Selection, origin string) *MatrixData {
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}

	matrix := &MatrixData{}

	rows.First().Find("td").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		if ref := parseMatrixPlayer(cell, origin); ref.Name != "" {
			matrix.ColumnPlayers = append(matrix.ColumnPlayers, ref)
		}
	})

	rows.Each(func(rowIdx int, row *goquery.Selection) {
		if rowIdx == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		rowPlayer := parseMatrixPlayer(cells.First(), origin)
		if rowPlayer.Name == "" {
			return
		}
		matrix.RowPlayers = append(matrix.RowPlayers, rowPlayer)

		var matchups []Matchup
		cells.Each(func(colIdx int, cell *goquery.Selection) {
			// Cells past the column axis carry no opponent.
			if colIdx == 0 || colIdx-1 >= len(matrix.ColumnPlayers) {
				return
			}
			matchup := parseMatchupCell(cell)
			matchup.RowPlayer = rowPlayer.Name
			matchup.ColumnPlayer = matrix.ColumnPlayers[colIdx-1].Name
			matchups = append(matchups, matchup)
		})
		// A row player without readable cells stays on the axis but
		// contributes no matchup entry.
		if len(matchups) > 0 {
			matrix.Matchups = append(matrix.Matchups, matchups)
		}
	})

	if len(matrix.ColumnPlayers) == 0 && len(matrix.RowPlayers) == 0 {
		return nil
	}
	return matrix
}

// parseAuxTable reads a secondary matrix (first kills or operator
// kills) against the main matrix axes. Without both axes the table is
// skipped entirely.
func parseAuxTable(table *goquery.Selection, matrix *MatrixData) *AuxMatrix {
	if len(matrix.RowPlayers) == 0 || len(matrix.ColumnPlayers) == 0 {
		return nil
	}

	aux := &AuxMatrix{}
	table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
		if rowIdx == 0 || rowIdx-1 >= len(matrix.RowPlayers) {
			return
		}
		rowPlayer := matrix.RowPlayers[rowIdx-1].Name
		var matchups []Matchup
		row.Find("td").Each(func(colIdx int, cell *goquery.Selection) {
			if colIdx == 0 || colIdx-1 >= len(matrix.ColumnPlayers) {
				return
			}
			matchup := parseMatchupCell(cell)
			matchup.RowPlayer = rowPlayer
			matchup.ColumnPlayer = matrix.ColumnPlayers[colIdx-1].Name
			matchups = append(matchups, matchup)
		})
		if len(matchups) > 0 {
			aux.Matchups = append(aux.Matchups, matchups)
		}
	})
	if len(aux.Matchups) == 0 {
		return nil
	}
	return aux
}

var signedNumber = regexp.MustCompile(`^[+-]\d+$`)
var bareNumber = regexp.MustCompile(`^\d+$`)

// parseMatchupCell pulls the kill counts and their difference out of
// one matrix cell. The markup has drifted over the years, so the stats
// block is located by several selectors before falling back to a raw
// numeric scan of the cell text.
func parseMatchupCell(cell *goquery.Selection) Matchup {
	var matchup Matchup

	stats := cell.ChildrenFiltered("div").FilterFunction(func(_ int, div *goquery.Selection) bool {
		style, _ := div.Attr("style")
		return strings.Contains(style, "display:flex") || strings.Contains(style, "display: flex")
	}).First()
	if stats.Length() == 0 {
		stats = cell.Find("div.stats-container").First()
	}
	if stats.Length() == 0 {
		stats = cell.Find("div").FilterFunction(func(_ int, div *goquery.Selection) bool {
			return div.Find(".stats-sq").Length() > 0
		}).First()
	}

	if stats.Length() > 0 {
		squares := stats.Find(".stats-sq")
		if squares.Length() >= 3 {
			if v := htmlutil.CleanText(squares.Eq(0).Text()); v != "" {
				matchup.Value1 = strptr(v)
			}
			if v := htmlutil.CleanText(squares.Eq(1).Text()); v != "" {
				matchup.Value2 = strptr(v)
			}
			if v := htmlutil.CleanText(squares.Eq(2).Text()); v != "" {
				matchup.Diff = strptr(v)
			}
		}
	}

	if matchup.Value1 == nil && matchup.Value2 == nil {
		for _, token := range strings.Fields(cell.Text()) {
			switch {
			case signedNumber.MatchString(token) && matchup.Diff == nil:
				matchup.Diff = strptr(token)
			case bareNumber.MatchString(token) && matchup.Value1 == nil:
				matchup.Value1 = strptr(token)
			case bareNumber.MatchString(token) && matchup.Value2 == nil:
				matchup.Value2 = strptr(token)
			}
		}
		if matchup.Value1 != nil && matchup.Value2 == nil && matchup.Diff == nil {
			matchup.Diff = strptr("+" + *matchup.Value1)
		}
	}
	return matchup
}

// fallbackAxes derives matrix axes from the visible player rows when
// the table's own header cells were unreadable. Players split by team
// tag when exactly two tags appear, otherwise by position.
func fallbackAxes(scope *goquery.Selection) (columns, rows []PlayerRef) {
	if scope == nil {
		return nil, nil
	}

	type taggedPlayer struct {
		name string
		team string
	}
	var players []taggedPlayer
	seen := map[string]bool{}
	scope.Find(".mod-player").Each(func(_ int, cell *goquery.Selection) {
		name := htmlutil.CleanText(cell.Find(".text-of").First().Text())
		if name == "" {
			name = htmlutil.FirstOwnText(cell)
		}
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		players = append(players, taggedPlayer{
			name: name,
			team: htmlutil.CleanText(cell.Find(".ge-text-light").First().Text()),
		})
	})
	if len(players) == 0 {
		return nil, nil
	}

	teams := map[string][]taggedPlayer{}
	var order []string
	for _, player := range players {
		if player.team == "" {
			continue
		}
		if _, ok := teams[player.team]; !ok {
			order = append(order, player.team)
		}
		teams[player.team] = append(teams[player.team], player)
	}

	toRefs := func(group []taggedPlayer) []PlayerRef {
		refs := make([]PlayerRef, 0, len(group))
		for _, player := range group {
			ref := PlayerRef{Name: player.name}
			if player.team != "" {
				ref.Team = strptr(player.team)
			}
			refs = append(refs, ref)
		}
		return refs
	}

	if len(order) == 2 {
		return toRefs(teams[order[0]]), toRefs(teams[order[1]])
	}

	half := (len(players) + 1) / 2
	return toRefs(players[:half]), toRefs(players[half:])
}
