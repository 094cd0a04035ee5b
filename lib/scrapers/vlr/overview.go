package vlr

import (
	"fmt"
	"strings"
	"vlrgg-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// statKeys are the overview table columns in render order. Tables that
// carry fewer columns simply fill a prefix.
var statKeys = [...]string{
	"rating", "acs", "kills", "deaths", "assists", "kd_diff",
	"kast", "adr", "hs_pct", "fk", "fd", "fk_diff",
}

func extractStatTriple(cell *goquery.Selection) StatTriple {
	var triple StatTriple
	if v := htmlutil.CleanText(cell.Find(".side.mod-both").First().Text()); v != "" {
		triple.Both = strptr(v)
	}
	if v := htmlutil.CleanText(cell.Find(".side.mod-t").First().Text()); v != "" {
		triple.Attack = strptr(v)
	}
	if v := htmlutil.CleanText(cell.Find(".side.mod-ct").First().Text()); v != "" {
		triple.Defend = strptr(v)
	}
	if triple.Both == nil && triple.Attack == nil && triple.Defend == nil {
		if v := htmlutil.CleanText(cell.Text()); v != "" {
			triple.Both = strptr(v)
		}
	}
	return triple
}

func extractAgents(cell *goquery.Selection, origin string) []AgentRef {
	var agents []AgentRef
	cell.Find("img").Each(func(_ int, img *goquery.Selection) {
		name, _ := img.Attr("title")
		if name == "" {
			name, _ = img.Attr("alt")
		}
		src, _ := img.Attr("src")
		agents = append(agents, AgentRef{
			Name: strings.TrimSpace(name),
			Img:  htmlutil.NormalizeAssetURL(origin, src),
		})
	})
	return agents
}

// extractOverviewRows parses the rich per-player tables inside a stats
// container. A map renders two tables, one per team.
func extractOverviewRows(container *goquery.Selection, origin string) []PlayerStatRow {
	if container == nil {
		return nil
	}

	var rows []PlayerStatRow
	container.Find("table.wf-table-inset.mod-overview").Each(func(_ int, table *goquery.Selection) {
		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			playerCell := tr.Find("td.mod-player").First()
			if playerCell.Length() == 0 {
				return
			}
			name := htmlutil.CleanText(playerCell.Find(".text-of").First().Text())
			if name == "" {
				name = htmlutil.FirstOwnText(playerCell)
			}
			if name == "" {
				return
			}

			row := PlayerStatRow{
				Player: name,
				Agents: extractAgents(tr.Find("td.mod-agents").First(), origin),
				Stats:  emptyStats(),
			}
			if team := htmlutil.CleanText(playerCell.Find(".ge-text-light").First().Text()); team != "" {
				row.Team = strptr(team)
			}

			tr.Find("td.mod-stat").Each(func(i int, cell *goquery.Selection) {
				if i >= len(statKeys) {
					return
				}
				row.Stats[statKeys[i]] = extractStatTriple(cell)
			})

			rows = append(rows, row)
		})
	})
	return rows
}

// emptyStats seeds a row with every stat key so absent columns still
// surface as null triples.
func emptyStats() map[string]StatTriple {
	stats := make(map[string]StatTriple, len(statKeys))
	for _, key := range statKeys {
		stats[key] = StatTriple{}
	}
	return stats
}

// resolveOverview runs the degradation ladder for a map whose rich
// tables came up empty: thinner tables in the same container first,
// then the matrix axes, then bare placeholders. Placeholders need a
// resolved two-team context; without one the ladder yields nothing.
func resolveOverview(container *goquery.Selection, matrix *MatrixData, teams [2]string, origin string) []PlayerStatRow {
	if rows := extractOverviewRows(container, origin); len(rows) > 0 {
		return rows
	}
	if rows := overviewFromAdvTable(container); len(rows) > 0 {
		return rows
	}
	if rows := overviewFromAnyInset(container, teams); len(rows) > 0 {
		return rows
	}
	if rows := overviewFromMatrix(matrix, teams); len(rows) > 0 {
		return rows
	}
	if teams[0] == "" || teams[1] == "" {
		return nil
	}
	return placeholderRows(teams)
}

// overviewFromAdvTable draws player and team names from an advanced
// stats table, whose first two cells per row are player and agent.
func overviewFromAdvTable(container *goquery.Selection) []PlayerStatRow {
	if container == nil {
		return nil
	}
	var rows []PlayerStatRow
	container.Find("table.wf-table-inset.mod-adv-stats tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		name := htmlutil.CleanText(cells.Eq(0).Find(".team-name, .text-of").First().Text())
		if name == "" {
			name = htmlutil.FirstOwnText(cells.Eq(0))
		}
		if name == "" {
			return
		}
		row := PlayerStatRow{Player: name, Stats: emptyStats()}
		if team := htmlutil.CleanText(cells.Eq(0).Find(".ge-text-light").First().Text()); team != "" {
			row.Team = strptr(team)
		}
		rows = append(rows, row)
	})
	return rows
}

// overviewFromAnyInset scans every remaining inset table in the map
// container for rows that look like player rows, then splits them in
// half across the two teams when no row carried a team of its own.
func overviewFromAnyInset(container *goquery.Selection, teams [2]string) []PlayerStatRow {
	if container == nil {
		return nil
	}

	var rows []PlayerStatRow
	container.Find("table.wf-table-inset").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			first := tr.Find("td").First()
			name := htmlutil.CleanText(first.Find(".text-of").First().Text())
			if name == "" {
				name = htmlutil.FirstOwnText(first)
			}
			if name == "" {
				return
			}
			row := PlayerStatRow{Player: name, Stats: emptyStats()}
			if team := htmlutil.CleanText(first.Find(".ge-text-light").First().Text()); team != "" {
				row.Team = strptr(team)
			}
			rows = append(rows, row)
		})
		return len(rows) == 0
	})

	backfillTeams(rows, teams)
	return rows
}

func backfillTeams(rows []PlayerStatRow, teams [2]string) {
	missing := 0
	for _, row := range rows {
		if row.Team == nil {
			missing++
		}
	}
	if missing == 0 || len(rows) == 0 {
		return
	}
	// Positional halves, the first half belongs to the first team.
	half := (len(rows) + 1) / 2
	for i := range rows {
		if rows[i].Team != nil {
			continue
		}
		team := teams[0]
		if i >= half {
			team = teams[1]
		}
		if team != "" {
			rows[i].Team = strptr(team)
		}
	}
}

// overviewFromMatrix synthesizes a roster from the head-to-head matrix
// axes. Row-axis players belong to the second team, column-axis
// players to the first.
func overviewFromMatrix(matrix *MatrixData, teams [2]string) []PlayerStatRow {
	if matrix == nil {
		return nil
	}

	seen := map[string]bool{}
	var rows []PlayerStatRow
	add := func(ref PlayerRef, team string) {
		if ref.Name == "" || seen[ref.Name] {
			return
		}
		seen[ref.Name] = true
		row := PlayerStatRow{Player: ref.Name, Stats: emptyStats(), Synthesized: true}
		switch {
		case ref.Team != nil:
			row.Team = strptr(*ref.Team)
		case team != "":
			row.Team = strptr(team)
		}
		rows = append(rows, row)
	}
	for _, ref := range matrix.RowPlayers {
		add(ref, teams[1])
	}
	for _, ref := range matrix.ColumnPlayers {
		add(ref, teams[0])
	}
	return rows
}

// placeholderRows is the floor of the ladder: ten generic players,
// five per team.
func placeholderRows(teams [2]string) []PlayerStatRow {
	rows := make([]PlayerStatRow, 0, 10)
	for i := 0; i < 10; i++ {
		row := PlayerStatRow{
			Player:      fmt.Sprintf("Player%d", i+1),
			Stats:       emptyStats(),
			Synthesized: true,
		}
		team := teams[0]
		if i >= 5 {
			team = teams[1]
		}
		if team != "" {
			row.Team = strptr(team)
		}
		rows = append(rows, row)
	}
	return rows
}
