package vlr

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseFragment(t *testing.T, fragment string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestOverviewFromAnyInset(t *testing.T) {
	doc := parseFragment(t, `
		<div class="vm-stats-game">
			<table class="wf-table-inset">
				<tbody>
					<tr><td><div class="text-of">p1</div></td><td>10</td></tr>
					<tr><td><div class="text-of">p2</div></td><td>8</td></tr>
					<tr><td><div class="text-of">p3</div></td><td>7</td></tr>
					<tr><td><div class="text-of">p4</div></td><td>5</td></tr>
				</tbody>
			</table>
		</div>`)

	rows := overviewFromAnyInset(doc.Find(".vm-stats-game"), [2]string{"Alpha", "Bravo"})
	require.Len(t, rows, 4)
	require.Equal(t, "p1", rows[0].Player)
	require.Equal(t, "Alpha", *rows[0].Team)
	require.Equal(t, "Alpha", *rows[1].Team)
	require.Equal(t, "Bravo", *rows[2].Team)
	require.Equal(t, "Bravo", *rows[3].Team)
}

func TestOverviewFromMatrix(t *testing.T) {
	matrix := &MatrixData{
		ColumnPlayers: []PlayerRef{{Name: "c1"}, {Name: "c2"}},
		RowPlayers:    []PlayerRef{{Name: "r1"}, {Name: "c1"}},
	}

	rows := overviewFromMatrix(matrix, [2]string{"Alpha", "Bravo"})
	require.Len(t, rows, 3)

	// Row-axis players belong to the second team and win deduplication.
	require.Equal(t, "r1", rows[0].Player)
	require.Equal(t, "Bravo", *rows[0].Team)
	require.Equal(t, "c1", rows[1].Player)
	require.Equal(t, "Bravo", *rows[1].Team)
	require.Equal(t, "c2", rows[2].Player)
	require.Equal(t, "Alpha", *rows[2].Team)
	for _, row := range rows {
		require.True(t, row.Synthesized)
	}
}

func TestPlaceholderRows(t *testing.T) {
	rows := placeholderRows([2]string{"Alpha", "Bravo"})
	require.Len(t, rows, 10)
	require.Equal(t, "Player1", rows[0].Player)
	require.Equal(t, "Player10", rows[9].Player)
	require.Equal(t, "Alpha", *rows[4].Team)
	require.Equal(t, "Bravo", *rows[5].Team)
	for _, row := range rows {
		require.True(t, row.Synthesized)
	}

	rows = placeholderRows([2]string{})
	require.Nil(t, rows[0].Team)
}

func TestResolveOverviewNeedsTeamsForPlaceholders(t *testing.T) {
	doc := parseFragment(t, `<div class="vm-stats-game"></div>`)

	rows := resolveOverview(doc.Find(".vm-stats-game"), nil, [2]string{}, "https://www.vlr.gg")
	require.Nil(t, rows)

	rows = resolveOverview(doc.Find(".vm-stats-game"), nil, [2]string{"Alpha", "Bravo"}, "https://www.vlr.gg")
	require.Len(t, rows, 10)
}

func TestResolveOverviewPrefersRichTable(t *testing.T) {
	doc := parseFragment(t, `
		<div class="vm-stats-game">
			<table class="wf-table-inset mod-overview">
				<tbody>
					<tr>
						<td class="mod-player">
							<div class="text-of">p1</div>
							<div class="ge-text-light">ALP</div>
						</td>
						<td class="mod-agents"><img src="/img/a.png" title="jett"></td>
						<td class="mod-stat"><span class="side mod-both">1.00</span></td>
					</tr>
				</tbody>
			</table>
		</div>`)

	rows := resolveOverview(doc.Find(".vm-stats-game"), nil, [2]string{"Alpha", "Bravo"}, "https://www.vlr.gg")
	require.Len(t, rows, 1)
	require.Equal(t, "p1", rows[0].Player)
	require.Equal(t, "ALP", *rows[0].Team)
	require.False(t, rows[0].Synthesized)
	require.Equal(t, "https://www.vlr.gg/img/a.png", rows[0].Agents[0].Img)
	require.Equal(t, "1.00", *rows[0].Stats["rating"].Both)
}
