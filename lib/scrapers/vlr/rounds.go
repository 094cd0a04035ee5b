package vlr

import (
	"strconv"
	"strings"
	"vlrgg-backend/lib/htmlutil"
	"vlrgg-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

// roundTeamMatchThreshold is the JaroWinkler similarity above which a
// round-grid team label counts as the same team as the header name.
const roundTeamMatchThreshold = 0.8

// roundsContainer picks the round grid belonging to a game id. The
// grids carry no ids of their own, they appear in the same order as
// the maps, so the numeric game id maps to a position. Out-of-range
// ids clamp to the first grid.
func roundsContainer(doc *goquery.Document, gameID string, mapIndex int) *goquery.Selection {
	grids := doc.Find(".vlr-rounds")
	if grids.Length() == 0 {
		return nil
	}

	index := mapIndex
	if n, err := strconv.Atoi(gameID); err == nil && n >= 1 {
		index = n - 1
	}
	if index < 0 || index >= grids.Length() {
		index = 0
	}
	return grids.Eq(index)
}

// extractRounds walks one round grid. The second return reports
// whether the grid's own team labels resemble the header team names,
// nil when the grid carries no labels.
func extractRounds(grid *goquery.Selection, teams [2]string) ([]RoundRecord, *bool) {
	if grid == nil {
		return nil, nil
	}

	var labels []string
	grid.Find(".vlr-rounds-row-col .team").Each(func(_ int, sel *goquery.Selection) {
		if label := htmlutil.CleanText(sel.Text()); label != "" && len(labels) < 2 {
			labels = append(labels, label)
		}
	})

	var rounds []RoundRecord
	grid.Find(".vlr-rounds-row-col").Each(func(_ int, col *goquery.Selection) {
		number := htmlutil.CleanText(col.Find(".rnd-num").First().Text())
		if number == "" || !textutil.IsDigits(number) {
			return
		}

		record := RoundRecord{RoundNumber: number}
		record.Title, _ = col.Attr("title")

		col.Find(".rnd-sq").EachWithBreak(func(i int, sq *goquery.Selection) bool {
			if i >= 2 || !sq.HasClass("mod-win") {
				return i < 2
			}
			record.Winner = intptr(i)
			if teams[i] != "" {
				record.WinnerTeam = strptr(teams[i])
			}
			switch {
			case sq.HasClass("mod-t"):
				record.WinSide = strptr(WinSideAttack)
			case sq.HasClass("mod-ct"):
				record.WinSide = strptr(WinSideDefense)
			}
			if src, ok := sq.Find("img").First().Attr("src"); ok {
				record.WinType = classifyWinType(src)
			}
			return false
		})

		rounds = append(rounds, record)
	})

	return rounds, labelsMatchTeams(labels, teams)
}

// classifyWinType maps a win icon filename to a stable win type. The
// substring checks are ordered, "elim" must win over the others.
func classifyWinType(src string) *string {
	src = strings.ToLower(src)
	switch {
	case strings.Contains(src, "elim"):
		return strptr(WinTypeElimination)
	case strings.Contains(src, "boom"):
		return strptr(WinTypeSpikeDetonated)
	case strings.Contains(src, "defuse"):
		return strptr(WinTypeSpikeDefused)
	case strings.Contains(src, "time"):
		return strptr(WinTypeTimeout)
	}
	return nil
}

func labelsMatchTeams(labels []string, teams [2]string) *bool {
	if len(labels) == 0 || (teams[0] == "" && teams[1] == "") {
		return nil
	}
	matched := true
	for i, label := range labels {
		if i >= 2 || teams[i] == "" {
			continue
		}
		score := matchr.JaroWinkler(
			strings.ToLower(label),
			strings.ToLower(teams[i]),
			true,
		)
		if score < roundTeamMatchThreshold {
			matched = false
		}
	}
	return &matched
}
