package vlr

import (
	"strings"
	"vlrgg-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// extractAdvStats parses the advanced stats table of a map: multikills,
// clutches, econ and plant/defuse counts, each with the per-round
// breakdown hidden in its hover popup.
func extractAdvStats(scope *goquery.Selection, origin string) []AdvancedStatRow {
	if scope == nil {
		return nil
	}
	table := scope.Find("table.wf-table-inset.mod-adv-stats").First()
	if table.Length() == 0 {
		return nil
	}

	// Header text is the stat key, kept verbatim ("2K", "1v2", "ECON").
	var keys []string
	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		keys = append(keys, htmlutil.CleanText(th.Text()))
	})

	var rows []AdvancedStatRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}

		playerCell := cells.Eq(0)
		player := PlayerRef{
			Name: htmlutil.CleanText(playerCell.Find(".team-name, .text-of").First().Text()),
		}
		if player.Name == "" {
			player.Name = htmlutil.FirstOwnText(playerCell)
		}
		if player.Name == "" {
			return
		}
		if team := htmlutil.CleanText(playerCell.Find(".ge-text-light").First().Text()); team != "" {
			player.Team = strptr(team)
		}
		if src, ok := playerCell.Find("img").First().Attr("src"); ok && src != "" {
			player.TeamLogo = strptr(htmlutil.NormalizeAssetURL(origin, src))
		}

		row := AdvancedStatRow{Player: player, Stats: map[string]AdvancedStat{}}
		agentImg := cells.Eq(1).Find("img").First()
		if src, ok := agentImg.Attr("src"); ok && src != "" {
			row.Agent = strptr(agentFromSrc(origin, src))
		} else if title, ok := agentImg.Attr("title"); ok && title != "" {
			row.Agent = strptr(title)
		}

		cells.Each(func(i int, cell *goquery.Selection) {
			if i < 2 {
				return
			}
			key := ""
			if i < len(keys) {
				key = keys[i]
			}
			if key == "" {
				return
			}
			row.Stats[key] = parseAdvCell(cell, origin)
		})

		rows = append(rows, row)
	})
	return rows
}

func parseAdvCell(cell *goquery.Selection, origin string) AdvancedStat {
	var stat AdvancedStat
	stat.Value = htmlutil.CleanText(cell.Find(".stats-sq").First().Text())
	if stat.Value == "" {
		stat.Value = htmlutil.FirstOwnText(cell)
	}
	if stat.Value == "" {
		stat.Value = "0"
	}

	cell.Find(".wf-popable-contents").First().ChildrenFiltered("div").Each(func(_ int, entry *goquery.Selection) {
		detail := parseRoundDetail(entry, origin)
		if detail.Round == nil && len(detail.Opponents) == 0 {
			return
		}
		stat.Details = append(stat.Details, detail)
	})
	return stat
}

// parseRoundDetail reads one popup entry: a round label plus the
// opponents involved, each an agent icon next to a name.
func parseRoundDetail(entry *goquery.Selection, origin string) RoundDetail {
	var detail RoundDetail

	entry.ChildrenFiltered("div, span").Each(func(_ int, child *goquery.Selection) {
		img := child.Find("img").First()
		if img.Length() == 0 {
			if detail.Round == nil {
				if round := htmlutil.CleanText(child.Text()); round != "" {
					detail.Round = strptr(round)
				}
			}
			return
		}

		var opp OpponentRef
		if title, ok := img.Attr("title"); ok && title != "" {
			opp.Agent = strptr(title)
		} else if src, ok := img.Attr("src"); ok {
			opp.Agent = strptr(agentFromSrc(origin, src))
		}
		opp.Name = htmlutil.CleanText(child.Text())
		if opp.Name == "" && opp.Agent == nil {
			return
		}
		detail.Opponents = append(detail.Opponents, opp)
	})
	return detail
}

// agentFromSrc falls back to the icon filename when the img carries no
// title, e.g. "/img/vlr/game/agents/jett.png" yields "jett".
func agentFromSrc(origin, src string) string {
	src = htmlutil.NormalizeAssetURL(origin, src)
	base := src[strings.LastIndex(src, "/")+1:]
	if dot := strings.LastIndex(base, "."); dot >= 0 {
		base = base[:dot]
	}
	return base
}
