package vlr

import (
	"strconv"
	"strings"
	"vlrgg-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// matchHeader is everything taken from the banner above the stat
// tables. Teams always has two entries, fields the page omits stay
// nil.
type matchHeader struct {
	Teams       [2]TeamRef
	MatchStatus string
	Tournament  Tournament
	MatchDate   *string
	Patch       *string
	Notes       *string
}

func parseScore(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return intptr(n)
}

func extractHeader(doc *goquery.Document) matchHeader {
	var header matchHeader

	names := doc.Find(".match-header-vs-team-name")
	if names.Length() < 2 {
		names = doc.Find(".wf-title-med")
	}
	seen := map[string]bool{}
	found := 0
	names.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name := htmlutil.CleanText(sel.Text())
		if name == "" || seen[name] {
			return true
		}
		seen[name] = true
		header.Teams[found].Name = strptr(name)
		found++
		return found < 2
	})

	// Winner/loser spans are only present on finished matches. The
	// winner span may belong to either side, so map scores back by
	// document position within the combined score element.
	scoreSpans := doc.Find(".match-header-vs-score .match-header-vs-score-winner, .match-header-vs-score .match-header-vs-score-loser")
	if scoreSpans.Length() >= 2 {
		header.Teams[0].Score = parseScore(scoreSpans.Eq(0).Text())
		header.Teams[1].Score = parseScore(scoreSpans.Eq(1).Text())
	} else {
		// Live and upcoming matches render a plain "x : y" blob.
		raw := htmlutil.CleanText(doc.Find(".match-header-vs-score").First().Text())
		parts := strings.Split(raw, ":")
		if len(parts) == 2 {
			header.Teams[0].Score = parseScore(parts[0])
			header.Teams[1].Score = parseScore(parts[1])
		}
	}

	header.MatchStatus = MatchStatusUnknown
	notes := doc.Find(".match-header-vs-note")
	switch {
	case notes.HasClass("match-header-vs-note-upcoming"):
		header.MatchStatus = MatchStatusUpcoming
	case notes.HasClass("match-header-vs-note-live"):
		header.MatchStatus = MatchStatusLive
	case notes.Length() > 0:
		// Finished pages carry an untagged note such as "final", but
		// some layouts only spell the state out in the note text.
		header.MatchStatus = MatchStatusCompleted
		notes.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			status := strings.ToLower(htmlutil.CleanText(sel.Text()))
			switch {
			case strings.Contains(status, "live"):
				header.MatchStatus = MatchStatusLive
			case strings.Contains(status, "upcoming"):
				header.MatchStatus = MatchStatusUpcoming
			default:
				return true
			}
			return false
		})
	}

	tournament := htmlutil.CleanText(
		doc.Find(".match-header-event div[style='font-weight: 700;']").First().Text(),
	)
	if tournament == "" {
		tournament = htmlutil.CleanText(doc.Find(".match-header-event div").First().Text())
	}
	if tournament != "" {
		header.Tournament.Name = strptr(tournament)
	}
	if stage := htmlutil.CleanText(doc.Find(".match-header-event-series").First().Text()); stage != "" {
		header.Tournament.Stage = strptr(stage)
	}

	// The schedule is an opaque UTC token carried in an attribute; the
	// visible text is localized client-side and never used.
	dateDiv := doc.Find(".match-header-date .moment-tz-convert[data-moment-format='dddd, MMMM Do']").First()
	if dateDiv.Length() == 0 {
		dateDiv = doc.Find(".match-header-date .moment-tz-convert").First()
	}
	if ts, ok := dateDiv.Attr("data-utc-ts"); ok {
		if ts = strings.TrimSpace(ts); ts != "" {
			header.MatchDate = strptr(ts)
		}
	}

	doc.Find(".match-header-date div").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if strings.Contains(style, "italic") {
			if patch := htmlutil.CleanText(sel.Text()); patch != "" {
				header.Patch = strptr(patch)
			}
		}
	})

	if note := htmlutil.CleanText(doc.Find(".match-header-note").First().Text()); note != "" {
		header.Notes = strptr(note)
	}

	return header
}

// mapScores resolves the per-map score pair: dedicated score elements
// in the map container first, then the side-score elements there, then
// the nav tab. Every tier wants two parseable integers; a tier that
// yields fewer is discarded whole.
func mapScores(container, tab *goquery.Selection) [2]*int {
	tiers := []struct {
		scope    *goquery.Selection
		selector string
	}{
		{container, ".score"},
		{container, ".mod-t, .mod-ct, .mod-score"},
		{tab, ".team-score, .score"},
	}

	for _, tier := range tiers {
		if tier.scope == nil {
			continue
		}
		var scores [2]*int
		found := 0
		tier.scope.Find(tier.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if n := parseScore(sel.Text()); n != nil {
				scores[found] = n
				found++
			}
			return found < 2
		})
		if found == 2 {
			return scores
		}
	}
	return [2]*int{}
}

// teamNames returns the header team names in order, substituting
// empty strings for missing ones.
func (h matchHeader) teamNames() [2]string {
	var names [2]string
	for i, team := range h.Teams {
		if team.Name != nil {
			names[i] = *team.Name
		}
	}
	return names
}
