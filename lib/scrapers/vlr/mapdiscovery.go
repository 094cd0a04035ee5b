package vlr

import (
	"context"
	"strings"
	"vlrgg-backend/lib/htmlutil"
	"vlrgg-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// mapEntry is one discovered map of a match: its stable game id, a
// display name, and the stats container the id resolved to (nil when
// the id came from a nav tab whose container is elsewhere).
type mapEntry struct {
	GameID    string
	Name      string
	Container *goquery.Selection
	Tab       *goquery.Selection
}

// containerMapName derives a readable map name from a stats container,
// preferring the dedicated map label and falling back to the first
// reasonable text fragment.
func containerMapName(container *goquery.Selection) string {
	if container == nil {
		return ""
	}

	name := htmlutil.FirstOwnText(container.Find(".map-text").First())
	if name == "" {
		name = htmlutil.FirstOwnText(container.Find(".map div[style*='font-weight'] span").First())
	}
	if name == "" {
		name = htmlutil.FirstOwnText(container.Find(".map span").First())
	}
	if name != "" {
		return name
	}

	// Last resort, the first short-ish text node anywhere inside.
	text := ""
	container.Contents().EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		fragment := htmlutil.CleanText(sel.Text())
		if fragment != "" && len(fragment) < 40 {
			text = strings.Fields(fragment)[0]
			return false
		}
		return true
	})
	return text
}

func tabMapName(tab *goquery.Selection) string {
	text := htmlutil.CleanText(tab.Text())
	// Tabs carry a leading ordinal, e.g. "1 Ascent".
	fields := strings.Fields(text)
	if len(fields) > 1 && textutil.IsDigits(fields[0]) {
		return strings.Join(fields[1:], " ")
	}
	return text
}

// discoverMaps finds every per-map game id of a match, trying in
// order: the games nav tabs, the stat containers of the main document,
// the same two on the performance view, and finally the single-map
// shape where only the combined "all" container exists.
func (c *Client) discoverMaps(ctx context.Context, doc *goquery.Document, matchURL string) []mapEntry {
	ctx, span := tracer.Start(ctx, "discoverMaps")
	defer span.End()

	entries := discoverInDocument(doc)
	if len(entries) == 0 {
		if perf := c.fetchPerformance(ctx, matchURL, GameIDAll); perf != nil {
			entries = discoverInDocument(perf)
		}
	}
	if len(entries) == 0 {
		// Single-map pages only carry the combined container.
		all := doc.Find(".vm-stats-game[data-game-id='all']").First()
		name := containerMapName(all)
		if name == "" {
			name = "Unknown"
		}
		entry := mapEntry{GameID: GameIDAll, Name: name}
		if all.Length() > 0 {
			entry.Container = all
		}
		entries = []mapEntry{entry}
	}

	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.GameID
	}
	span.SetAttributes(attribute.StringSlice("game_ids", ids))
	return entries
}

func discoverInDocument(doc *goquery.Document) []mapEntry {
	containers := map[string]*goquery.Selection{}
	doc.Find(".vm-stats-game[data-game-id]").Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Attr("data-game-id")
		if !ok || id == "" || id == GameIDAll {
			return
		}
		if _, seen := containers[id]; !seen {
			containers[id] = sel
		}
	})

	var entries []mapEntry
	seen := map[string]bool{}

	doc.Find(".vm-stats-gamesnav-item[data-game-id]").Each(func(_ int, tab *goquery.Selection) {
		id, ok := tab.Attr("data-game-id")
		if !ok || id == "" || id == GameIDAll || seen[id] {
			return
		}
		seen[id] = true
		container := containers[id]
		name := tabMapName(tab)
		if name == "" {
			name = containerMapName(container)
		}
		entries = append(entries, mapEntry{GameID: id, Name: name, Container: container, Tab: tab})
	})
	if len(entries) > 0 {
		return entries
	}

	// No nav tabs. Fall back to the containers themselves, in
	// document order.
	doc.Find(".vm-stats-game[data-game-id]").Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Attr("data-game-id")
		if !ok || id == "" || id == GameIDAll || seen[id] {
			return
		}
		seen[id] = true
		entries = append(entries, mapEntry{GameID: id, Name: containerMapName(sel), Container: sel})
	})
	return entries
}

// findGameContainer resolves the stats container for an exact game id,
// nil when the document does not carry it.
func findGameContainer(doc *goquery.Document, gameID string) *goquery.Selection {
	sel := doc.Find(".vm-stats-game[data-game-id='" + gameID + "']").First()
	if sel.Length() > 0 {
		return sel
	}
	return nil
}

// gameContainer is the loose variant used on performance documents,
// accepting whatever container the view rendered when the exact id is
// missing.
func gameContainer(doc *goquery.Document, gameID string) *goquery.Selection {
	if sel := findGameContainer(doc, gameID); sel != nil {
		return sel
	}
	sel := doc.Find(".vm-stats-game").First()
	if sel.Length() > 0 {
		return sel
	}
	return nil
}
