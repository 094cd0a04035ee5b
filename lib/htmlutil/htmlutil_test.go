package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAssetURL(t *testing.T) {
	origin := "https://www.vlr.gg"

	require.Equal(
		t,
		"https://owcdn.net/img/agent.png",
		NormalizeAssetURL(origin, "//owcdn.net/img/agent.png"),
	)
	require.Equal(
		t,
		"https://www.vlr.gg/img/agent.png",
		NormalizeAssetURL(origin, "/img/agent.png"),
	)
	require.Equal(
		t,
		"https://owcdn.net/img/agent.png",
		NormalizeAssetURL(origin, "https://owcdn.net/img/agent.png"),
	)
	require.Equal(t, "", NormalizeAssetURL(origin, ""))
}

func TestFirstOwnText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<td><div class="team">
			player1
			<div class="team-tag">TM</div>
		</div></td>`,
	))
	require.NoError(t, err)

	require.Equal(t, "player1", FirstOwnText(doc.Find("div.team")))
	require.Equal(t, "", FirstOwnText(doc.Find("div.missing")))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "a b", CleanText("  a \n\t b  "))
}
