package vlr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalMatchURL(t *testing.T) {
	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)

	url, err := client.CanonicalMatchURL("303087")
	require.NoError(t, err)
	require.Equal(t, "https://www.vlr.gg/303087", url)

	url, err = client.CanonicalMatchURL("/303087/loud-vs-sentinels")
	require.NoError(t, err)
	require.Equal(t, "https://www.vlr.gg/303087/loud-vs-sentinels", url)

	url, err = client.CanonicalMatchURL("303087/loud-vs-sentinels")
	require.NoError(t, err)
	require.Equal(t, "https://www.vlr.gg/303087/loud-vs-sentinels", url)

	url, err = client.CanonicalMatchURL("https://www.vlr.gg/303087/loud-vs-sentinels")
	require.NoError(t, err)
	require.Equal(t, "https://www.vlr.gg/303087/loud-vs-sentinels", url)

	_, err = client.CanonicalMatchURL("  ")
	require.Error(t, err)
}

func TestMatchID(t *testing.T) {
	require.Equal(t, "303087", MatchID("https://www.vlr.gg/303087/loud-vs-sentinels"))
	require.Equal(t, "303087", MatchID("https://www.vlr.gg/303087"))
	require.Equal(t, "", MatchID("https://www.vlr.gg/"))
}

func TestPerformanceURL(t *testing.T) {
	require.Equal(
		t,
		"https://www.vlr.gg/303087?game=2&tab=performance",
		performanceURL("https://www.vlr.gg/303087", "2"),
	)
	require.Equal(
		t,
		"https://www.vlr.gg/303087?game=all&tab=performance",
		performanceURL("https://www.vlr.gg/303087", ""),
	)
}
