package vlr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyWinType(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"/img/vlr/game/round/elim.webp", WinTypeElimination},
		{"/img/vlr/game/round/boom.webp", WinTypeSpikeDetonated},
		{"/img/vlr/game/round/defuse.webp", WinTypeSpikeDefused},
		{"/img/vlr/game/round/time.webp", WinTypeTimeout},
	}
	for _, c := range cases {
		got := classifyWinType(c.src)
		require.NotNil(t, got, c.src)
		require.Equal(t, c.want, *got)
	}

	require.Nil(t, classifyWinType("/img/vlr/game/round/unknown.webp"))

	// "elim" takes priority when a path matches several substrings.
	got := classifyWinType("/time/elim.webp")
	require.Equal(t, WinTypeElimination, *got)
}

func TestLabelsMatchTeams(t *testing.T) {
	matched := labelsMatchTeams([]string{"LOUD", "SEN"}, [2]string{"LOUD", "Sentinels"})
	require.NotNil(t, matched)
	require.True(t, *matched)

	matched = labelsMatchTeams([]string{"FNC", "DRX"}, [2]string{"LOUD", "Sentinels"})
	require.NotNil(t, matched)
	require.False(t, *matched)

	require.Nil(t, labelsMatchTeams(nil, [2]string{"LOUD", "Sentinels"}))
	require.Nil(t, labelsMatchTeams([]string{"LOUD"}, [2]string{"", ""}))
}
