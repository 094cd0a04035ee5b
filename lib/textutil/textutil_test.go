package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "sentinels", NormalizeName("  Sentinels \n"))
	require.Equal(t, "teamliquid", NormalizeName("Team Liquid"))
}

func TestIsDigits(t *testing.T) {
	require.True(t, IsDigits("378822"))
	require.False(t, IsDigits(""))
	require.False(t, IsDigits("all"))
	require.False(t, IsDigits("12a"))
}

func TestStripNonDigits(t *testing.T) {
	require.Equal(t, "378822", StripNonDigits("378822"))
	require.Equal(t, "378822", StripNonDigits("/378822/team-a-vs-team-b"))
	require.Equal(t, "", StripNonDigits("no-id-here"))
}
