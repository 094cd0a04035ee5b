package vlr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isPerformance := r.URL.Query().Get("tab") == "performance"
		switch {
		case r.URL.Path == "/303087" && isPerformance && r.URL.Query().Get("game") == "2":
			http.ServeFile(w, r, "testdata/perf_game2.html")
		case r.URL.Path == "/303087" && !isPerformance:
			http.ServeFile(w, r, "testdata/match_rich.html")
		case r.URL.Path == "/41111" && !isPerformance:
			http.ServeFile(w, r, "testdata/match_minimal.html")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T) (*Client, *httptest.Server) {
	server := newTestServer(t)
	client, err := NewClient(ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)
	return client, server
}

func TestFetchMatchDetails(t *testing.T) {
	client, server := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Data.Status)
	require.Empty(t, res.Data.Error)
	require.NotNil(t, res.Data.MatchDetails)

	details := res.Data.MatchDetails
	require.Equal(t, "303087", details.MatchID)
	require.Equal(t, MatchStatusCompleted, details.MatchStatus)

	require.NotNil(t, details.Tournament.Name)
	require.Equal(t, "Champions Tour 2024: Americas Kickoff", *details.Tournament.Name)
	require.NotNil(t, details.Tournament.Stage)
	require.Equal(t, "Playoffs: Grand Final", *details.Tournament.Stage)

	require.NotNil(t, details.MatchDate)
	require.Equal(t, "2024-02-25 17:00:00", *details.MatchDate)
	require.NotNil(t, details.Patch)
	require.Equal(t, "Patch 8.03", *details.Patch)
	require.NotNil(t, details.Notes)

	require.Len(t, details.Stats, 4)
	aspas := details.Stats[0]
	require.Equal(t, "aspas", aspas.Player)
	require.NotNil(t, aspas.Team)
	require.Equal(t, "LOUD", *aspas.Team)
	require.False(t, aspas.Synthesized)
	require.Len(t, aspas.Agents, 2)
	require.Equal(t, "jett", aspas.Agents[0].Name)
	require.Equal(t, server.URL+"/img/vlr/game/agents/jett.png", aspas.Agents[0].Img)

	require.Len(t, aspas.Stats, 12)
	rating := aspas.Stats["rating"]
	require.NotNil(t, rating.Both)
	require.Equal(t, "1.24", *rating.Both)
	require.NotNil(t, rating.Attack)
	require.Equal(t, "1.30", *rating.Attack)
	require.NotNil(t, rating.Defend)
	require.Equal(t, "1.18", *rating.Defend)

	// Columns missing from the table still carry null triples.
	kast := aspas.Stats["kast"]
	require.Nil(t, kast.Both)
	require.Nil(t, kast.Attack)
	require.Nil(t, kast.Defend)

	require.Len(t, details.MatchMaps, 2)
}

func TestFetchMatchDetailsMaps(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)
	maps := res.Data.MatchDetails.MatchMaps
	require.Len(t, maps, 2)

	ascent := maps[0]
	require.Equal(t, "1", ascent.GameID)
	require.Equal(t, "Ascent", ascent.MapName)
	require.Len(t, ascent.Teams, 2)
	require.Equal(t, "LOUD", *ascent.Teams[0].Name)
	require.Equal(t, 13, *ascent.Teams[0].Score)
	require.Equal(t, "Sentinels", *ascent.Teams[1].Name)
	require.Equal(t, 9, *ascent.Teams[1].Score)
	require.Len(t, ascent.Stats, 3)

	bind := maps[1]
	require.Equal(t, "2", bind.GameID)
	require.Equal(t, "Bind", bind.MapName)
	require.Equal(t, 13, *bind.Teams[0].Score)
	require.Equal(t, 11, *bind.Teams[1].Score)
	require.Len(t, bind.Stats, 2)
}

func TestFetchMatchDetailsRounds(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)
	maps := res.Data.MatchDetails.MatchMaps

	rounds := maps[0].Rounds
	require.Len(t, rounds, 4)

	first := rounds[0]
	require.Equal(t, "1", first.RoundNumber)
	require.Equal(t, "1-0", first.Title)
	require.Equal(t, 0, *first.Winner)
	require.Equal(t, "LOUD", *first.WinnerTeam)
	require.Equal(t, WinTypeElimination, *first.WinType)
	require.Equal(t, WinSideDefense, *first.WinSide)

	second := rounds[1]
	require.Equal(t, 1, *second.Winner)
	require.Equal(t, "Sentinels", *second.WinnerTeam)
	require.Equal(t, WinTypeSpikeDetonated, *second.WinType)
	require.Equal(t, WinSideAttack, *second.WinSide)

	require.Equal(t, WinTypeSpikeDefused, *rounds[2].WinType)
	require.Equal(t, WinTypeTimeout, *rounds[3].WinType)

	// The second grid belongs to the second map.
	require.Len(t, maps[1].Rounds, 2)
	require.Equal(t, 1, *maps[1].Rounds[0].Winner)
}

func TestFetchMatchDetailsMatrix(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)
	maps := res.Data.MatchDetails.MatchMaps

	// Map one carries its matrix inline.
	matrix := maps[0].Performance.PlayerMatrix
	require.Equal(t, "1", matrix.GameID)
	require.Len(t, matrix.ColumnPlayers, 1)
	require.Equal(t, "aspas", matrix.ColumnPlayers[0].Name)
	require.Equal(t, "LOUD", *matrix.ColumnPlayers[0].Team)
	require.Equal(t, "https://owcdn.net/img/loud.png", *matrix.ColumnPlayers[0].TeamLogo)
	require.Len(t, matrix.RowPlayers, 1)
	require.Equal(t, "zekken", matrix.RowPlayers[0].Name)

	matchup := matrix.Matchups[0][0]
	require.Equal(t, "zekken", matchup.RowPlayer)
	require.Equal(t, "aspas", matchup.ColumnPlayer)
	require.Equal(t, "7", *matchup.Value1)
	require.Equal(t, "9", *matchup.Value2)
	require.Equal(t, "-2", *matchup.Diff)

	// Map two's matrix only exists on the performance view.
	matrix = maps[1].Performance.PlayerMatrix
	require.Equal(t, "2", matrix.GameID)
	require.Len(t, matrix.Matchups, 1)
	require.Equal(t, "5", *matrix.Matchups[0][0].Value1)
	require.NotNil(t, matrix.FkFd)
	require.Equal(t, "-3", *matrix.FkFd.Matchups[0][0].Diff)
	require.NotNil(t, matrix.OpKills)
	require.Equal(t, "-2", *matrix.OpKills.Matchups[0][0].Diff)
}

func TestFetchMatchDetailsAdvStats(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)
	maps := res.Data.MatchDetails.MatchMaps

	advStats := maps[0].Performance.AdvStats
	require.Len(t, advStats, 1)
	row := advStats[0]
	require.Equal(t, "aspas", row.Player.Name)
	require.Equal(t, "LOUD", *row.Player.Team)
	require.Equal(t, "jett", *row.Agent)

	stat, ok := row.Stats["2K"]
	require.True(t, ok)
	require.Equal(t, "2", stat.Value)
	require.Len(t, stat.Details, 2)
	require.Equal(t, "Round 3", *stat.Details[0].Round)
	require.Len(t, stat.Details[0].Opponents, 2)
	require.Equal(t, "raze", *stat.Details[0].Opponents[0].Agent)
	require.Equal(t, "zekken", stat.Details[0].Opponents[0].Name)

	// Empty cells still report a zero count.
	threeK, ok := row.Stats["3K"]
	require.True(t, ok)
	require.Equal(t, "0", threeK.Value)
	require.Empty(t, threeK.Details)

	// Map two's table comes from the performance view.
	advStats = maps[1].Performance.AdvStats
	require.Len(t, advStats, 1)
	require.Equal(t, "TenZ", advStats[0].Player.Name)
}

func TestFetchMatchDetailsDebugInfo(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)
	info := res.Data.MatchDetails.DebugInfo

	require.Equal(t, 2, info.MatchMapsCount)
	require.Equal(t, 4, info.PlayersCount)
	require.Equal(t, http.StatusOK, info.StatusCode)
	require.True(t, info.HasMatrix)
	require.Equal(t, []string{"1", "2"}, info.MapIDs)
	require.Len(t, info.MatrixSizes, 2)

	require.Len(t, info.RoundTeamsMatched, 2)
	for _, matched := range info.RoundTeamsMatched {
		require.NotNil(t, matched)
		require.True(t, *matched)
	}
}

func TestFetchMatchDetailsDegraded(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "41111")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Data.Status)

	details := res.Data.MatchDetails
	require.Equal(t, "41111", details.MatchID)
	require.Equal(t, MatchStatusUpcoming, details.MatchStatus)
	require.Nil(t, details.MatchDate)
	require.Nil(t, details.Patch)
	require.Nil(t, details.Notes)
	require.Nil(t, details.Tournament.Stage)

	// Only per-map extraction falls back to placeholders; the
	// match-level roster stays empty without the aggregate table.
	require.Empty(t, details.Stats)

	require.Len(t, details.MatchMaps, 1)
	only := details.MatchMaps[0]
	require.Equal(t, GameIDAll, only.GameID)
	require.Equal(t, "Unknown", only.MapName)
	require.Equal(t, "Team Alpha", *only.Teams[0].Name)
	require.Nil(t, only.Teams[0].Score)
	require.Empty(t, only.Rounds)

	require.Len(t, only.Stats, 10)
	require.Equal(t, "Player1", only.Stats[0].Player)
	require.Equal(t, "Player10", only.Stats[9].Player)
	require.True(t, only.Stats[0].Synthesized)
	require.Equal(t, "Team Alpha", *only.Stats[0].Team)
	require.Equal(t, "Team Bravo", *only.Stats[5].Team)

	require.Len(t, details.DebugInfo.RoundTeamsMatched, 1)
	require.Nil(t, details.DebugInfo.RoundTeamsMatched[0])
}

func TestFetchMatchDetailsContainerMissing(t *testing.T) {
	page := `<html><body>
		<div class="match-header-vs-team-name">LOUD</div>
		<div class="match-header-vs-team-name">Sentinels</div>
		<div class="vm-stats-gamesnav-item" data-game-id="1">1 Ascent</div>
		<div class="vm-stats-gamesnav-item" data-game-id="2">2 Bind</div>
		<div class="vm-stats-game" data-game-id="all">
			<table class="wf-table-inset mod-overview"><tbody><tr>
				<td class="mod-player"><div class="text-of">sacy</div><div class="ge-text-light">LOUD</div></td>
			</tr></tbody></table>
		</div>
		<div class="vm-stats-game" data-game-id="1">
			<table class="wf-table-inset mod-overview"><tbody><tr>
				<td class="mod-player"><div class="text-of">aspas</div><div class="ge-text-light">LOUD</div></td>
			</tr></tbody></table>
		</div>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/777001" && r.URL.Query().Get("tab") == "" {
			_, _ = w.Write([]byte(page))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	client, err := NewClient(ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)

	res, err := client.FetchMatchDetails(context.Background(), "777001")
	require.NoError(t, err)
	maps := res.Data.MatchDetails.MatchMaps
	require.Len(t, maps, 2)
	require.Equal(t, "aspas", maps[0].Stats[0].Player)

	// Map two's container exists in neither document, so its stats
	// degrade to placeholders instead of borrowing the aggregate
	// container's roster.
	bind := maps[1]
	require.Equal(t, "2", bind.GameID)
	require.Len(t, bind.Stats, 10)
	require.True(t, bind.Stats[0].Synthesized)
	for _, row := range bind.Stats {
		require.NotEqual(t, "sacy", row.Player)
	}
}

func TestFetchMatchDetailsNotFound(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.FetchMatchDetails(context.Background(), "999999")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.Data.Status)
	require.Equal(t, "Failed to fetch match details. Status code: 404", res.Data.Error)
	require.Nil(t, res.Data.MatchDetails)
}

func TestFetchMatchDetailsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)

	first, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)
	second, err := client.FetchMatchDetails(context.Background(), "303087")
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(first, second))
}
