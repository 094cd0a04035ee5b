package vlr

// Response is the envelope every extraction returns. A failed fetch
// carries only Status and Error; a successful one carries MatchDetails.
type Response struct {
	Data Envelope `json:"data"`
}

type Envelope struct {
	Status       int           `json:"status"`
	Error        string        `json:"error,omitempty"`
	MatchDetails *MatchDetails `json:"match_details,omitempty"`
}

type MatchDetails struct {
	Status      int             `json:"status"`
	MatchID     string          `json:"match_id"`
	MatchStatus string          `json:"match_status"`
	Tournament  Tournament      `json:"tournament"`
	MatchDate   *string         `json:"match_date"`
	Patch       *string         `json:"patch"`
	Notes       *string         `json:"notes"`
	Stats       []PlayerStatRow `json:"stats"`
	MatchMaps   []MapRecord     `json:"match_maps"`
	DebugInfo   DebugInfo       `json:"debug_info"`
}

type Tournament struct {
	Name  *string `json:"name"`
	Stage *string `json:"stage"`
}

// GameIDAll is the reserved identifier of the virtual aggregate map
// emitted by the single-map fallback.
const GameIDAll = "all"

const (
	MatchStatusCompleted = "Completed"
	MatchStatusLive      = "Live"
	MatchStatusUpcoming  = "Upcoming"
	MatchStatusUnknown   = "Unknown"
)

type MapRecord struct {
	GameID      string          `json:"game_id"`
	MapName     string          `json:"map_name"`
	Teams       []TeamRef       `json:"teams"`
	Stats       []PlayerStatRow `json:"stats"`
	Rounds      []RoundRecord   `json:"rounds"`
	Performance Performance     `json:"performance"`
}

type TeamRef struct {
	Name  *string `json:"name"`
	Score *int    `json:"score"`
}

// StatTriple holds one stat split by side. Values stay exactly as the
// page prints them (already formatted, percentages included).
type StatTriple struct {
	Both   *string `json:"both"`
	Attack *string `json:"attack"`
	Defend *string `json:"defend"`
}

type AgentRef struct {
	Name string `json:"name"`
	Img  string `json:"img"`
}

type PlayerStatRow struct {
	Player string                `json:"player"`
	Team   *string               `json:"team"`
	Agents []AgentRef            `json:"agents"`
	Stats  map[string]StatTriple `json:"stats"`
	// Synthesized marks rows fabricated from matrix axes or
	// placeholder fills instead of a real stat table.
	Synthesized bool `json:"synthesized,omitempty"`
}

type PlayerRef struct {
	Name     string  `json:"name"`
	Team     *string `json:"team"`
	TeamLogo *string `json:"team_logo"`
}

type Performance struct {
	PlayerMatrix MatrixData        `json:"player_matrix"`
	AdvStats     []AdvancedStatRow `json:"adv_stats"`
}

// MatrixData is the player-vs-player matchup matrix. The two axes are
// independent: neither equal length nor identical membership is
// guaranteed, and matchup indices are only meaningful against the axes
// captured in the same extraction pass.
type MatrixData struct {
	GameID        string      `json:"game_id"`
	ColumnPlayers []PlayerRef `json:"column_players"`
	RowPlayers    []PlayerRef `json:"row_players"`
	Matchups      [][]Matchup `json:"matchups"`
	FkFd          *AuxMatrix  `json:"fk_fd,omitempty"`
	OpKills       *AuxMatrix  `json:"op_kills,omitempty"`
}

type AuxMatrix struct {
	Matchups [][]Matchup `json:"matchups"`
}

// Matchup is one matrix cell. Which statistic value1/value2 carry
// depends on the table the cell came from, not on this type.
type Matchup struct {
	RowPlayer    string  `json:"row_player"`
	ColumnPlayer string  `json:"column_player"`
	Value1       *string `json:"value1"`
	Value2       *string `json:"value2"`
	Diff         *string `json:"diff"`
}

type AdvancedStatRow struct {
	Player PlayerRef               `json:"player"`
	Agent  *string                 `json:"agent"`
	Stats  map[string]AdvancedStat `json:"stats"`
}

type AdvancedStat struct {
	Value   string        `json:"value"`
	Details []RoundDetail `json:"details"`
}

type RoundDetail struct {
	Round     *string       `json:"round"`
	Opponents []OpponentRef `json:"opponents"`
}

type OpponentRef struct {
	Agent *string `json:"agent"`
	Name  string  `json:"name"`
}

// Round win types, classified from the winning square's icon filename.
const (
	WinTypeElimination    = "elimination"
	WinTypeSpikeDetonated = "spike_detonation"
	WinTypeSpikeDefused   = "spike_defuse"
	WinTypeTimeout        = "time_out"
)

const (
	WinSideAttack  = "attack"
	WinSideDefense = "defense"
)

type RoundRecord struct {
	RoundNumber string  `json:"round_number"`
	Title       string  `json:"title"`
	Winner      *int    `json:"winner"`
	WinnerTeam  *string `json:"winner_team"`
	WinType     *string `json:"win_type"`
	WinSide     *string `json:"win_side"`
}

// DebugInfo is advisory only, it is never part of the validated schema
// and never causes an extraction to fail.
type DebugInfo struct {
	URL               string       `json:"url"`
	MatchMapsCount    int          `json:"match_maps_count"`
	PlayersCount      int          `json:"players_count"`
	StatusCode        int          `json:"status_code"`
	HasMatrix         bool         `json:"has_matrix"`
	MapIDs            []string     `json:"map_ids"`
	MatrixSizes       []MatrixSize `json:"matrix_sizes"`
	RoundTeamsMatched []*bool      `json:"round_teams_matched"`
}

type MatrixSize struct {
	GameID  string `json:"game_id"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

func strptr(s string) *string { return &s }

func intptr(i int) *int { return &i }
