package vlr

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// FetchMatchDetails fetches a match page and extracts everything into
// the stable response envelope. A non-200 page yields an error
// envelope, not a Go error; only transport and parse failures return
// err.
func (c *Client) FetchMatchDetails(ctx context.Context, ref string) (*Response, error) {
	ctx, span := tracer.Start(ctx, "FetchMatchDetails")
	defer span.End()

	matchURL, err := c.CanonicalMatchURL(ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid match reference")
		return nil, err
	}
	span.SetAttributes(attribute.String("match_url", matchURL))

	doc, status, err := c.fetch(ctx, matchURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch match page")
		return nil, err
	}
	if status != http.StatusOK {
		return &Response{Data: Envelope{
			Status: status,
			Error:  fmt.Sprintf("Failed to fetch match details. Status code: %d", status),
		}}, nil
	}

	details := c.extractMatch(ctx, doc, matchURL, status)
	return &Response{Data: Envelope{Status: status, MatchDetails: details}}, nil
}

func (c *Client) extractMatch(ctx context.Context, doc *goquery.Document, matchURL string, status int) *MatchDetails {
	header := extractHeader(doc)
	teams := header.teamNames()

	entries := c.discoverMaps(ctx, doc, matchURL)

	details := &MatchDetails{
		Status:      status,
		MatchID:     MatchID(matchURL),
		MatchStatus: header.MatchStatus,
		Tournament:  header.Tournament,
		MatchDate:   header.MatchDate,
		Patch:       header.Patch,
		Notes:       header.Notes,
	}

	// The combined view doubles as the match-level roster. Without the
	// aggregate container or its rich table the match-level stats stay
	// empty; only per-map extraction runs the fallback ladder.
	var allScope *goquery.Selection
	if allContainer := doc.Find(".vm-stats-game[data-game-id='" + GameIDAll + "']").First(); allContainer.Length() > 0 {
		allScope = allContainer
	}
	details.Stats = extractOverviewRows(allScope, c.origin)

	maps := make([]MapRecord, len(entries))
	roundsMatched := make([]*bool, len(entries))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.maxConcurrency)
	for i, entry := range entries {
		group.Go(func() error {
			maps[i], roundsMatched[i] = c.extractMap(groupCtx, doc, matchURL, entry, i, header, teams)
			return nil
		})
	}
	// Workers never error, degradation happens per map.
	_ = group.Wait()
	details.MatchMaps = maps

	details.DebugInfo = buildDebugInfo(matchURL, status, details, roundsMatched)
	return details
}

func (c *Client) extractMap(ctx context.Context, doc *goquery.Document, matchURL string, entry mapEntry, index int, header matchHeader, teams [2]string) (MapRecord, *bool) {
	ctx, span := tracer.Start(ctx, "extractMap")
	defer span.End()
	span.SetAttributes(
		attribute.String("game_id", entry.GameID),
		attribute.String("map", entry.Name),
	)

	container := entry.Container
	if container == nil {
		container = findGameContainer(doc, entry.GameID)
	}
	if container == nil {
		// The container may only exist on the performance view. A map
		// missing from both documents degrades instead of borrowing
		// another map's container.
		if perf := c.fetchPerformance(ctx, matchURL, entry.GameID); perf != nil {
			container = findGameContainer(perf, entry.GameID)
		}
	}

	record := MapRecord{
		GameID:  entry.GameID,
		MapName: entry.Name,
		Teams:   []TeamRef{{Name: header.Teams[0].Name}, {Name: header.Teams[1].Name}},
	}
	scores := mapScores(container, entry.Tab)
	if scores[0] == nil && scores[1] == nil && entry.GameID == GameIDAll {
		// The virtual aggregate map carries the match-level score.
		scores = [2]*int{header.Teams[0].Score, header.Teams[1].Score}
	}
	record.Teams[0].Score = scores[0]
	record.Teams[1].Score = scores[1]

	matrix := c.extractMatrix(ctx, container, matchURL, entry.GameID)
	record.Stats = resolveOverview(container, matrix, teams, c.origin)
	if matrix != nil {
		record.Performance.PlayerMatrix = *matrix
	} else {
		record.Performance.PlayerMatrix = MatrixData{GameID: entry.GameID}
	}

	record.Performance.AdvStats = extractAdvStats(container, c.origin)
	if record.Performance.AdvStats == nil {
		if perf := c.fetchPerformance(ctx, matchURL, entry.GameID); perf != nil {
			record.Performance.AdvStats = extractAdvStats(findGameContainer(perf, entry.GameID), c.origin)
		}
	}

	rounds, matched := extractRounds(roundsContainer(doc, entry.GameID, index), teams)
	record.Rounds = rounds

	return record, matched
}

func buildDebugInfo(matchURL string, status int, details *MatchDetails, roundsMatched []*bool) DebugInfo {
	info := DebugInfo{
		URL:               matchURL,
		MatchMapsCount:    len(details.MatchMaps),
		PlayersCount:      len(details.Stats),
		StatusCode:        status,
		RoundTeamsMatched: roundsMatched,
	}
	for _, record := range details.MatchMaps {
		info.MapIDs = append(info.MapIDs, record.GameID)
		matrix := record.Performance.PlayerMatrix
		if len(matrix.Matchups) > 0 {
			info.HasMatrix = true
			info.MatrixSizes = append(info.MatrixSizes, MatrixSize{
				GameID:  matrix.GameID,
				Columns: len(matrix.ColumnPlayers),
				Rows:    len(matrix.RowPlayers),
			})
		}
	}
	return info
}
