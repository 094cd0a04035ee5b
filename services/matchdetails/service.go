package matchdetails

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"vlrgg-backend/lib/scrapers/vlr"
	"vlrgg-backend/services/matchdetails/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/matchdetails")

const DefaultSnapshotTTL = time.Minute * 5

type Service struct {
	db     *sql.DB
	qry    *db.Queries
	client *vlr.Client
	ttl    time.Duration
}

func NewService(database *sql.DB, client *vlr.Client, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return Service{
		db:     database,
		qry:    db.New(database),
		client: client,
		ttl:    ttl,
	}
}

// GetMatch serves a match extraction through the snapshot store. A
// fresh snapshot short-circuits the fetch entirely; anything else goes
// to the scraper and, when the page was reachable, replaces the stored
// snapshot. Error envelopes are passed through but never stored.
func (s Service) GetMatch(ctx context.Context, ref string) (*vlr.Response, error) {
	ctx, span := tracer.Start(ctx, "GetMatch")
	defer span.End()
	span.SetAttributes(attribute.String("ref", ref))

	matchURL, err := s.client.CanonicalMatchURL(ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	matchID := vlr.MatchID(matchURL)

	if matchID != "" {
		snapshot, err := s.qry.GetMatchSnapshot(ctx, matchID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if err == nil && time.Since(time.Unix(snapshot.FetchedAt, 0)) < s.ttl {
			var res vlr.Response
			if err := json.Unmarshal([]byte(snapshot.Payload), &res); err == nil {
				span.SetStatus(codes.Ok, "SNAPSHOT HIT")
				return &res, nil
			}
			// A corrupt payload falls through to a refetch.
		}
	}

	res, err := s.client.FetchMatchDetails(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if matchID != "" && res.Data.Status == http.StatusOK && res.Data.MatchDetails != nil {
		payload, err := json.Marshal(res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		err = s.qry.UpsertMatchSnapshot(ctx, db.UpsertMatchSnapshotParams{
			MatchID:   matchID,
			FetchedAt: time.Now().Unix(),
			Status:    int64(res.Data.Status),
			Payload:   string(payload),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	return res, nil
}

// PruneSnapshots drops every snapshot that expired more than its ttl
// ago. The server calls this on a timer.
func (s Service) PruneSnapshots(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "PruneSnapshots")
	defer span.End()

	err := s.qry.DeleteMatchSnapshotsBefore(ctx, time.Now().Add(-s.ttl).Unix())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// StartPruneDaemon prunes expired snapshots on an interval until the
// context ends.
func (s Service) StartPruneDaemon(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = s.PruneSnapshots(ctx)
			}
		}
	}()
}
