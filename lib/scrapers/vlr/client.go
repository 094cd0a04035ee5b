package vlr

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"vlrgg-backend/lib/restyutil"
	"vlrgg-backend/lib/telemetry"
	"vlrgg-backend/lib/textutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseURL = "https://www.vlr.gg"

const defaultCacheSize = 64

// Client fetches and parses vlr.gg documents. Fetched 200 responses are
// kept in a read-through lru cache keyed by the full request URL, so
// extracting several maps of one match reuses the same parsed trees.
type Client struct {
	http           *resty.Client
	origin         string
	cache          *lru.Cache[string, fetchResult]
	maxConcurrency int
}

type ClientOptions struct {
	// BaseURL overrides the site origin, mainly for tests.
	BaseURL string
	Timeout time.Duration
	// CacheSize is the number of parsed documents kept, default 64.
	CacheSize int
	// MaxConcurrency bounds the per-map extraction fan-out, default 3.
	MaxConcurrency int
	// InstrumentOutput, when set, dumps every request/response pair
	// for debugging.
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	origin := opts.BaseURL
	if origin == "" {
		origin = DefaultBaseURL
	}
	baseUrl, err := url.Parse(origin)
	if err != nil {
		return nil, err
	}
	origin = strings.TrimSuffix(baseUrl.String(), "/")

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, fetchResult](cacheSize)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 3
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/vlr/http")
	restyutil.InstrumentClient(client, nil, opts.InstrumentOutput)

	c := &Client{
		http:           client,
		origin:         origin,
		cache:          cache,
		maxConcurrency: maxConcurrency,
	}
	return c, nil
}

// CanonicalMatchURL turns any accepted match reference (bare numeric
// id, site-relative path, or absolute URL) into one absolute URL form.
func (c *Client) CanonicalMatchURL(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty match reference")
	}

	var raw string
	switch {
	case textutil.IsDigits(ref):
		raw = c.origin + "/" + ref
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		raw = ref
	case strings.HasPrefix(ref, "/"):
		raw = c.origin + ref
	default:
		raw = c.origin + "/" + ref
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid match reference %q: %w", ref, err)
	}
	return parsed.String(), nil
}

// MatchID extracts the numeric match identifier from a canonical URL
// by stripping non-digits from its first path segment.
func MatchID(matchURL string) string {
	parsed, err := url.Parse(matchURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return textutil.StripNonDigits(segments[0])
}

type fetchResult struct {
	doc    *goquery.Document
	status int
}

// fetch returns the parsed document and status code for a URL. A
// non-200 status is not an error: the document is nil and the caller
// decides. Only transport and parse failures error.
func (c *Client) fetch(ctx context.Context, rawURL string) (*goquery.Document, int, error) {
	ctx, span := tracer.Start(ctx, "fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", rawURL))

	if cached, ok := c.cache.Get(rawURL); ok {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return cached.doc, cached.status, nil
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, 0, err
	}
	status := res.StatusCode()
	if status != http.StatusOK {
		span.SetAttributes(attribute.Int("status", status))
		return nil, status, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, status, err
	}

	c.cache.Add(rawURL, fetchResult{doc: doc, status: status})
	return doc, status, nil
}

// performanceURL appends the fixed performance-view query parameters
// to an already canonical match URL.
func performanceURL(matchURL, gameID string) string {
	parsed, err := url.Parse(matchURL)
	if err != nil {
		return matchURL
	}
	query := parsed.Query()
	query.Set("tab", "performance")
	if gameID == "" {
		gameID = GameIDAll
	}
	query.Set("game", gameID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// fetchPerformance fetches the secondary performance view of a match.
// Any failure yields a nil document, the callers all degrade.
func (c *Client) fetchPerformance(ctx context.Context, matchURL, gameID string) *goquery.Document {
	doc, status, err := c.fetch(ctx, performanceURL(matchURL, gameID))
	if err != nil || status != http.StatusOK {
		return nil
	}
	return doc
}
