// Package vlr extracts structured match statistics from vlr.gg match
// pages. The markup differs between single-map and multi-map matches,
// live and completed ones, and template revisions, so every extraction
// step runs an ordered cascade of locator strategies and degrades to a
// sparse-but-valid record instead of failing.
package vlr

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("scrapers/vlr")
