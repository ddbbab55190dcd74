package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Source selects where prices come from.
type Source string

// Pricing sources.
const (
	SourceEmbedded Source = "embedded"
	SourceAWS      Source = "aws"
)

// ParseSource returns the Source named by s. Only the exact names
// "embedded" and "aws" (any case) are accepted; anything else falls back to
// SourceEmbedded and reports ok=false so the caller can warn.
func ParseSource(s string) (src Source, ok bool) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceEmbedded, "":
		return SourceEmbedded, true
	case SourceAWS:
		return SourceAWS, true
	default:
		return SourceEmbedded, false
	}
}

// New returns the Catalog for src. timeout only applies to SourceAWS.
func New(ctx context.Context, src Source, logger zerolog.Logger, timeout time.Duration) (Catalog, error) {
	logger = logger.With().Str("pricing_source", string(src)).Logger()
	switch src {
	case SourceEmbedded:
		return NewClient(logger)
	case SourceAWS:
		return NewAWSCatalog(ctx, logger, timeout)
	default:
		return nil, fmt.Errorf("unsupported pricing source %q", string(src))
	}
}
