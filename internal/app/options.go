package engine

import (
	"github.com/okian/eventfacets/internal/adapters/source"
	"github.com/okian/eventfacets/internal/domain/facet"
	"github.com/okian/eventfacets/internal/domain/season"
	"github.com/okian/eventfacets/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithFacets replaces the default facet definitions.
func WithFacets(defs ...facet.Definition) Option {
	return func(e *Engine) {
		if len(defs) > 0 {
			e.defs = defs
		}
	}
}

// WithSeasons configures the selectable seasons in display order.
func WithSeasons(sources ...season.Source) Option {
	return func(e *Engine) {
		e.sources = sources
	}
}

// WithDefaultSeason names the season loaded first and eligible for the
// embedded fast path. Without it the first configured season is used.
func WithDefaultSeason(name string) Option {
	return func(e *Engine) {
		e.defaultSeason = name
	}
}

// WithFetcher sets the transport used on cache misses.
func WithFetcher(f source.Fetcher) Option {
	return func(e *Engine) {
		if f != nil {
			e.fetcher = f
		}
	}
}

// WithEmbedded sets the payload for the default season fast path.
func WithEmbedded(src source.Embedded) Option {
	return func(e *Engine) {
		e.embedded = src
	}
}
