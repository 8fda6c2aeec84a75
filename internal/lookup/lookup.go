// Package lookup resolves anime titles to season counts and cover images.
// Providers are pluggable: a static table of well-known titles takes
// priority, the Jikan API is the fallback, and an optional Redis cache can
// wrap any provider.
package lookup

import (
	"context"
	"errors"
)

// Metadata is what a successful lookup returns.
type Metadata struct {
	CanonicalTitle string `json:"canonicalTitle"`
	SeasonCount    int    `json:"seasonCount"`
	ImageURL       string `json:"imageUrl"`
}

// ErrUnavailable means the provider has no answer for the title. Callers
// fall back to the next provider or to a single-season default.
var ErrUnavailable = errors.New("lookup unavailable")

// Provider resolves a typed title to metadata.
type Provider interface {
	Lookup(ctx context.Context, title string) (*Metadata, error)
}

// Chain tries providers in order and returns the first answer.
type Chain []Provider

// Lookup walks the chain. All providers failing yields ErrUnavailable.
func (c Chain) Lookup(ctx context.Context, title string) (*Metadata, error) {
	for _, p := range c {
		meta, err := p.Lookup(ctx, title)
		if err == nil {
			return meta, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, ErrUnavailable
}
