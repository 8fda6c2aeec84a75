package client

import (
	"context"
	"fmt"

	"github.com/animotheque/animotheque/internal/lookup"
)

// SeasonField is the state of the season input: either a free-text field
// or a generated dropdown when the lookup knows how many seasons exist.
type SeasonField interface {
	isSeasonField()
	// Value returns what would be stored as lastEpisode.
	Value() string
}

// FreeTextField is the default season input.
type FreeTextField struct {
	Text string
}

func (FreeTextField) isSeasonField() {}

// Value returns the typed text.
func (f FreeTextField) Value() string { return f.Text }

// SeasonDropdown replaces the text field once a season count is known.
type SeasonDropdown struct {
	Count    int
	Selected int // 1-based
}

func (SeasonDropdown) isSeasonField() {}

// Value returns the label of the selected season.
func (d SeasonDropdown) Value() string {
	selected := d.Selected
	if selected < 1 || selected > d.Count {
		selected = 1
	}
	return fmt.Sprintf("Saison %d", selected)
}

// Options lists the dropdown labels, "Saison 1" through "Saison N".
func (d SeasonDropdown) Options() []string {
	options := make([]string, d.Count)
	for i := range options {
		options[i] = fmt.Sprintf("Saison %d", i+1)
	}
	return options
}

// ResolveSeasonField decides the season input state for a selected title:
// a dropdown when the lookup returns a season count, the free-text field
// when no provider has an answer.
func ResolveSeasonField(ctx context.Context, provider lookup.Provider, title string) SeasonField {
	meta, err := provider.Lookup(ctx, title)
	if err != nil || meta.SeasonCount < 1 {
		return FreeTextField{}
	}
	return SeasonDropdown{Count: meta.SeasonCount, Selected: 1}
}
