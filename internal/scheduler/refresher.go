// Package scheduler runs the periodic release-estimate refresh.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/animotheque/animotheque/internal/lookup"
	"github.com/animotheque/animotheque/internal/models"
)

// Library is the slice of the store the refresher needs.
type Library interface {
	ListUpcoming(ctx context.Context) ([]models.Anime, error)
	UpdateSortie(ctx context.Context, id, sortie string) error
}

// Refresher re-fills the release-estimate text of upcoming-season entries
// from the lookup provider.
type Refresher struct {
	library  Library
	provider lookup.Provider
	log      *logrus.Logger
	cron     *cron.Cron
}

// NewRefresher initializes a new refresher
func NewRefresher(library Library, provider lookup.Provider, log *logrus.Logger) *Refresher {
	return &Refresher{library: library, provider: provider, log: log, cron: cron.New()}
}

// Start schedules Run on the given cron expression.
func (r *Refresher) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() {
		if err := r.Run(context.Background()); err != nil {
			r.log.Errorf("Release refresh failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule release refresh: %w", err)
	}
	r.cron.Start()
	r.log.Infof("Release refresh scheduled: %s", schedule)
	return nil
}

// Stop halts the schedule. Running jobs finish on their own.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

// Run refreshes every upcoming-season entry once. Lookup failures skip
// the entry and continue; there are no retries.
func (r *Refresher) Run(ctx context.Context) error {
	animes, err := r.library.ListUpcoming(ctx)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, anime := range animes {
		meta, err := r.provider.Lookup(ctx, anime.Title)
		if err != nil {
			r.log.Debugf("No release estimate for %q: %v", anime.Title, err)
			continue
		}
		sortie := fmt.Sprintf("Saison %d", meta.SeasonCount+1)
		if sortie == anime.Sortie {
			continue
		}
		if err := r.library.UpdateSortie(ctx, anime.ID, sortie); err != nil {
			r.log.Errorf("Failed to store release estimate for %q: %v", anime.Title, err)
			continue
		}
		refreshed++
	}

	r.log.Infof("Release refresh done: %d/%d entries updated", refreshed, len(animes))
	return nil
}
