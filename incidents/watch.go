package incidents

import (
	"context"
	"time"

	"github.com/jrsteele09/citizen-watch/apiclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Lister is the part of Service a Watcher polls.
type Lister interface {
	List(ctx context.Context, filter Filter) ([]Incident, error)
}

// Update is the set of incidents that appeared or changed since the previous poll.
type Update struct {
	Initial bool // first successful poll; Added holds everything
	Added   []Incident
	Changed []Incident
	Removed []Incident // last known state of incidents no longer in the list
	Total   int
}

func (u Update) Empty() bool {
	return len(u.Added) == 0 && len(u.Changed) == 0 && len(u.Removed) == 0
}

type WatcherOption func(*Watcher)

func WithInterval(interval time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = interval
	}
}

func WithFilter(filter Filter) WatcherOption {
	return func(w *Watcher) {
		w.filter = filter
	}
}

func WithWatcherLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher polls the incident list and reports what changed, for near-real-time maps and tables.
type Watcher struct {
	lister   Lister
	interval time.Duration
	filter   Filter
	logger   zerolog.Logger
	seen     map[string]Incident
	polled   bool
}

func NewWatcher(lister Lister, options ...WatcherOption) *Watcher {
	w := &Watcher{
		lister:   lister,
		interval: 10 * time.Second,
		logger:   log.Logger,
		seen:     make(map[string]Incident),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Run polls immediately and then on every tick until ctx is done.
// The first successful poll is always delivered, with every incident as added.
// Later polls that change nothing are not delivered.
// Transient errors are logged and retried on the next tick; a lost session ends Run with that error.
func (w *Watcher) Run(ctx context.Context, handle func(Update)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.poll(ctx, handle); err != nil {
			if apiclient.LoginRequired(err) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Warn().Err(err).Msg("Incident poll failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Watcher) poll(ctx context.Context, handle func(Update)) error {
	list, err := w.lister.List(ctx, w.filter)
	if err != nil {
		return err
	}
	update := w.diff(list)
	update.Initial = !w.polled
	w.polled = true
	w.logger.Debug().Int("added", len(update.Added)).Int("changed", len(update.Changed)).Int("removed", len(update.Removed)).Int("total", update.Total).Msg("Polled incidents")
	if update.Initial || !update.Empty() {
		handle(update)
	}
	return nil
}

func (w *Watcher) diff(list []Incident) Update {
	update := Update{Total: len(list)}
	current := make(map[string]Incident, len(list))
	for _, i := range list {
		previous, ok := w.seen[i.ID]
		switch {
		case !ok:
			update.Added = append(update.Added, i)
		case !previous.UpdatedAt.Equal(i.UpdatedAt):
			update.Changed = append(update.Changed, i)
		}
		current[i.ID] = i
	}
	for id, i := range w.seen {
		if _, ok := current[id]; !ok {
			update.Removed = append(update.Removed, i)
		}
	}
	update.Removed = SortNewestFirst(update.Removed)
	w.seen = current
	return update
}
