// Package dispatch hands due post occurrences to a Publisher on a cron
// cadence. It decides *when* a post is due; the actual cross-platform
// delivery lives behind the Publisher interface, outside this module.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/listora/postqueue/recurrence"
	"github.com/listora/postqueue/schedule"
)

// Publisher delivers one occurrence of a post to its platforms.
type Publisher interface {
	Publish(ctx context.Context, post schedule.Post, at time.Time) error
}

// PostSource yields the posts currently scheduled, backed by whatever store
// the host application uses.
type PostSource interface {
	ScheduledPosts(ctx context.Context) ([]schedule.Post, error)
}

// Options configures a Dispatcher.
type Options struct {
	// CronSpec is the tick cadence; defaults to every minute.
	CronSpec string
	// Location is the timezone the cron spec is evaluated in; defaults to
	// UTC.
	Location *time.Location
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Dispatcher ticks on a cron schedule and hands every occurrence that became
// due since the previous tick to the Publisher. Each occurrence is
// dispatched at most once per process lifetime; deduplication across
// restarts is the host's concern.
type Dispatcher struct {
	cron      *cron.Cron
	engine    *recurrence.Engine
	source    PostSource
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	spec      string

	mu       sync.Mutex
	lastTick time.Time
}

// New creates a dispatcher. The engine is shared with the rest of the host
// so expansion results are memoized across the dashboard and the dispatcher.
func New(source PostSource, publisher Publisher, engine *recurrence.Engine, logger *slog.Logger, opts Options) *Dispatcher {
	if opts.CronSpec == "" {
		opts.CronSpec = "* * * * *"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		cron:      cron.New(cron.WithLocation(opts.Location)),
		engine:    engine,
		source:    source,
		publisher: publisher,
		logger:    logger,
		now:       opts.Now,
		spec:      opts.CronSpec,
		lastTick:  opts.Now(),
	}
}

// Start registers the tick job and blocks until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) error {
	if _, err := d.cron.AddFunc(d.spec, func() { d.Tick(context.Background()) }); err != nil {
		return fmt.Errorf("add dispatch tick: %w", err)
	}

	d.cron.Start()
	d.logger.Info("dispatcher started", "spec", d.spec)

	<-ctx.Done()
	d.Stop()
	return nil
}

// Stop halts the cron loop, waiting for a running tick to finish.
func (d *Dispatcher) Stop() {
	stopCtx := d.cron.Stop()
	<-stopCtx.Done()
	d.logger.Info("dispatcher stopped")
}

// Tick dispatches every occurrence due in (lastTick, now]. Exported so
// hosts can drive it manually, e.g. from tests or a one-shot CLI.
func (d *Dispatcher) Tick(ctx context.Context) {
	now := d.now()

	d.mu.Lock()
	since := d.lastTick
	d.lastTick = now
	d.mu.Unlock()

	posts, err := d.source.ScheduledPosts(ctx)
	if err != nil {
		// Roll the window back so the next tick retries these occurrences.
		d.mu.Lock()
		if d.lastTick.Equal(now) {
			d.lastTick = since
		}
		d.mu.Unlock()
		d.logger.Error("load scheduled posts", "err", err)
		return
	}

	for _, post := range posts {
		occurrences, err := d.engine.Expand(post.PublishAt, post.Rule(), recurrence.DefaultCalendarLimit)
		if err != nil {
			d.logger.Error("expand post", "post", post.ID, "err", err)
			continue
		}
		for _, at := range occurrences {
			if !at.After(since) || at.After(now) {
				continue
			}
			if err := d.publisher.Publish(ctx, post, at); err != nil {
				d.logger.Error("publish occurrence", "post", post.ID, "at", at, "err", err)
				continue
			}
			d.logger.Info("occurrence dispatched", "post", post.ID, "at", at)
		}
	}
}
