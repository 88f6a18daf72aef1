// Package counter runs quest extraction for every participant: fetch the profile page, parse
// its badges, and keep the quests that count.
//
// Each participant is resolved exactly once by its own worker. A failure of any kind is
// recorded on that participant and never stops the batch.
package counter

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vietkubers/quest-count/internal/logger"
	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/quest"
	"github.com/vietkubers/quest-count/internal/scraper"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers processes one participant at a time
const DefaultWorkers = 1

// Counter extracts quests for a batch of participants
type Counter struct {
	fetcher  scraper.Fetcher
	rules    quest.Rules
	workers  int
	timeout  time.Duration
	log      *logger.Logger
	metrics  *logger.Metrics
	onResult func(*participant.Participant)

	resultMu sync.Mutex
}

// Option configures a Counter
type Option func(*Counter)

// WithWorkers sets how many profiles are fetched concurrently
func WithWorkers(n int) Option {
	return func(c *Counter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithTimeout bounds each profile fetch
func WithTimeout(d time.Duration) Option {
	return func(c *Counter) {
		c.timeout = d
	}
}

// WithLogger replaces the default logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Counter) {
		c.log = l
	}
}

// WithMetrics records fetch counters and timings into m
func WithMetrics(m *logger.Metrics) Option {
	return func(c *Counter) {
		c.metrics = m
	}
}

// OnResult registers a callback invoked after each participant is resolved.
// Calls are serialized.
func OnResult(fn func(*participant.Participant)) Option {
	return func(c *Counter) {
		c.onResult = fn
	}
}

// New creates a Counter
func New(fetcher scraper.Fetcher, rules quest.Rules, opts ...Option) *Counter {
	c := &Counter{
		fetcher: fetcher,
		rules:   rules,
		workers: DefaultWorkers,
		timeout: scraper.Timeout,
		log:     logger.Default(),
		metrics: logger.NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns the metrics tracker the counter records into
func (c *Counter) Metrics() *logger.Metrics {
	return c.metrics
}

// Run resolves every participant. Extraction failures are recorded on the participants;
// the only error returned is ctx's, after marking unprocessed participants as failed.
func (c *Counter) Run(ctx context.Context, ps []*participant.Participant) error {
	c.metrics.SetGauge("participants.total", float64(len(ps)))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(c.workers)

	for _, p := range ps {
		if ctx.Err() != nil {
			break
		}
		p := p
		g.Go(func() error {
			c.extract(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	c.metrics.RecordTiming("batch.run", time.Since(start))

	if err := ctx.Err(); err != nil {
		for _, p := range ps {
			if !p.Resolved() {
				c.fail(p, quest.Wrap(quest.KindFetchFailed, scraper.ReasonLoad, fmt.Errorf("run cancelled: %w", err)))
			}
		}
		return err
	}
	return nil
}

// extract resolves one participant
func (c *Counter) extract(ctx context.Context, p *participant.Participant) {
	if p.ProfileURL == "" {
		c.fail(p, quest.Errorf(quest.KindFetchFailed, "missing public profile URL"))
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	start := time.Now()
	body, err := c.fetcher.Fetch(fetchCtx, p.ProfileURL)
	cancel()
	c.metrics.RecordTiming("profile.fetch", time.Since(start))

	if err != nil {
		if quest.KindOf(err) == quest.KindUnknown {
			err = quest.Wrap(quest.KindFetchFailed, scraper.ReasonLoad, err)
		}
		c.fail(p, err)
		return
	}

	quests, err := scraper.ParseBadges(bytes.NewReader(body))
	if err != nil {
		c.fail(p, err)
		return
	}

	if err := p.Resolve(quests, c.rules); err != nil {
		c.log.Warn("Participant resolved twice", logger.Fields{"email": p.Email})
		return
	}

	c.metrics.IncrCounter("profiles.ok")
	c.log.Info("Quests found", logger.Fields{
		"email":  p.Email,
		"quests": len(p.Quests),
		"legal":  p.LegalCount(),
	})
	c.notify(p)
}

func (c *Counter) fail(p *participant.Participant, err error) {
	if resolveErr := p.Fail(err); resolveErr != nil {
		c.log.Warn("Participant resolved twice", logger.Fields{"email": p.Email})
		return
	}

	kind := quest.KindOf(err)
	c.metrics.IncrCounter("profiles.failed")
	c.metrics.IncrCounter("profiles.failed." + string(kind))
	c.log.Error("Unable to count quests", logger.Fields{
		"email":  p.Email,
		"row_id": p.RowID,
		"kind":   string(kind),
	}, err)
	c.notify(p)
}

func (c *Counter) notify(p *participant.Participant) {
	if c.onResult == nil {
		return
	}
	c.resultMu.Lock()
	defer c.resultMu.Unlock()
	c.onResult(p)
}
