package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
	"github.com/preston-bernstein/gaming-haven/internal/timeutil"
)

const (
	defaultInterval     = 5 * time.Minute
	defaultPopularLimit = 8
)

// BackupWriter persists a daily copy of the saved-games collection.
type BackupWriter interface {
	WriteCollectionBackup(ctx context.Context, date string, games []domaingames.SavedGame) error
}

// CollectionSource exposes the current saved games.
type CollectionSource interface {
	Games() []domaingames.SavedGame
}

// Poller keeps popular suggestions warm in the catalog cache and writes the daily
// collection backup on an interval.
type Poller struct {
	provider     providers.CatalogProvider
	collection   CollectionSource
	writer       BackupWriter
	logger       *slog.Logger
	metrics      *metrics.Recorder
	interval     time.Duration
	popularLimit int
	now          func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastBackup          string
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller. collection and writer may be nil, in which case no backup is written.
func New(provider providers.CatalogProvider, collection CollectionSource, writer BackupWriter, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		provider:     provider,
		collection:   collection,
		writer:       writer,
		logger:       logger,
		metrics:      recorder,
		interval:     interval,
		popularLimit: defaultPopularLimit,
		now:          time.Now,
		done:         make(chan struct{}),
	}
}

// WithPopularLimit sets the suggestion count to warm, clamped the same way clients
// clamp it so the warmed cache entry is the one they hit.
func (p *Poller) WithPopularLimit(limit int) *Poller {
	p.popularLimit = providers.ClampLimit(limit, defaultPopularLimit)
	return p
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		p.RunOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.RunOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// RunOnce performs one cycle: warm popular suggestions, then back up the collection.
func (p *Poller) RunOnce(ctx context.Context) {
	start := p.now()
	p.recordAttempt(start)

	popular, err := p.provider.Popular(ctx, p.popularLimit)
	p.metrics.RecordPollerCycle(time.Since(start), err)
	if err != nil {
		logging.Error(p.logger, "poller popular refresh failed", err, logging.FieldProvider, providers.NameOf(p.provider))
		p.recordFailure(err, start)
		return
	}

	if date, ok := p.backup(ctx); ok {
		p.statusMu.Lock()
		p.status.LastBackup = date
		p.statusMu.Unlock()
	}

	p.recordSuccess(start)
	logging.Info(p.logger, "poller refreshed popular",
		logging.FieldCount, len(popular),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (p *Poller) backup(ctx context.Context) (string, bool) {
	if p.writer == nil || p.collection == nil {
		return "", false
	}
	date := timeutil.Today(p.now())
	if err := p.writer.WriteCollectionBackup(ctx, date, p.collection.Games()); err != nil {
		logging.Error(p.logger, "poller backup write failed", err)
		return "", false
	}
	return date, true
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
