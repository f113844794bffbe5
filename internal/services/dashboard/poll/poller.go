// Package poll keeps the staff dashboard in step with the restaurant API by
// fetching fresh snapshots on a fixed interval and raising notifications
// when new orders arrive.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	platformotel "github.com/Tiago21221/brasa-e-lenha/internal/platform/otel"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/client"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 10 * time.Second

// ErrTickInFlight is returned when a tick starts while another is running.
var ErrTickInFlight = errors.New("poll tick already in flight")

// Fetcher loads the dashboard data. *client.Client satisfies it.
type Fetcher interface {
	ListOrders(ctx context.Context) ([]client.Order, error)
	ListReservations(ctx context.Context) ([]client.Reservation, error)
	Stats(ctx context.Context) (client.Stats, error)
}

// Notifier is told about changes a Detector reported.
type Notifier interface {
	Notify(ctx context.Context, change Change, snapshot Snapshot)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, change Change, snapshot Snapshot)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, change Change, snapshot Snapshot) {
	f(ctx, change, snapshot)
}

// Snapshot is one consistent view of the dashboard data.
type Snapshot struct {
	Orders       []client.Order
	Reservations []client.Reservation
	Stats        client.Stats
	FetchedAt    time.Time
}

// PendingOrders counts orders still waiting for the kitchen.
func (s Snapshot) PendingOrders() int {
	count := 0
	for _, order := range s.Orders {
		if order.Status == "pending" {
			count++
		}
	}
	return count
}

// NewestOrderID returns the largest order id, or zero.
func (s Snapshot) NewestOrderID() int64 {
	var newest int64
	for _, order := range s.Orders {
		if order.ID > newest {
			newest = order.ID
		}
	}
	return newest
}

// Config tunes a Poller.
type Config struct {
	Interval time.Duration
	Detector Detector
	// Notifier may be nil; changes are then only logged.
	Notifier Notifier
	Now      func() time.Time
	Logf     func(string, ...any)
}

// Poller refreshes snapshots from a Fetcher.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	detector Detector
	notifier Notifier
	now      func() time.Time
	logf     func(string, ...any)

	inFlight atomic.Bool

	mu       sync.RWMutex
	snapshot Snapshot
	baseline bool
}

// New builds a poller for fetcher.
func New(fetcher Fetcher, cfg Config) (*Poller, error) {
	if fetcher == nil {
		return nil, errors.New("poll fetcher is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Detector == nil {
		cfg.Detector = NewestIDDetector{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}
	return &Poller{
		fetcher:  fetcher,
		interval: cfg.Interval,
		detector: cfg.Detector,
		notifier: cfg.Notifier,
		now:      cfg.Now,
		logf:     cfg.Logf,
	}, nil
}

// Snapshot returns the latest snapshot and whether one has been taken.
func (p *Poller) Snapshot() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, p.baseline
}

// Tick fetches a fresh snapshot and runs change detection. The first
// successful tick only records the baseline. A failed fetch leaves the
// previous snapshot in place.
func (p *Poller) Tick(ctx context.Context) (Change, bool, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return Change{}, false, ErrTickInFlight
	}
	defer p.inFlight.Store(false)

	ctx, span := platformotel.Tracer(platformotel.InstrumentationName+"/dashboard/poll").Start(ctx, "dashboard.poll.tick")
	defer span.End()

	next, err := p.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch snapshot")
		return Change{}, false, err
	}
	span.SetAttributes(
		attribute.Int("dashboard.orders", len(next.Orders)),
		attribute.Int("dashboard.reservations", len(next.Reservations)),
	)

	p.mu.Lock()
	previous, hadBaseline := p.snapshot, p.baseline
	p.snapshot, p.baseline = next, true
	p.mu.Unlock()

	if !hadBaseline {
		return Change{}, false, nil
	}
	change, changed := p.detector.Detect(previous, next)
	if !changed {
		return change, false, nil
	}
	span.SetAttributes(attribute.Int("dashboard.new_orders", len(change.NewOrderIDs)))
	if p.notifier != nil {
		p.notifier.Notify(ctx, change, next)
	} else {
		p.logf("dashboard change detected new_orders=%v pending=%d", change.NewOrderIDs, change.PendingAfter)
	}
	return change, true, nil
}

func (p *Poller) fetch(ctx context.Context) (Snapshot, error) {
	orders, err := p.fetcher.ListOrders(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch orders: %w", err)
	}
	reservations, err := p.fetcher.ListReservations(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch reservations: %w", err)
	}
	stats, err := p.fetcher.Stats(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch stats: %w", err)
	}
	return Snapshot{
		Orders:       orders,
		Reservations: reservations,
		Stats:        stats,
		FetchedAt:    p.now(),
	}, nil
}

// Run ticks immediately and then on every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p.runTick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.runTick(ctx)
		}
	}
}

func (p *Poller) runTick(ctx context.Context) {
	if _, _, err := p.Tick(ctx); err != nil && ctx.Err() == nil {
		p.logf("dashboard poll failed: %v", err)
	}
}
