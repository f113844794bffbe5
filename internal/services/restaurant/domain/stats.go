package domain

import (
	"context"
	"log"
	"time"
)

// StatsWindow is the trailing window used for weekly figures.
const StatsWindow = 7 * 24 * time.Hour

// Stats is the admin dashboard summary. Money is in cents.
type Stats struct {
	RevenueLast7DaysCents int64
	TotalRevenueCents     int64
	DailyOrders           int
	OrdersLast7Days       int
	AverageTicketCents    int64
	TotalOrders           int
	StatusCounts          map[OrderStatus]int
	GeneratedAt           time.Time
	// Degraded is set when orders could not be loaded and every figure is zero.
	Degraded bool
}

// ComputeStats aggregates orders as of now. "Today" is the calendar day of
// now in loc; the weekly window is the StatsWindow before now. Only
// completed orders (including legacy delivered ones) earn revenue.
func ComputeStats(orders []Order, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	stats := Stats{
		StatusCounts: emptyStatusCounts(),
		GeneratedAt:  now.UTC(),
	}
	localNow := now.In(loc)
	todayYear, todayMonth, todayDay := localNow.Date()
	windowStart := now.Add(-StatsWindow)

	var completedInWindow int64
	for _, order := range orders {
		stats.TotalOrders++
		stats.StatusCounts[order.Status.Normalized()]++

		completed := order.Status.IsCompleted()
		if completed {
			stats.TotalRevenueCents += order.TotalCents
		}

		year, month, day := order.CreatedAt.In(loc).Date()
		if year == todayYear && month == todayMonth && day == todayDay {
			stats.DailyOrders++
		}

		if !order.CreatedAt.Before(windowStart) {
			stats.OrdersLast7Days++
			if completed {
				stats.RevenueLast7DaysCents += order.TotalCents
				completedInWindow++
			}
		}
	}
	if completedInWindow > 0 {
		stats.AverageTicketCents = (stats.RevenueLast7DaysCents + completedInWindow/2) / completedInWindow
	}
	return stats
}

func emptyStatusCounts() map[OrderStatus]int {
	counts := make(map[OrderStatus]int, len(writableOrderStatuses))
	for _, status := range writableOrderStatuses {
		counts[status] = 0
	}
	return counts
}

// StatsService produces dashboard statistics from the order store.
type StatsService struct {
	store    OrderStore
	clock    func() time.Time
	location *time.Location
}

// NewStatsService constructs the statistics use-case. loc decides calendar days.
func NewStatsService(store OrderStore, clock func() time.Time, loc *time.Location) *StatsService {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{store: store, clock: clock, location: loc}
}

// Snapshot never fails. When orders cannot be loaded it logs the cause and
// returns zeroed figures with Degraded set.
func (s *StatsService) Snapshot(ctx context.Context) Stats {
	now := time.Now()
	if s != nil && s.clock != nil {
		now = s.clock()
	}
	if s == nil || s.store == nil {
		log.Printf("stats degraded: %v", ErrStoreNotConfigured)
		return degradedStats(now)
	}
	orders, err := s.store.ListOrders(ctx, OrderQuery{})
	if err != nil {
		log.Printf("stats degraded: list orders: %v", err)
		return degradedStats(now)
	}
	return ComputeStats(orders, now, s.location)
}

func degradedStats(now time.Time) Stats {
	return Stats{
		StatusCounts: emptyStatusCounts(),
		GeneratedAt:  now.UTC(),
		Degraded:     true,
	}
}
