// Package render turns dashboard snapshots and changes into localized text.
package render

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/i18n/catalog"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/client"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/poll"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "pt-BR"

// Renderer formats dashboard text for one locale.
type Renderer struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a renderer for locale using the embedded catalogs. Unsupported
// locales are matched to the closest available one.
func New(locale string) (*Renderer, error) {
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load message catalogs: %w", err)
	}
	return NewWithBundle(bundle, locale)
}

// NewWithBundle builds a renderer backed by bundle.
func NewWithBundle(bundle *catalog.Bundle, locale string) (*Renderer, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	requested, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	builder, err := bundle.Builder()
	if err != nil {
		return nil, err
	}
	tag := language.Make(catalog.BaseLocale)
	if languages := builder.Languages(); len(languages) > 0 {
		_, index, _ := builder.Matcher().Match(requested)
		tag = languages[index]
	}
	return &Renderer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Language reports the locale actually used.
func (r *Renderer) Language() language.Tag {
	return r.tag
}

// Money formats cents in Brazilian reais.
func (r *Renderer) Money(cents int64) string {
	amount := decimal.New(cents, -2).InexactFloat64()
	return r.printer.Sprint(currency.Symbol(currency.BRL.Amount(amount)))
}

// Status returns the localized order status label.
func (r *Renderer) Status(status string) string {
	key := "core.status." + status
	label := r.printer.Sprintf(key)
	if label == key {
		return status
	}
	return label
}

// NewOrders renders the notification for a detected change.
func (r *Renderer) NewOrders(change poll.Change) string {
	// Count-based detection reports no ids.
	if len(change.NewOrderIDs) <= 1 {
		return r.printer.Sprintf("dashboard.new_order")
	}
	return r.printer.Sprintf("dashboard.new_orders", len(change.NewOrderIDs))
}

// OrderLine renders a one-line order summary.
func (r *Renderer) OrderLine(order client.Order) string {
	return r.printer.Sprintf("dashboard.order_line", order.ID, r.Money(order.TotalCents), r.Status(order.Status))
}

// Summary renders the stats and pending counters of a snapshot.
func (r *Renderer) Summary(snapshot poll.Snapshot) []string {
	lines := []string{r.printer.Sprintf("dashboard.pending_orders", snapshot.PendingOrders())}

	pendingReservations := 0
	for _, reservation := range snapshot.Reservations {
		if reservation.Status == "pending" {
			pendingReservations++
		}
	}
	lines = append(lines, r.printer.Sprintf("dashboard.pending_reservations", pendingReservations))

	stats := snapshot.Stats
	if stats.Degraded {
		return append(lines, r.printer.Sprintf("dashboard.stats_degraded"))
	}
	return append(lines, r.printer.Sprintf("dashboard.stats_summary",
		stats.DailyOrders,
		r.Money(stats.RevenueLast7DaysCents),
		stats.OrdersLast7Days,
		r.Money(stats.AverageTicketCents),
	))
}

// LogNotifier logs localized notifications for each detected change.
type LogNotifier struct {
	Renderer *Renderer
	Logf     func(string, ...any)
}

// Notify implements poll.Notifier.
func (n LogNotifier) Notify(_ context.Context, change poll.Change, snapshot poll.Snapshot) {
	logf := n.Logf
	if logf == nil {
		logf = log.Printf
	}
	logf("%s", n.Renderer.NewOrders(change))

	wanted := make(map[int64]struct{}, len(change.NewOrderIDs))
	for _, id := range change.NewOrderIDs {
		wanted[id] = struct{}{}
	}
	for _, order := range snapshot.Orders {
		if _, ok := wanted[order.ID]; ok {
			logf("%s", n.Renderer.OrderLine(order))
		}
	}
	for _, line := range n.Renderer.Summary(snapshot) {
		logf("%s", line)
	}
}
