package poll

import (
	"fmt"
	"slices"
	"strings"
)

// Change describes what a detector saw between two snapshots.
type Change struct {
	// NewOrderIDs lists orders that were not in the previous snapshot,
	// ascending. Empty for detectors that only count.
	NewOrderIDs []int64
	// PendingBefore and PendingAfter are the pending order counts of the
	// two snapshots.
	PendingBefore int
	PendingAfter  int
}

// Detector decides whether a new snapshot warrants a notification.
type Detector interface {
	Detect(previous, current Snapshot) (Change, bool)
}

// PendingCountDetector notifies when the number of pending orders grew.
// A new order that arrives while another leaves pending goes unnoticed.
type PendingCountDetector struct{}

// Detect implements Detector.
func (PendingCountDetector) Detect(previous, current Snapshot) (Change, bool) {
	change := Change{
		PendingBefore: previous.PendingOrders(),
		PendingAfter:  current.PendingOrders(),
	}
	return change, change.PendingAfter > change.PendingBefore
}

// NewestIDDetector notifies when any order id exceeds the largest id of the
// previous snapshot.
type NewestIDDetector struct{}

// Detect implements Detector.
func (NewestIDDetector) Detect(previous, current Snapshot) (Change, bool) {
	change := Change{
		PendingBefore: previous.PendingOrders(),
		PendingAfter:  current.PendingOrders(),
	}
	newest := previous.NewestOrderID()
	for _, order := range current.Orders {
		if order.ID > newest {
			change.NewOrderIDs = append(change.NewOrderIDs, order.ID)
		}
	}
	slices.Sort(change.NewOrderIDs)
	return change, len(change.NewOrderIDs) > 0
}

// Detector names accepted by ParseDetector.
const (
	DetectorNewestID     = "newest-id"
	DetectorPendingCount = "pending-count"
)

// ParseDetector maps a configuration value to a detector. Empty selects
// the newest-id detector.
func ParseDetector(name string) (Detector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DetectorNewestID:
		return NewestIDDetector{}, nil
	case DetectorPendingCount:
		return PendingCountDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown change detector %q", name)
	}
}
