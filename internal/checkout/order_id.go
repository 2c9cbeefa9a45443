package checkout

import (
	"fmt"
	"sync"
	"time"
)

// OrderIDs issues "FN" + the last eight digits of the Unix millisecond clock.
// The underlying counter never repeats, so two orders placed in the same
// millisecond still differ. The eight digits wrap roughly every 27 hours,
// so IDs are unique within a process for that long, not ordered.
type OrderIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewOrderIDs(now func() time.Time) *OrderIDs {
	if now == nil {
		now = time.Now
	}
	return &OrderIDs{now: now}
}

func (g *OrderIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("FN%08d", ms%100_000_000)
}
