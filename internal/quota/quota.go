package quota

import (
	"time"

	"github.com/vzlrn/cardcasebot/internal/domain"
)

// Default quota values, overridable through configuration.
const (
	DefaultDailyLimit = 3
	DefaultWindow     = 24 * time.Hour
)

// Quota enforces the rolling-window cap on free-tier opens. It is a
// client-trusted soft limit: Register never rejects an over-limit open,
// the caller is responsible for checking Remaining first.
type Quota struct {
	Limit  int
	Window time.Duration
}

// New creates a quota, substituting defaults for non-positive values.
func New(limit int, window time.Duration) Quota {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return Quota{Limit: limit, Window: window}
}

// Remaining returns how many free opens are left in the window ending at now.
// Opens are re-filtered against the current time on every call, so the stored
// sequence never has to be pruned for correctness.
func (q Quota) Remaining(state *domain.UserState, now time.Time) int {
	used := 0
	for _, t := range state.Opens {
		if now.Sub(t) < q.Window {
			used++
		}
	}
	if used >= q.Limit {
		return 0
	}
	return q.Limit - used
}

// Register records a free open at now. It appends unconditionally.
func (q Quota) Register(state *domain.UserState, now time.Time) {
	state.Opens = append(state.Opens, now)
}

// Prune drops opens that have aged out of the window. Optional; called on
// save to bound storage growth.
func (q Quota) Prune(state *domain.UserState, now time.Time) {
	kept := state.Opens[:0]
	for _, t := range state.Opens {
		if now.Sub(t) < q.Window {
			kept = append(kept, t)
		}
	}
	state.Opens = kept
}
