package security

import (
	"sync"
	"time"
)

// tracker keeps the sliding windows behind the raid and spam heuristics:
// join timestamps per guild and message timestamps per guild member.
// Message windows are trimmed on every record; join windows are trimmed
// lazily by the periodic sweep so a single join stays cheap.
type tracker struct {
	mu    sync.Mutex
	joins map[string][]time.Time
	msgs  map[string]map[string][]time.Time
}

func newTracker() *tracker {
	return &tracker{
		joins: make(map[string][]time.Time),
		msgs:  make(map[string]map[string][]time.Time),
	}
}

// RecordJoin appends a join and returns how many joins fall within the
// window ending at now.
func (t *tracker) RecordJoin(gid string, now time.Time, window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.joins[gid] = append(t.joins[gid], now)

	cutoff := now.Add(-window)
	n := 0
	for _, ts := range t.joins[gid] {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// RecordMessage appends a message timestamp, drops entries outside the
// window and returns the remaining count.
func (t *tracker) RecordMessage(gid, uid string, now time.Time, window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.msgs[gid]
	if !ok {
		users = make(map[string][]time.Time)
		t.msgs[gid] = users
	}

	history := append(users[uid], now)
	cutoff := now.Add(-window)
	kept := history[:0]
	for _, ts := range history {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	users[uid] = kept
	return len(kept)
}

// Sweep drops join entries older than maxAge and forgets guilds whose
// windows emptied out.
func (t *tracker) Sweep(now time.Time, maxAge time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := now.Add(-maxAge)
	for gid, window := range t.joins {
		kept := window[:0]
		for _, ts := range window {
			if !ts.Before(cutoff) {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			delete(t.joins, gid)
			continue
		}
		t.joins[gid] = kept
	}
}
