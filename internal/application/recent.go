package application

import (
	"sync"

	"github.com/jobrunner/tessera/internal/domain"
)

// defaultRecentCapacity bounds the in-memory result history.
const defaultRecentCapacity = 100

// RecentLog keeps a bounded, process-lifetime history of pipeline results
// for the status API and health checks. Nothing here persists across
// restarts.
type RecentLog struct {
	mu       sync.RWMutex
	results  []domain.Result
	capacity int
	total    int
}

// NewRecentLog creates a recent-result log with the given capacity.
// A capacity of zero or less uses the default.
func NewRecentLog(capacity int) *RecentLog {
	if capacity <= 0 {
		capacity = defaultRecentCapacity
	}
	return &RecentLog{capacity: capacity}
}

// Record appends a result, evicting the oldest entry when full.
func (l *RecentLog) Record(result domain.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, result)
	if len(l.results) > l.capacity {
		l.results = l.results[len(l.results)-l.capacity:]
	}
	l.total++
}

// List returns recorded results, newest first.
func (l *RecentLog) List() []domain.Result {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Result, len(l.results))
	for i, r := range l.results {
		out[len(l.results)-1-i] = r
	}
	return out
}

// Last returns the most recent result, if any.
func (l *RecentLog) Last() (domain.Result, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.results) == 0 {
		return domain.Result{}, false
	}
	return l.results[len(l.results)-1], true
}

// Total returns the number of results recorded since process start.
func (l *RecentLog) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}
