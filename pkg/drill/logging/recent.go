package logging

import (
	"sync"
	"time"
)

// DefaultRecentSize is the number of records kept by the TUI buffer.
const DefaultRecentSize = 50

// Record is a log message kept for on-screen display.
type Record struct {
	Time      time.Time
	Level     Level
	Component string
	Message   string
}

// Recent is a fixed-size ring of the latest records.
type Recent struct {
	mu      sync.RWMutex
	records []Record
	start   int
	count   int
}

// NewRecent creates a ring holding up to size records.
func NewRecent(size int) *Recent {
	if size <= 0 {
		size = DefaultRecentSize
	}
	return &Recent{records: make([]Record, size)}
}

// Add appends r, overwriting the oldest record when full.
func (b *Recent) Add(r Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records[(b.start+b.count)%len(b.records)] = r
	if b.count < len(b.records) {
		b.count++
	} else {
		b.start = (b.start + 1) % len(b.records)
	}
}

// Last returns up to n of the newest records, newest last.
func (b *Recent) Last(n int) []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n = min(n, b.count)
	out := make([]Record, n)
	for i := range n {
		out[i] = b.records[(b.start+b.count-n+i)%len(b.records)]
	}
	return out
}

// Len returns the number of records held.
func (b *Recent) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
