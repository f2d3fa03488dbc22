// append_log.go — Generic append-only log with a one-way seal.
// Holds the entries captured during one debugging session. Entries keep
// arrival order; once sealed, the log rejects further writes so late
// completions after detach are dropped instead of leaking into the next flush.
// Thread-safe: all access guarded by RWMutex.
package buffers

import "sync"

// ============================================
// AppendLog
// ============================================

// AppendLog is an unbounded, append-only buffer that can be sealed exactly once.
type AppendLog[T any] struct {
	mu sync.RWMutex

	entries []T
	sealed  bool
}

// NewAppendLog creates an empty, writable log.
func NewAppendLog[T any]() *AppendLog[T] {
	return &AppendLog[T]{}
}

// Append adds entry at the end of the log.
// Returns false if the log has been sealed and the entry was dropped.
func (l *AppendLog[T]) Append(entry T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sealed {
		return false
	}
	l.entries = append(l.entries, entry)
	return true
}

// ReadAll returns a copy of all entries, oldest first.
func (l *AppendLog[T]) ReadAll() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Seal stops further appends and returns the final contents.
// Calling Seal again returns the same contents.
func (l *AppendLog[T]) Seal() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sealed = true
	return l.snapshotLocked()
}

// Len returns the number of entries in the log.
func (l *AppendLog[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// snapshotLocked copies entries, must be called with mu held.
func (l *AppendLog[T]) snapshotLocked() []T {
	out := make([]T, len(l.entries))
	copy(out, l.entries)
	return out
}
