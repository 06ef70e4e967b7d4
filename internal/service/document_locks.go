package service

import (
	"sync"

	"github.com/google/uuid"
)

// documentLocks serialises writers per document. Entries are dropped once no
// goroutine holds or waits on them.
type documentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newDocumentLocks() *documentLocks {
	return &documentLocks{locks: make(map[uuid.UUID]*lockEntry)}
}

// lock acquires the mutex for docID and returns its release func.
func (l *documentLocks) lock(docID uuid.UUID) func() {
	l.mu.Lock()
	e, ok := l.locks[docID]
	if !ok {
		e = &lockEntry{}
		l.locks[docID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, docID)
		}
		l.mu.Unlock()
	}
}

func (l *documentLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
