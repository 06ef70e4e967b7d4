// Package memory provides in-process implementations of the repository
// ports. It backs the "memory" store driver used for local runs and tests.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"docrecon/internal/domain"
)

type pageKey struct {
	docID uuid.UUID
	page  int
}

type correctionEntry struct {
	blob    string
	updated map[int]time.Time
}

// Store holds all in-memory state. Repositories created from the same Store
// share it, so deleting a document cascades like the SQL schema does.
type Store struct {
	mu          sync.RWMutex
	docs        map[uuid.UUID]domain.Document
	pages       map[pageKey]domain.Page
	ocr         map[pageKey]domain.OCRText
	editable    map[pageKey]domain.EditableText
	corrections map[uuid.UUID]*correctionEntry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		docs:        map[uuid.UUID]domain.Document{},
		pages:       map[pageKey]domain.Page{},
		ocr:         map[pageKey]domain.OCRText{},
		editable:    map[pageKey]domain.EditableText{},
		corrections: map[uuid.UUID]*correctionEntry{},
	}
}

// deleteDocumentLocked removes a document and everything that hangs off it.
func (s *Store) deleteDocumentLocked(docID uuid.UUID) {
	delete(s.docs, docID)
	for k := range s.pages {
		if k.docID == docID {
			delete(s.pages, k)
		}
	}
	for k := range s.ocr {
		if k.docID == docID {
			delete(s.ocr, k)
		}
	}
	for k := range s.editable {
		if k.docID == docID {
			delete(s.editable, k)
		}
	}
	delete(s.corrections, docID)
}
