// Package session holds the single active spec document and runs the request
// inspection pipeline against it.
package session

import (
	"errors"
	"sync"

	"github.com/kolah/truffle/internal/loader"
	"github.com/kolah/truffle/internal/model"
)

// ErrNoDocument is returned while no document has been committed.
var ErrNoDocument = errors.New("no spec document loaded")

// Ticket identifies one in-flight discovery or import.
type Ticket uint64

type Session struct {
	mu     sync.Mutex
	issued Ticket
	active *active
}

type active struct {
	ticket Ticket
	doc    *model.SpecDocument
	spec   func() (*model.Spec, error)
}

func New() *Session {
	return &Session{}
}

// Begin issues a ticket newer than every ticket issued before.
func (s *Session) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit replaces the active document with doc, unless a newer ticket has been
// issued since t, in which case doc is stale and is dropped.
func (s *Session) Commit(t Ticket, doc *model.SpecDocument) bool {
	if doc == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.issued {
		return false
	}
	s.active = &active{
		ticket: t,
		doc:    doc,
		spec:   sync.OnceValues(func() (*model.Spec, error) { return loader.Load(doc) }),
	}
	return true
}

// Document returns the active document, or nil.
func (s *Session) Document() *model.SpecDocument {
	if a := s.current(); a != nil {
		return a.doc
	}
	return nil
}

// Spec parses the active document on first use and caches the result until the
// document is replaced.
func (s *Session) Spec() (*model.Spec, error) {
	a := s.current()
	if a == nil {
		return nil, ErrNoDocument
	}
	return a.spec()
}

func (s *Session) current() *active {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
