// Package tasktest provides an in-memory task.DocumentStore for tests.
// Failures can be injected per operation to exercise remote-error paths.
package tasktest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/colonyops/taskboard/internal/core/task"
)

// ErrInjected is the default error returned by a failing operation.
var ErrInjected = errors.New("injected store failure")

// Op names a DocumentStore operation for failure injection.
type Op string

const (
	OpCreate Op = "create"
	OpQuery  Op = "query"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Store is a goroutine-safe in-memory document store.
type Store struct {
	mu     sync.Mutex
	docs   []task.Document
	nextID int
	fail   map[Op]error
	calls  map[Op]int
}

var _ task.DocumentStore = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		fail:  make(map[Op]error),
		calls: make(map[Op]int),
	}
}

// Seed inserts documents directly, bypassing CreateDocument.
func (s *Store) Seed(docs ...task.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, docs...)
}

// FailOn makes every subsequent call of op return err (ErrInjected if nil).
func (s *Store) FailOn(op Op, err error) {
	if err == nil {
		err = ErrInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// Recover clears every injected failure.
func (s *Store) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.fail)
}

// Calls returns how many times op was invoked, including failed calls.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Doc returns the stored document with id.
func (s *Store) Doc(id string) (task.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return task.Document{}, false
	}
	return s.docs[i], true
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Store) CreateDocument(_ context.Context, fields task.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(OpCreate); err != nil {
		return "", err
	}

	s.nextID++
	id := fmt.Sprintf("doc-%d", s.nextID)
	s.docs = append(s.docs, task.Document{ID: id, Fields: fields})
	return id, nil
}

func (s *Store) QueryByOwner(_ context.Context, ownerID string) ([]task.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(OpQuery); err != nil {
		return nil, err
	}

	out := make([]task.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if d.Fields.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) UpdateDocument(_ context.Context, id string, patch task.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(OpUpdate); err != nil {
		return err
	}

	i := s.indexOf(id)
	if i < 0 {
		return task.ErrDocumentNotFound
	}
	patch.ApplyTo(&s.docs[i].Fields)
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(OpDelete); err != nil {
		return err
	}

	i := s.indexOf(id)
	if i < 0 {
		return task.ErrDocumentNotFound
	}
	s.docs = slices.Delete(s.docs, i, i+1)
	return nil
}

func (s *Store) check(op Op) error {
	s.calls[op]++
	return s.fail[op]
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.docs, func(d task.Document) bool { return d.ID == id })
}

// Identity is a settable task.Identity.
type Identity struct {
	mu     sync.Mutex
	userID string
}

// NewIdentity returns an Identity signed in as userID ("" for signed out).
func NewIdentity(userID string) *Identity {
	return &Identity{userID: userID}
}

// Set changes the signed-in user.
func (i *Identity) Set(userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.userID = userID
}

func (i *Identity) CurrentUserID() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.userID, i.userID != ""
}
