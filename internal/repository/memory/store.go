// Package memory is an in-process storage backend. It satisfies the same
// repository contracts as the Postgres backend and is used for local runs and
// handler tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

// Store holds both tables behind one lock so company deletes can cascade.
// Employees keep insertion order, which is the tie order for stable sorts.
type Store struct {
	mu        sync.RWMutex
	companies map[uuid.UUID]model.Company
	employees []model.Employee
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		companies: map[uuid.UUID]model.Company{},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// undoLog collects the inverse of every write made inside one unit of work.
// Steps are appended and replayed with Store.mu held.
type undoLog struct{ steps []func() }

// journal records undo for the unit of work bound to ctx, if any.
// The caller holds s.mu.
func (s *Store) journal(ctx context.Context, undo func()) {
	if l, ok := ctx.Value(txKey{}).(*undoLog); ok {
		l.steps = append(l.steps, undo)
	}
}

// rollback reverts only the writes recorded in l, newest first, so writes made
// by other requests meanwhile survive.
func (s *Store) rollback(l *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i]()
	}
}

func (s *Store) removeEmployee(id uuid.UUID) {
	s.employees = slices.DeleteFunc(s.employees, func(e model.Employee) bool { return e.ID == id })
}

// putEmployee replaces e by id, or inserts it at index at (clamped).
func (s *Store) putEmployee(e model.Employee, at int) {
	if i := slices.IndexFunc(s.employees, func(cur model.Employee) bool { return cur.ID == e.ID }); i >= 0 {
		s.employees[i] = e
		return
	}
	s.employees = slices.Insert(s.employees, min(at, len(s.employees)), e)
}

func (s *Store) companyNameTaken(name string, except uuid.UUID) bool {
	for id, c := range s.companies {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

type txKey struct{}

type txManager struct{ store *Store }

// NewTxManager returns a TxManager that undoes the unit of work's own writes
// when it fails. Reads inside the unit are not isolated from other writers.
func NewTxManager(s *Store) repository.TxManager { return &txManager{store: s} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	l := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, l)); err != nil {
		m.store.rollback(l)
		return err
	}
	return nil
}

type pinger struct{}

// NewPinger reports the memory store as always ready unless ctx is done.
func NewPinger() repository.Pinger { return pinger{} }

func (pinger) Ping(ctx context.Context) error { return ctx.Err() }

var (
	_ repository.TxManager = (*txManager)(nil)
	_ repository.Pinger    = pinger{}
)
