// Package session owns the record logs of one running process. Hosts create a
// Session from a storage.ByteStore and pass it to every handler that reads or
// appends records.
package session

import (
	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/electricity"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/storage"
	"github.com/iwvelando/calcdash/pkg/task"
	"go.uber.org/zap"
)

// Session bundles a handle per persisted collection. Handles serialise access
// within this process only; concurrent writers in other processes can lose
// updates.
type Session struct {
	Appliances *Handle[electricity.Appliance]
	Expenses   *Handle[expense.Expense]
	Sleep      *Handle[sleep.Record]
	Tasks      *Handle[task.Task]
	Grocery    *GroceryHandle

	store  storage.ByteStore
	logger *zap.Logger
}

// New returns a Session whose handles read and write through store.
func New(store storage.ByteStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		Appliances: newHandle[electricity.Appliance](store, constants.KeyAppliances, logger),
		Expenses:   newHandle[expense.Expense](store, constants.KeyExpenses, logger),
		Sleep:      newHandle[sleep.Record](store, constants.KeySleep, logger),
		Tasks:      newHandle[task.Task](store, constants.KeyTasks, logger),
		Grocery:    newGroceryHandle(store, logger),
		store:      store,
		logger:     logger,
	}
}

// Store returns the byte store behind the session.
func (s *Session) Store() storage.ByteStore {
	return s.store
}

// Invalidate drops the cached snapshot stored under key. It reports whether
// key belongs to one of the session's collections.
func (s *Session) Invalidate(key string) bool {
	var h interface{ Invalidate() }
	switch key {
	case constants.KeyAppliances:
		h = s.Appliances
	case constants.KeyExpenses:
		h = s.Expenses
	case constants.KeySleep:
		h = s.Sleep
	case constants.KeyTasks:
		h = s.Tasks
	case constants.KeyGrocery:
		h = s.Grocery
	default:
		return false
	}
	h.Invalidate()
	s.logger.Debug("invalidated cached snapshot",
		zap.String("op", "session.Invalidate"),
		zap.String("key", key),
	)
	return true
}

// Close releases the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}
