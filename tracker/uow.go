package tracker

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Tx is the transactional surface handed to queued operations.
// It hides GORM from callers that only need to write rows.
type Tx interface {
	Create(value any) error
	Delete(value any, conds ...any) (int64, error)
	Exec(sql string, values ...any) error
}

type gormTx struct{ db *gorm.DB }

func (t gormTx) Create(value any) error { return t.db.Create(value).Error }

func (t gormTx) Delete(value any, conds ...any) (int64, error) {
	res := t.db.Delete(value, conds...)
	return res.RowsAffected, res.Error
}

func (t gormTx) Exec(sql string, values ...any) error { return t.db.Exec(sql, values...).Error }

// Operation is a deferred write executed inside the commit transaction.
// Returning an error rolls the whole unit back.
type Operation func(tx Tx) error

// UnitOfWork collects inserts, deletes and custom operations and applies them
// in one transaction on Commit. Create one per request; the root *gorm.DB is
// shared and safe for concurrent use.
type UnitOfWork struct {
	root *gorm.DB

	toCreate []any
	toDelete []any
	ops      []Operation

	// afterCommit runs outside the transaction, only when it committed.
	afterCommit []func()

	mu sync.Mutex
}

// New returns an empty unit of work over root.
func New(root *gorm.DB) *UnitOfWork {
	return &UnitOfWork{root: root}
}

// Add tracks an entity, including its owned associations, to be inserted on commit.
func (u *UnitOfWork) Add(entity any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toCreate = append(u.toCreate, entity)
}

// RegisterDelete tracks an entity to be deleted by primary key on commit.
func (u *UnitOfWork) RegisterDelete(entity any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toDelete = append(u.toDelete, entity)
}

// Do queues a custom operation. Operations run after inserts and before
// deletes, in queue order, so they can clear rows that block a delete.
func (u *UnitOfWork) Do(op Operation) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ops = append(u.ops, op)
}

// AfterCommit registers a callback for a successful commit.
func (u *UnitOfWork) AfterCommit(cb func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.afterCommit = append(u.afterCommit, cb)
}

// Commit applies all pending work in a single transaction.
// On error nothing is written and the pending work stays queued; call Clear to drop it.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	creates := append([]any(nil), u.toCreate...)
	deletes := append([]any(nil), u.toDelete...)
	ops := append([]Operation(nil), u.ops...)
	afterCommit := append([]func(){}, u.afterCommit...)
	u.mu.Unlock()

	err := u.root.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range creates {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		for _, op := range ops {
			if err := op(gormTx{db: tx}); err != nil {
				return err
			}
		}
		for _, e := range deletes {
			if err := tx.Delete(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.Clear()
	for _, cb := range afterCommit {
		func() { defer func() { _ = recover() }(); cb() }()
	}
	return nil
}

// Clear discards all pending work and callbacks.
func (u *UnitOfWork) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toCreate = nil
	u.toDelete = nil
	u.ops = nil
	u.afterCommit = nil
}
