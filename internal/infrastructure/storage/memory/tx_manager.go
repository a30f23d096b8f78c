// Package memory provides in-memory repository implementations backed by
// maps and mutexes. Used by tests and usable as an embedded fake; writes
// apply immediately, so the tx manager only provides the call shape.
package memory

import (
	"context"
)

// TxManager satisfies tx.Manager without a real transaction. The domain
// services hold a per-key lock across the whole check-and-write, which is
// what keeps in-memory state consistent.
type TxManager struct{}

// NewTxManager creates a pass-through transaction manager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// RunInTransaction executes fn directly.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ReadOnly executes fn directly.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
