package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// TxManager serializes transactional functions. The in-memory stores cannot roll back,
// so multi-record writes rely on running one at a time. Nested calls join the outer one.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// DoReadOnly runs fn without serializing. Reads already return copies.
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
