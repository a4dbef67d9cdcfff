package batch

import (
	"context"
	"sync/atomic"
)

// CancelToken is the cooperative stop flag handed to Run. The loop checks it
// between poses only.
type CancelToken interface {
	Cancelled(ctx context.Context) bool
	Cancel(ctx context.Context) error
	Reset(ctx context.Context) error
}

// MemoryToken is an in-process CancelToken.
type MemoryToken struct {
	flag atomic.Bool
}

func NewMemoryToken() *MemoryToken {
	return &MemoryToken{}
}

func (t *MemoryToken) Cancelled(context.Context) bool {
	return t.flag.Load()
}

func (t *MemoryToken) Cancel(context.Context) error {
	t.flag.Store(true)
	return nil
}

func (t *MemoryToken) Reset(context.Context) error {
	t.flag.Store(false)
	return nil
}
