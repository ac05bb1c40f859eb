// Package pool keeps reusable scratch buffers for the textual renderers.
package pool

import (
	"sync"

	"github.com/arloliu/wire/buffer"
)

const (
	// ScratchDefaultSize is the initial capacity of a pooled scratch buffer.
	ScratchDefaultSize = 1024 * 4 // 4KiB
	// ScratchMaxThreshold is the largest capacity kept in the pool.
	ScratchMaxThreshold = 1024 * 256 // 256KiB
)

// BufferPool is a pool of buffers to minimize allocations.
//
// Buffers whose capacity grew beyond maxThreshold are dropped on Put instead of
// being retained.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewBufferPool creates a pool handing out buffers of defaultSize capacity.
func NewBufferPool(defaultSize int, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return buffer.New(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty buffer from the pool.
func (bp *BufferPool) Get() *buffer.Buffer {
	bb, _ := bp.pool.Get().(*buffer.Buffer)
	return bb
}

// Put returns bb to the pool for reuse.
func (bp *BufferPool) Put(bb *buffer.Buffer) {
	if bb == nil {
		return
	}

	if bp.maxThreshold > 0 && bb.Cap() > bp.maxThreshold {
		return
	}

	bb.Reset()
	bp.pool.Put(bb)
}

var scratchPool = NewBufferPool(ScratchDefaultSize, ScratchMaxThreshold)

// GetScratch retrieves a buffer from the default scratch pool.
func GetScratch() *buffer.Buffer {
	return scratchPool.Get()
}

// PutScratch returns a buffer to the default scratch pool.
func PutScratch(bb *buffer.Buffer) {
	scratchPool.Put(bb)
}
