package gateway

import (
	"sync"
	"sync/atomic"
)

// BufferPool recycles textures between routine calls.
type BufferPool struct {
	pool  sync.Pool
	inUse atomic.Int64
}

// NewBufferPool creates an empty pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{}
}

// Get returns a texture of exactly size pixels. Its content is undefined.
func (bp *BufferPool) Get(size int) Texture {
	bp.inUse.Add(1)

	if v, ok := bp.pool.Get().(*Texture); ok && cap(*v) >= size {
		return (*v)[:size]
	}

	return make(Texture, size)
}

// Put hands a texture obtained from Get back to the pool.
func (bp *BufferPool) Put(tex Texture) {
	bp.inUse.Add(-1)
	bp.pool.Put(&tex)
}

// InUse is the number of textures handed out and not yet returned.
func (bp *BufferPool) InUse() int64 {
	return bp.inUse.Load()
}
