package dumper

import (
	"sync"
)

// poolBuckets are the capacities read buffers are rounded up to. Larger
// requests round to a whole MiB.
var poolBuckets = []int{
	64 * 1024,
	256 * 1024,
	1024 * 1024,
	4 * 1024 * 1024,
	16 * 1024 * 1024,
	64 * 1024 * 1024,
}

// MemoryPool keeps container read buffers for reuse across files.
type MemoryPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

func NewMemoryPool() *MemoryPool {
	return &MemoryPool{
		pools: make(map[int]*sync.Pool),
	}
}

// Get returns a slice of length size.
func (mp *MemoryPool) Get(size int) []byte {
	bkt := bucket(size)
	if !poolable(bkt) {
		return make([]byte, size)
	}

	buf := mp.pool(bkt).Get().(*[]byte)
	return (*buf)[:size]
}

// Put returns a slice obtained from Get. Slices not from a bucket, or
// larger than a quarter of MaxBufferSize, are left to the GC.
func (mp *MemoryPool) Put(buf []byte) {
	c := cap(buf)
	if c == 0 || c != bucket(c) || !poolable(c) {
		return
	}
	buf = buf[:c]
	mp.pool(c).Put(&buf)
}

func (mp *MemoryPool) pool(bkt int) *sync.Pool {
	mp.mu.RLock()
	p, ok := mp.pools[bkt]
	mp.mu.RUnlock()
	if ok {
		return p
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()
	if p, ok = mp.pools[bkt]; !ok {
		p = &sync.Pool{
			New: func() any {
				b := make([]byte, bkt)
				return &b
			},
		}
		mp.pools[bkt] = p
	}
	return p
}

func bucket(size int) int {
	for _, b := range poolBuckets {
		if size <= b {
			return b
		}
	}
	const mib = 1024 * 1024
	return (size + mib - 1) / mib * mib
}

func poolable(bkt int) bool {
	return MaxBufferSize <= 0 || int64(bkt) <= MaxBufferSize/4
}

var globalMemoryPool = NewMemoryPool()

// GetGlobalMemoryPool returns the global memory pool
func GetGlobalMemoryPool() *MemoryPool {
	return globalMemoryPool
}
