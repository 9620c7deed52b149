package dumper

import (
	"runtime"
	"sync"
)

// WorkloadBalancer bounds how many files are decoded at once and how many
// input bytes they hold between them.
type WorkloadBalancer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	maxCon   int
	current  int
	inflight int64
}

func newBalancer(maxCon int) *WorkloadBalancer {
	wb := &WorkloadBalancer{maxCon: max(1, maxCon)}
	wb.cond = sync.NewCond(&wb.mu)
	return wb
}

// budget is the input bytes allowed in flight. Decoded payloads are
// usually several times larger than inputs, so a quarter of
// MaxBufferSize is reserved for reads.
func budget() int64 {
	if MaxBufferSize <= 0 {
		return 0
	}
	return MaxBufferSize / 4
}

// acquire blocks until a slot is free and size fits in the byte budget.
// A file larger than the whole budget runs alone.
func (wb *WorkloadBalancer) acquire(size int64) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	for !wb.fits(size) {
		wb.cond.Wait()
	}
	wb.current++
	wb.inflight += size
}

func (wb *WorkloadBalancer) fits(size int64) bool {
	if wb.current >= wb.maxCon {
		return false
	}
	if wb.current == 0 {
		return true
	}
	limit := budget()
	return limit == 0 || wb.inflight+size <= limit
}

func (wb *WorkloadBalancer) release(size int64) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	if wb.current > 0 {
		wb.current--
		wb.inflight -= size
	}
	wb.cond.Broadcast()
}

// workers returns the concurrency limit.
func (wb *WorkloadBalancer) workers() int {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.maxCon
}

var globalBalancer = newBalancer(runtime.NumCPU() * 2)

// GetGlobalBalancer returns the global workload balancer
func GetGlobalBalancer() *WorkloadBalancer {
	return globalBalancer
}
