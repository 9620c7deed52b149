package dumper

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/xishang0128/dcx-dumper-go/common/file"
	"github.com/xishang0128/dcx-dumper-go/common/i18n"
)

// ExtractionStrategy defines the extraction strategy type
type ExtractionStrategy int

const (
	// StrategySequential decodes files one by one to minimize memory use
	StrategySequential ExtractionStrategy = iota
	// StrategyAdaptive decodes largest files first on a pool of workers
	// bounded by the workload balancer
	StrategyAdaptive
)

func (s ExtractionStrategy) String() string {
	switch s {
	case StrategySequential:
		return "sequential"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("ExtractionStrategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name.
func ParseStrategy(name string) (ExtractionStrategy, error) {
	switch name {
	case "sequential":
		return StrategySequential, nil
	case "adaptive", "":
		return StrategyAdaptive, nil
	default:
		return 0, fmt.Errorf(i18n.I18nMsg.Extract.ErrorInvalidStrategy, name)
	}
}

// tracker serializes progress callbacks.
type tracker struct {
	mu        sync.Mutex
	total     int
	completed int
	callback  ProgressCallback
}

func newTracker(total int, cb ProgressCallback) *tracker {
	return &tracker{total: total, callback: cb}
}

func (t *tracker) done(e ManifestEntry, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed++
	if t.callback == nil {
		return
	}
	t.callback(ProgressInfo{
		FileName:       e.Name,
		SizeReadable:   formatSize(e.Size),
		BytesWritten:   e.Size,
		CompletedFiles: t.completed,
		TotalFiles:     t.total,
		Cached:         e.Cached,
		Err:            err,
	})
}

// extractSequential processes files one by one.
func (d *Dumper) extractSequential(inputs []Input, outputDir string, t *tracker) ([]ManifestEntry, error) {
	entries := make([]ManifestEntry, 0, len(inputs))
	for _, in := range inputs {
		entry, err := d.extractOne(in, outputDir)
		entries = append(entries, entry)
		t.done(entry, err)
		if err != nil {
			d.logger.Error(fmt.Sprintf(i18n.I18nMsg.Dumper.ErrorFailedToProcessFile, in.Name, err))
			if d.strict {
				return entries, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToProcessFile, in.Name, err)
			}
		}
	}
	return entries, nil
}

type fileWork struct {
	index int
	input Input
	size  int64
}

// extractAdaptive sorts files largest first and runs them on a worker pool.
// Each worker reserves the file's size with the balancer before reading it,
// so the bytes held in memory at once stay bounded.
func (d *Dumper) extractAdaptive(inputs []Input, outputDir string, workers int, t *tracker) ([]ManifestEntry, error) {
	queue := make([]fileWork, len(inputs))
	var totalSize int64
	for i, in := range inputs {
		queue[i] = fileWork{index: i, input: in, size: inputSize(in)}
		totalSize += queue[i].size
	}
	sort.SliceStable(queue, func(a, b int) bool { return queue[a].size > queue[b].size })

	if workers <= 0 {
		workers = d.calculateOptimalWorkers(runtime.NumCPU(), len(queue), totalSize)
	}
	workers = min(workers, len(queue))

	workChan := make(chan fileWork, len(queue))
	for _, w := range queue {
		workChan <- w
	}
	close(workChan)

	entries := make([]ManifestEntry, len(inputs))
	processed := make([]bool, len(inputs))
	var (
		wg       sync.WaitGroup
		stop     atomic.Bool
		firstErr error
		errOnce  sync.Once
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for w := range workChan {
				if stop.Load() {
					continue
				}
				d.balancer.acquire(w.size)
				entry, err := d.extractOne(w.input, outputDir)
				d.balancer.release(w.size)

				entries[w.index] = entry
				processed[w.index] = true
				t.done(entry, err)

				if err != nil {
					d.logger.Error(fmt.Sprintf(i18n.I18nMsg.Dumper.ErrorWorkerFailedToProcessFile, workerID, w.input.Name, err))
					if d.strict {
						stop.Store(true)
						errOnce.Do(func() {
							firstErr = fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToProcessFile, w.input.Name, err)
						})
					}
				}
			}
		}(i)
	}
	wg.Wait()

	out := make([]ManifestEntry, 0, len(inputs))
	for i, e := range entries {
		if processed[i] {
			out = append(out, e)
		}
	}
	return out, firstErr
}

// calculateOptimalWorkers sizes the pool from the CPU count and the
// average file size: many small files get more workers than a few large ones.
func (d *Dumper) calculateOptimalWorkers(numCPU, fileCount int, totalSize int64) int {
	if fileCount == 0 {
		return 1
	}
	base := min(fileCount, numCPU)

	avg := totalSize / int64(fileCount)
	switch {
	case avg < 1024*1024:
		base = min(numCPU*2, fileCount)
	case avg > 64*1024*1024:
		base = max(1, base/2)
	}
	return max(1, min(base, d.balancer.workers()))
}

// inputSize is the on-disk size of a local input, or 0 when unknown.
func inputSize(in Input) int64 {
	if file.IsURL(in.Path) {
		return 0
	}
	st, err := os.Stat(in.Path)
	if err != nil {
		return 0
	}
	return st.Size()
}
