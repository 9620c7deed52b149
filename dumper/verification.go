package dumper

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/dcx"
)

const (
	defaultVerifyBufSize = 1 * 1024 * 1024
	minVerifyBufSize     = 64 * 1024
	verifyJobsBuffer     = 64
)

// VerificationManager checks extracted files against a manifest. Each job
// hashes the output file and, when a decoder is given, decodes the input
// again and compares that digest too.
type VerificationManager struct {
	enabled   bool
	decoder   *dcx.Decoder
	manifest  *Manifest
	outputDir string

	jobs      chan string
	wg        sync.WaitGroup
	results   map[string]error
	resultsMu sync.Mutex
}

// NewVerificationManager starts verification workers when enabled.
// A nil decoder skips re-decoding inputs.
func NewVerificationManager(decoder *dcx.Decoder, m *Manifest, outputDir string, enabled bool) *VerificationManager {
	vm := &VerificationManager{
		enabled:   enabled,
		decoder:   decoder,
		manifest:  m,
		outputDir: outputDir,
		results:   make(map[string]error),
	}
	if !enabled {
		return vm
	}

	vm.jobs = make(chan string, verifyJobsBuffer)
	bufSize := vm.calcVerifyBufSize()
	for range vm.calcVerifyWorkerCount() {
		go vm.verificationWorker(bufSize)
	}
	return vm
}

// AddVerificationJob queues the manifest entry for name.
func (vm *VerificationManager) AddVerificationJob(name string) {
	if vm.enabled {
		vm.wg.Add(1)
		vm.jobs <- name
	}
}

// WaitForCompletion waits for all queued jobs and stops the workers.
func (vm *VerificationManager) WaitForCompletion() {
	if vm.enabled {
		vm.wg.Wait()
		close(vm.jobs)
	}
}

// GetResults returns the verification results
func (vm *VerificationManager) GetResults() map[string]error {
	vm.resultsMu.Lock()
	defer vm.resultsMu.Unlock()

	results := make(map[string]error, len(vm.results))
	for k, v := range vm.results {
		results[k] = v
	}
	return results
}

// VerifyManifest checks every entry of m and returns the results by name.
func VerifyManifest(decoder *dcx.Decoder, m *Manifest, outputDir string) map[string]error {
	vm := NewVerificationManager(decoder, m, outputDir, true)
	for _, e := range m.Files {
		vm.AddVerificationJob(e.Name)
	}
	vm.WaitForCompletion()
	return vm.GetResults()
}

func (vm *VerificationManager) calcVerifyWorkerCount() int {
	cpuCount := runtime.NumCPU()
	if cpuCount <= 4 {
		return cpuCount
	}
	return cpuCount - 1
}

func (vm *VerificationManager) calcVerifyBufSize() int {
	if MaxBufferSize <= 0 {
		return defaultVerifyBufSize
	}
	return int(max(minVerifyBufSize, min(MaxBufferSize/64, 4*defaultVerifyBufSize)))
}

func (vm *VerificationManager) verificationWorker(bufSize int) {
	buf := make([]byte, bufSize)
	for name := range vm.jobs {
		err := vm.verifyWithRetry(name, buf)
		vm.resultsMu.Lock()
		vm.results[name] = err
		vm.resultsMu.Unlock()
		vm.wg.Done()
	}
}

// verifyWithRetry retries on Windows, where freshly written files can be
// briefly locked by scanners.
func (vm *VerificationManager) verifyWithRetry(name string, buf []byte) error {
	attempts := 1
	if runtime.GOOS == "windows" {
		attempts = 3
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(time.Duration(i*100) * time.Millisecond)
		}
		if err = vm.verifyFile(name, buf); err == nil {
			return nil
		}
	}
	return err
}

func (vm *VerificationManager) verifyFile(name string, buf []byte) error {
	e, ok := vm.manifest.Lookup(name)
	if !ok {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorNotInManifest, name)
	}
	if e.Error != "" {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorRecordedFailure, e.Error)
	}

	size, sum, err := hashFile(filepath.Join(vm.outputDir, filepath.FromSlash(e.Output)), buf)
	if err != nil {
		return err
	}
	if size != e.Size {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorSizeMismatch, e.Size, size)
	}
	if sum != e.XXH3 {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorDigestMismatch, e.XXH3, sum)
	}

	if vm.decoder == nil {
		return nil
	}
	data, release, err := readInput(GetGlobalMemoryPool(), e.Input)
	if err != nil {
		return err
	}
	defer release()
	if e.InputXXH3 != "" {
		if got := digest(data); got != e.InputXXH3 {
			return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorInputChanged, e.InputXXH3, got)
		}
	}
	out, _, err := vm.decoder.DecompressVariant(data)
	if err != nil {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToDecode, err)
	}
	if got := digest(out); got != e.XXH3 {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorDigestMismatch, e.XXH3, got)
	}
	return nil
}

func hashFile(path string, buf []byte) (uint64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := xxh3.New()
	n, err := io.CopyBuffer(h, f, buf)
	if err != nil {
		return 0, "", err
	}
	return uint64(n), fmt.Sprintf("%016x", h.Sum64()), nil
}
