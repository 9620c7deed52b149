package dumper

import (
	"fmt"
	"log/slog"

	"github.com/xishang0128/dcx-dumper-go/cache"
	"github.com/xishang0128/dcx-dumper-go/dcx"
)

// Dumper decompresses a batch of DCX containers.
type Dumper struct {
	inputs   []Input
	decoder  *dcx.Decoder
	cache    *cache.Store
	logger   *slog.Logger
	suffixes []string
	strict   bool
	pool     *MemoryPool
	balancer *WorkloadBalancer
}

// Options configures a Dumper. The zero value is usable.
type Options struct {
	// Decoder decodes containers. Nil means a decoder with default options.
	Decoder *dcx.Decoder
	// Cache, when set, is consulted before decoding and filled after.
	Cache  *cache.Store
	Logger *slog.Logger
	// Suffixes are stripped from input names to form output names and
	// select files when an input is a directory. Nil means [".dcx"].
	Suffixes []string
	// Strict aborts a batch at the first failing file.
	Strict bool
}

// Input is one container to process.
type Input struct {
	// Path is a local path or an HTTP URL.
	Path string
	// Name is the path relative to the directory the input was found in,
	// or the base name for inputs given directly.
	Name string
}

// MaxBufferSize bounds the total size of read buffers the memory pool
// keeps for reuse. Value is in bytes.
var MaxBufferSize int64 = 512 * 1024 * 1024

// FileInfo describes one input container without decoding it.
type FileInfo struct {
	Name             string `json:"name"`
	Path             string `json:"path"`
	Variant          string `json:"variant"`
	Size             int64  `json:"size"`
	UncompressedSize uint32 `json:"uncompressed_size"`
	CompressedSize   uint32 `json:"compressed_size"`
	Level            uint8  `json:"level,omitempty"`
	Chunks           int    `json:"chunks,omitempty"`
	SizeReadable     string `json:"size_readable"`
	Error            string `json:"error,omitempty"`
}

// ProgressInfo reports the state of a batch after each file.
type ProgressInfo struct {
	FileName       string `json:"file_name"`
	SizeReadable   string `json:"size_readable"`
	BytesWritten   uint64 `json:"bytes_written"`
	CompletedFiles int    `json:"completed_files"`
	TotalFiles     int    `json:"total_files"`
	Cached         bool   `json:"cached"`
	Err            error  `json:"-"`
}

// ProgressCallback is a function type for receiving progress updates
type ProgressCallback func(progress ProgressInfo)

// formatSize converts bytes into a human-readable string.
func formatSize(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fGB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1fKB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
