// Package compression provides unified decompression interfaces for DCX payloads
// and the decoded-payload cache.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"runtime"
)

type CompressionType int

const (
	TypeNone CompressionType = iota
	TypeZlib
	TypeDeflate
	TypeZSTD
	TypeLZ4
	TypeXZ
)

// String returns the string representation of compression type
func (t CompressionType) String() string {
	switch t {
	case TypeZlib:
		return "zlib"
	case TypeDeflate:
		return "deflate"
	case TypeZSTD:
		return "zstd"
	case TypeLZ4:
		return "lz4"
	case TypeXZ:
		return "xz"
	default:
		return "none"
	}
}

// MaxSizeHint caps the output preallocation taken from a size hint.
// Hints come from untrusted headers.
const MaxSizeHint = 256 << 20

// Decompressor is the interface for decompression operations.
// sizeHint is the expected output length, or 0 when unknown.
type Decompressor interface {
	Decompress(data []byte, sizeHint int) ([]byte, error)
	Type() CompressionType
	Implementation() string
}

// ErrOutputLimit is returned by DecompressLimit when the output would
// exceed the limit.
var ErrOutputLimit = errors.New("decompressed output exceeds limit")

// LimitedDecompressor stops inflating once limit bytes have been produced.
// Stream codecs implement it so untrusted input cannot force large allocations.
type LimitedDecompressor interface {
	DecompressLimit(data []byte, limit int) ([]byte, error)
}

type DecompressorManager struct {
	decompressors map[CompressionType]Decompressor
}

// NewDecompressorManager creates a new decompressor manager with all available decompressors
func NewDecompressorManager() *DecompressorManager {
	manager := &DecompressorManager{
		decompressors: make(map[CompressionType]Decompressor),
	}

	manager.decompressors[TypeNone] = noneDecompressor{}
	manager.decompressors[TypeZlib] = NewZlibDecompressor()
	manager.decompressors[TypeDeflate] = NewDeflateDecompressor()
	manager.decompressors[TypeZSTD] = NewZSTDDecompressor()
	manager.decompressors[TypeLZ4] = NewLZ4Decompressor()
	manager.decompressors[TypeXZ] = NewXZDecompressor()

	return manager
}

// Decompress decompresses data using the specified compression type
func (m *DecompressorManager) Decompress(compType CompressionType, data []byte, sizeHint int) ([]byte, error) {
	decompressor, err := m.GetDecompressor(compType)
	if err != nil {
		return nil, err
	}
	return decompressor.Decompress(data, sizeHint)
}

// DecompressLimit decompresses data and fails with ErrOutputLimit when the
// output would be longer than limit bytes.
func (m *DecompressorManager) DecompressLimit(compType CompressionType, data []byte, limit int) ([]byte, error) {
	decompressor, err := m.GetDecompressor(compType)
	if err != nil {
		return nil, err
	}
	if ld, ok := decompressor.(LimitedDecompressor); ok {
		return ld.DecompressLimit(data, limit)
	}
	out, err := decompressor.Decompress(data, limit)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrOutputLimit, len(out), limit)
	}
	return out, nil
}

// GetDecompressor returns the decompressor for the specified type
func (m *DecompressorManager) GetDecompressor(compType CompressionType) (Decompressor, error) {
	decompressor, exists := m.decompressors[compType]
	if !exists {
		return nil, fmt.Errorf("unsupported compression type: %s", compType.String())
	}
	return decompressor, nil
}

// GetSupportedTypes returns all supported compression types
func (m *DecompressorManager) GetSupportedTypes() []CompressionType {
	types := make([]CompressionType, 0, len(m.decompressors))
	for t := range m.decompressors {
		types = append(types, t)
	}
	return types
}

// GetImplementationInfo returns information about the implementation of each decompressor
func (m *DecompressorManager) GetImplementationInfo() map[CompressionType]string {
	info := make(map[CompressionType]string)
	for t, d := range m.decompressors {
		info[t] = d.Implementation()
	}
	return info
}

// GetBuildInfo returns build information about compression support
func GetBuildInfo() map[string]interface{} {
	return map[string]interface{}{
		"go_version": runtime.Version(),
		"goos":       runtime.GOOS,
		"goarch":     runtime.GOARCH,
		"flate":      flateImplementation,
	}
}

// readAllHint drains r into a buffer presized from sizeHint.
func readAllHint(r io.Reader, sizeHint int) ([]byte, error) {
	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(min(sizeHint, MaxSizeHint))
	}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readAllLimit drains at most limit+1 bytes from r and fails with
// ErrOutputLimit when the extra byte was produced.
func readAllLimit(r io.Reader, limit int) ([]byte, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrOutputLimit, limit)
	}
	out, err := readAllHint(io.LimitReader(r, int64(limit)+1), limit)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: limit %d", ErrOutputLimit, limit)
	}
	return out, nil
}

type noneDecompressor struct{}

func (noneDecompressor) Decompress(data []byte, _ int) ([]byte, error) {
	return bytes.Clone(data), nil
}

func (noneDecompressor) Type() CompressionType  { return TypeNone }
func (noneDecompressor) Implementation() string { return "copy" }
