package compression

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

type LZ4Decompressor struct{}

// NewLZ4Decompressor creates a decompressor for LZ4 blocks. Block data
// carries no length, so sizeHint must be the exact output size.
func NewLZ4Decompressor() Decompressor {
	return &LZ4Decompressor{}
}

func (d *LZ4Decompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if sizeHint < 0 {
		return nil, fmt.Errorf("lz4: invalid output size %d", sizeHint)
	}
	dst := make([]byte, sizeHint)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if n != sizeHint {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, sizeHint)
	}
	return dst, nil
}

func (d *LZ4Decompressor) Type() CompressionType {
	return TypeLZ4
}

func (d *LZ4Decompressor) Implementation() string {
	return "Pure Go (pierrec/lz4/v4)"
}
