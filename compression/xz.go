package compression

import (
	"bytes"

	"github.com/ulikunitz/xz"
)

type XZDecompressor struct{}

// NewXZDecompressor creates an XZ decompressor using the pure Go implementation.
func NewXZDecompressor() Decompressor {
	return &XZDecompressor{}
}

func (d *XZDecompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	reader, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return readAllHint(reader, sizeHint)
}

func (d *XZDecompressor) DecompressLimit(data []byte, limit int) ([]byte, error) {
	reader, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return readAllLimit(reader, limit)
}

func (d *XZDecompressor) Type() CompressionType {
	return TypeXZ
}

func (d *XZDecompressor) Implementation() string {
	return "Pure Go (ulikunitz/xz)"
}
