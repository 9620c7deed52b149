//go:build std_flate
// +build std_flate

package compression

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
)

const flateImplementation = "compress/flate"

type ZlibDecompressor struct{}

// NewZlibDecompressor creates a zlib decompressor. The adler32 trailer is verified.
func NewZlibDecompressor() Decompressor {
	return &ZlibDecompressor{}
}

func (d *ZlibDecompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readAllHint(r, sizeHint)
}

func (d *ZlibDecompressor) DecompressLimit(data []byte, limit int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readAllLimit(r, limit)
}

func (d *ZlibDecompressor) Type() CompressionType {
	return TypeZlib
}

func (d *ZlibDecompressor) Implementation() string {
	return "Go Standard Library (compress/zlib)"
}

type DeflateDecompressor struct{}

// NewDeflateDecompressor creates a decompressor for headerless deflate streams
func NewDeflateDecompressor() Decompressor {
	return &DeflateDecompressor{}
}

func (d *DeflateDecompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return readAllHint(r, sizeHint)
}

func (d *DeflateDecompressor) DecompressLimit(data []byte, limit int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return readAllLimit(r, limit)
}

func (d *DeflateDecompressor) Type() CompressionType {
	return TypeDeflate
}

func (d *DeflateDecompressor) Implementation() string {
	return "Go Standard Library (compress/flate)"
}
