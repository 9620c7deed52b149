package compression

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

// maxZSTDWindow bounds decoder memory for frames read from cache entries.
const maxZSTDWindow = MaxSizeHint

type ZSTDDecompressor struct {
	decoder *zstd.Decoder
}

// NewZSTDDecompressor creates a ZSTD decompressor backed by klauspost/compress.
func NewZSTDDecompressor() Decompressor {
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(maxZSTDWindow))
	if err != nil {
		decoder, _ = zstd.NewReader(nil)
	}

	return &ZSTDDecompressor{
		decoder: decoder,
	}
}

func (d *ZSTDDecompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	var dst []byte
	if sizeHint > 0 {
		dst = make([]byte, 0, min(sizeHint, MaxSizeHint))
	}
	return d.decoder.DecodeAll(data, dst)
}

func (d *ZSTDDecompressor) DecompressLimit(data []byte, limit int) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(data),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxZSTDWindow))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readAllLimit(r, limit)
}

func (d *ZSTDDecompressor) Type() CompressionType {
	return TypeZSTD
}

func (d *ZSTDDecompressor) Implementation() string {
	return "Pure Go (klauspost/compress/zstd)"
}
