// Package dcx detects and decompresses DCX/DCP game-asset containers.
//
// A buffer is classified into one of the known header layouts, every fixed
// header field is checked, and the payload is inflated (zlib and EDGE
// variants) or handed to a native Oodle runtime (Kraken). Any mismatch is
// returned as an error; no partial output is ever returned.
package dcx

import (
	"fmt"
	"log/slog"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
	"github.com/xishang0128/dcx-dumper-go/compression"
	"github.com/xishang0128/dcx-dumper-go/oodle"
)

// CodecResolver picks an Oodle service for a Kraken compression level.
// *oodle.Registry implements it.
type CodecResolver interface {
	ForLevel(level int) (oodle.Service, error)
}

// Options configures a Decoder. The zero value is usable.
type Options struct {
	Logger *slog.Logger
	// Codecs resolves Kraken decoders. Nil means oodle.Default().
	Codecs CodecResolver
	// KrakenLevel, when non-zero, is the only level byte accepted in a
	// DCX_KRAK header. Zero accepts levels 6 and 9.
	KrakenLevel uint8
	// Decompressors performs zlib and deflate inflation. Nil means a fresh manager.
	Decompressors *compression.DecompressorManager
}

// Decoder decompresses containers. It is safe for concurrent use.
type Decoder struct {
	logger        *slog.Logger
	codecs        CodecResolver
	krakenLevel   uint8
	decompressors *compression.DecompressorManager
}

func NewDecoder(opts Options) *Decoder {
	d := &Decoder{
		logger:        opts.Logger,
		codecs:        opts.Codecs,
		krakenLevel:   opts.KrakenLevel,
		decompressors: opts.Decompressors,
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.decompressors == nil {
		d.decompressors = compression.NewDecompressorManager()
	}
	return d
}

func (d *Decoder) resolver() CodecResolver {
	if d.codecs != nil {
		return d.codecs
	}
	return oodle.Default()
}

var defaultDecoder = NewDecoder(Options{})

// Decompress decodes buf with a default Decoder.
func Decompress(buf []byte) ([]byte, error) {
	return defaultDecoder.Decompress(buf)
}

// DecompressIfNecessary decodes buf with a default Decoder when it is a container.
func DecompressIfNecessary(buf []byte) ([]byte, Variant, error) {
	return defaultDecoder.DecompressIfNecessary(buf)
}

// Inspect reads the header of buf with a default Decoder.
func Inspect(buf []byte) (*Header, error) {
	return defaultDecoder.Inspect(buf)
}

// Decompress returns the payload of a container or bare zlib stream.
func (d *Decoder) Decompress(buf []byte) ([]byte, error) {
	out, _, err := d.DecompressVariant(buf)
	return out, err
}

// DecompressVariant is Decompress that also reports the detected variant.
func (d *Decoder) DecompressVariant(buf []byte) ([]byte, Variant, error) {
	if !LooksLikeContainer(buf) && !looksLikeZlib(buf) {
		return nil, VariantUnknown, ErrNotAContainer
	}

	c := cursor.New(buf, true)
	h, err := d.parse(c)
	if err != nil {
		return nil, h.Variant, err
	}
	d.logger.Debug("decompressing container",
		"variant", h.Variant.String(),
		"uncompressed_size", h.UncompressedSize,
		"compressed_size", h.CompressedSize,
		"chunks", len(h.Chunks))

	var out []byte
	switch {
	case h.Variant == VariantEdgeV1 || h.Variant == VariantEdgeV2:
		out, err = d.reconstruct(c, h)
	case h.Variant == VariantExternalKraken:
		out, err = d.decodeKraken(h)
	default:
		out, err = d.inflate(h)
	}
	if err != nil {
		return nil, h.Variant, fmt.Errorf("%s: %w", h.Variant, err)
	}
	return out, h.Variant, nil
}

// DecompressIfNecessary returns buf unchanged with VariantNone when it has
// no DCP/DCX magic, and decodes it otherwise.
func (d *Decoder) DecompressIfNecessary(buf []byte) ([]byte, Variant, error) {
	if !LooksLikeContainer(buf) {
		return buf, VariantNone, nil
	}
	return d.DecompressVariant(buf)
}

// Inspect validates the header of buf and describes it without decompressing.
func (d *Decoder) Inspect(buf []byte) (*Header, error) {
	if !LooksLikeContainer(buf) && !looksLikeZlib(buf) {
		return nil, ErrNotAContainer
	}
	h, err := d.parse(cursor.New(buf, true))
	if err != nil {
		return nil, err
	}
	return h, nil
}
