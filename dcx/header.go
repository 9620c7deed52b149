package dcx

import (
	"fmt"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
)

// Header describes a validated container header.
type Header struct {
	Variant          Variant `json:"variant"`
	UncompressedSize uint32  `json:"uncompressed_size"`
	CompressedSize   uint32  `json:"compressed_size"`
	// Level is the tuning byte at 0x30 for DCX_DFLT and DCX_KRAK headers.
	Level  uint8   `json:"level,omitempty"`
	Chunks []Chunk `json:"chunks,omitempty"`

	// stream is the compressed payload for single-stream variants.
	stream []byte
	// base anchors EDGE chunk offsets.
	base int
}

// Chunk is one EDGE chunk table entry.
type Chunk struct {
	Offset     uint32 `json:"offset"`
	Size       uint32 `json:"size"`
	Compressed bool   `json:"compressed"`
}

// parse classifies the buffer behind c and validates its header.
// The returned header is never nil; on error only Variant is meaningful.
func (d *Decoder) parse(c *cursor.Cursor) (*Header, error) {
	h := &Header{Variant: Classify(c)}

	var err error
	switch h.Variant {
	case VariantInlineZlib:
		err = parseInlineZlib(c, h)
	case VariantInlineDeflateV1:
		err = parseDCPDeflate(c, h)
	case VariantInlineDeflateV2, VariantInlineDeflateV3, VariantInlineDeflateV4,
		VariantInlineDeflateV5, VariantInlineDeflateV6:
		err = parseDCXDeflate(c, h)
	case VariantEdgeV1:
		err = parseDCPEdge(c, h)
	case VariantEdgeV2:
		err = parseDCXEdge(c, h)
	case VariantExternalKraken:
		err = parseKraken(c, h, d.krakenLevels())
	default:
		if headerTruncated(c) {
			return h, fmt.Errorf("%w: container header cut off at %#x bytes", ErrOutOfBounds, c.Len())
		}
		return h, ErrUnknownFormat
	}
	if err != nil {
		return h, fmt.Errorf("%s: %w", h.Variant, err)
	}
	return h, nil
}

// headerTruncated reports whether an unclassified container ends before the
// fields classification needs.
func headerTruncated(c *cursor.Cursor) bool {
	magic, err := c.GetASCII(0, 4)
	if err != nil {
		return false
	}
	switch magic {
	case magicDCP:
		return c.Len() < 8
	case magicDCX:
		if c.Len() < 0x2C {
			return true
		}
		sub, _ := c.GetASCII(0x28, 4)
		return sub == "DFLT" && c.Len() <= 0x38
	}
	return false
}

// fieldChecks runs a sequence of header assertions, stopping at the first failure.
func fieldChecks(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func ascii(c *cursor.Cursor, want string) func() error {
	return func() error {
		_, err := c.AssertASCII(want)
		return err
	}
}

func u32(c *cursor.Cursor, want ...uint32) func() error {
	return func() error {
		_, err := c.AssertUint32(want...)
		return err
	}
}

func u8(c *cursor.Cursor, want ...uint8) func() error {
	return func() error {
		_, err := c.AssertUint8(want...)
		return err
	}
}

// sizes reads the declared uncompressed and compressed sizes that follow "DCS\0".
func sizes(c *cursor.Cursor, h *Header) func() error {
	return func() error {
		var err error
		if h.UncompressedSize, err = c.ReadUint32(); err != nil {
			return err
		}
		h.CompressedSize, err = c.ReadUint32()
		return err
	}
}

// checkZlibHeader validates the two-byte zlib header at offset.
func checkZlibHeader(c *cursor.Cursor, offset int) error {
	cmf, err := c.GetUint8(offset)
	if err != nil {
		return err
	}
	if _, err := cursor.AssertOneOf(offset, cmf, 0x78); err != nil {
		return err
	}
	flg, err := c.GetUint8(offset + 1)
	if err != nil {
		return err
	}
	_, err = cursor.AssertOneOf(offset+1, flg, zlibFlags...)
	return err
}

// zlibStream validates the zlib header at the cursor and consumes the
// declared compressed size.
func zlibStream(c *cursor.Cursor, h *Header) func() error {
	return func() error {
		if err := checkZlibHeader(c, c.Position()); err != nil {
			return err
		}
		var err error
		h.stream, err = c.Span(int(h.CompressedSize))
		return err
	}
}
