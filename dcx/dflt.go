package dcx

import (
	"fmt"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
	"github.com/xishang0128/dcx-dumper-go/compression"
)

func parseInlineZlib(c *cursor.Cursor, h *Header) error {
	if err := checkZlibHeader(c, 0); err != nil {
		return err
	}
	h.CompressedSize = uint32(c.Len())
	h.stream, _ = c.Slice(0, c.Len())
	return nil
}

// DCP_DFLT:
//
//	0x00 "DCP\0" "DFLT" 0x20 0x9000000 0 0 0 0x00010100
//	0x20 "DCS\0" usize csize
//	0x2C zlib stream (csize bytes)
//	     "DCA\0" 8
func parseDCPDeflate(c *cursor.Cursor, h *Header) error {
	return fieldChecks(
		ascii(c, magicDCP),
		ascii(c, "DFLT"),
		u32(c, 0x20),
		u32(c, 0x9000000),
		u32(c, 0),
		u32(c, 0),
		u32(c, 0),
		u32(c, 0x00010100),
		ascii(c, "DCS\x00"),
		sizes(c, h),
		zlibStream(c, h),
		ascii(c, "DCA\x00"),
		u32(c, 8),
	)
}

// DCX_DFLT:
//
//	0x00 "DCX\0" unk04 0x18 0x24 unk10 unk14
//	0x18 "DCS\0" usize csize
//	0x24 "DCP\0" "DFLT" 0x20
//	0x30 unk30 0 0 0, 0
//	0x38 unk38 0 0 0, 0
//	0x40 0x00010100 "DCA\0" headerLen
//	0x4C zlib stream (csize bytes)
func parseDCXDeflate(c *cursor.Cursor, h *Header) error {
	shape, ok := dfltShapes[h.Variant]
	if !ok {
		return ErrUnknownFormat
	}
	h.Level = shape.unk30
	return fieldChecks(
		ascii(c, magicDCX),
		u32(c, shape.unk04),
		u32(c, 0x18),
		u32(c, 0x24),
		u32(c, shape.unk10),
		u32(c, shape.unk14()),
		ascii(c, "DCS\x00"),
		sizes(c, h),
		ascii(c, magicDCP),
		ascii(c, "DFLT"),
		u32(c, 0x20),
		u8(c, shape.unk30), u8(c, 0), u8(c, 0), u8(c, 0),
		u32(c, 0),
		u8(c, shape.unk38), u8(c, 0), u8(c, 0), u8(c, 0),
		u32(c, 0),
		u32(c, 0x00010100),
		ascii(c, "DCA\x00"),
		func() error {
			// Compressed header length; not constant across files.
			_, err := c.ReadUint32()
			return err
		},
		zlibStream(c, h),
	)
}

// inflate decodes the single zlib stream of the DFLT family.
func (d *Decoder) inflate(h *Header) ([]byte, error) {
	out, err := d.decompressors.Decompress(compression.TypeZlib, h.stream, int(h.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStream, err)
	}
	return out, nil
}
