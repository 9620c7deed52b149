package dcx

import (
	"fmt"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
)

// Levels accepted in a DCX_KRAK header when no level is configured.
var krakenLevels = []uint8{6, 9}

func (d *Decoder) krakenLevels() []uint8 {
	if d.krakenLevel != 0 {
		return []uint8{d.krakenLevel}
	}
	return krakenLevels
}

// DCX_KRAK:
//
//	0x00 "DCX\0" 0x11000 0x18 0x24 0x44 0x4C
//	0x18 "DCS\0" usize csize
//	0x24 "DCP\0" "KRAK" 0x20
//	0x30 level 0 0 0, 0, 0, 0, 0x10100
//	0x44 "DCA\0" 8
//	0x4C Kraken stream (csize bytes)
func parseKraken(c *cursor.Cursor, h *Header, levels []uint8) error {
	return fieldChecks(
		ascii(c, magicDCX),
		u32(c, 0x11000),
		u32(c, 0x18),
		u32(c, 0x24),
		u32(c, 0x44),
		u32(c, 0x4C),
		ascii(c, "DCS\x00"),
		sizes(c, h),
		ascii(c, magicDCP),
		ascii(c, "KRAK"),
		u32(c, 0x20),
		func() error {
			var err error
			h.Level, err = c.AssertUint8(levels...)
			return err
		},
		u8(c, 0), u8(c, 0), u8(c, 0),
		u32(c, 0),
		u32(c, 0),
		u32(c, 0),
		u32(c, 0x10100),
		ascii(c, "DCA\x00"),
		u32(c, 8),
		func() error {
			var err error
			h.stream, err = c.Span(int(h.CompressedSize))
			return err
		},
	)
}

func (d *Decoder) decodeKraken(h *Header) ([]byte, error) {
	svc, err := d.resolver().ForLevel(int(h.Level))
	if err != nil {
		return nil, err
	}
	d.logger.Debug("kraken codec selected", "level", h.Level, "revision", svc.Revision().String())

	out, err := svc.Decompress(h.stream, int(h.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStream, err)
	}
	if len(out) != int(h.UncompressedSize) {
		return nil, fmt.Errorf("%w: codec returned %#x bytes, declared %#x", ErrStream, len(out), h.UncompressedSize)
	}
	return out, nil
}
