package dcx

import (
	"errors"
	"fmt"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
	"github.com/xishang0128/dcx-dumper-go/compression"
)

const (
	edgeChunkUnit  = 0x10000
	chunkEntrySize = 16
)

// DCP_EDGE:
//
//	0x00 "DCP\0" "EDGE" 0x20 0x9000000 0x10000 0 0 0x00100100
//	0x20 "DCS\0" usize csize 0
//	0x30 chunk data (csize bytes), chunk offsets are relative to here
//	     "DCA\0" dcaSize "EgdT" 0x00010000 0x20 0x10 0x10000 egdtSize count 0x100000
//	     count x 16-byte chunk entries
func parseDCPEdge(c *cursor.Cursor, h *Header) error {
	var dcaSize, egdtSize, count uint32
	err := fieldChecks(
		ascii(c, magicDCP),
		ascii(c, "EDGE"),
		u32(c, 0x20),
		u32(c, 0x9000000),
		u32(c, 0x10000),
		u32(c, 0),
		u32(c, 0),
		u32(c, 0x00100100),
		ascii(c, "DCS\x00"),
		sizes(c, h),
		u32(c, 0),
		func() error {
			h.base = c.Position()
			return c.Skip(int(h.CompressedSize))
		},
		ascii(c, "DCA\x00"),
		readU32(c, &dcaSize),
		ascii(c, "EgdT"),
		u32(c, 0x00010000),
		u32(c, 0x20),
		u32(c, 0x10),
		u32(c, edgeChunkUnit),
		readU32(c, &egdtSize),
		readU32(c, &count),
		u32(c, 0x100000),
	)
	if err != nil {
		return err
	}
	if want := 0x20 + chunkEntrySize*uint64(count); uint64(egdtSize) != want {
		return fmt.Errorf("%w: EgdT size %#x, expected %#x for %d chunks", ErrChunkTableSize, egdtSize, want, count)
	}
	h.Chunks, err = readChunkTable(c, count, h.base)
	return err
}

// DCX_EDGE:
//
//	0x00 "DCX\0" 0x10000 0x18 0x24 0x24 regionSize
//	0x18 "DCS\0" usize csize
//	0x24 "DCP\0" "EDGE" 0x20 0x9000000 0x10000 0 0 0x00100100
//	0x44 "DCA\0" dcaSize "EgdT" 0x00010100 0x24 0x10 0x10000 trailing egdtSize count 0x100000
//	0x70 count x 16-byte chunk entries
//	     chunk data, offsets relative to 0x44 + dcaSize
func parseDCXEdge(c *cursor.Cursor, h *Header) error {
	var regionSize, dcaSize, trailing, egdtSize, count uint32
	var dcaStart int
	err := fieldChecks(
		ascii(c, magicDCX),
		u32(c, 0x10000),
		u32(c, 0x18),
		u32(c, 0x24),
		u32(c, 0x24),
		readU32(c, &regionSize),
		ascii(c, "DCS\x00"),
		sizes(c, h),
		ascii(c, magicDCP),
		ascii(c, "EDGE"),
		u32(c, 0x20),
		u32(c, 0x9000000),
		u32(c, 0x10000),
		u32(c, 0),
		u32(c, 0),
		u32(c, 0x00100100),
		func() error {
			dcaStart = c.Position()
			return nil
		},
		ascii(c, "DCA\x00"),
		readU32(c, &dcaSize),
		ascii(c, "EgdT"),
		u32(c, 0x00010100),
		u32(c, 0x24),
		u32(c, 0x10),
		u32(c, edgeChunkUnit),
		readU32(c, &trailing),
		readU32(c, &egdtSize),
		readU32(c, &count),
		u32(c, 0x100000),
	)
	if err != nil {
		return err
	}

	wantTrailing := h.UncompressedSize % edgeChunkUnit
	if wantTrailing == 0 {
		wantTrailing = edgeChunkUnit
	}
	if trailing != wantTrailing {
		return fmt.Errorf("%w: %#x, expected %#x for uncompressed size %#x", ErrTrailingChunkSize, trailing, wantTrailing, h.UncompressedSize)
	}
	if want := 0x50 + chunkEntrySize*uint64(count); uint64(regionSize) != want {
		return fmt.Errorf("%w: %#x, expected %#x for %d chunks", ErrChunkRegionSize, regionSize, want, count)
	}
	if want := 0x24 + chunkEntrySize*uint64(count); uint64(egdtSize) != want {
		return fmt.Errorf("%w: EgdT size %#x, expected %#x for %d chunks", ErrChunkTableSize, egdtSize, want, count)
	}

	h.base = dcaStart + int(dcaSize)
	h.Chunks, err = readChunkTable(c, count, h.base)
	return err
}

func readU32(c *cursor.Cursor, dst *uint32) func() error {
	return func() error {
		var err error
		*dst, err = c.ReadUint32()
		return err
	}
}

// readChunkTable reads count entries at the cursor and checks that every
// chunk lies inside the buffer.
func readChunkTable(c *cursor.Cursor, count uint32, base int) ([]Chunk, error) {
	if uint64(count)*chunkEntrySize > uint64(c.Remaining()) {
		return nil, fmt.Errorf("%w: chunk table of %d entries at %#x", ErrOutOfBounds, count, c.Position())
	}
	chunks := make([]Chunk, count)
	for i := range chunks {
		var flag uint32
		err := fieldChecks(
			u32(c, 0),
			readU32(c, &chunks[i].Offset),
			readU32(c, &chunks[i].Size),
			func() error {
				var err error
				flag, err = c.AssertUint32(0, 1)
				return err
			},
		)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		chunks[i].Compressed = flag == 1
		if _, err := c.Slice(base+int(chunks[i].Offset), int(chunks[i].Size)); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return chunks, nil
}

// reconstruct appends every chunk in table order, inflating compressed ones.
// The result must be exactly the declared uncompressed size.
func (d *Decoder) reconstruct(c *cursor.Cursor, h *Header) ([]byte, error) {
	want := int(h.UncompressedSize)
	out := make([]byte, 0, min(want, len(h.Chunks)*edgeChunkUnit, compression.MaxSizeHint))
	for i, ch := range h.Chunks {
		data, err := c.Slice(h.base+int(ch.Offset), int(ch.Size))
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		if ch.Compressed {
			// A chunk never decodes past the chunk unit or the declared size.
			limit := min(want-len(out), edgeChunkUnit)
			data, err = d.decompressors.DecompressLimit(compression.TypeDeflate, data, limit)
			if errors.Is(err, compression.ErrOutputLimit) {
				return nil, fmt.Errorf("%w: chunk %d inflates past %#x bytes", ErrChunkOutputLength, i, limit)
			}
			if err != nil {
				return nil, fmt.Errorf("chunk %d: %w: %w", i, ErrStream, err)
			}
		}
		if len(out)+len(data) > want {
			return nil, fmt.Errorf("%w: chunk %d overflows declared size %#x", ErrChunkOutputLength, i, want)
		}
		out = append(out, data...)
	}
	if len(out) != want {
		return nil, fmt.Errorf("%w: chunks produced %#x bytes, declared %#x", ErrChunkOutputLength, len(out), want)
	}
	return out, nil
}
