package dcx

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// writer builds big-endian headers.
type writer struct {
	bytes.Buffer
}

func (w *writer) tag(s string) *writer {
	w.WriteString(s)
	return w
}

func (w *writer) u32(vs ...uint32) *writer {
	for _, v := range vs {
		binary.Write(&w.Buffer, binary.BigEndian, v)
	}
	return w
}

func (w *writer) u8(vs ...uint8) *writer {
	w.Write(vs)
	return w
}

func (w *writer) raw(b []byte) *writer {
	w.Write(b)
	return w
}

func zlibBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}

func deflateBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	fw.Close()
	return buf.Bytes()
}

func buildDCPDeflate(t *testing.T, plain []byte) []byte {
	stream := zlibBytes(t, plain)
	var w writer
	w.tag("DCP\x00").tag("DFLT").u32(0x20, 0x9000000, 0, 0, 0, 0x00010100)
	w.tag("DCS\x00").u32(uint32(len(plain)), uint32(len(stream)))
	w.raw(stream)
	w.tag("DCA\x00").u32(8)
	return w.Bytes()
}

func buildDCXDeflate(t *testing.T, v Variant, plain []byte) []byte {
	s := dfltShapes[v]
	stream := zlibBytes(t, plain)
	var w writer
	w.tag("DCX\x00").u32(s.unk04, 0x18, 0x24, s.unk10, s.unk14())
	w.tag("DCS\x00").u32(uint32(len(plain)), uint32(len(stream)))
	w.tag("DCP\x00").tag("DFLT").u32(0x20)
	w.u8(s.unk30, 0, 0, 0).u32(0)
	w.u8(s.unk38, 0, 0, 0).u32(0)
	w.u32(0x00010100).tag("DCA\x00").u32(8)
	w.raw(stream)
	return w.Bytes()
}

func buildKraken(level uint8, stream []byte, usize uint32) []byte {
	var w writer
	w.tag("DCX\x00").u32(0x11000, 0x18, 0x24, 0x44, 0x4C)
	w.tag("DCS\x00").u32(usize, uint32(len(stream)))
	w.tag("DCP\x00").tag("KRAK").u32(0x20)
	w.u8(level, 0, 0, 0).u32(0, 0, 0, 0x10100)
	w.tag("DCA\x00").u32(8)
	w.raw(stream)
	return w.Bytes()
}

type edgeChunk struct {
	data     []byte
	compress bool
}

// edgeLayout stores chunks back to front so that table order differs
// from physical order. It returns the table entries and the data region.
func edgeLayout(t *testing.T, chunks []edgeChunk) ([]Chunk, []byte, uint32) {
	t.Helper()
	stored := make([][]byte, len(chunks))
	var usize uint32
	for i, ch := range chunks {
		stored[i] = ch.data
		if ch.compress {
			stored[i] = deflateBytes(t, ch.data)
		}
		usize += uint32(len(ch.data))
	}

	table := make([]Chunk, len(chunks))
	var region []byte
	for i := len(chunks) - 1; i >= 0; i-- {
		table[i] = Chunk{Offset: uint32(len(region)), Size: uint32(len(stored[i])), Compressed: chunks[i].compress}
		region = append(region, stored[i]...)
	}
	return table, region, usize
}

func writeTable(w *writer, table []Chunk) {
	for _, ch := range table {
		flag := uint32(0)
		if ch.Compressed {
			flag = 1
		}
		w.u32(0, ch.Offset, ch.Size, flag)
	}
}

type edgeOpts struct {
	usize    *uint32
	egdtSize *uint32
	region   *uint32
	trailing *uint32
}

func buildDCPEdge(t *testing.T, chunks []edgeChunk, o edgeOpts) []byte {
	table, region, usize := edgeLayout(t, chunks)
	if o.usize != nil {
		usize = *o.usize
	}
	n := uint32(len(table))
	egdt := 0x20 + 16*n
	if o.egdtSize != nil {
		egdt = *o.egdtSize
	}

	var w writer
	w.tag("DCP\x00").tag("EDGE").u32(0x20, 0x9000000, 0x10000, 0, 0, 0x00100100)
	w.tag("DCS\x00").u32(usize, uint32(len(region)), 0)
	w.raw(region)
	w.tag("DCA\x00").u32(0x28 + 16*n)
	w.tag("EgdT").u32(0x00010000, 0x20, 0x10, 0x10000, egdt, n, 0x100000)
	writeTable(&w, table)
	return w.Bytes()
}

func buildDCXEdge(t *testing.T, chunks []edgeChunk, o edgeOpts) []byte {
	table, region, usize := edgeLayout(t, chunks)
	if o.usize != nil {
		usize = *o.usize
	}
	n := uint32(len(table))
	egdt := 0x24 + 16*n
	if o.egdtSize != nil {
		egdt = *o.egdtSize
	}
	regionSize := 0x50 + 16*n
	if o.region != nil {
		regionSize = *o.region
	}
	trailing := usize % 0x10000
	if trailing == 0 {
		trailing = 0x10000
	}
	if o.trailing != nil {
		trailing = *o.trailing
	}
	dcaSize := 0x2C + 16*n

	var w writer
	w.tag("DCX\x00").u32(0x10000, 0x18, 0x24, 0x24, regionSize)
	w.tag("DCS\x00").u32(usize, uint32(len(region)))
	w.tag("DCP\x00").tag("EDGE").u32(0x20, 0x9000000, 0x10000, 0, 0, 0x00100100)
	w.tag("DCA\x00").u32(dcaSize)
	w.tag("EgdT").u32(0x00010100, 0x24, 0x10, 0x10000, trailing, egdt, n, 0x100000)
	writeTable(&w, table)
	w.raw(region)
	return w.Bytes()
}

func ptr(v uint32) *uint32 { return &v }

var threeChunks = []edgeChunk{
	{data: []byte("AAA")},
	{data: []byte("BBBBBB"), compress: true},
	{data: []byte("C")},
}
