package dcx

import (
	"bytes"
	"errors"
	"math/rand"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
	"github.com/xishang0128/dcx-dumper-go/oodle"
)

var plaintext = bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 64)

func noCodecs() CodecResolver {
	return oodle.NewRegistry(func(oodle.Revision) (oodle.Service, error) {
		return nil, errors.New("not installed")
	}, nil)
}

func newTestDecoder() *Decoder {
	return NewDecoder(Options{Codecs: noCodecs()})
}

func TestLooksLikeContainer(t *testing.T) {
	tests := []struct {
		in   []byte
		want bool
	}{
		{nil, false},
		{[]byte("DCX"), false},
		{[]byte("DCX\x00"), true},
		{[]byte("DCP\x00EDGE"), true},
		{[]byte("DCA\x00"), false},
		{[]byte{0x78, 0xDA, 0, 0}, false},
	}
	for _, tt := range tests {
		if got := LooksLikeContainer(tt.in); got != tt.want {
			t.Errorf("LooksLikeContainer(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want Variant
	}{
		{"empty", nil, VariantUnknown},
		{"one byte", []byte{0x78}, VariantUnknown},
		{"bare zlib", zlibBytes(t, plaintext), VariantInlineZlib},
		{"zlib unknown flags", []byte{0x78, 0x00}, VariantUnknown},
		{"garbage", []byte("hello world"), VariantUnknown},
		{"dcp dflt", buildDCPDeflate(t, plaintext), VariantInlineDeflateV1},
		{"dcp edge", buildDCPEdge(t, threeChunks, edgeOpts{}), VariantEdgeV1},
		{"dcp other", []byte("DCP\x00LZMA"), VariantUnknown},
		{"dcp short", []byte("DCP\x00ED"), VariantUnknown},
		{"dcx edge", buildDCXEdge(t, threeChunks, edgeOpts{}), VariantEdgeV2},
		{"dcx krak", buildKraken(9, []byte{1, 2, 3}, 3), VariantExternalKraken},
		{"dcx short", []byte("DCX\x00\x00\x01"), VariantUnknown},
	}
	for v := range dfltShapes {
		tests = append(tests, struct {
			name string
			buf  []byte
			want Variant
		}{v.String(), buildDCXDeflate(t, v, plaintext), v})
	}

	odd := buildDCXDeflate(t, VariantInlineDeflateV5, plaintext)
	odd[0x38] = 7
	tests = append(tests, struct {
		name string
		buf  []byte
		want Variant
	}{"dflt unknown shape", odd, VariantUnknown})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursor.New(tt.buf, false)
			if len(tt.buf) > 2 {
				c.Seek(2)
			}
			if got := Classify(c); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
			if c.Position() != 0 {
				t.Errorf("cursor left at %d", c.Position())
			}
			if !c.BigEndian() {
				t.Error("cursor not switched to big endian")
			}
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seeds := [][]byte{
		buildDCPDeflate(t, plaintext),
		buildDCXEdge(t, threeChunks, edgeOpts{}),
		buildDCXDeflate(t, VariantInlineDeflateV6, plaintext),
	}
	for i := 0; i < 2000; i++ {
		var buf []byte
		if i%2 == 0 {
			buf = make([]byte, rng.Intn(0x60))
			rng.Read(buf)
			if len(buf) >= 4 && i%4 == 0 {
				copy(buf, "DCX\x00")
			}
		} else {
			seed := seeds[rng.Intn(len(seeds))]
			buf = append([]byte(nil), seed[:rng.Intn(len(seed))]...)
		}
		v := Classify(cursor.New(buf, true))
		if _, ok := variantNames[v]; !ok {
			t.Fatalf("Classify(%x) = %d, not a defined variant", buf, v)
		}
		if ClassifyBytes(buf) != v {
			t.Fatalf("Classify is not deterministic for %x", buf)
		}
	}
}

func TestInlineDeflateRoundTrip(t *testing.T) {
	fixtures := map[Variant][]byte{
		VariantInlineZlib:      zlibBytes(t, plaintext),
		VariantInlineDeflateV1: buildDCPDeflate(t, plaintext),
	}
	for v := range dfltShapes {
		fixtures[v] = buildDCXDeflate(t, v, plaintext)
	}

	d := newTestDecoder()
	for want, buf := range fixtures {
		t.Run(want.String(), func(t *testing.T) {
			got, v, err := d.DecompressVariant(buf)
			if err != nil {
				t.Fatal(err)
			}
			if v != want {
				t.Errorf("variant = %s, want %s", v, want)
			}
			if !bytes.Equal(got, plaintext) {
				t.Errorf("payload mismatch: got %d bytes, want %d", len(got), len(plaintext))
			}
		})
	}
}

func TestFieldValidationRejectsCorruption(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		offset int
		value  byte
	}{
		{"kraken level byte", buildKraken(9, []byte{1}, 1), 0x30, 7},
		{"kraken padding", buildKraken(6, []byte{1}, 1), 0x31, 1},
		{"kraken dca size", buildKraken(6, []byte{1}, 1), 0x4B, 9},
		{"dcx dflt header size", buildDCXDeflate(t, VariantInlineDeflateV4, plaintext), 0x0B, 0x19},
		{"dcx dflt unk14", buildDCXDeflate(t, VariantInlineDeflateV2, plaintext), 0x17, 0x4C},
		{"dcx dflt dcs tag", buildDCXDeflate(t, VariantInlineDeflateV3, plaintext), 0x1A, 'X'},
		{"dcx dflt padding", buildDCXDeflate(t, VariantInlineDeflateV6, plaintext), 0x3A, 1},
		{"dcx dflt zlib header", buildDCXDeflate(t, VariantInlineDeflateV5, plaintext), 0x4D, 0x00},
		{"dcp dflt version", buildDCPDeflate(t, plaintext), 0x0C, 0x08},
		{"dcp dflt trailer", buildDCPDeflate(t, plaintext), -1, 9},
		{"dcp edge flag", buildDCPEdge(t, threeChunks, edgeOpts{}), -1, 2},
		{"dcx edge reserved", buildDCXEdge(t, threeChunks, edgeOpts{}), 0x70, 1},
		{"dcx edge egdt version", buildDCXEdge(t, threeChunks, edgeOpts{}), 0x52, 0x00},
	}
	d := newTestDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := append([]byte(nil), tt.buf...)
			off := tt.offset
			if off < 0 {
				off = len(buf) + off
			}
			buf[off] = tt.value

			_, err := d.Decompress(buf)
			if !errors.Is(err, ErrUnexpectedValue) {
				t.Fatalf("got %v, want ErrUnexpectedValue", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error %v carries no FieldError", err)
			}
		})
	}
}

func TestEdgeReconstruction(t *testing.T) {
	want := []byte("AAABBBBBBC")
	d := newTestDecoder()
	for name, buf := range map[string][]byte{
		"dcp": buildDCPEdge(t, threeChunks, edgeOpts{}),
		"dcx": buildDCXEdge(t, threeChunks, edgeOpts{}),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := d.Decompress(buf)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestEdgeLargeChunks(t *testing.T) {
	chunks := []edgeChunk{
		{data: bytes.Repeat([]byte{1}, 0x10000), compress: true},
		{data: bytes.Repeat([]byte{2}, 0x10000)},
		{data: bytes.Repeat([]byte{3}, 0x10000), compress: true},
	}
	got, err := newTestDecoder().Decompress(buildDCXEdge(t, chunks, edgeOpts{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0x30000 || got[0] != 1 || got[0x10000] != 2 || got[0x2FFFF] != 3 {
		t.Errorf("unexpected output of %#x bytes", len(got))
	}
}

func TestEdgeOversizedChunk(t *testing.T) {
	bomb := []edgeChunk{{data: make([]byte, 32<<20), compress: true}}
	tests := []struct {
		name  string
		usize uint32
	}{
		{"past declared size", 16},
		{"past chunk unit", 32 << 20},
	}
	d := newTestDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buildDCXEdge(t, bomb, edgeOpts{usize: ptr(tt.usize)})

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			out, err := d.Decompress(buf)
			runtime.ReadMemStats(&after)

			if !errors.Is(err, ErrChunkOutputLength) {
				t.Fatalf("got %v, want ErrChunkOutputLength", err)
			}
			if out != nil {
				t.Error("partial output returned with error")
			}
			if grew := after.TotalAlloc - before.TotalAlloc; grew > 8<<20 {
				t.Errorf("decoding allocated %d MiB for a rejected chunk", grew>>20)
			}
		})
	}
}

func TestEdgeHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"dcp table size", buildDCPEdge(t, threeChunks, edgeOpts{egdtSize: ptr(0x20)}), ErrChunkTableSize},
		{"dcx table size", buildDCXEdge(t, threeChunks, edgeOpts{egdtSize: ptr(0x64)}), ErrChunkTableSize},
		{"dcx region size", buildDCXEdge(t, threeChunks, edgeOpts{region: ptr(0x40)}), ErrChunkRegionSize},
		{"dcx trailing size", buildDCXEdge(t, threeChunks, edgeOpts{trailing: ptr(0x10000)}), ErrTrailingChunkSize},
		{"dcp short output", buildDCPEdge(t, threeChunks, edgeOpts{usize: ptr(11)}), ErrChunkOutputLength},
		{"dcp long output", buildDCPEdge(t, threeChunks, edgeOpts{usize: ptr(9)}), ErrChunkOutputLength},
	}
	d := newTestDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Decompress(tt.buf)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if out != nil {
				t.Error("partial output returned with error")
			}
		})
	}
}

func TestChunkTableCheckedBeforeChunkData(t *testing.T) {
	buf := buildDCXEdge(t, threeChunks, edgeOpts{egdtSize: ptr(0)})
	// Drop the chunk data entirely; the table size check must fire first.
	buf = buf[:0x70+16*len(threeChunks)]
	if _, err := newTestDecoder().Decompress(buf); !errors.Is(err, ErrChunkTableSize) {
		t.Fatalf("got %v, want ErrChunkTableSize", err)
	}
}

func TestCompressedChunkStreamError(t *testing.T) {
	buf := buildDCXEdge(t, []edgeChunk{{data: []byte("xyz")}, {data: []byte("payload"), compress: true}}, edgeOpts{})
	// The compressed chunk is stored first in the data region.
	buf[0x70+32] = 0xFF
	buf[0x70+33] = 0xFF
	if _, err := newTestDecoder().Decompress(buf); !errors.Is(err, ErrStream) {
		t.Fatalf("got %v, want ErrStream", err)
	}
}

func TestZlibChecksumError(t *testing.T) {
	buf := buildDCXDeflate(t, VariantInlineDeflateV5, plaintext)
	buf[len(buf)-1] ^= 0xFF
	if _, err := newTestDecoder().Decompress(buf); !errors.Is(err, ErrStream) {
		t.Fatalf("got %v, want ErrStream", err)
	}
}

func TestTruncation(t *testing.T) {
	fixtures := map[string][]byte{
		"dcp dflt": buildDCPDeflate(t, plaintext),
		"dcx dflt": buildDCXDeflate(t, VariantInlineDeflateV2, plaintext),
		"dcp edge": buildDCPEdge(t, threeChunks, edgeOpts{}),
		"dcx edge": buildDCXEdge(t, threeChunks, edgeOpts{}),
		"dcx krak": buildKraken(6, []byte("kraken"), 64),
	}
	d := newTestDecoder()
	for name, buf := range fixtures {
		t.Run(name, func(t *testing.T) {
			for n := 0; n < len(buf); n++ {
				_, err := d.Decompress(buf[:n])
				switch {
				case n < 4:
					if !errors.Is(err, ErrNotAContainer) {
						t.Fatalf("len %d: got %v, want ErrNotAContainer", n, err)
					}
				default:
					if !errors.Is(err, ErrOutOfBounds) {
						t.Fatalf("len %d: got %v, want ErrOutOfBounds", n, err)
					}
				}
			}
		})
	}
}

func TestNotAContainer(t *testing.T) {
	d := newTestDecoder()
	if _, err := d.Decompress([]byte("plain text")); !errors.Is(err, ErrNotAContainer) {
		t.Errorf("got %v, want ErrNotAContainer", err)
	}
	buf := buildDCXDeflate(t, VariantInlineDeflateV5, plaintext)
	buf[0x30] = 3
	if _, err := d.Decompress(buf); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("got %v, want ErrUnknownFormat", err)
	}
}

func TestDecompressIfNecessary(t *testing.T) {
	d := newTestDecoder()
	raw := []byte("already plain")
	out, v, err := d.DecompressIfNecessary(raw)
	if err != nil || v != VariantNone || !bytes.Equal(out, raw) {
		t.Errorf("passthrough = %q, %s, %v", out, v, err)
	}

	out, v, err = d.DecompressIfNecessary(buildDCPDeflate(t, plaintext))
	if err != nil || v != VariantInlineDeflateV1 || !bytes.Equal(out, plaintext) {
		t.Errorf("container = %d bytes, %s, %v", len(out), v, err)
	}
}

func TestKrakenCodecUnavailable(t *testing.T) {
	var installed atomic.Bool
	reg := oodle.NewRegistry(func(rev oodle.Revision) (oodle.Service, error) {
		if !installed.Load() {
			return nil, errors.New("not installed")
		}
		return oodle.ServiceFunc{Rev: rev, Fn: func(src []byte, rawLen int) ([]byte, error) {
			return bytes.Repeat(src[:1], rawLen), nil
		}}, nil
	}, nil)
	d := NewDecoder(Options{Codecs: reg})
	buf := buildKraken(9, []byte{'k', 'r'}, 5)

	for i := 0; i < 3; i++ {
		if _, err := d.Decompress(buf); !errors.Is(err, ErrCodecUnavailable) {
			t.Fatalf("attempt %d: got %v, want ErrCodecUnavailable", i, err)
		}
	}

	installed.Store(true)
	out, err := d.Decompress(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "kkkkk" {
		t.Errorf("got %q", out)
	}
}

type levelRecorder struct {
	levels []int
	src    []byte
	rawLen int
	out    []byte
}

func (r *levelRecorder) ForLevel(level int) (oodle.Service, error) {
	r.levels = append(r.levels, level)
	return oodle.ServiceFunc{Rev: oodle.Revision8, Fn: func(src []byte, rawLen int) ([]byte, error) {
		r.src, r.rawLen = src, rawLen
		return r.out, nil
	}}, nil
}

func TestKrakenDelegation(t *testing.T) {
	stream := []byte("opaque kraken bytes")
	rec := &levelRecorder{out: []byte("decoded!")}
	d := NewDecoder(Options{Codecs: rec})

	out, err := d.Decompress(buildKraken(9, stream, 8))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "decoded!" {
		t.Errorf("got %q", out)
	}
	if !bytes.Equal(rec.src, stream) || rec.rawLen != 8 {
		t.Errorf("codec got %q / %d", rec.src, rec.rawLen)
	}
	if len(rec.levels) != 1 || rec.levels[0] != 9 {
		t.Errorf("levels = %v", rec.levels)
	}

	rec.out = []byte("short")
	if _, err := d.Decompress(buildKraken(6, stream, 8)); !errors.Is(err, ErrStream) {
		t.Errorf("wrong-length codec output: got %v, want ErrStream", err)
	}
}

func TestKrakenLevelHint(t *testing.T) {
	rec := &levelRecorder{out: []byte{0}}
	d := NewDecoder(Options{Codecs: rec, KrakenLevel: 8})
	if _, err := d.Decompress(buildKraken(8, []byte{1}, 1)); err != nil {
		t.Fatalf("hinted level rejected: %v", err)
	}
	if _, err := d.Decompress(buildKraken(9, []byte{1}, 1)); !errors.Is(err, ErrUnexpectedValue) {
		t.Errorf("level outside hint: got %v, want ErrUnexpectedValue", err)
	}
}

func TestInspect(t *testing.T) {
	h, err := newTestDecoder().Inspect(buildDCXEdge(t, threeChunks, edgeOpts{}))
	if err != nil {
		t.Fatal(err)
	}
	if h.Variant != VariantEdgeV2 || h.UncompressedSize != 10 || len(h.Chunks) != 3 {
		t.Fatalf("header = %+v", h)
	}
	if !h.Chunks[1].Compressed || h.Chunks[0].Compressed || h.Chunks[2].Offset != 0 {
		t.Errorf("chunks = %+v", h.Chunks)
	}

	h, err = newTestDecoder().Inspect(buildKraken(9, []byte{1, 2}, 40))
	if err != nil {
		t.Fatal(err)
	}
	if h.Level != 9 || h.CompressedSize != 2 || h.UncompressedSize != 40 {
		t.Errorf("kraken header = %+v", h)
	}
}

func TestVariantText(t *testing.T) {
	for v, name := range variantNames {
		b, _ := v.MarshalText()
		if string(b) != name {
			t.Errorf("MarshalText(%d) = %s", v, b)
		}
		var back Variant
		if err := back.UnmarshalText(b); err != nil || back != v {
			t.Errorf("UnmarshalText(%s) = %v, %v", b, back, err)
		}
	}
}
