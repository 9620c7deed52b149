package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xishang0128/dcx-dumper-go/compression"
	"github.com/xishang0128/dcx-dumper-go/dcx"
)

func TestParseCodec(t *testing.T) {
	tests := []struct {
		name    string
		want    Codec
		wantErr bool
	}{
		{"", CodecNone, false},
		{"none", CodecNone, false},
		{"lz4", CodecLZ4, false},
		{"zstd", CodecZstd, false},
		{"xz", CodecXZ, false},
		{"brotli", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCodec(tt.name)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseCodec(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseCodec(%q) = %s, want %s", tt.name, got, tt.want)
		}
		if !tt.wantErr && tt.name != "" && got.String() != tt.name {
			t.Errorf("%s.String() = %q", got, got.String())
		}
	}
}

func TestKeyStable(t *testing.T) {
	a := Key([]byte("DCX\x00payload"))
	b := Key([]byte("DCX\x00payload"))
	c := Key([]byte("DCX\x00payloae"))
	if a != b {
		t.Errorf("Key not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("distinct inputs share key %s", a)
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32", len(a))
	}
}

func TestPutGet(t *testing.T) {
	compressible := bytes.Repeat([]byte("dark souls asset data "), 500)
	incompressible := []byte{0x9c, 0x01, 0xff}

	for _, codec := range []Codec{CodecNone, CodecLZ4, CodecZstd, CodecXZ} {
		for _, data := range [][]byte{compressible, incompressible, {}} {
			t.Run(codec.String(), func(t *testing.T) {
				s, err := Open(t.TempDir(), codec, nil)
				if err != nil {
					t.Fatal(err)
				}
				key := Key(append([]byte("container"), data...))
				if _, ok := s.Get(key); ok {
					t.Fatal("unexpected hit on empty store")
				}
				if err := s.Put(key, dcx.VariantEdgeV2, data); err != nil {
					t.Fatalf("Put: %v", err)
				}
				e, ok := s.Get(key)
				if !ok {
					t.Fatal("miss after Put")
				}
				if e.Variant != dcx.VariantEdgeV2 {
					t.Errorf("variant = %s, want %s", e.Variant, dcx.VariantEdgeV2)
				}
				if !bytes.Equal(e.Data, data) {
					t.Errorf("data mismatch: got %d bytes, want %d", len(e.Data), len(data))
				}
			})
		}
	}
}

func TestCompressedEntryIsSmaller(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 64<<10)
	for _, codec := range []Codec{CodecLZ4, CodecZstd, CodecXZ} {
		dir := t.TempDir()
		s, err := Open(dir, codec, nil)
		if err != nil {
			t.Fatal(err)
		}
		key := Key(data)
		if err := s.Put(key, dcx.VariantInlineZlib, data); err != nil {
			t.Fatal(err)
		}
		fi, err := os.Stat(s.path(key))
		if err != nil {
			t.Fatal(err)
		}
		if fi.Size() >= int64(len(data)) {
			t.Errorf("%s: entry size %d not smaller than payload %d", codec, fi.Size(), len(data))
		}
	}
}

func TestCorruptEntryIsDropped(t *testing.T) {
	data := bytes.Repeat([]byte("chunk"), 100)
	tests := []struct {
		name   string
		mangle func([]byte) []byte
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"truncated", func(b []byte) []byte { return b[:6] }},
		{"header length", func(b []byte) []byte { b[4] = 0xff; return b }},
		{"payload flip", func(b []byte) []byte { b[len(b)-1] ^= 0xff; return b }},
		{"payload cut", func(b []byte) []byte { return b[:len(b)-3] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(t.TempDir(), CodecZstd, nil)
			if err != nil {
				t.Fatal(err)
			}
			key := Key(data)
			if err := s.Put(key, dcx.VariantInlineDeflateV3, data); err != nil {
				t.Fatal(err)
			}
			p := s.path(key)
			raw, err := os.ReadFile(p)
			if err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(p, tt.mangle(raw), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, ok := s.Get(key); ok {
				t.Fatal("corrupt entry returned as hit")
			}
			if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("corrupt entry not removed: %v", err)
			}
		})
	}
}

func TestDecodeEntryErrors(t *testing.T) {
	m := compression.NewDecompressorManager()
	if _, err := decodeEntry([]byte("DX"), m); !errors.Is(err, ErrCorrupt) {
		t.Errorf("short entry: err = %v, want ErrCorrupt", err)
	}
	if _, err := decodeEntry([]byte("DXCE\x00\x00\x00\x01\xff"), m); !errors.Is(err, ErrCorrupt) {
		t.Errorf("bad cbor: err = %v, want ErrCorrupt", err)
	}
}

func TestOversizedHeaderRejected(t *testing.T) {
	for _, codec := range []Codec{CodecNone, CodecLZ4, CodecZstd, CodecXZ} {
		hdr, err := encMode.Marshal(entryHeader{
			Version: entryVersion,
			Size:    maxEntrySize + 1,
			Codec:   codec,
		})
		if err != nil {
			t.Fatal(err)
		}
		raw := append([]byte(entryMagic), byte(len(hdr)>>24), byte(len(hdr)>>16), byte(len(hdr)>>8), byte(len(hdr)))
		raw = append(append(raw, hdr...), 0x00, 0x01, 0x02)

		if _, err := decodeEntry(raw, compression.NewDecompressorManager()); !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: err = %v, want ErrCorrupt", codec, err)
		}
	}
}

func TestPayloadLongerThanHeaderRejected(t *testing.T) {
	s, err := Open(t.TempDir(), CodecZstd, nil)
	if err != nil {
		t.Fatal(err)
	}
	data := bytes.Repeat([]byte("long payload "), 1000)
	key := Key(data)
	if err := s.Put(key, dcx.VariantInlineZlib, data); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		t.Fatal(err)
	}

	// Shrink the declared size; the decoder must stop at it.
	n := int(raw[4])<<24 | int(raw[5])<<16 | int(raw[6])<<8 | int(raw[7])
	var hdr entryHeader
	if err := decMode.Unmarshal(raw[8:8+n], &hdr); err != nil {
		t.Fatal(err)
	}
	hdr.Size = 16
	short, err := encMode.Marshal(hdr)
	if err != nil {
		t.Fatal(err)
	}
	mangled := append([]byte(entryMagic), byte(len(short)>>24), byte(len(short)>>16), byte(len(short)>>8), byte(len(short)))
	mangled = append(append(mangled, short...), raw[8+n:]...)

	if _, err := decodeEntry(mangled, compression.NewDecompressorManager()); !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestInvalidKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "dir"), CodecNone, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("a", dcx.VariantNone, nil); err == nil {
		t.Error("Put with short key succeeded")
	}
	if _, ok := s.Get("a"); ok {
		t.Error("Get with short key hit")
	}
}
