// Package cache stores decompressed container payloads on disk, keyed by a
// hash of the container bytes, so repeated extractions skip decoding.
//
// Each entry file is:
//
//	"DXCE" | u32 big-endian header length | CBOR header | payload
//
// The payload is stored with the configured codec. Reads verify the
// decoded size and xxh3 digest; a corrupt entry is removed and reported
// as a miss.
package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/xxh3"

	"github.com/xishang0128/dcx-dumper-go/compression"
	"github.com/xishang0128/dcx-dumper-go/dcx"
)

const (
	entryMagic   = "DXCE"
	entryVersion = 1
	entrySuffix  = ".dxce"

	// maxEntrySize bounds the payload size a header may declare.
	maxEntrySize = compression.MaxSizeHint
)

// ErrCorrupt is returned for entries that fail validation.
var ErrCorrupt = errors.New("corrupt cache entry")

type entryHeader struct {
	Version uint8       `cbor:"1,keyasint"`
	Variant dcx.Variant `cbor:"2,keyasint"`
	Size    uint64      `cbor:"3,keyasint"`
	Codec   Codec       `cbor:"4,keyasint"`
	Digest  uint64      `cbor:"5,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = opts.EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{TextUnmarshaler: cbor.TextUnmarshalerTextString}.DecMode()
	if err != nil {
		panic("cache: CBOR decoder initialization failed: " + err.Error())
	}
}

// Entry is a cached payload.
type Entry struct {
	Variant dcx.Variant
	Data    []byte
}

// Store is a directory of cache entries. It is safe for concurrent use.
type Store struct {
	dir           string
	codec         Codec
	logger        *slog.Logger
	decompressors *compression.DecompressorManager
}

// Open creates dir if needed and returns a store writing entries with codec.
func Open(dir string, codec Codec, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:           dir,
		codec:         codec,
		logger:        logger,
		decompressors: compression.NewDecompressorManager(),
	}, nil
}

// Key returns the cache key of a container: hex xxh3-128 of its bytes.
func Key(container []byte) string {
	sum := xxh3.Hash128(container).Bytes()
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key[:2], key+entrySuffix)
}

// Get returns the entry for key. The second result is false on a miss.
func (s *Store) Get(key string) (*Entry, bool) {
	if len(key) < 2 {
		return nil, false
	}
	p := s.path(key)
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	e, err := decodeEntry(raw, s.decompressors)
	if err != nil {
		s.logger.Warn("dropping cache entry", "key", key, "error", err)
		_ = os.Remove(p)
		return nil, false
	}
	return e, true
}

// Put stores data under key. Payloads that do not shrink are stored raw;
// payloads larger than the entry size limit are not stored.
func (s *Store) Put(key string, variant dcx.Variant, data []byte) error {
	if len(key) < 2 {
		return fmt.Errorf("invalid cache key %q", key)
	}
	if len(data) > maxEntrySize {
		s.logger.Debug("payload too large to cache", "key", key, "size", len(data))
		return nil
	}
	codec := s.codec
	payload, err := encode(codec, data)
	if errors.Is(err, errIncompressible) {
		codec, payload = CodecNone, data
	} else if err != nil {
		return err
	}

	hdr, err := encMode.Marshal(entryHeader{
		Version: entryVersion,
		Variant: variant,
		Size:    uint64(len(data)),
		Codec:   codec,
		Digest:  xxh3.Hash(data),
	})
	if err != nil {
		return fmt.Errorf("encode cache header: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(8 + len(hdr) + len(payload))
	buf.WriteString(entryMagic)
	binary.Write(&buf, binary.BigEndian, uint32(len(hdr)))
	buf.Write(hdr)
	buf.Write(payload)

	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func decodeEntry(raw []byte, m *compression.DecompressorManager) (*Entry, error) {
	if len(raw) < 8 || string(raw[:4]) != entryMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	n := binary.BigEndian.Uint32(raw[4:8])
	if uint64(n) > uint64(len(raw)-8) {
		return nil, fmt.Errorf("%w: header length %d exceeds entry", ErrCorrupt, n)
	}
	var hdr entryHeader
	if err := decMode.Unmarshal(raw[8:8+n], &hdr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if hdr.Version != entryVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCorrupt, hdr.Version)
	}
	if hdr.Size > maxEntrySize {
		return nil, fmt.Errorf("%w: size %d", ErrCorrupt, hdr.Size)
	}

	data, err := m.DecompressLimit(hdr.Codec.compressionType(), raw[8+n:], int(hdr.Size))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint64(len(data)) != hdr.Size || xxh3.Hash(data) != hdr.Digest {
		return nil, fmt.Errorf("%w: payload does not match digest", ErrCorrupt)
	}
	return &Entry{Variant: hdr.Variant, Data: data}, nil
}
