package oodle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Argument values for OodleLZ_Decompress.
const (
	fuzzSafeYes    = 1
	checkCRCNo     = 0
	verbosityNone  = 0
	threadPhaseAll = 3

	compressorKraken = 8
)

// Library is a loaded oo2core runtime.
type Library struct {
	rev        Revision
	path       string
	decompress uintptr
	bufferSize uintptr
}

// Path is the file the library was loaded from.
func (l *Library) Path() string { return l.path }

func (l *Library) Revision() Revision { return l.rev }

// Open loads the runtime at path and resolves its decode entry points.
func Open(path string, rev Revision) (*Library, error) {
	sym, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	dec, err := sym("OodleLZ_Decompress")
	if err != nil {
		return nil, fmt.Errorf("resolve OodleLZ_Decompress in %s: %w", path, err)
	}
	lib := &Library{rev: rev, path: path, decompress: dec}
	// Optional; rawLen is used as the buffer size when it is missing.
	if fn, err := sym("OodleLZ_GetDecodeBufferSize"); err == nil {
		lib.bufferSize = fn
	}
	return lib, nil
}

func (l *Library) decodeBufferSize(rawLen int) int {
	if l.bufferSize == 0 {
		return rawLen
	}
	if n := l.callBufferSize(rawLen); n > rawLen {
		return n
	}
	return rawLen
}

// Decompress implements Service.
func (l *Library) Decompress(src []byte, rawLen int) ([]byte, error) {
	if rawLen < 0 {
		return nil, fmt.Errorf("%w: negative output size %d", ErrDecode, rawLen)
	}
	if rawLen == 0 {
		return []byte{}, nil
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	dst := make([]byte, l.decodeBufferSize(rawLen))
	if n := l.callDecompress(src, dst, rawLen); n != rawLen {
		return nil, fmt.Errorf("%w: %s produced %d bytes, expected %d", ErrDecode, l.rev, n, rawLen)
	}
	return dst[:rawLen:rawLen], nil
}

// Discovery finds runtime libraries on disk.
type Discovery struct {
	// Dirs are searched in order, before the executable's directory.
	Dirs []string
	// Names maps a revision to candidate file names.
	Names map[Revision][]string
}

// NewDiscovery returns a Discovery using dirs and, when names is nil,
// the platform's default library names.
func NewDiscovery(dirs []string, names map[Revision][]string) *Discovery {
	if names == nil {
		names = DefaultLibraryNames()
	}
	return &Discovery{Dirs: dirs, Names: names}
}

// DefaultLibraryNames returns the file names the runtime ships under on this platform.
func DefaultLibraryNames() map[Revision][]string {
	switch runtime.GOOS {
	case "windows":
		return map[Revision][]string{
			Revision6: {"oo2core_6_win64.dll"},
			Revision8: {"oo2core_8_win64.dll"},
		}
	case "darwin":
		return map[Revision][]string{
			Revision6: {"liboo2coremac64.2.6.dylib", "oo2core_6_win64.dylib"},
			Revision8: {"liboo2coremac64.2.8.dylib", "oo2core_8_win64.dylib"},
		}
	default:
		return map[Revision][]string{
			Revision6: {"liboo2corelinux64.so.6", "oo2core_6_win64.so"},
			Revision8: {"liboo2corelinux64.so.8", "liboo2corelinux64.so.9", "oo2core_8_win64.so"},
		}
	}
}

func (d *Discovery) searchDirs() []string {
	dirs := append([]string(nil), d.Dirs...)
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Locate returns the first existing library file for rev.
func (d *Discovery) Locate(rev Revision) (string, error) {
	names := d.Names[rev]
	if len(names) == 0 {
		return "", fmt.Errorf("no library names known for %s", rev)
	}
	for _, dir := range d.searchDirs() {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%s not found in %v", rev, d.searchDirs())
}

// Probe implements Prober.
func (d *Discovery) Probe(rev Revision) (Service, error) {
	path, err := d.Locate(rev)
	if err != nil {
		return nil, err
	}
	lib, err := Open(path, rev)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

var errUnsupportedPlatform = errors.New("native library loading is not supported on " + runtime.GOOS + "/" + runtime.GOARCH)
