//go:build ((darwin || freebsd || linux || netbsd) && !android) || windows

package oodle

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

func (l *Library) callBufferSize(rawLen int) int {
	var r uintptr
	if l.rev >= Revision8 {
		r, _, _ = purego.SyscallN(l.bufferSize, compressorKraken, uintptr(rawLen), 1)
	} else {
		r, _, _ = purego.SyscallN(l.bufferSize, uintptr(rawLen), 1)
	}
	return int(int32(r))
}

func (l *Library) callDecompress(src, dst []byte, rawLen int) int {
	r, _, _ := purego.SyscallN(l.decompress,
		uintptr(unsafe.Pointer(&src[0])), uintptr(len(src)),
		uintptr(unsafe.Pointer(&dst[0])), uintptr(rawLen),
		fuzzSafeYes, checkCRCNo, verbosityNone,
		0, 0, 0, 0, 0, 0,
		threadPhaseAll)
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)
	return int(int64(r))
}
