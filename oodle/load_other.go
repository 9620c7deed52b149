//go:build !((darwin || freebsd || linux || netbsd) && !android) && !windows

package oodle

func openLibrary(string) (func(string) (uintptr, error), error) {
	return nil, errUnsupportedPlatform
}

func (l *Library) callBufferSize(rawLen int) int { return rawLen }

func (l *Library) callDecompress(src, dst []byte, rawLen int) int { return -1 }
