// Package oodle locates a native Oodle runtime and exposes its Kraken decoder.
//
// The codec itself is never implemented here. A Registry probes for each
// library revision on demand and remembers the revisions it found.
package oodle

import (
	"errors"
	"fmt"
)

// Revision is the major version of the oo2core runtime.
type Revision int

const (
	Revision6 Revision = 6
	Revision8 Revision = 8
)

func (r Revision) String() string {
	return fmt.Sprintf("oo2core_%d", int(r))
}

var (
	// ErrCodecUnavailable is returned when no supported runtime revision can be loaded.
	ErrCodecUnavailable = errors.New("oodle codec unavailable")
	// ErrDecode is returned when the runtime rejects a compressed stream.
	ErrDecode = errors.New("oodle decode failed")
)

// Service decodes Oodle-compressed data.
type Service interface {
	// Decompress decodes src into exactly rawLen bytes.
	Decompress(src []byte, rawLen int) ([]byte, error)
	Revision() Revision
}

// Prober tries to load one revision. It returns an error when the revision
// is not present on this host.
type Prober func(Revision) (Service, error)

// PreferredRevisions returns the lookup order for a compression level.
// Level 9 streams prefer revision 8; everything else prefers revision 6.
func PreferredRevisions(level int) []Revision {
	if level == 9 {
		return []Revision{Revision8, Revision6}
	}
	return []Revision{Revision6, Revision8}
}

// ServiceFunc adapts a plain function to Service.
type ServiceFunc struct {
	Rev Revision
	Fn  func(src []byte, rawLen int) ([]byte, error)
}

func (s ServiceFunc) Decompress(src []byte, rawLen int) ([]byte, error) {
	return s.Fn(src, rawLen)
}

func (s ServiceFunc) Revision() Revision {
	return s.Rev
}
