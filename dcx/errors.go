package dcx

import (
	"errors"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
	"github.com/xishang0128/dcx-dumper-go/oodle"
)

var (
	ErrNotAContainer     = errors.New("not a DCX container")
	ErrUnknownFormat     = errors.New("unknown DCX format")
	ErrChunkTableSize    = errors.New("chunk table size mismatch")
	ErrTrailingChunkSize = errors.New("unexpected trailing chunk size")
	ErrChunkRegionSize   = errors.New("unexpected chunk region size")
	// ErrChunkOutputLength is returned when EDGE chunks do not add up to
	// the declared uncompressed size.
	ErrChunkOutputLength = errors.New("chunk output length mismatch")
	// ErrStream wraps inflate and checksum failures.
	ErrStream = errors.New("compressed stream error")

	ErrOutOfBounds      = cursor.ErrOutOfBounds
	ErrUnexpectedValue  = cursor.ErrUnexpectedValue
	ErrStackUnderflow   = cursor.ErrStackUnderflow
	ErrCodecUnavailable = oodle.ErrCodecUnavailable
)

// FieldError reports a header field holding a value the format does not allow.
type FieldError = cursor.FieldError
