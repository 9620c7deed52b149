// Package cursor provides a seekable, endian-aware reader over an in-memory
// byte buffer. Every read is bounds-checked and every validation helper
// returns an error instead of aborting.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrOutOfBounds is returned when a read or seek goes past the end of the buffer.
	ErrOutOfBounds = errors.New("read out of bounds")
	// ErrUnexpectedValue is matched by every *FieldError.
	ErrUnexpectedValue = errors.New("unexpected field value")
	// ErrStackUnderflow is returned by Pop when no position was pushed.
	ErrStackUnderflow = errors.New("cursor stack underflow")
)

// FieldError reports a field whose value is not one of the permitted constants.
type FieldError struct {
	Offset  int
	Found   any
	Allowed []any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("unexpected value %s at offset %#x, expected one of %s", formatValue(e.Found), e.Offset, formatValues(e.Allowed))
}

func (e *FieldError) Is(target error) bool {
	return target == ErrUnexpectedValue
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case uint8, int8, uint16, int16, uint32, int32, uint64, int64, int:
		return fmt.Sprintf("%#x", x)
	default:
		return fmt.Sprint(x)
	}
}

func formatValues(vs []any) string {
	s := "["
	for i, v := range vs {
		if i > 0 {
			s += " "
		}
		s += formatValue(v)
	}
	return s + "]"
}

// Integer is the set of fixed-size integer types the cursor can decode.
type Integer interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64
}

// Cursor reads typed fields from a byte buffer it never modifies.
type Cursor struct {
	data  []byte
	pos   int
	order binary.ByteOrder
	stack []int
}

// New wraps data. The buffer is borrowed, not copied.
func New(data []byte, bigEndian bool) *Cursor {
	c := &Cursor{data: data}
	c.SetBigEndian(bigEndian)
	return c
}

// SetBigEndian switches the byte order used for multi-byte reads.
func (c *Cursor) SetBigEndian(big bool) {
	if big {
		c.order = binary.BigEndian
	} else {
		c.order = binary.LittleEndian
	}
}

// BigEndian reports the current byte order.
func (c *Cursor) BigEndian() bool {
	return c.order == binary.BigEndian
}

func (c *Cursor) Len() int       { return len(c.data) }
func (c *Cursor) Position() int  { return c.pos }
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek moves to an absolute offset. Seeking to Len() is allowed.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.data) {
		return fmt.Errorf("%w: seek to %#x in buffer of %#x bytes", ErrOutOfBounds, offset, len(c.data))
	}
	c.pos = offset
	return nil
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: skip %#x bytes at %#x in buffer of %#x bytes", ErrOutOfBounds, n, c.pos, len(c.data))
	}
	c.pos += n
	return nil
}

// Push saves the current position and seeks to offset.
func (c *Cursor) Push(offset int) error {
	saved := c.pos
	if err := c.Seek(offset); err != nil {
		return err
	}
	c.stack = append(c.stack, saved)
	return nil
}

// Pop restores the position saved by the matching Push.
func (c *Cursor) Pop() error {
	if len(c.stack) == 0 {
		return ErrStackUnderflow
	}
	c.pos = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

func (c *Cursor) span(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset > len(c.data) || n > len(c.data)-offset {
		return nil, fmt.Errorf("%w: %#x bytes at %#x in buffer of %#x bytes", ErrOutOfBounds, n, offset, len(c.data))
	}
	return c.data[offset : offset+n : offset+n], nil
}

func (c *Cursor) take(n int) ([]byte, error) {
	b, err := c.span(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}

// Slice returns a bounds-checked view of length bytes at offset.
// The view aliases the underlying buffer and must not be modified.
func (c *Cursor) Slice(offset, length int) ([]byte, error) {
	return c.span(offset, length)
}

// Span returns a view of the next n bytes and advances past them.
func (c *Cursor) Span(n int) ([]byte, error) {
	return c.take(n)
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	return slices.Clone(b), nil
}

func decode[T Integer](order binary.ByteOrder, b []byte) T {
	switch len(b) {
	case 1:
		return T(b[0])
	case 2:
		return T(order.Uint16(b))
	case 4:
		return T(order.Uint32(b))
	default:
		return T(order.Uint64(b))
	}
}

func sizeOf[T Integer]() int {
	var v T
	return binary.Size(v)
}

// Read decodes the next value of type T and advances by its size.
func Read[T Integer](c *Cursor) (T, error) {
	b, err := c.take(sizeOf[T]())
	if err != nil {
		return 0, err
	}
	return decode[T](c.order, b), nil
}

// Get decodes a value of type T at offset without moving the cursor.
func Get[T Integer](c *Cursor, offset int) (T, error) {
	b, err := c.span(offset, sizeOf[T]())
	if err != nil {
		return 0, err
	}
	return decode[T](c.order, b), nil
}

func (c *Cursor) ReadUint8() (uint8, error)   { return Read[uint8](c) }
func (c *Cursor) ReadUint16() (uint16, error) { return Read[uint16](c) }
func (c *Cursor) ReadInt32() (int32, error)   { return Read[int32](c) }
func (c *Cursor) ReadUint32() (uint32, error) { return Read[uint32](c) }
func (c *Cursor) ReadUint64() (uint64, error) { return Read[uint64](c) }

func (c *Cursor) GetUint8(offset int) (uint8, error)   { return Get[uint8](c, offset) }
func (c *Cursor) GetInt32(offset int) (int32, error)   { return Get[int32](c, offset) }
func (c *Cursor) GetUint32(offset int) (uint32, error) { return Get[uint32](c, offset) }

// ReadASCII reads n bytes as a string, NUL bytes included.
func (c *Cursor) ReadASCII(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GetASCII reads n bytes at offset as a string without moving the cursor.
func (c *Cursor) GetASCII(offset, n int) (string, error) {
	b, err := c.span(offset, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AssertOneOf returns value when it is in allowed, otherwise a *FieldError
// attributed to offset.
func AssertOneOf[T comparable](offset int, value T, allowed ...T) (T, error) {
	if slices.Contains(allowed, value) {
		return value, nil
	}
	want := make([]any, len(allowed))
	for i, a := range allowed {
		want[i] = a
	}
	return value, &FieldError{Offset: offset, Found: value, Allowed: want}
}

// Assert reads a T and checks it against allowed.
func Assert[T Integer](c *Cursor, allowed ...T) (T, error) {
	at := c.pos
	v, err := Read[T](c)
	if err != nil {
		return v, err
	}
	return AssertOneOf(at, v, allowed...)
}

func (c *Cursor) AssertUint8(allowed ...uint8) (uint8, error)    { return Assert(c, allowed...) }
func (c *Cursor) AssertInt32(allowed ...int32) (int32, error)    { return Assert(c, allowed...) }
func (c *Cursor) AssertUint32(allowed ...uint32) (uint32, error) { return Assert(c, allowed...) }

// AssertASCII reads a tag as long as the first allowed value and checks it.
func (c *Cursor) AssertASCII(allowed ...string) (string, error) {
	if len(allowed) == 0 {
		return "", errors.New("AssertASCII: no allowed values")
	}
	at := c.pos
	s, err := c.ReadASCII(len(allowed[0]))
	if err != nil {
		return s, err
	}
	return AssertOneOf(at, s, allowed...)
}
