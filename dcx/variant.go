package dcx

import (
	"fmt"

	"github.com/xishang0128/dcx-dumper-go/common/cursor"
)

// Variant identifies a container layout and the compression behind it.
type Variant int

const (
	VariantUnknown Variant = iota
	// VariantNone marks a buffer that is not compressed at all.
	VariantNone
	// VariantInlineZlib is a bare zlib stream with no container header.
	VariantInlineZlib
	// VariantEdgeV1 is DCP_EDGE.
	VariantEdgeV1
	// VariantInlineDeflateV1 is DCP_DFLT.
	VariantInlineDeflateV1
	// VariantEdgeV2 is DCX_EDGE.
	VariantEdgeV2
	// VariantInlineDeflateV2 through V6 are the DCX_DFLT header shapes.
	VariantInlineDeflateV2
	VariantInlineDeflateV3
	VariantInlineDeflateV4
	VariantInlineDeflateV5
	VariantInlineDeflateV6
	// VariantExternalKraken is DCX_KRAK, decoded by a native Oodle runtime.
	VariantExternalKraken
)

var variantNames = map[Variant]string{
	VariantUnknown:         "Unknown",
	VariantNone:            "None",
	VariantInlineZlib:      "Zlib",
	VariantEdgeV1:          "DCP_EDGE",
	VariantInlineDeflateV1: "DCP_DFLT",
	VariantEdgeV2:          "DCX_EDGE",
	VariantInlineDeflateV2: "DCX_DFLT_10000_24_9",
	VariantInlineDeflateV3: "DCX_DFLT_10000_44_9",
	VariantInlineDeflateV4: "DCX_DFLT_11000_44_8",
	VariantInlineDeflateV5: "DCX_DFLT_11000_44_9",
	VariantInlineDeflateV6: "DCX_DFLT_11000_44_9_15",
	VariantExternalKraken:  "DCX_KRAK",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant is the inverse of String.
func ParseVariant(s string) (Variant, error) {
	for v, name := range variantNames {
		if name == s {
			return v, nil
		}
	}
	return VariantUnknown, fmt.Errorf("unknown variant %q", s)
}

// MarshalText lets variants appear by name in JSON manifests.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// IsContainer reports whether v carries a DCP or DCX header.
func (v Variant) IsContainer() bool {
	return v >= VariantEdgeV1 && v <= VariantExternalKraken
}

const (
	magicDCP = "DCP\x00"
	magicDCX = "DCX\x00"
)

// dfltShape holds the four fields that tell the DCX_DFLT variants apart.
type dfltShape struct {
	unk04 uint32
	unk10 uint32
	unk30 uint8
	unk38 uint8
}

// unk14 is the header field at 0x14, implied by unk10.
func (s dfltShape) unk14() uint32 {
	if s.unk10 == 0x24 {
		return 0x2C
	}
	return 0x4C
}

var dfltShapes = map[Variant]dfltShape{
	VariantInlineDeflateV2: {0x10000, 0x24, 9, 0},
	VariantInlineDeflateV3: {0x10000, 0x44, 9, 0},
	VariantInlineDeflateV4: {0x11000, 0x44, 8, 0},
	VariantInlineDeflateV5: {0x11000, 0x44, 9, 0},
	VariantInlineDeflateV6: {0x11000, 0x44, 9, 15},
}

var zlibFlags = []uint8{0x01, 0x5E, 0x9C, 0xDA}

// LooksLikeContainer reports whether buf starts with a DCP or DCX magic.
func LooksLikeContainer(buf []byte) bool {
	if len(buf) < 4 {
		return false
	}
	magic := string(buf[:4])
	return magic == magicDCP || magic == magicDCX
}

func looksLikeZlib(buf []byte) bool {
	if len(buf) < 2 || buf[0] != 0x78 {
		return false
	}
	for _, f := range zlibFlags {
		if buf[1] == f {
			return true
		}
	}
	return false
}

// ClassifyBytes classifies buf. See Classify.
func ClassifyBytes(buf []byte) Variant {
	return Classify(cursor.New(buf, true))
}

// Classify selects the variant of the buffer behind c. It switches c to
// big-endian and leaves it at offset 0. It never fails: anything it cannot
// place is VariantUnknown.
func Classify(c *cursor.Cursor) Variant {
	c.SetBigEndian(true)
	defer c.Seek(0)

	magic, err := c.GetASCII(0, 4)
	if err != nil {
		return classifyFallback(c)
	}

	switch magic {
	case magicDCP:
		sub, err := c.GetASCII(4, 4)
		if err != nil {
			return VariantUnknown
		}
		switch sub {
		case "EDGE":
			return VariantEdgeV1
		case "DFLT":
			return VariantInlineDeflateV1
		}
		return VariantUnknown

	case magicDCX:
		if v := classifyDCX(c); v != VariantUnknown {
			return v
		}
	}
	return classifyFallback(c)
}

func classifyDCX(c *cursor.Cursor) Variant {
	sub, err := c.GetASCII(0x28, 4)
	if err != nil {
		return VariantUnknown
	}
	switch sub {
	case "EDGE":
		return VariantEdgeV2
	case "KRAK":
		return VariantExternalKraken
	case "DFLT":
		var s dfltShape
		var errs [4]error
		s.unk04, errs[0] = c.GetUint32(0x04)
		s.unk10, errs[1] = c.GetUint32(0x10)
		s.unk30, errs[2] = c.GetUint8(0x30)
		s.unk38, errs[3] = c.GetUint8(0x38)
		for _, err := range errs {
			if err != nil {
				return VariantUnknown
			}
		}
		for v, shape := range dfltShapes {
			if shape == s {
				return v
			}
		}
	}
	return VariantUnknown
}

func classifyFallback(c *cursor.Cursor) Variant {
	head, err := c.Slice(0, min(2, c.Len()))
	if err == nil && looksLikeZlib(head) {
		return VariantInlineZlib
	}
	return VariantUnknown
}
