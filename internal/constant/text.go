package constant

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Text renders a value for human consumption. String payloads are decoded
// from their recorded element encoding; numeric payloads print per kind.
func (v *Value) Text() (string, error) {
	if v == nil {
		return "", fmt.Errorf("no value")
	}
	switch v.Kind {
	case NullPointer:
		return "nullptr", nil
	case SignedInteger:
		return fmt.Sprintf("%d", int64(v.Bits)), nil
	case UnsignedInteger:
		return fmt.Sprintf("%d", v.Bits), nil
	case FloatingPoint:
		if v.SubKind == 32 {
			return fmt.Sprintf("%g", math.Float32frombits(uint32(v.Bits))), nil
		}
		return fmt.Sprintf("%g", math.Float64frombits(v.Bits)), nil
	case String:
		return v.decodeString()
	default:
		return "", fmt.Errorf("unknown constant (evaluator kind %d)", v.SubKind)
	}
}

func (v *Value) decodeString() (string, error) {
	switch v.StringKind().Encoding() {
	case Ascii, UTF8:
		return string(v.str), nil
	case UTF16:
		dec := unicode.UTF16(hostEndianness(), unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(v.str)
		if err != nil {
			return "", fmt.Errorf("decode utf-16 constant: %w", err)
		}
		return string(out), nil
	case UTF32:
		dec := utf32.UTF32(utf32Endianness(), utf32.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(v.str)
		if err != nil {
			return "", fmt.Errorf("decode utf-32 constant: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown string encoding %d", v.SubKind)
	}
}

// String constants are captured from in-memory literal bytes, so they use
// the host byte order.
func hostEndianness() unicode.Endianness {
	if hostIsLittleEndian() {
		return unicode.LittleEndian
	}
	return unicode.BigEndian
}

func utf32Endianness() utf32.Endianness {
	if hostIsLittleEndian() {
		return utf32.LittleEndian
	}
	return utf32.BigEndian
}

func hostIsLittleEndian() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	return buf[0] == 1
}
