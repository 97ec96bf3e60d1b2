package gdbstub

import (
	"fmt"
	"math/bits"
)

// toHex8 formats v as eight lowercase hex digits, most-significant digit
// first.
func toHex8(v uint32) string {
	return fmt.Sprintf("%08x", v)
}

// beHex8 formats v the way register payloads travel the wire: the value is
// byte-swapped before hex formatting so the resulting digits match GDB's
// target.xml byte ordering.
func beHex8(v uint32) string {
	return toHex8(bits.ReverseBytes32(v))
}

// hex2 formats a single byte as two lowercase hex digits, used for the
// packet checksum trailer.
func hex2(v uint8) string {
	return fmt.Sprintf("%02x", v)
}

// parseHex parses s as an unsigned hexadecimal integer, permissively: it
// consumes leading hex digits and stops at the first character that isn't
// one, rather than rejecting the whole string. An empty or all-non-hex
// input parses as zero.
func parseHex(s string) uint32 {
	var v uint64
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			break
		}
		v = v<<4 | uint64(d)
	}
	return uint32(v)
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// decodeHexBytes decodes a hex string into raw bytes, two digits per byte.
// Trailing odd digits are ignored, matching the codec's permissive style.
func decodeHexBytes(s string) []byte {
	n := len(s) / 2
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		hi, _ := hexDigit(s[i*2])
		lo, _ := hexDigit(s[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out
}

// checksum computes the RSP checksum of b: the sum of its byte values, mod
// 256.
func checksum(b []byte) uint8 {
	var sum int
	for _, c := range b {
		sum += int(c)
	}
	return uint8(sum)
}
