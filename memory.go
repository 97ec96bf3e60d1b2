package gdbstub

import (
	"strconv"
	"strings"
)

// cmdReadMemory implements "m<addr-hex>,<len-hex>".
func cmdReadMemory(s *Server, content string) string {
	body := content[1:]
	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return replyAddressError
	}
	addr := parseHex(body[:comma])
	length := parseHex(body[comma+1:])

	if !s.mem.IsValidRange(addr, length) {
		s.dispatchLog.Warnf("attempted to read invalid memory range 0x%08x-0x%08x", addr, addr+length)
		return replyAddressError
	}

	var sb strings.Builder
	sb.Grow(int(length) * 2)
	for i := uint32(0); i < length; i++ {
		sb.WriteString(hex2(s.mem.ReadByte(addr + i)))
	}
	return sb.String()
}

// cmdWriteMemory implements "M<addr-hex>,<len-hex>:<data-hex>".
func cmdWriteMemory(s *Server, content string) string {
	body := content[1:]
	comma := strings.IndexByte(body, ',')
	colon := strings.IndexByte(body, ':')
	if comma < 0 || colon < 0 || colon < comma {
		return replyAddressError
	}
	addr := parseHex(body[:comma])
	length := parseHex(body[comma+1 : colon])
	data := decodeHexBytes(body[colon+1:])

	if !s.mem.IsValidRange(addr, length) {
		return replyAddressError
	}

	for i := uint32(0); i < length && int(i) < len(data); i++ {
		s.mem.WriteByte(addr+i, data[i])
	}
	return replyOK
}

// cmdWriteBinary implements "X" by doing nothing: binary memory writes are
// deliberately disabled. The framer cannot disambiguate a literal
// '$' byte inside a binary payload from the start of the next packet, so
// this handler must never be rewired to a real write path unless that
// framing limitation is fixed first.
func cmdWriteBinary(s *Server, content string) string {
	return replyEmptyBody
}

// parseDecimal parses a plain base-10 integer, defaulting to zero on a
// malformed or empty field. Used for the Z/z "type" and "kind" fields,
// which travel the wire as decimal digits rather than hex.
func parseDecimal(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
