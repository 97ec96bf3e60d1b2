package gdbstub

import "github.com/sirupsen/logrus"

// framer incrementally decodes RSP packets out of a byte stream one Read
// result at a time. It has no knowledge of the socket itself; session.go
// feeds it bytes and asks it to drain complete frames.
//
// Frame grammar: '+' and '-' are standalone ack/nack bytes consumed one at a
// time outside of any packet; a packet itself is '$' body '#' cc, where cc
// is two hex checksum digits. Anything read before the first '$' of a
// packet (other than a bare '+'/'-') is dropped with a warning, matching
// the original's tolerance for noise on the wire.
type framer struct {
	buf []byte
	log *logrus.Entry
}

func newFramer(log *logrus.Entry) framer {
	return framer{log: log}
}

// frameResult is one decoded unit pulled off the wire: either a bare ack
// byte or a complete, checksum-verified (or not) packet body.
type frameResult struct {
	isAck      bool
	ackByte    byte // '+' or '-'
	isPacket   bool
	body       []byte
	checksumOK bool
}

// feed appends newly read bytes to the internal buffer.
func (f *framer) feed(b []byte) {
	f.buf = append(f.buf, b...)
}

// next extracts the next complete frame (ack byte or full packet) from the
// buffer, reporting ok=false if the buffer doesn't yet hold one.
func (f *framer) next() (frameResult, bool) {
	for len(f.buf) > 0 {
		switch f.buf[0] {
		case '+', '-':
			ack := f.buf[0]
			f.buf = f.buf[1:]
			return frameResult{isAck: true, ackByte: ack}, true
		case '$':
			hash := indexByte(f.buf, '#')
			if hash < 0 || hash+2 >= len(f.buf) {
				return frameResult{}, false
			}
			body := f.buf[1:hash]
			wantSum := hex2Byte(f.buf[hash+1], f.buf[hash+2])
			gotSum := checksum(body)

			bodyCopy := make([]byte, len(body))
			copy(bodyCopy, body)

			f.buf = f.buf[hash+3:]
			return frameResult{isPacket: true, body: bodyCopy, checksumOK: wantSum == gotSum}, true
		default:
			f.log.Warnf("skipping unexpected byte %q in recv buffer", f.buf[0])
			f.buf = f.buf[1:]
		}
	}
	return frameResult{}, false
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func hex2Byte(hi, lo byte) uint8 {
	h, _ := hexDigit(hi)
	l, _ := hexDigit(lo)
	return h<<4 | l
}

// framePacket wraps body in the '$'...'#'cc envelope for transmission.
func framePacket(body string) []byte {
	sum := checksum([]byte(body))
	out := make([]byte, 0, len(body)+4)
	out = append(out, '$')
	out = append(out, body...)
	out = append(out, '#')
	out = append(out, hex2(sum)...)
	return out
}
