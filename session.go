package gdbstub

import (
	"context"
	"net"
)

// session drives one accepted TCP connection: read bytes, hand them to the
// framer, and dispatch each complete packet, until the client disconnects,
// a read times out repeatedly enough to notice shutdown, or "k" is
// received.
type session struct {
	s    *Server
	conn net.Conn
	fr   framer
}

func newSession(s *Server, conn net.Conn) *session {
	return &session{s: s, conn: conn, fr: newFramer(s.wireLog)}
}

// run is the per-connection receive loop. The read deadline is refreshed on
// every call so ctx cancellation and Server.Stop are noticed promptly
// instead of blocking forever on an idle client, mirroring the original's
// 1-second select timeout ahead of its recv call.
func (sess *session) run(ctx context.Context) {
	defer sess.conn.Close()
	sess.s.wireLog.Debugf("client connected from %s", sess.conn.RemoteAddr())

	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil || sess.s.isDying() {
			return
		}

		sess.conn.SetReadDeadline(deadlineFromNow(sess.s.cfg.RecvTimeout))
		n, err := sess.conn.Read(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			sess.s.wireLog.Debugf("connection closed: %v", err)
			return
		}
		if n <= 0 {
			return
		}

		sess.fr.feed(buf[:n])
		for {
			frame, ok := sess.fr.next()
			if !ok {
				break
			}
			if frame.isAck {
				sess.handleAck(frame.ackByte)
				continue
			}
			if sess.handlePacket(frame) {
				return
			}
		}
	}
}

// handleAck reacts to a bare '+' or '-' byte. A nack asks for the last
// reply to be retransmitted verbatim; an ack needs no action.
func (sess *session) handleAck(b byte) {
	if b != '-' {
		return
	}
	last := sess.s.getLastReply()
	if last != nil {
		sess.conn.Write(last)
	}
}

// handlePacket acks (and, on a bad checksum, additionally nacks) a complete
// frame, then dispatches it if the checksum was valid. It returns true if
// the session should end (the "k" command was processed).
func (sess *session) handlePacket(frame frameResult) bool {
	sess.conn.Write([]byte{'+'})

	if !frame.checksumOK {
		sess.s.incChecksumFailures()
		sess.s.wireLog.Warnf("bad checksum on packet %q", frame.body)
		sess.conn.Write([]byte{'-'})
		return false
	}

	sess.s.incPacketsReceived()
	sess.s.wireLog.Debugf("recv: %s", frame.body)

	reply := sess.s.dispatch(frame.body)

	// Once server_die is set (the "k" command, or a controller that saw it
	// mid-continue) no further bytes go out, not even the reply to the
	// packet that triggered it.
	if sess.s.isDying() {
		return true
	}

	framed := framePacket(reply)
	sess.s.setLastReply(framed)
	sess.conn.Write(framed)

	return false
}
