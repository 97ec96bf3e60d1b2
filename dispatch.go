package gdbstub

import "strings"

// dispatchHandler answers a single RSP packet body (the bytes between '$'
// and '#', with a valid checksum already verified) and returns the reply
// body to be framed back to the client.
type dispatchHandler func(s *Server, content string) string

type dispatchEntry struct {
	prefix  string
	handler dispatchHandler
}

// dispatchTable is an ORDERED list of (prefix, handler) pairs. The first
// entry whose prefix matches the start of the packet body wins, so longer,
// more specific prefixes must be listed before shorter ones they would
// otherwise be shadowed by: vCont? before vCont before v; qfThreadInfo and
// qsThreadInfo before q. This mirrors the source's table of function
// pointers; a Go variant/switch could express the same dispatch, but would
// not make the ordering constraint this explicit at the call site.
var dispatchTable = []dispatchEntry{
	// General
	{"!", cmdReplyEmpty},
	{"?", cmdReason},
	{"H", cmdSetCurrentThread},
	{"T", cmdThreadAlive},
	{"i", cmdReplyEmpty},
	{"I", cmdReplyEmpty},
	{"A", cmdReplyEmpty},
	{"bc", cmdReplyEmpty},
	{"bs", cmdReplyEmpty},
	{"t", cmdReplyEmpty},

	// Read/Write
	{"p", cmdReadRegister},
	{"P", cmdWriteRegister},
	{"g", cmdReadRegisters},
	{"G", cmdWriteRegisters},
	{"m", cmdReadMemory},
	{"M", cmdWriteMemory},
	{"X", cmdWriteBinary}, // binary writes disabled, see cmdWriteBinary

	// Query packets
	{"qfThreadInfo", cmdGetFirstThread},
	{"qsThreadInfo", cmdGetNextThread},
	{"qXfer", cmdQXfer},
	{"qRcmd", cmdQRcmd},
	{"qSupported", cmdSupported},
	{"qAttached", cmdAttached},
	{"qTStatus", cmdThreadStatus},
	{"qC", cmdGetCurrentThread},
	{"q", cmdReplyEmpty},
	{"Q", cmdReplyEmpty},

	// Shutdown / misc
	{"d", cmdReplyEmpty},
	{"r", cmdReplyEmpty},
	{"R", cmdReplyEmpty},
	{"k", cmdKill},

	// Control packets
	{"vCont?", cmdContinueSupported},
	{"vCont", cmdContinue},
	{"vKill", cmdVKill},
	{"vMustReplyEmpty", cmdReplyEmpty},
	{"v", cmdReplyEmpty},

	// Breakpoints
	{"z", cmdRemoveBreakpoint},
	{"Z", cmdAddBreakpoint},

	// Deprecated
	{"b", cmdDeprecated},
	{"B", cmdDeprecated},
	{"c", cmdDeprecated},
	{"C", cmdDeprecated},
	{"s", cmdDeprecated},
	{"S", cmdDeprecated},
}

// dispatch looks up the handler for body and runs it, replying with an
// empty body for anything not matched by the table.
func (s *Server) dispatch(body []byte) string {
	content := string(body)

	for _, entry := range dispatchTable {
		if strings.HasPrefix(content, entry.prefix) {
			s.dispatchLog.Debugf("recognized command as %q: %s", entry.prefix, content)
			return entry.handler(s, content)
		}
	}

	s.dispatchLog.Warnf("unrecognized command: %s", content)
	return replyEmptyBody
}
