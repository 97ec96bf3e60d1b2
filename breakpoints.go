package gdbstub

import "strings"

// breakpointInfo is the local ledger entry kept alongside the kernel
// debugger's own bookkeeping. It never decides whether an address is
// actually trapped in the guest; it only lets this core report what it
// has asked the debugger to install, for "monitor regs" and Stats.
type breakpointInfo struct {
	Thumb bool
}

// splitBreakpointFields parses the common "type,addr,kind" body shared by
// Z and z, where type and kind are plain decimal digits and addr is hex.
func splitBreakpointFields(content string) (typ int, addr uint32, kind int, ok bool) {
	body := content[1:]
	first := strings.IndexByte(body, ',')
	if first < 0 {
		return 0, 0, 0, false
	}
	second := strings.IndexByte(body[first+1:], ',')
	if second < 0 {
		return 0, 0, 0, false
	}
	second += first + 1

	typ = parseDecimal(body[:first])
	addr = parseHex(body[first+1 : second])
	kind = parseDecimal(body[second+1:])
	return typ, addr, kind, true
}

// cmdAddBreakpoint implements "Z<type>,<addr>,<kind>". kind == 2 selects
// Thumb encoding; any other kind is treated as ARM. type is accepted but
// not used: this core only ever installs software breakpoints, so
// hardware-breakpoint and watchpoint requests (which use the same Z packet
// with a different type digit) are silently handled the same way.
func cmdAddBreakpoint(s *Server, content string) string {
	typ, addr, kind, ok := splitBreakpointFields(content)
	if !ok {
		return replyEmptyBody
	}

	if !s.mem.IsValidAddr(addr) {
		s.dispatchLog.Warnf("attempted to add breakpoint at invalid guest address 0x%08x (type=%d, kind=%d)", addr, typ, kind)
		return replyAddressError
	}

	thumb := kind == 2
	s.debugger.AddBreakpoint(s.mem, addr, thumb)

	s.stateMu.Lock()
	s.breakpoints[addr] = breakpointInfo{Thumb: thumb}
	s.stateMu.Unlock()

	s.dispatchLog.Infof("breakpoint installed at 0x%08x (thumb=%v)", addr, thumb)
	return replyOK
}

// cmdRemoveBreakpoint implements "z<type>,<addr>,<kind>". kind is parsed
// but not consulted on removal, matching the original.
func cmdRemoveBreakpoint(s *Server, content string) string {
	typ, addr, kind, ok := splitBreakpointFields(content)
	if !ok {
		return replyEmptyBody
	}

	if !s.mem.IsValidAddr(addr) {
		s.dispatchLog.Warnf("attempted to remove breakpoint at invalid guest address 0x%08x (type=%d, kind=%d)", addr, typ, kind)
		return replyAddressError
	}

	s.debugger.RemoveBreakpoint(s.mem, addr)

	s.stateMu.Lock()
	delete(s.breakpoints, addr)
	s.stateMu.Unlock()

	s.dispatchLog.Infof("breakpoint removed at 0x%08x", addr)
	return replyOK
}
