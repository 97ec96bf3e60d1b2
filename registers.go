package gdbstub

import (
	"math"
	"strings"
)

// fetchReg maps an RSP register index to a read against the guest CPU.
// Indices above 25 are invalid; they log a warning and read as zero rather
// than erroring, matching the original stub's leniency.
func (s *Server) fetchReg(cpu CPU, reg int) uint32 {
	switch {
	case reg >= 0 && reg <= 12:
		return cpu.ReadReg(reg)
	case reg == 13:
		return cpu.ReadSP()
	case reg == 14:
		return cpu.ReadLR()
	case reg == 15:
		return cpu.ReadPC()
	case reg >= 16 && reg <= 23:
		return math.Float32bits(cpu.ReadFloatReg(reg - 16))
	case reg == 24:
		return cpu.ReadFPSCR()
	case reg == 25:
		return cpu.ReadCPSR()
	default:
		s.dispatchLog.Warnf("queried invalid register %d", reg)
		return 0
	}
}

// modifyReg is the write-side counterpart of fetchReg.
func (s *Server) modifyReg(cpu CPU, reg int, value uint32) {
	switch {
	case reg >= 0 && reg <= 12:
		cpu.WriteReg(reg, value)
	case reg == 13:
		cpu.WriteSP(value)
	case reg == 14:
		cpu.WriteLR(value)
	case reg == 15:
		cpu.WritePC(value)
	case reg >= 16 && reg <= 23:
		cpu.WriteFloatReg(reg-16, math.Float32frombits(value))
	case reg == 24:
		cpu.WriteFPSCR(value)
	case reg == 25:
		cpu.WriteCPSR(value)
	default:
		s.dispatchLog.Warnf("modified invalid register %d", reg)
	}
}

// withCurrentThreadCPU runs fn with the kernel locked and the current
// thread's CPU view, for the duration of a single register operation. It reports false (and runs fn not at all) if current_thread
// is invalid or no longer present in the thread table, in which case the
// caller must reply E00.
func (s *Server) withCurrentThreadCPU(fn func(cpu CPU)) bool {
	s.kernel.Lock()
	defer s.kernel.Unlock()

	tid := s.getCurrentThread()
	if tid == invalidThreadID {
		return false
	}
	th, ok := s.kernel.Thread(tid)
	if !ok {
		return false
	}
	fn(th.CPU())
	return true
}

// cmdReadRegisters implements "g": registers 0-15 only, big-endian hex,
// concatenated with no separators.
func cmdReadRegisters(s *Server, content string) string {
	var sb strings.Builder
	ok := s.withCurrentThreadCPU(func(cpu CPU) {
		for i := 0; i < 16; i++ {
			sb.WriteString(beHex8(s.fetchReg(cpu, i)))
		}
	})
	if !ok {
		return replyThreadError
	}
	return sb.String()
}

// cmdWriteRegisters implements "G<hex>": one 8-hex-digit value per
// register, indices assigned in order starting at 0. The payload is parsed
// with the wire's raw hex value (no un-swap), matching the original's
// write path exactly.
func cmdWriteRegisters(s *Server, content string) string {
	payload := content[1:]
	ok := s.withCurrentThreadCPU(func(cpu CPU) {
		n := len(payload) / 8
		for i := 0; i < n; i++ {
			v := parseHex(payload[i*8 : i*8+8])
			s.modifyReg(cpu, i, v)
		}
	})
	if !ok {
		return replyThreadError
	}
	return replyOK
}

// cmdReadRegister implements "p<reg-hex>".
func cmdReadRegister(s *Server, content string) string {
	reg := int(parseHex(content[1:]))
	var result string
	ok := s.withCurrentThreadCPU(func(cpu CPU) {
		result = beHex8(s.fetchReg(cpu, reg))
	})
	if !ok {
		return replyThreadError
	}
	return result
}

// cmdWriteRegister implements "P<reg-hex>=<value-hex>".
func cmdWriteRegister(s *Server, content string) string {
	eq := strings.IndexByte(content, '=')
	if eq < 0 {
		return replyEmptyBody
	}
	reg := int(parseHex(content[1:eq]))
	value := parseHex(content[eq+1:])
	ok := s.withCurrentThreadCPU(func(cpu CPU) {
		s.modifyReg(cpu, reg, value)
	})
	if !ok {
		return replyThreadError
	}
	return replyOK
}
