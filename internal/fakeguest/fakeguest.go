// Package fakeguest is an in-memory stand-in for the emulator's CPU,
// memory, kernel thread table, and breakpoint installer. It exists so the
// transport, dispatch, and execution-controller logic in the gdbstub
// package can be exercised deterministically in tests (and by the
// cmd/gdbserver "serve" subcommand's --fake mode) without a real console
// core behind it.
package fakeguest

import (
	"sync"

	"github.com/console-emu/gdbstub"
)

// CPU is a flat in-memory register file.
type CPU struct {
	mu    sync.Mutex
	regs  [13]uint32
	sp    uint32
	lr    uint32
	pc    uint32
	float [8]float32
	fpscr uint32
	cpsr  uint32

	breakHit bool
}

func (c *CPU) ReadReg(n int) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[n]
}

func (c *CPU) WriteReg(n int, v uint32) {
	c.mu.Lock()
	c.regs[n] = v
	c.mu.Unlock()
}

func (c *CPU) ReadSP() uint32   { c.mu.Lock(); defer c.mu.Unlock(); return c.sp }
func (c *CPU) WriteSP(v uint32) { c.mu.Lock(); c.sp = v; c.mu.Unlock() }
func (c *CPU) ReadLR() uint32   { c.mu.Lock(); defer c.mu.Unlock(); return c.lr }
func (c *CPU) WriteLR(v uint32) { c.mu.Lock(); c.lr = v; c.mu.Unlock() }
func (c *CPU) ReadPC() uint32   { c.mu.Lock(); defer c.mu.Unlock(); return c.pc }
func (c *CPU) WritePC(v uint32) { c.mu.Lock(); c.pc = v; c.mu.Unlock() }

func (c *CPU) ReadFloatReg(n int) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.float[n]
}

func (c *CPU) WriteFloatReg(n int, v float32) {
	c.mu.Lock()
	c.float[n] = v
	c.mu.Unlock()
}

func (c *CPU) ReadFPSCR() uint32   { c.mu.Lock(); defer c.mu.Unlock(); return c.fpscr }
func (c *CPU) WriteFPSCR(v uint32) { c.mu.Lock(); c.fpscr = v; c.mu.Unlock() }
func (c *CPU) ReadCPSR() uint32    { c.mu.Lock(); defer c.mu.Unlock(); return c.cpsr }
func (c *CPU) WriteCPSR(v uint32)  { c.mu.Lock(); c.cpsr = v; c.mu.Unlock() }

func (c *CPU) HitBreakpoint() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.breakHit
}

// SetBreakHit is a test/demo hook letting the fake simulate the CPU having
// stopped on an installed breakpoint.
func (c *CPU) SetBreakHit(v bool) {
	c.mu.Lock()
	c.breakHit = v
	c.mu.Unlock()
}

// Thread is a fake guest thread whose Resume/Suspend/Wait use an ordinary
// mutex + condition variable, exactly the shape gdbstub.Thread requires:
// the caller never needs to hold the kernel lock while Wait blocks.
type Thread struct {
	id  int32
	cpu *CPU

	mu     sync.Mutex
	cond   *sync.Cond
	status gdbstub.ThreadStatus
}

// NewThread creates a suspended fake thread with id and a fresh CPU.
func NewThread(id int32) *Thread {
	t := &Thread{id: id, cpu: &CPU{}, status: gdbstub.ThreadSuspend}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *Thread) ID() int32            { return t.id }
func (t *Thread) CPU() gdbstub.CPU     { return t.cpu }
func (t *Thread) Status() gdbstub.ThreadStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Resume transitions the thread to running. A real implementation would
// hand off to the emulation core; this fake simply flips status and, if
// step is requested, immediately re-suspends (a single fake "instruction").
func (t *Thread) Resume(step bool) {
	t.mu.Lock()
	t.status = gdbstub.ThreadRun
	if step {
		t.status = gdbstub.ThreadSuspend
	}
	t.cond.Broadcast()
	t.mu.Unlock()
}

func (t *Thread) Suspend() {
	t.mu.Lock()
	t.status = gdbstub.ThreadSuspend
	t.cond.Broadcast()
	t.mu.Unlock()
}

func (t *Thread) Wait(pred func(gdbstub.ThreadStatus) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for !pred(t.status) {
		t.cond.Wait()
	}
}

// Kernel is an in-memory thread table guarded by a single mutex, matching
// gdbstub.Kernel's Lock/Unlock contract.
type Kernel struct {
	mu      sync.Mutex
	threads map[int32]*Thread
	order   []int32
}

// NewKernel builds a kernel seeded with the given threads, preserving the
// order they were passed in for deterministic qfThreadInfo/qsThreadInfo
// pagination in tests.
func NewKernel(threads ...*Thread) *Kernel {
	k := &Kernel{threads: make(map[int32]*Thread)}
	for _, th := range threads {
		k.threads[th.id] = th
		k.order = append(k.order, th.id)
	}
	return k
}

func (k *Kernel) Lock()   { k.mu.Lock() }
func (k *Kernel) Unlock() { k.mu.Unlock() }

func (k *Kernel) Threads() []gdbstub.Thread {
	out := make([]gdbstub.Thread, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.threads[id])
	}
	return out
}

func (k *Kernel) Thread(id int32) (gdbstub.Thread, bool) {
	th, ok := k.threads[id]
	return th, ok
}

// Memory is a sparse byte-addressable guest address space backed by a map,
// valid over [0, Size).
type Memory struct {
	mu   sync.Mutex
	Size uint32
	data map[uint32]byte
}

func NewMemory(size uint32) *Memory {
	return &Memory{Size: size, data: make(map[uint32]byte)}
}

func (m *Memory) IsValidRange(addr, length uint32) bool {
	if length == 0 {
		return true
	}
	end := addr + length
	return end >= addr && end <= m.Size
}

func (m *Memory) IsValidAddr(addr uint32) bool {
	return addr < m.Size
}

func (m *Memory) ReadByte(addr uint32) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[addr]
}

func (m *Memory) WriteByte(addr uint32, v byte) {
	m.mu.Lock()
	m.data[addr] = v
	m.mu.Unlock()
}

// Debugger is a fake software-breakpoint installer that just records which
// addresses have traps installed, for assertions in tests.
type Debugger struct {
	mu        sync.Mutex
	Installed map[uint32]bool
}

func NewDebugger() *Debugger {
	return &Debugger{Installed: make(map[uint32]bool)}
}

func (d *Debugger) AddBreakpoint(mem gdbstub.Memory, addr uint32, thumb bool) {
	d.mu.Lock()
	d.Installed[addr] = true
	d.mu.Unlock()
}

func (d *Debugger) RemoveBreakpoint(mem gdbstub.Memory, addr uint32) {
	d.mu.Lock()
	delete(d.Installed, addr)
	d.mu.Unlock()
}
