package gdbstub

import (
	"sync"
	"time"
)

// Minimal collaborator fakes local to this package's tests. A second,
// fuller fake lives in internal/fakeguest for external/integration tests
// and cmd/gdbserver's --fake mode; this one stays package-internal because
// internal/fakeguest imports gdbstub and would create an import cycle if
// used from _test.go files in package gdbstub itself.

type testCPU struct {
	regs  [13]uint32
	sp    uint32
	lr    uint32
	pc    uint32
	float [8]float32
	fpscr uint32
	cpsr  uint32
	hit   bool
}

func (c *testCPU) ReadReg(n int) uint32           { return c.regs[n] }
func (c *testCPU) WriteReg(n int, v uint32)       { c.regs[n] = v }
func (c *testCPU) ReadSP() uint32                 { return c.sp }
func (c *testCPU) WriteSP(v uint32)               { c.sp = v }
func (c *testCPU) ReadLR() uint32                 { return c.lr }
func (c *testCPU) WriteLR(v uint32)               { c.lr = v }
func (c *testCPU) ReadPC() uint32                 { return c.pc }
func (c *testCPU) WritePC(v uint32)               { c.pc = v }
func (c *testCPU) ReadFloatReg(n int) float32     { return c.float[n] }
func (c *testCPU) WriteFloatReg(n int, v float32) { c.float[n] = v }
func (c *testCPU) ReadFPSCR() uint32              { return c.fpscr }
func (c *testCPU) WriteFPSCR(v uint32)            { c.fpscr = v }
func (c *testCPU) ReadCPSR() uint32               { return c.cpsr }
func (c *testCPU) WriteCPSR(v uint32)             { c.cpsr = v }
func (c *testCPU) HitBreakpoint() bool            { return c.hit }

type testThread struct {
	id  int32
	cpu *testCPU

	mu     sync.Mutex
	cond   *sync.Cond
	status ThreadStatus
}

func newTestThread(id int32) *testThread {
	t := &testThread{id: id, cpu: &testCPU{}, status: ThreadSuspend}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *testThread) ID() int32      { return t.id }
func (t *testThread) CPU() CPU       { return t.cpu }
func (t *testThread) Status() ThreadStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *testThread) Resume(step bool) {
	t.mu.Lock()
	t.status = ThreadRun
	if step {
		t.status = ThreadSuspend
	}
	t.cond.Broadcast()
	t.mu.Unlock()
}

func (t *testThread) Suspend() {
	t.mu.Lock()
	t.status = ThreadSuspend
	t.cond.Broadcast()
	t.mu.Unlock()
}

func (t *testThread) Wait(pred func(ThreadStatus) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for !pred(t.status) {
		t.cond.Wait()
	}
}

func (t *testThread) setStatus(st ThreadStatus) {
	t.mu.Lock()
	t.status = st
	t.cond.Broadcast()
	t.mu.Unlock()
}

type testKernel struct {
	mu      sync.Mutex
	threads map[int32]*testThread
	order   []int32
}

func newTestKernel(threads ...*testThread) *testKernel {
	k := &testKernel{threads: make(map[int32]*testThread)}
	for _, th := range threads {
		k.threads[th.id] = th
		k.order = append(k.order, th.id)
	}
	return k
}

func (k *testKernel) Lock()   { k.mu.Lock() }
func (k *testKernel) Unlock() { k.mu.Unlock() }

func (k *testKernel) Threads() []Thread {
	out := make([]Thread, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.threads[id])
	}
	return out
}

func (k *testKernel) Thread(id int32) (Thread, bool) {
	th, ok := k.threads[id]
	return th, ok
}

type testMemory struct {
	mu   sync.Mutex
	size uint32
	data map[uint32]byte
}

func newTestMemory(size uint32) *testMemory {
	return &testMemory{size: size, data: make(map[uint32]byte)}
}

func (m *testMemory) IsValidRange(addr, length uint32) bool {
	if length == 0 {
		return true
	}
	end := addr + length
	return end >= addr && end <= m.size
}

func (m *testMemory) IsValidAddr(addr uint32) bool { return addr < m.size }

func (m *testMemory) ReadByte(addr uint32) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[addr]
}

func (m *testMemory) WriteByte(addr uint32, v byte) {
	m.mu.Lock()
	m.data[addr] = v
	m.mu.Unlock()
}

type testDebugger struct {
	mu        sync.Mutex
	installed map[uint32]bool
	thumb     map[uint32]bool
}

func newTestDebugger() *testDebugger {
	return &testDebugger{installed: make(map[uint32]bool), thumb: make(map[uint32]bool)}
}

func (d *testDebugger) AddBreakpoint(mem Memory, addr uint32, thumb bool) {
	d.mu.Lock()
	d.installed[addr] = true
	d.thumb[addr] = thumb
	d.mu.Unlock()
}

func (d *testDebugger) RemoveBreakpoint(mem Memory, addr uint32) {
	d.mu.Lock()
	delete(d.installed, addr)
	delete(d.thumb, addr)
	d.mu.Unlock()
}

// newTestServer builds a Server around the fakes above, with the given
// threads (one live thread at id 0x2a if none are given), 1MiB of memory
// valid from address 0, and a fast break-poll interval suitable for tests.
func newTestServer(threads ...*testThread) (*Server, *testKernel, *testMemory, *testDebugger) {
	if len(threads) == 0 {
		threads = []*testThread{newTestThread(0x2a)}
	}
	kernel := newTestKernel(threads...)
	mem := newTestMemory(1 << 20)
	dbg := newTestDebugger()

	cfg := DefaultConfig()
	cfg.BreakPollInterval = time.Millisecond
	cfg.RecvTimeout = 50 * time.Millisecond

	s, err := New(cfg, kernel, mem, dbg)
	if err != nil {
		panic(err)
	}
	return s, kernel, mem, dbg
}
