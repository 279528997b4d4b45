package main

import (
	"bufio"
	"io"
	"os"
	"strings"
	"testing"
)

// fakeDebuggableCPU is a minimal DebuggableCPU stand-in for exercising the
// command dispatcher without a real Cpu/Bus/Dram stack.
type fakeDebuggableCPU struct {
	pc       uint64
	steps    int
	mem      map[uint64]byte
	bp       uint64
	bpSet    bool
}

func newFakeCPU() *fakeDebuggableCPU {
	return &fakeDebuggableCPU{mem: make(map[uint64]byte)}
}

func (f *fakeDebuggableCPU) GetRegisters() []RegisterInfo {
	return []RegisterInfo{{Name: "pc", Value: f.pc}}
}
func (f *fakeDebuggableCPU) GetPC() uint64 { return f.pc }
func (f *fakeDebuggableCPU) Step() {
	f.steps++
	f.pc += 4
	if f.bpSet && f.pc == f.bp {
		// no-op: caller's loop condition handles stopping
	}
}
func (f *fakeDebuggableCPU) ReadMemory(addr uint64, size int) ([]byte, error) {
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		out[i] = f.mem[addr+uint64(i)]
	}
	return out, nil
}
func (f *fakeDebuggableCPU) SetBreakpoint(addr uint64) { f.bp = addr; f.bpSet = true }
func (f *fakeDebuggableCPU) ClearBreakpoint()          { f.bpSet = false }
func (f *fakeDebuggableCPU) HasBreakpoint() bool       { return f.bpSet }
func (f *fakeDebuggableCPU) Breakpoint() uint64         { return f.bp }
func (f *fakeDebuggableCPU) UartDump() string           { return "uart: fake" }

// captureOutput runs fn with m.out wired to a pipe and returns everything
// written to it.
func captureOutput(t *testing.T, m *Monitor, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	m.out = w
	fn()
	w.Close()
	data, _ := io.ReadAll(r)
	return string(data)
}

func TestParseCommandEmptyLine(t *testing.T) {
	cmd := ParseCommand("")
	if cmd.Name != "" || len(cmd.Args) != 0 {
		t.Fatalf("expected empty command, got %+v", cmd)
	}
}

func TestParseCommandLowercasesName(t *testing.T) {
	cmd := ParseCommand("B 0x1000")
	if cmd.Name != "b" {
		t.Fatalf("name = %q, want %q", cmd.Name, "b")
	}
	if len(cmd.Args) != 1 || cmd.Args[0] != "0x1000" {
		t.Fatalf("args = %v, want [0x1000]", cmd.Args)
	}
}

func TestExecuteCommandEmptyStepsAndPrints(t *testing.T) {
	cpu := newFakeCPU()
	m := &Monitor{cpu: cpu, in: bufio.NewScanner(strings.NewReader(""))}
	out := captureOutput(t, m, func() {
		ExecuteCommand(m, MonitorCommand{})
	})
	if cpu.steps != 1 {
		t.Fatalf("steps = %d, want 1", cpu.steps)
	}
	if !strings.Contains(out, "pc") {
		t.Fatalf("expected register dump to mention pc, got %q", out)
	}
}

func TestExecuteCommandPPrintsRegistersWithoutStepping(t *testing.T) {
	cpu := newFakeCPU()
	m := &Monitor{cpu: cpu, in: bufio.NewScanner(strings.NewReader(""))}
	captureOutput(t, m, func() {
		ExecuteCommand(m, MonitorCommand{Name: "p"})
	})
	if cpu.steps != 0 {
		t.Fatalf("steps = %d, want 0", cpu.steps)
	}
}

func TestExecuteCommandUartDumps(t *testing.T) {
	cpu := newFakeCPU()
	m := &Monitor{cpu: cpu, in: bufio.NewScanner(strings.NewReader(""))}
	out := captureOutput(t, m, func() {
		ExecuteCommand(m, MonitorCommand{Name: "uart"})
	})
	if !strings.Contains(out, "uart: fake") {
		t.Fatalf("expected uart dump in output, got %q", out)
	}
}

func TestExecuteCommandBreakpointFreeRunsToAddress(t *testing.T) {
	cpu := newFakeCPU()
	m := &Monitor{cpu: cpu, in: bufio.NewScanner(strings.NewReader(""))}
	captureOutput(t, m, func() {
		ExecuteCommand(m, MonitorCommand{Name: "b", Args: []string{"0x10"}})
	})
	if cpu.pc != 0x10 {
		t.Fatalf("pc = %#x, want 0x10", cpu.pc)
	}
	if cpu.HasBreakpoint() {
		t.Fatalf("breakpoint should be cleared after the free-run completes")
	}
}

func TestExecuteCommandMalformedArgsIgnored(t *testing.T) {
	cpu := newFakeCPU()
	m := &Monitor{cpu: cpu, in: bufio.NewScanner(strings.NewReader(""))}
	out := captureOutput(t, m, func() {
		ExecuteCommand(m, MonitorCommand{Name: "m", Args: []string{"not-hex"}})
	})
	if out != "" {
		t.Fatalf("expected no output for malformed m command, got %q", out)
	}
	if cpu.steps != 0 {
		t.Fatalf("malformed command must not step the cpu")
	}
}

func TestExecuteCommandMemoryDump(t *testing.T) {
	cpu := newFakeCPU()
	cpu.mem[0x10] = 0xAB
	m := &Monitor{cpu: cpu, in: bufio.NewScanner(strings.NewReader(""))}
	out := captureOutput(t, m, func() {
		ExecuteCommand(m, MonitorCommand{Name: "m", Args: []string{"0x10", "0x20"}})
	})
	if !strings.Contains(out, "ab") {
		t.Fatalf("expected dumped byte ab in output, got %q", out)
	}
}
