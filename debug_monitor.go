// debug_monitor.go - Single-hart blocking REPL core

package main

import (
	"bufio"
	"fmt"
	"os"
)

// Monitor is the debugger's REPL state: a thin blocking, single-threaded,
// line-based loop driving one DebuggableCPU. There is no CPU registry, no
// breakpoint event channel for a GUI to subscribe to, and no run loop
// goroutine: the monitor and the CPU share the same call stack.
type Monitor struct {
	cpu    DebuggableCPU
	in     *bufio.Scanner
	out    *os.File
	halted bool
}

// NewMonitor wires a Monitor around cpu, reading commands from in and
// writing output to out.
func NewMonitor(cpu DebuggableCPU, in *os.File, out *os.File) *Monitor {
	return &Monitor{cpu: cpu, in: bufio.NewScanner(in), out: out}
}

// RunSingleStep enters single-step mode immediately: prompt, read, act,
// repeat.
func (m *Monitor) RunSingleStep() {
	for !m.halted {
		fmt.Fprint(m.out, "> ")
		if !m.in.Scan() {
			return
		}
		m.dispatch(m.in.Text())
	}
}

// RunFreeUntil runs the CPU without stopping until pc reaches addr, then
// drops into single-step mode. Used both for "--debug <addr>" startup and
// for the `b <addr>` command's set-breakpoint-and-resume-free-run behavior.
func (m *Monitor) RunFreeUntil(addr uint64) {
	for m.cpu.GetPC() != addr {
		m.cpu.Step()
	}
	m.RunSingleStep()
}

// dispatch parses and executes one REPL line. Malformed input is ignored
// and the REPL keeps reading.
func (m *Monitor) dispatch(line string) {
	ExecuteCommand(m, ParseCommand(line))
}
