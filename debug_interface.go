// debug_interface.go - DebuggableCPU interface for the monitor

package main

// RegisterInfo describes a single CPU register for display in the
// monitor's `p` command.
type RegisterInfo struct {
	Name  string
	Value uint64
}

// DebuggableCPU is the surface the monitor drives. A single hart needs
// no CPU registry, no watchpoints, no disassembler, and no breakpoint
// event channel to fan out to a GUI, so the interface stays limited to
// register/memory inspection, single-stepping, and one breakpoint.
type DebuggableCPU interface {
	GetRegisters() []RegisterInfo
	GetPC() uint64

	Step()

	ReadMemory(addr uint64, size int) ([]byte, error)

	SetBreakpoint(addr uint64)
	ClearBreakpoint()
	HasBreakpoint() bool
	Breakpoint() uint64

	UartDump() string
}
