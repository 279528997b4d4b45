// bus.go - Memory bus for the rv64emu machine

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
Buy me a coffee: https://ko-fi.com/intuition/tip

License: GPLv3 or later
*/

/*
bus.go - Machine bus for rv64emu

Routes every load and store the CPU issues to either a memory-mapped
device or DRAM. The split point is MemOff: anything below it is device
space, anything at or above it is DRAM offset by MemOff. Unlike the
Amiga-era machine bus this replaces, there is no page-bitmap MMIO-within-
RAM scheme — the RISC-V physical map used here reserves a fixed low
region for devices and leaves the rest of the address space to DRAM, so
a simple address-range table is sufficient.

The CPU-resident mtime/mtimecmp registers are intercepted before the
device table is consulted at all: they are not owned by any Device, but
by the Cpu itself (see cpu.go). The timer lives there, not in the DRAM
backend, because advancing it is tied to retired-instruction counting.
*/

package main

// MemOff is the physical address where DRAM begins. Addresses below this
// line are memory-mapped device space.
const MemOff = 0x8000_0000

const (
	mtimeAddr    = 0x0200_BFF8
	mtimecmpAddr = 0x0200_4000
)

// Device is a memory-mapped peripheral answering reads and writes within
// its own reserved address range. size is 1, 2, 4, or 8 bytes.
type Device interface {
	Load(size, addr uint64) (uint64, error)
	Store(size, addr, val uint64) error
}

// ioRegion is one entry in the bus's device dispatch table.
type ioRegion struct {
	start, end uint64 // inclusive
	dev        Device
}

// Bus dispatches loads and stores between DRAM and the machine's
// memory-mapped devices. The CPU is the sole owner of a Bus; the Bus is
// the sole owner of the Dram and Device instances registered with it.
type Bus struct {
	dram    *Dram
	regions []ioRegion

	// mtime/mtimecmp live here, not in any Device. The Cpu ticks mtime
	// every retired instruction and reads/writes these through the bus
	// like any other memory-mapped register.
	mtime, mtimecmp *uint64

	// uart is kept alongside the generic device table so the debugger's
	// `uart` command can dump its register file without a type-switch
	// over every registered Device.
	uart *Uart
}

// AttachUartDebug records dev as the UART the debugger's `uart` command
// dumps. RegisterDevice still handles load/store dispatch; this is purely
// for the monitor's register-file snapshot.
func (b *Bus) AttachUartDebug(dev *Uart) {
	b.uart = dev
}

// NewBus creates a bus over dram with no registered devices. Call
// RegisterDevice for each MMIO peripheral before use.
func NewBus(dram *Dram, mtime, mtimecmp *uint64) *Bus {
	return &Bus{dram: dram, mtime: mtime, mtimecmp: mtimecmp}
}

// AttachTimer rewires the bus's mtime/mtimecmp MMIO registers onto the
// Cpu's own storage, so a guest polling 0x0200_BFF8/0x0200_4000 observes
// the same counters the Cpu ticks every retired instruction rather than a
// disconnected copy.
func (b *Bus) AttachTimer(mtime, mtimecmp *uint64) {
	b.mtime = mtime
	b.mtimecmp = mtimecmp
}

// RegisterDevice adds a device occupying [start, end] inclusive, in
// physical address space below MemOff.
func (b *Bus) RegisterDevice(start, end uint64, dev Device) {
	b.regions = append(b.regions, ioRegion{start: start, end: end, dev: dev})
}

func (b *Bus) findDevice(addr uint64) Device {
	for i := range b.regions {
		r := &b.regions[i]
		if addr >= r.start && addr <= r.end {
			return r.dev
		}
	}
	return nil
}

// Load reads size bytes (1, 2, 4, or 8) at the given physical address.
func (b *Bus) Load(size, addr uint64) (uint64, error) {
	if addr == mtimeAddr && size == 8 {
		return *b.mtime, nil
	}
	if addr == mtimecmpAddr && size == 8 {
		return *b.mtimecmp, nil
	}
	if addr < MemOff {
		if dev := b.findDevice(addr); dev != nil {
			return dev.Load(size, addr)
		}
		return 0, &EmuError{Kind: InvalidAddress, Msg: "no device at address"}
	}
	off := addr - MemOff
	switch size {
	case 1:
		return b.dram.Load8(off)
	case 2:
		return b.dram.Load16(off)
	case 4:
		return b.dram.Load32(off)
	case 8:
		return b.dram.Load64(off)
	default:
		return 0, &EmuError{Kind: InvalidAddress, Msg: "unsupported load size"}
	}
}

// Store writes size bytes of val at the given physical address.
func (b *Bus) Store(size, addr, val uint64) error {
	if addr == mtimeAddr && size == 8 {
		*b.mtime = val
		return nil
	}
	if addr == mtimecmpAddr && size == 8 {
		*b.mtimecmp = val
		return nil
	}
	if addr < MemOff {
		if dev := b.findDevice(addr); dev != nil {
			return dev.Store(size, addr, val)
		}
		return &EmuError{Kind: InvalidAddress, Msg: "no device at address"}
	}
	off := addr - MemOff
	switch size {
	case 1:
		return b.dram.Store8(off, val)
	case 2:
		return b.dram.Store16(off, val)
	case 4:
		return b.dram.Store32(off, val)
	case 8:
		return b.dram.Store64(off, val)
	default:
		return &EmuError{Kind: InvalidAddress, Msg: "unsupported store size"}
	}
}

// Dram exposes the DRAM backend for the ELF/image loaders.
func (b *Bus) Dram() *Dram {
	return b.dram
}
