package main

import "encoding/binary"

// Dram is the flat byte array backing physical memory at and above MemOff.
// All multi-byte accesses are little-endian. Offsets are zero-based into
// the backing slice, already translated from a physical address by the bus.
type Dram struct {
	mem []byte
}

// NewDram allocates a zeroed DRAM backend of size bytes.
func NewDram(size uint64) *Dram {
	return &Dram{mem: make([]byte, size)}
}

// Size returns the DRAM capacity in bytes.
func (d *Dram) Size() uint64 {
	return uint64(len(d.mem))
}

func (d *Dram) bounds(off, n uint64) bool {
	return off+n <= uint64(len(d.mem)) && off+n >= off
}

func (d *Dram) Load8(off uint64) (uint64, error) {
	if !d.bounds(off, 1) {
		return 0, &EmuError{Kind: InvalidAddress, Msg: "dram load8 out of range"}
	}
	return uint64(d.mem[off]), nil
}

func (d *Dram) Load16(off uint64) (uint64, error) {
	if !d.bounds(off, 2) {
		return 0, &EmuError{Kind: InvalidAddress, Msg: "dram load16 out of range"}
	}
	return uint64(binary.LittleEndian.Uint16(d.mem[off:])), nil
}

func (d *Dram) Load32(off uint64) (uint64, error) {
	if !d.bounds(off, 4) {
		return 0, &EmuError{Kind: InvalidAddress, Msg: "dram load32 out of range"}
	}
	return uint64(binary.LittleEndian.Uint32(d.mem[off:])), nil
}

func (d *Dram) Load64(off uint64) (uint64, error) {
	if !d.bounds(off, 8) {
		return 0, &EmuError{Kind: InvalidAddress, Msg: "dram load64 out of range"}
	}
	return binary.LittleEndian.Uint64(d.mem[off:]), nil
}

func (d *Dram) Store8(off uint64, v uint64) error {
	if !d.bounds(off, 1) {
		return &EmuError{Kind: InvalidAddress, Msg: "dram store8 out of range"}
	}
	d.mem[off] = byte(v)
	return nil
}

func (d *Dram) Store16(off uint64, v uint64) error {
	if !d.bounds(off, 2) {
		return &EmuError{Kind: InvalidAddress, Msg: "dram store16 out of range"}
	}
	binary.LittleEndian.PutUint16(d.mem[off:], uint16(v))
	return nil
}

func (d *Dram) Store32(off uint64, v uint64) error {
	if !d.bounds(off, 4) {
		return &EmuError{Kind: InvalidAddress, Msg: "dram store32 out of range"}
	}
	binary.LittleEndian.PutUint32(d.mem[off:], uint32(v))
	return nil
}

func (d *Dram) Store64(off uint64, v uint64) error {
	if !d.bounds(off, 8) {
		return &EmuError{Kind: InvalidAddress, Msg: "dram store64 out of range"}
	}
	binary.LittleEndian.PutUint64(d.mem[off:], v)
	return nil
}

// Bytes exposes the raw backing slice for the ELF/image loaders and the
// debugger's memory-dump command. Callers must not retain it past a Reset.
func (d *Dram) Bytes() []byte {
	return d.mem
}
