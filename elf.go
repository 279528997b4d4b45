package main

import (
	"encoding/binary"
	"fmt"
	"os"
)

// StackBottom is the initial stack pointer seeded into sp (x2) after a
// successful ELF or hex-image load. Chosen near the top of a typical
// 128 MiB DRAM allocation, 16-byte aligned per the RISC-V calling
// convention.
const StackBottom = MemOff + 0x07FF_FFF0

const elfMagic = 0x464C457F // "\x7fELF" as a little-endian uint32

const ptLoad = 1

// LoadELF parses an ELF64 little-endian image and copies every PT_LOAD
// segment into dram at its physical load address. It returns the entry
// point, to become the CPU's initial PC.
func LoadELF(data []byte, dram *Dram) (entry uint64, err error) {
	if len(data) < 0x40 {
		return 0, fmt.Errorf("elf: file too short")
	}
	if binary.LittleEndian.Uint32(data[0:4]) != elfMagic {
		return 0, fmt.Errorf("elf: bad magic")
	}

	entry = binary.LittleEndian.Uint64(data[0x18:0x20])
	phoff := binary.LittleEndian.Uint64(data[0x20:0x28])
	phentsize := binary.LittleEndian.Uint16(data[0x36:0x38])
	phnum := binary.LittleEndian.Uint16(data[0x38:0x3A])

	for i := uint16(0); i < phnum; i++ {
		base := phoff + uint64(i)*uint64(phentsize)
		if base+56 > uint64(len(data)) {
			return 0, fmt.Errorf("elf: program header %d out of range", i)
		}
		ph := data[base:]
		pType := binary.LittleEndian.Uint32(ph[0:4])
		if pType != ptLoad {
			continue
		}
		pOffset := binary.LittleEndian.Uint64(ph[8:16])
		pPaddr := binary.LittleEndian.Uint64(ph[24:32])
		pFilesz := binary.LittleEndian.Uint64(ph[32:40])

		if pOffset+pFilesz > uint64(len(data)) {
			return 0, fmt.Errorf("elf: segment %d file range out of bounds", i)
		}
		off := pPaddr - MemOff
		mem := dram.Bytes()
		if off+pFilesz > uint64(len(mem)) {
			return 0, fmt.Errorf("elf: segment %d physical range out of bounds", i)
		}
		copy(mem[off:off+pFilesz], data[pOffset:pOffset+pFilesz])
		// p_memsz - p_filesz remainder is left zero: DRAM starts pre-zeroed.
	}

	return entry, nil
}

// LoadELFFile reads path and loads it via LoadELF.
func LoadELFFile(path string, dram *Dram) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("elf: %w", err)
	}
	return LoadELF(data, dram)
}
