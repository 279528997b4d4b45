package main

import (
	"encoding/binary"
	"testing"
)

// buildMiniELF assembles the minimum ELF64 LE header and a single PT_LOAD
// program header copying payload to paddr, with entry as e_entry.
func buildMiniELF(entry, paddr uint64, payload []byte) []byte {
	const ehsize = 0x40
	const phsize = 56

	buf := make([]byte, ehsize+phsize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], elfMagic)
	binary.LittleEndian.PutUint64(buf[0x18:0x20], entry)
	binary.LittleEndian.PutUint64(buf[0x20:0x28], ehsize) // phoff
	binary.LittleEndian.PutUint16(buf[0x36:0x38], phsize)
	binary.LittleEndian.PutUint16(buf[0x38:0x3A], 1) // phnum

	ph := buf[ehsize : ehsize+phsize]
	binary.LittleEndian.PutUint32(ph[0:4], ptLoad)
	binary.LittleEndian.PutUint64(ph[8:16], ehsize+phsize)        // p_offset
	binary.LittleEndian.PutUint64(ph[24:32], paddr)               // p_paddr
	binary.LittleEndian.PutUint64(ph[32:40], uint64(len(payload))) // p_filesz

	copy(buf[ehsize+phsize:], payload)
	return buf
}

func TestLoadELFCopiesSegmentAndReturnsEntry(t *testing.T) {
	dram := NewDram(1 << 16)
	payload := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	data := buildMiniELF(MemOff+0x10, MemOff+0x100, payload)

	entry, err := LoadELF(data, dram)
	if err != nil {
		t.Fatalf("LoadELF: %v", err)
	}
	if entry != MemOff+0x10 {
		t.Fatalf("entry = %#x, want %#x", entry, MemOff+0x10)
	}

	got := dram.Bytes()[0x100 : 0x100+4]
	for i, b := range payload {
		if got[i] != b {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], b)
		}
	}
}

func TestLoadELFBadMagicRejected(t *testing.T) {
	dram := NewDram(1 << 16)
	data := make([]byte, 0x40)
	if _, err := LoadELF(data, dram); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestLoadELFTooShortRejected(t *testing.T) {
	dram := NewDram(1 << 16)
	if _, err := LoadELF([]byte{1, 2, 3}, dram); err == nil {
		t.Fatalf("expected error for truncated file")
	}
}

func TestLoadELFSegmentPastDramRejected(t *testing.T) {
	dram := NewDram(1 << 10) // 1 KiB DRAM, too small for the segment below
	data := buildMiniELF(MemOff, MemOff+0x10000, []byte{1, 2, 3, 4})
	if _, err := LoadELF(data, dram); err == nil {
		t.Fatalf("expected error for segment physical range out of bounds")
	}
}
