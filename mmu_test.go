package main

import "testing"

func TestMmuBarePassthroughWhenSatpModeNotSv39(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivS
	// satp.MODE left at 0 (Bare).
	phys, err := c.translate(0x8000_1000, PermRead)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if phys != 0x8000_1000 {
		t.Fatalf("bare mode should pass the address through unchanged: got %#x", phys)
	}
}

func TestMmuMModeSkipsTranslationWithoutMPRV(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivM
	if err := c.csr.Write(csrSatp, satpModeSv39<<60); err != nil {
		t.Fatalf("write satp: %v", err)
	}
	phys, err := c.translate(0x1234_5678, PermRead)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if phys != 0x1234_5678 {
		t.Fatalf("M-mode without MPRV must bypass translation: got %#x", phys)
	}
}

// buildLeafSv39 writes a single-level-3 leaf PTE chain for va, returning the
// physical page the leaf maps to. Only level-0 (4 KiB pages) is exercised
// here; megapage/gigapage reconstruction is covered separately.
func buildLeafSv39(t *testing.T, c *Cpu, va, targetPhys uint64, perm byte) {
	t.Helper()
	rootPPN := uint64(0x8000_0000-MemOff) / 4096 // place root table at start of DRAM
	l1PPN := rootPPN + 1
	l0PPN := rootPPN + 2
	targetPPN := targetPhys / 4096

	vpn2 := (va >> 30) & 0x1FF
	vpn1 := (va >> 21) & 0x1FF
	vpn0 := (va >> 12) & 0x1FF

	writePTE := func(tablePPN, idx, childPPN uint64, leafFlags byte) {
		addr := tablePPN*4096 + idx*8
		var pte uint64
		if leafFlags != 0 {
			pte = (childPPN << 10) | uint64(leafFlags) | pteV
		} else {
			pte = (childPPN << 10) | pteV
		}
		if err := c.bus.Store(8, MemOff+addr, pte); err != nil {
			t.Fatalf("store pte: %v", err)
		}
	}

	writePTE(rootPPN, vpn2, l1PPN, 0)
	writePTE(l1PPN, vpn1, l0PPN, 0)
	writePTE(l0PPN, vpn0, targetPPN, perm|pteV|pteU)

	if err := c.csr.Write(csrSatp, (satpModeSv39<<60)|(MemOff+rootPPN*4096)/4096); err != nil {
		t.Fatalf("write satp: %v", err)
	}
}

func TestMmuSv39LeafTranslation(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivU
	va := uint64(0x1000_0000)
	target := uint64(MemOff + 0x4_0000)
	buildLeafSv39(t, c, va, target, pteR|pteW)

	phys, err := c.translate(va, PermRead)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if phys != target {
		t.Fatalf("phys = %#x, want %#x", phys, target)
	}
}

func TestMmuSv39PermissionDenied(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivU
	va := uint64(0x2000_0000)
	target := uint64(MemOff + 0x5_0000)
	buildLeafSv39(t, c, va, target, pteR) // read-only leaf

	if _, err := c.translate(va, PermWrite); err == nil {
		t.Fatalf("expected page fault for write to a read-only leaf")
	}
}
