package main

import "testing"

func newTestCpu() *Cpu {
	dram := NewDram(1 << 20)
	var mtime, mtimecmp uint64
	bus := NewBus(dram, &mtime, &mtimecmp)
	return NewCpu(bus, dram.Size())
}

func TestPmpDecodeNAPOT(t *testing.T) {
	// base 0x8000_0000, size 0x1000 (4 KiB): pmpaddr = (base >> 2) | (size/8 - 1 trailing ones)
	// size/8 = 0x200, trailing ones count = 9 (2^9 = 0x200)
	base := uint64(0x8000_0000)
	size := uint64(0x1000)
	trailing := uint64(0)
	for s := size / 8; s > 1; s >>= 1 {
		trailing++
	}
	pmpaddr := (base >> 2) | ((1 << trailing) - 1)

	lo, hi := decodeNAPOT(pmpaddr)
	if lo != base {
		t.Fatalf("lo = %#x, want %#x", lo, base)
	}
	if hi != base+size {
		t.Fatalf("hi = %#x, want %#x", hi, base+size)
	}
}

func TestPmpDecodeNAPOTAllOnesCoversEverything(t *testing.T) {
	lo, hi := decodeNAPOT(^uint64(0))
	if lo != 0 || hi != ^uint64(0) {
		t.Fatalf("lo=%#x hi=%#x, want full range", lo, hi)
	}
}

func TestPmpMModeBypassesByDefault(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivM
	// no PMP entries configured, MPRV clear: M-mode access always allowed.
	if err := c.checkPMP(0x8000_1000, PermWrite); err != nil {
		t.Fatalf("expected no PMP error in plain M-mode access: %v", err)
	}
}

func TestPmpNA4DeniesOutsideMode(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivU
	// cfg byte 0: NA4, read-only.
	if err := c.csr.Write(csrPmpcfg0, uint64(pmpANA4|pmpR)); err != nil {
		t.Fatalf("write pmpcfg0: %v", err)
	}
	if err := c.csr.Write(csrPmpaddr0, 0x8000_0000>>2); err != nil {
		t.Fatalf("write pmpaddr0: %v", err)
	}

	if err := c.checkPMP(0x8000_0000, PermRead); err != nil {
		t.Fatalf("expected read allowed: %v", err)
	}
	if err := c.checkPMP(0x8000_0000, PermWrite); err == nil {
		t.Fatalf("expected write denied by read-only NA4 region")
	}
}

func TestPmpTORMatchesRange(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivU
	// entry 0 is the floor (disabled, a=0); entry 1 is TOR up to 0x8000_2000,
	// permitting read+write in [entry0.addr, entry1.addr).
	if err := c.csr.Write(csrPmpaddr0, 0x8000_0000>>2); err != nil {
		t.Fatalf("write pmpaddr0: %v", err)
	}
	if err := c.csr.Write(csrPmpaddr0+1, 0x8000_2000>>2); err != nil {
		t.Fatalf("write pmpaddr1: %v", err)
	}
	if err := c.csr.Write(csrPmpcfg0, uint64(pmpATor|pmpR|pmpW)<<8); err != nil {
		t.Fatalf("write pmpcfg0: %v", err)
	}

	if err := c.checkPMP(0x8000_1000, PermWrite); err != nil {
		t.Fatalf("expected write allowed inside TOR range: %v", err)
	}
	if err := c.checkPMP(0x8000_3000, PermRead); err == nil {
		t.Fatalf("expected no match (and thus deny in U-mode) outside TOR range")
	}
}

func TestPmpNoMatchDeniesInUMode(t *testing.T) {
	c := newTestCpu()
	c.mode = PrivU
	if err := c.csr.Write(csrPmpcfg0, uint64(pmpANA4|pmpR)); err != nil {
		t.Fatalf("write pmpcfg0: %v", err)
	}
	if err := c.csr.Write(csrPmpaddr0, 0x8000_0000>>2); err != nil {
		t.Fatalf("write pmpaddr0: %v", err)
	}
	if err := c.checkPMP(0x9000_0000, PermRead); err == nil {
		t.Fatalf("expected deny for unmatched address in U-mode")
	}
}
