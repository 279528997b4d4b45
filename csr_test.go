package main

import "testing"

func TestCSRReadWriteRoundTrip(t *testing.T) {
	c := NewCSRFile()
	if err := c.Write(csrMscratch, 0xDEADBEEF); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := c.Read(csrMscratch)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Fatalf("got %#x, want %#x", v, 0xDEADBEEF)
	}
}

func TestCSRUnknownRegisterErrors(t *testing.T) {
	c := NewCSRFile()
	if _, err := c.Read(0x999); err == nil {
		t.Fatalf("expected InvalidRegister for unknown CSR read")
	}
	if err := c.Write(0x999, 1); err == nil {
		t.Fatalf("expected InvalidRegister for unknown CSR write")
	}
}

func TestCSRResetValues(t *testing.T) {
	c := NewCSRFile()
	misa, err := c.Read(csrMisa)
	if err != nil {
		t.Fatalf("read misa: %v", err)
	}
	if misa&(1<<63) == 0 {
		t.Fatalf("misa MXL field should mark RV64")
	}
	if misa&(1<<8) == 0 {
		t.Fatalf("misa should report I extension")
	}
}

func TestCSRMstatusAccessors(t *testing.T) {
	c := NewCSRFile()
	c.SetMIE(true)
	if !c.MIE() {
		t.Fatalf("MIE should be set")
	}
	c.SetMIE(false)
	if c.MIE() {
		t.Fatalf("MIE should be clear")
	}

	c.SetMPP(PrivS)
	if c.MPP() != PrivS {
		t.Fatalf("MPP = %v, want PrivS", c.MPP())
	}
	c.SetMPP(PrivM)
	if c.MPP() != PrivM {
		t.Fatalf("MPP = %v, want PrivM", c.MPP())
	}
}

func TestCSRSstatusAccessors(t *testing.T) {
	c := NewCSRFile()
	c.SetSPP(PrivS)
	if c.SPP() != PrivS {
		t.Fatalf("SPP = %v, want PrivS", c.SPP())
	}
	c.SetSPP(PrivU)
	if c.SPP() != PrivU {
		t.Fatalf("SPP = %v, want PrivU", c.SPP())
	}

	c.SetSIE(true)
	if !c.SIE() {
		t.Fatalf("SIE should be set")
	}
}

func TestCSRPmpCfgAndAddrExtraction(t *testing.T) {
	c := NewCSRFile()
	// pmpcfg0 packs 8 cfg bytes; set cfg byte 2 to 0x1F.
	if err := c.Write(csrPmpcfg0, 0x1F<<16); err != nil {
		t.Fatalf("write pmpcfg0: %v", err)
	}
	if got := c.PmpCfgByte(2); got != 0x1F {
		t.Fatalf("PmpCfgByte(2) = %#x, want 0x1F", got)
	}

	if err := c.Write(csrPmpaddr0+5, 0x1234); err != nil {
		t.Fatalf("write pmpaddr5: %v", err)
	}
	if got := c.PmpAddr(5); got != 0x1234 {
		t.Fatalf("PmpAddr(5) = %#x, want 0x1234", got)
	}
}

func TestCSRPmpcfgRangeIsKnown(t *testing.T) {
	c := NewCSRFile()
	for i := uint16(0); i < 16; i++ {
		if _, err := c.Read(csrPmpcfg0 + i); err != nil {
			t.Fatalf("pmpcfg%d should be a known CSR: %v", i, err)
		}
	}
	for i := uint16(0); i < 64; i++ {
		if _, err := c.Read(csrPmpaddr0 + i); err != nil {
			t.Fatalf("pmpaddr%d should be a known CSR: %v", i, err)
		}
	}
}
