package main

// Exception cause codes, mcause/scause low bits with the interrupt bit
// (bit 63) clear, straight from the RISC-V privileged spec's cause-code
// table.
const (
	causeInstrMisaligned  = 0
	causeInstrAccessFault = 1
	causeIllegalInstr     = 2
	causeBreakpoint       = 3
	causeLoadMisaligned   = 4
	causeLoadAccessFault  = 5
	causeStoreMisaligned  = 6
	causeStoreAccessFault = 7
	causeECallU           = 8
	causeECallS           = 9
	causeECallM           = 11
	causeInstrPageFault   = 12
	causeLoadPageFault    = 13
	causeStorePageFault   = 15
)

// Interrupt cause codes (without the pending bit set in mip/sip).
const (
	intSSI = 1
	intMSI = 3
	intSTI = 5
	intMTI = 7
	intSEI = 9
	intMEI = 11
)

const causeIntBit = uint64(1) << 63

// raiseException routes a synchronous exception through the same M/S
// delegation path interrupts use: medeleg controls whether an exception
// nominally belonging to M-mode is instead delivered to S.
func (c *Cpu) raiseException(cause uint64, tval uint64) {
	toS := c.csr.m[csrMedeleg]&(1<<cause) != 0 && c.mode != PrivM
	if toS {
		c.deliver(PrivS, cause, tval, false)
	} else {
		c.deliver(PrivM, cause, tval, false)
	}
}

// checkInterrupt implements the standard fixed-priority interrupt
// selection: scan SSIP, MSIP, STIP, MTIP, SEIP, MEIP in that order. The
// pending set is "mip | sip" — csr.go stores sip/sie as CSRs fully
// independent of mip/mie, so a source delegated to S and managed by the
// guest purely through sip/sie would never be seen if this only looked at
// mip/mie. Each candidate's per-source enable is checked against mie if
// it is bound for M, or sie if delegation routes it to S.
func (c *Cpu) checkInterrupt() {
	pending := c.csr.m[csrMip] | c.csr.m[csrSip]
	order := []struct {
		bit   uint64
		cause uint64
	}{
		{bitSSIP, intSSI},
		{bitMSIP, intMSI},
		{bitSTIP, intSTI},
		{bitMTIP, intMTI},
		{bitSEIP, intSEI},
		{bitMEIP, intMEI},
	}

	for _, o := range order {
		if pending&o.bit == 0 {
			continue
		}
		target := PrivM
		enable := c.csr.m[csrMie]
		if c.csr.m[csrMideleg]&(1<<o.cause) != 0 {
			target = PrivS
			enable = c.csr.m[csrSie]
		}
		if enable&o.bit == 0 {
			continue
		}
		if !c.interruptEnabledFor(target) {
			continue
		}
		c.csr.m[csrMip] &^= o.bit
		c.csr.m[csrSip] &^= o.bit
		c.deliver(target, o.cause, 0, true)
		return
	}
}

// interruptEnabledFor reports whether an interrupt destined for target
// mode may currently be taken: a trap to a strictly higher mode than
// current is always enabled, to the same mode requires that mode's own
// xIE bit, and a trap to a lower mode is never taken (the CPU is already
// running at higher privilege).
func (c *Cpu) interruptEnabledFor(target Priv) bool {
	if target > c.mode {
		return true
	}
	if target < c.mode {
		return false
	}
	switch target {
	case PrivM:
		return c.csr.MIE()
	case PrivS:
		return c.csr.SIE()
	default:
		return true
	}
}

// deliver performs M-delivery or S-delivery: save the interrupt enable
// into the pending-interrupt-enable bit, clear the live enable, record
// the interrupted mode, save pc/cause/tval, and jump to the trap vector.
func (c *Cpu) deliver(target Priv, cause uint64, tval uint64, isInterrupt bool) {
	encoded := cause
	if isInterrupt {
		encoded |= causeIntBit
	}
	if target == PrivM {
		c.csr.SetMPIE(c.csr.MIE())
		c.csr.SetMIE(false)
		c.csr.SetMPP(c.mode)
		c.csr.m[csrMepc] = c.pendingPC
		c.csr.m[csrMcause] = encoded
		c.csr.m[csrMtval] = tval
		c.pc = c.csr.m[csrMtvec]
	} else {
		c.csr.SetSPIE(c.csr.SIE())
		c.csr.SetSIE(false)
		c.csr.SetSPP(c.mode)
		c.csr.m[csrSepc] = c.pendingPC
		c.csr.m[csrScause] = encoded
		c.csr.m[csrStval] = tval
		c.pc = c.csr.m[csrStvec]
	}
	c.mode = target
}
