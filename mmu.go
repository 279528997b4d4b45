package main

// PTE bits.
const (
	pteV = 1 << 0
	pteR = 1 << 1
	pteW = 1 << 2
	pteX = 1 << 3
	pteU = 1 << 4
	pteG = 1 << 5
	pteA = 1 << 6
	pteD = 1 << 7
)

// Perm tags the access kind a translation or PMP check is being
// performed for.
type Perm int

const (
	PermRead Perm = iota
	PermWrite
	PermExec
)

const satpModeSv39 = 8

// translate walks the Sv39 page table for va, returning the physical
// address or a PageFault. satp.MODE other than Sv39 passes the address
// through unchanged (Bare) or is treated as Bare (Sv48/57/64 are
// enumerated but not implemented).
func (c *Cpu) translate(va uint64, perm Perm) (uint64, error) {
	satp := c.csr.m[csrSatp]
	mode := satp >> 60
	if mode != satpModeSv39 {
		return va, nil
	}
	// M-mode translation only applies when MPRV redirects an M-mode
	// load/store through S/U permissions; fetches are never translated
	// in M-mode regardless of MPRV.
	if c.mode == PrivM && !(perm != PermExec && c.csr.MPRV()) {
		return va, nil
	}

	ppn := (satp & ((1 << 44) - 1)) * 4096
	vpn := [3]uint64{(va >> 12) & 0x1FF, (va >> 21) & 0x1FF, (va >> 30) & 0x1FF}

	a := ppn
	var pte uint64
	level := 2
	for ; level >= 0; level-- {
		pteAddr := a + vpn[level]*8
		raw, err := c.bus.Load(8, pteAddr)
		if err != nil {
			return 0, &EmuError{Kind: PageFault, Msg: "pte load failed"}
		}
		pte = raw

		if pte&pteV == 0 || (pte&pteR == 0 && pte&pteW != 0) {
			return 0, &EmuError{Kind: PageFault, Msg: "invalid pte"}
		}
		if pte&(pteR|pteX) != 0 {
			break // leaf
		}
		a = ((pte >> 10) & ((1 << 44) - 1)) * 4096
		if level == 0 {
			return 0, &EmuError{Kind: PageFault, Msg: "no leaf found"}
		}
	}

	if !checkLeafPerm(pte, perm, c.mode) {
		return 0, &EmuError{Kind: PageFault, Msg: "permission denied"}
	}

	ppnBits := (pte >> 10) & ((1 << 44) - 1)
	offset := va & 0xFFF
	switch level {
	case 0:
		return (ppnBits << 12) | offset, nil
	case 1:
		// megapage (2 MiB): PPN[0] is replaced by VPN[0]
		return ((ppnBits &^ 0x1FF) << 12) | (vpn[0] << 12) | offset, nil
	default:
		// gigapage (1 GiB): PPN[1:0] are replaced by VPN[1:0]
		return ((ppnBits &^ 0x3FFFF) << 12) | (vpn[1] << 21) | (vpn[0] << 12) | offset, nil
	}
}

func checkLeafPerm(pte uint64, perm Perm, mode Priv) bool {
	switch perm {
	case PermRead:
		if pte&pteR == 0 {
			return false
		}
	case PermWrite:
		if pte&pteW == 0 {
			return false
		}
	case PermExec:
		if pte&pteX == 0 {
			return false
		}
	}
	if mode == PrivU && pte&pteU == 0 {
		return false
	}
	if mode == PrivS && pte&pteU != 0 {
		// S-mode access to a U-page requires sstatus.SUM, not modeled.
		return true
	}
	return true
}
