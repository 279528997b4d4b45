// cpu.go - Execution engine for rv64emu

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
cpu.go - The instruction execution engine.

Owns the Bus, RegisterFile, CSRFile, reservation bitmap, privilege mode,
and debugger state exclusively. The run loop steps
fetch/translate/PMP/decode/execute/tick/interrupt/advance/debugger one
retired instruction at a time.

mepc/sepc always receive the PC of the instruction that would execute
next, computed after the auto-advance decision, never whatever pc
happened to hold mid-timer-check. See deliver() in trap.go and the
pendingPC field below.
*/

package main

import (
	"fmt"
	"math/bits"
)

// MtimeDelta is the fixed per-instruction increment to mtime. A constant
// delta keeps timer behavior deterministic and reproducible across runs
// instead of tying it to wall-clock time.
const MtimeDelta = 2500

// Cpu is the single hart. It exclusively owns every piece of mutable
// emulator state; nothing outside it mutates registers, CSRs, memory,
// devices, or mode directly.
type Cpu struct {
	reg  RegisterFile
	csr  *CSRFile
	bus  *Bus
	resv *Reservations

	pc        uint64
	pendingPC uint64 // PC to save into mepc/sepc on the next trap entry
	mode      Priv

	mtime, mtimecmp uint64

	dbg DebugState

	halted bool
}

// DebugState is the debugger's view into the CPU.
type DebugState struct {
	Enabled       bool
	Breakpoint    uint64
	BreakpointSet bool
	Stepping      bool
}

// NewCpu wires a Cpu around the given bus and DRAM size, starting in
// M-mode at MemOff (the reset vector for this machine).
func NewCpu(bus *Bus, memSize uint64) *Cpu {
	c := &Cpu{
		csr:  NewCSRFile(),
		bus:  bus,
		resv: NewReservations(memSize),
		pc:   MemOff,
		mode: PrivM,
	}
	bus.AttachTimer(&c.mtime, &c.mtimecmp)
	return c
}

// handleMemErr converts a bus/translation/PMP error into either an
// architectural exception (PageFault, PMPFault, MisalignedReservation)
// or a fatal-to-host panic (InvalidAddress, InvalidRegister).
func (c *Cpu) handleMemErr(err error, accessCause, pageCause uint64, tval uint64) {
	ee, ok := err.(*EmuError)
	if !ok {
		panic(err)
	}
	switch ee.Kind {
	case PageFault:
		c.raiseException(pageCause, tval)
	case PMPFault, MisalignedReservation:
		c.raiseException(accessCause, tval)
	default:
		panic(ee)
	}
}

// loadPhys translates va for perm, PMP-checks the physical address, and
// loads size bytes. On failure it raises the appropriate exception (or
// panics for a fatal condition) and returns ok=false; the caller must not
// continue executing the instruction.
func (c *Cpu) loadPhys(va uint64, size uint64, perm Perm, accessCause, pageCause uint64) (uint64, bool) {
	phys, err := c.translate(va, perm)
	if err != nil {
		c.handleMemErr(err, accessCause, pageCause, va)
		return 0, false
	}
	if err := c.checkPMP(phys, perm); err != nil {
		c.handleMemErr(err, accessCause, pageCause, va)
		return 0, false
	}
	v, err := c.bus.Load(size, phys)
	if err != nil {
		panic(err) // InvalidAddress is fatal to the host process
	}
	return v, true
}

func (c *Cpu) storePhys(va uint64, size uint64, val uint64, accessCause, pageCause uint64) bool {
	phys, err := c.translate(va, PermWrite)
	if err != nil {
		c.handleMemErr(err, accessCause, pageCause, va)
		return false
	}
	if err := c.checkPMP(phys, PermWrite); err != nil {
		c.handleMemErr(err, accessCause, pageCause, va)
		return false
	}
	if err := c.bus.Store(size, phys, val); err != nil {
		panic(err)
	}
	return true
}

// Step runs exactly one retired-instruction tick: fetch, decode, execute,
// timer tick, interrupt delivery, PC auto-advance.
func (c *Cpu) Step() {
	fetchPC := c.pc
	c.pendingPC = fetchPC

	phys, err := c.translate(fetchPC, PermExec)
	if err == nil {
		err = c.checkPMP(phys, PermExec)
	}
	if err != nil {
		c.handleMemErr(err, causeInstrAccessFault, causeInstrPageFault, fetchPC)
		c.tickTimerAndInterrupt()
		return
	}

	word, err := c.bus.Load(4, phys)
	if err != nil {
		panic(err)
	}

	inst := Decode(uint32(word))
	if inst.Name == InstInvalid {
		c.raiseException(causeIllegalInstr, word)
		c.tickTimerAndInterrupt()
		return
	}

	c.execute(inst, fetchPC)

	if c.pc == fetchPC {
		c.pc += 4
	}

	c.tickTimerAndInterrupt()
}

func (c *Cpu) tickTimerAndInterrupt() {
	c.mtime += MtimeDelta
	if c.mtime >= c.mtimecmp {
		c.csr.m[csrMip] |= bitMTIP
	}
	c.pendingPC = c.pc
	c.checkInterrupt()
}

// sext sign-extends the low `bits` bits of val into a 64-bit value.
func sext(val uint32, bits uint) uint64 {
	shift := 32 - bits
	return uint64(int64(int32(val<<shift)) >> shift)
}

func mulhu(a, b uint64) uint64 {
	hi, _ := bits.Mul64(a, b)
	return hi
}

func mulh(a, b int64) int64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64(hi)
}

func mulhsu(a int64, b uint64) uint64 {
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return hi
}

func divS(a, b int64) int64 {
	if b == 0 {
		return -1
	}
	if a == -1<<63 && b == -1 {
		return a
	}
	return a / b
}

func divU(a, b uint64) uint64 {
	if b == 0 {
		return ^uint64(0)
	}
	return a / b
}

func remS(a, b int64) int64 {
	if b == 0 {
		return a
	}
	if a == -1<<63 && b == -1 {
		return 0
	}
	return a % b
}

func remU(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return a % b
}

// execute performs the named operation. It may redirect c.pc (branches,
// jumps, xRET, traps); if it leaves c.pc untouched, Step auto-advances by
// 4 after it returns.
func (c *Cpu) execute(inst Instruction, pc uint64) {
	rs1 := c.reg.Get(inst.Rs1)
	rs2 := c.reg.Get(inst.Rs2)

	switch inst.Name {
	case InstLUI:
		c.reg.Set(inst.Rd, sext(inst.Imm<<12, 32))
	case InstAUIPC:
		c.reg.Set(inst.Rd, pc+sext(inst.Imm<<12, 32))

	case InstJAL:
		c.reg.Set(inst.Rd, pc+4)
		c.pc = pc + sext(inst.Imm, 21)
	case InstJALR:
		target := (rs1 + sext(inst.Imm, 12)) &^ 1
		c.reg.Set(inst.Rd, pc+4)
		c.pc = target

	case InstBEQ:
		if rs1 == rs2 {
			c.pc = pc + sext(inst.Imm, 13)
		}
	case InstBNE:
		if rs1 != rs2 {
			c.pc = pc + sext(inst.Imm, 13)
		}
	case InstBLT:
		if int64(rs1) < int64(rs2) {
			c.pc = pc + sext(inst.Imm, 13)
		}
	case InstBGE:
		if int64(rs1) >= int64(rs2) {
			c.pc = pc + sext(inst.Imm, 13)
		}
	case InstBLTU:
		if rs1 < rs2 {
			c.pc = pc + sext(inst.Imm, 13)
		}
	case InstBGEU:
		if rs1 >= rs2 {
			c.pc = pc + sext(inst.Imm, 13)
		}

	case InstADDI:
		c.reg.Set(inst.Rd, rs1+sext(inst.Imm, 12))
	case InstSLTI:
		c.reg.Set(inst.Rd, boolU64(int64(rs1) < int64(sext(inst.Imm, 12))))
	case InstSLTIU:
		c.reg.Set(inst.Rd, boolU64(rs1 < sext(inst.Imm, 12)))
	case InstXORI:
		c.reg.Set(inst.Rd, rs1^sext(inst.Imm, 12))
	case InstORI:
		c.reg.Set(inst.Rd, rs1|sext(inst.Imm, 12))
	case InstANDI:
		c.reg.Set(inst.Rd, rs1&sext(inst.Imm, 12))
	case InstSLLI:
		c.reg.Set(inst.Rd, rs1<<(inst.Imm&0x3F))
	case InstSRLI:
		c.reg.Set(inst.Rd, rs1>>(inst.Imm&0x3F))
	case InstSRAI:
		c.reg.Set(inst.Rd, uint64(int64(rs1)>>(inst.Imm&0x3F)))

	case InstADD:
		c.reg.Set(inst.Rd, rs1+rs2)
	case InstSUB:
		c.reg.Set(inst.Rd, rs1-rs2)
	case InstSLL:
		c.reg.Set(inst.Rd, rs1<<(rs2&0x3F))
	case InstSLT:
		c.reg.Set(inst.Rd, boolU64(int64(rs1) < int64(rs2)))
	case InstSLTU:
		c.reg.Set(inst.Rd, boolU64(rs1 < rs2))
	case InstXOR:
		c.reg.Set(inst.Rd, rs1^rs2)
	case InstSRL:
		c.reg.Set(inst.Rd, rs1>>(rs2&0x3F))
	case InstSRA:
		c.reg.Set(inst.Rd, uint64(int64(rs1)>>(rs2&0x3F)))
	case InstOR:
		c.reg.Set(inst.Rd, rs1|rs2)
	case InstAND:
		c.reg.Set(inst.Rd, rs1&rs2)

	case InstADDIW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)+inst.Imm, 32))
	case InstSLLIW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)<<(inst.Imm&0x1F), 32))
	case InstSRLIW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)>>(inst.Imm&0x1F), 32))
	case InstSRAIW:
		c.reg.Set(inst.Rd, sext(uint32(int32(uint32(rs1))>>(inst.Imm&0x1F)), 32))

	case InstADDW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)+uint32(rs2), 32))
	case InstSUBW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)-uint32(rs2), 32))
	case InstSLLW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)<<(rs2&0x1F), 32))
	case InstSRLW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)>>(rs2&0x1F), 32))
	case InstSRAW:
		c.reg.Set(inst.Rd, sext(uint32(int32(uint32(rs1))>>(rs2&0x1F)), 32))

	case InstMUL:
		c.reg.Set(inst.Rd, rs1*rs2)
	case InstMULH:
		c.reg.Set(inst.Rd, uint64(mulh(int64(rs1), int64(rs2))))
	case InstMULHSU:
		c.reg.Set(inst.Rd, mulhsu(int64(rs1), rs2))
	case InstMULHU:
		c.reg.Set(inst.Rd, mulhu(rs1, rs2))
	case InstDIV:
		c.reg.Set(inst.Rd, uint64(divS(int64(rs1), int64(rs2))))
	case InstDIVU:
		c.reg.Set(inst.Rd, divU(rs1, rs2))
	case InstREM:
		c.reg.Set(inst.Rd, uint64(remS(int64(rs1), int64(rs2))))
	case InstREMU:
		c.reg.Set(inst.Rd, remU(rs1, rs2))

	case InstMULW:
		c.reg.Set(inst.Rd, sext(uint32(rs1)*uint32(rs2), 32))
	case InstDIVW:
		c.reg.Set(inst.Rd, sext(uint32(divS(int64(int32(uint32(rs1))), int64(int32(uint32(rs2))))), 32))
	case InstDIVUW:
		c.reg.Set(inst.Rd, sext(uint32(divU(uint64(uint32(rs1)), uint64(uint32(rs2)))), 32))
	case InstREMW:
		c.reg.Set(inst.Rd, sext(uint32(remS(int64(int32(uint32(rs1))), int64(int32(uint32(rs2))))), 32))
	case InstREMUW:
		c.reg.Set(inst.Rd, sext(uint32(remU(uint64(uint32(rs1)), uint64(uint32(rs2)))), 32))

	case InstLB:
		c.execLoad(inst, rs1, 1, true)
	case InstLH:
		c.execLoad(inst, rs1, 2, true)
	case InstLW:
		c.execLoad(inst, rs1, 4, true)
	case InstLD:
		c.execLoad(inst, rs1, 8, true)
	case InstLBU:
		c.execLoad(inst, rs1, 1, false)
	case InstLHU:
		c.execLoad(inst, rs1, 2, false)
	case InstLWU:
		c.execLoad(inst, rs1, 4, false)

	case InstSB:
		c.execStore(inst, rs1, rs2, 1)
	case InstSH:
		c.execStore(inst, rs1, rs2, 2)
	case InstSW:
		c.execStore(inst, rs1, rs2, 4)
	case InstSD:
		c.execStore(inst, rs1, rs2, 8)

	case InstLRW, InstLRD:
		c.execLR(inst, rs1)
	case InstSCW, InstSCD:
		c.execSC(inst, rs1, rs2)
	case InstAMOSWAPW, InstAMOADDW, InstAMOXORW, InstAMOANDW, InstAMOORW,
		InstAMOMINW, InstAMOMAXW, InstAMOMINUW, InstAMOMAXUW,
		InstAMOSWAPD, InstAMOADDD, InstAMOXORD, InstAMOANDD, InstAMOORD,
		InstAMOMIND, InstAMOMAXD, InstAMOMINUD, InstAMOMAXUD:
		c.execAMO(inst, rs1, rs2)

	case InstFENCE, InstFENCEI, InstSFENCEVMA, InstWFI:
		// no-ops: memory is sequentially consistent in this single-threaded
		// emulator and WFI does not truly sleep.

	case InstECALL:
		cause := uint64(causeECallM)
		switch c.mode {
		case PrivU:
			cause = causeECallU
		case PrivS:
			cause = causeECallS
		}
		c.raiseException(cause, 0)
	case InstEBREAK:
		c.raiseException(causeBreakpoint, 0)

	case InstMRET:
		c.mode = c.csr.MPP()
		c.csr.SetMIE(c.csr.MPIE())
		c.csr.SetMPIE(true)
		c.csr.SetMPP(PrivU)
		c.csr.m[csrMstatus] &^= mstatusMPRV
		c.pc = c.csr.m[csrMepc]
	case InstSRET:
		c.mode = c.csr.SPP()
		c.csr.SetSIE(c.csr.SPIE())
		c.csr.SetSPIE(true)
		c.csr.SetSPP(PrivU)
		c.pc = c.csr.m[csrSepc]

	case InstCSRRW, InstCSRRS, InstCSRRC, InstCSRRWI, InstCSRRSI, InstCSRRCI:
		c.execCSR(inst, rs1)
	}
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (c *Cpu) execLoad(inst Instruction, rs1 uint64, size uint64, signed bool) {
	addr := rs1 + sext(inst.Imm, 12)
	v, ok := c.loadPhys(addr, size, PermRead, causeLoadAccessFault, causeLoadPageFault)
	if !ok {
		return
	}
	if !signed {
		c.reg.Set(inst.Rd, v)
		return
	}
	switch size {
	case 1:
		c.reg.Set(inst.Rd, sext(uint32(v), 8))
	case 2:
		c.reg.Set(inst.Rd, sext(uint32(v), 16))
	case 4:
		c.reg.Set(inst.Rd, sext(uint32(v), 32))
	default:
		c.reg.Set(inst.Rd, v)
	}
}

func (c *Cpu) execStore(inst Instruction, rs1, rs2 uint64, size uint64) {
	addr := rs1 + sext(inst.Imm, 12)
	c.storePhys(addr, size, rs2, causeStoreAccessFault, causeStorePageFault)
}

func (c *Cpu) execLR(inst Instruction, rs1 uint64) {
	width := uint64(4)
	if inst.Name == InstLRD {
		width = 8
	}
	if rs1%width != 0 {
		c.handleMemErr(&EmuError{Kind: MisalignedReservation, Msg: "lr address not naturally aligned"}, causeLoadMisaligned, causeLoadMisaligned, rs1)
		return
	}
	v, ok := c.loadPhys(rs1, width, PermRead, causeLoadAccessFault, causeLoadPageFault)
	if !ok {
		return
	}
	c.resv.Set(rs1, width)
	if width == 4 {
		c.reg.Set(inst.Rd, sext(uint32(v), 32))
	} else {
		c.reg.Set(inst.Rd, v)
	}
}

func (c *Cpu) execSC(inst Instruction, rs1, rs2 uint64) {
	width := uint64(4)
	if inst.Name == InstSCD {
		width = 8
	}
	if rs1%width != 0 {
		c.handleMemErr(&EmuError{Kind: MisalignedReservation, Msg: "sc address not naturally aligned"}, causeStoreMisaligned, causeStoreMisaligned, rs1)
		return
	}
	ok := c.resv.Test(rs1, width)
	c.resv.Clear()
	if !ok {
		c.reg.Set(inst.Rd, 1)
		return
	}
	if c.storePhys(rs1, width, rs2, causeStoreAccessFault, causeStorePageFault) {
		c.reg.Set(inst.Rd, 0)
	}
}

func (c *Cpu) execAMO(inst Instruction, rs1, rs2 uint64) {
	width := uint64(4)
	switch inst.Name {
	case InstAMOSWAPD, InstAMOADDD, InstAMOXORD, InstAMOANDD, InstAMOORD,
		InstAMOMIND, InstAMOMAXD, InstAMOMINUD, InstAMOMAXUD:
		width = 8
	}

	old, ok := c.loadPhys(rs1, width, PermRead, causeLoadAccessFault, causeLoadPageFault)
	if !ok {
		return
	}
	oldSigned := old
	if width == 4 {
		oldSigned = sext(uint32(old), 32)
	}

	var newVal uint64
	switch inst.Name {
	case InstAMOSWAPW, InstAMOSWAPD:
		newVal = rs2
	case InstAMOADDW, InstAMOADDD:
		newVal = old + rs2
	case InstAMOXORW, InstAMOXORD:
		newVal = old ^ rs2
	case InstAMOANDW, InstAMOANDD:
		newVal = old & rs2
	case InstAMOORW, InstAMOORD:
		newVal = old | rs2
	case InstAMOMINW, InstAMOMIND:
		if int64(oldSigned) < int64(rs2) {
			newVal = old
		} else {
			newVal = rs2
		}
	case InstAMOMAXW, InstAMOMAXD:
		if int64(oldSigned) > int64(rs2) {
			newVal = old
		} else {
			newVal = rs2
		}
	case InstAMOMINUW, InstAMOMINUD:
		if old < rs2 {
			newVal = old
		} else {
			newVal = rs2
		}
	case InstAMOMAXUW, InstAMOMAXUD:
		if old > rs2 {
			newVal = old
		} else {
			newVal = rs2
		}
	}

	if !c.storePhys(rs1, width, newVal, causeStoreAccessFault, causeStorePageFault) {
		return
	}
	c.reg.Set(inst.Rd, oldSigned)
}

func (c *Cpu) execCSR(inst Instruction, rs1 uint64) {
	idx := inst.Csr
	old, err := c.csr.Read(idx)
	if err != nil {
		panic(err) // InvalidRegister is fatal to the host process
	}

	var src uint64
	switch inst.Name {
	case InstCSRRWI, InstCSRRSI, InstCSRRCI:
		src = uint64(inst.Imm) // zero-extended 5-bit immediate
	default:
		src = rs1
	}

	var newVal uint64
	switch inst.Name {
	case InstCSRRW, InstCSRRWI:
		newVal = src
	case InstCSRRS, InstCSRRSI:
		newVal = old | src
	case InstCSRRC, InstCSRRCI:
		newVal = old &^ src
	}

	if err := c.csr.Write(idx, newVal); err != nil {
		panic(err)
	}
	c.reg.Set(inst.Rd, old)
}

// --- DebuggableCPU adapter, see debug_interface.go ---

// debugRegNames mirrors the ABI register names, matching the order the
// `p` command prints them in.
var debugRegNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// GetRegisters returns the general registers, pc, and a curated CSR set
// dumps the general registers, PC, and a curated set of CSRs.
func (c *Cpu) GetRegisters() []RegisterInfo {
	regs := make([]RegisterInfo, 0, 32+7)
	for i, name := range debugRegNames {
		regs = append(regs, RegisterInfo{Name: name, Value: c.reg.Get(uint32(i))})
	}
	regs = append(regs,
		RegisterInfo{Name: "pc", Value: c.pc},
		RegisterInfo{Name: "mstatus", Value: c.csr.m[csrMstatus]},
		RegisterInfo{Name: "mcause", Value: c.csr.m[csrMcause]},
		RegisterInfo{Name: "mepc", Value: c.csr.m[csrMepc]},
		RegisterInfo{Name: "mtvec", Value: c.csr.m[csrMtvec]},
		RegisterInfo{Name: "satp", Value: c.csr.m[csrSatp]},
		RegisterInfo{Name: "mode", Value: uint64(c.mode)},
	)
	return regs
}

// GetPC returns the current program counter.
func (c *Cpu) GetPC() uint64 { return c.pc }

// ReadMemory reads size bytes of physical DRAM starting at addr for the
// monitor's `m` command. It bypasses translation and PMP: the debugger
// inspects physical memory directly.
func (c *Cpu) ReadMemory(addr uint64, size int) ([]byte, error) {
	mem := c.bus.Dram().Bytes()
	off := addr - MemOff
	if addr < MemOff || off+uint64(size) > uint64(len(mem)) {
		return nil, &EmuError{Kind: InvalidAddress, Msg: "memory dump out of range"}
	}
	out := make([]byte, size)
	copy(out, mem[off:off+uint64(size)])
	return out, nil
}

// SetBreakpoint arms a free-run-until-address breakpoint, for the
// monitor's `b <addr>` command.
func (c *Cpu) SetBreakpoint(addr uint64) {
	c.dbg.Breakpoint = addr
	c.dbg.BreakpointSet = true
}

// ClearBreakpoint disarms the current breakpoint, if any.
func (c *Cpu) ClearBreakpoint() { c.dbg.BreakpointSet = false }

// HasBreakpoint reports whether a breakpoint is currently armed.
func (c *Cpu) HasBreakpoint() bool { return c.dbg.BreakpointSet }

// Breakpoint returns the currently armed breakpoint address.
func (c *Cpu) Breakpoint() uint64 { return c.dbg.Breakpoint }

// UartDump renders the UART register file for the monitor's `uart`
// command, or a placeholder if no UART was attached to the bus.
func (c *Cpu) UartDump() string {
	if c.bus.uart == nil {
		return "uart: not attached"
	}
	r := c.bus.uart.Dump()
	return fmt.Sprintf(
		"rbr=%02x dll=%02x ier=%02x dlh=%02x iir=%02x fcr=%02x lcr=%02x mcr=%02x lsr=%02x msr=%02x sr=%02x",
		r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8], r[9], r[10])
}
