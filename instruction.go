package main

// Fmt tags the instruction encoding format, which determines how the
// immediate bits were assembled.
type Fmt int

const (
	FmtR Fmt = iota
	FmtI
	FmtS
	FmtB
	FmtU
	FmtJ
)

// InstName tags the decoded mnemonic. The decoder is the sole producer of
// an Instruction; the execution engine consumes it exactly once.
type InstName int

const (
	InstInvalid InstName = iota

	// Integer register-register / register-immediate
	InstADDI
	InstSLTI
	InstSLTIU
	InstXORI
	InstORI
	InstANDI
	InstSLLI
	InstSRLI
	InstSRAI
	InstADD
	InstSUB
	InstSLL
	InstSLT
	InstSLTU
	InstXOR
	InstSRL
	InstSRA
	InstOR
	InstAND
	InstADDIW
	InstSLLIW
	InstSRLIW
	InstSRAIW
	InstADDW
	InstSUBW
	InstSLLW
	InstSRLW
	InstSRAW

	// M extension
	InstMUL
	InstMULH
	InstMULHSU
	InstMULHU
	InstDIV
	InstDIVU
	InstREM
	InstREMU
	InstMULW
	InstDIVW
	InstDIVUW
	InstREMW
	InstREMUW

	// Control transfer
	InstLUI
	InstAUIPC
	InstJAL
	InstJALR
	InstBEQ
	InstBNE
	InstBLT
	InstBGE
	InstBLTU
	InstBGEU

	// Loads/stores
	InstLB
	InstLH
	InstLW
	InstLD
	InstLBU
	InstLHU
	InstLWU
	InstSB
	InstSH
	InstSW
	InstSD

	// A extension
	InstLRW
	InstSCW
	InstAMOSWAPW
	InstAMOADDW
	InstAMOXORW
	InstAMOANDW
	InstAMOORW
	InstAMOMINW
	InstAMOMAXW
	InstAMOMINUW
	InstAMOMAXUW
	InstLRD
	InstSCD
	InstAMOSWAPD
	InstAMOADDD
	InstAMOXORD
	InstAMOANDD
	InstAMOORD
	InstAMOMIND
	InstAMOMAXD
	InstAMOMINUD
	InstAMOMAXUD

	// Fence / system
	InstFENCE
	InstFENCEI
	InstECALL
	InstEBREAK
	InstMRET
	InstSRET
	InstWFI
	InstSFENCEVMA
	InstCSRRW
	InstCSRRS
	InstCSRRC
	InstCSRRWI
	InstCSRRSI
	InstCSRRCI
)

// Instruction is the decoder's sole output type: a tagged mnemonic plus
// the raw field values needed to execute it. Immediates are not yet
// sign-extended; execute does that per the instruction's natural width.
type Instruction struct {
	Name InstName
	Fmt  Fmt
	Rs1  uint32
	Rs2  uint32
	Rd   uint32
	Imm  uint32 // raw, unextended immediate bits
	Csr  uint16
	Raw  uint32
}
