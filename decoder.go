package main

// Decode maps a 32-bit instruction word to an Instruction. It never
// fails: an unrecognized encoding yields InstInvalid, which the
// execution engine turns into an illegal-instruction trap rather than a
// decode-time panic (see cpu.go and trap.go).
func Decode(word uint32) Instruction {
	opcode := word & 0x7F
	rd := (word >> 7) & 0x1F
	funct3 := (word >> 12) & 0x7
	rs1 := (word >> 15) & 0x1F
	rs2 := (word >> 20) & 0x1F
	funct7 := (word >> 25) & 0x7F
	funct12 := word >> 20

	inst := Instruction{Raw: word, Rd: rd, Rs1: rs1, Rs2: rs2}

	switch opcode {
	case 0x37: // LUI
		inst.Fmt = FmtU
		inst.Imm = word >> 12
		inst.Name = InstLUI
	case 0x17: // AUIPC
		inst.Fmt = FmtU
		inst.Imm = word >> 12
		inst.Name = InstAUIPC
	case 0x6F: // JAL
		inst.Fmt = FmtJ
		inst.Imm = decodeJImm(word)
		inst.Name = InstJAL
	case 0x67: // JALR
		inst.Fmt = FmtI
		inst.Imm = word >> 20
		inst.Name = InstJALR
	case 0x63: // branches
		inst.Fmt = FmtB
		inst.Imm = decodeBImm(word)
		switch funct3 {
		case 0b000:
			inst.Name = InstBEQ
		case 0b001:
			inst.Name = InstBNE
		case 0b100:
			inst.Name = InstBLT
		case 0b101:
			inst.Name = InstBGE
		case 0b110:
			inst.Name = InstBLTU
		case 0b111:
			inst.Name = InstBGEU
		}
	case 0x03: // loads
		inst.Fmt = FmtI
		inst.Imm = word >> 20
		switch funct3 {
		case 0b000:
			inst.Name = InstLB
		case 0b001:
			inst.Name = InstLH
		case 0b010:
			inst.Name = InstLW
		case 0b011:
			inst.Name = InstLD
		case 0b100:
			inst.Name = InstLBU
		case 0b101:
			inst.Name = InstLHU
		case 0b110:
			inst.Name = InstLWU
		}
	case 0x23: // stores
		inst.Fmt = FmtS
		inst.Imm = decodeSImm(word)
		switch funct3 {
		case 0b000:
			inst.Name = InstSB
		case 0b001:
			inst.Name = InstSH
		case 0b010:
			inst.Name = InstSW
		case 0b011:
			inst.Name = InstSD
		}
	case 0x13: // OP-IMM
		inst.Fmt = FmtI
		inst.Imm = word >> 20
		switch funct3 {
		case 0b000:
			inst.Name = InstADDI
		case 0b010:
			inst.Name = InstSLTI
		case 0b011:
			inst.Name = InstSLTIU
		case 0b100:
			inst.Name = InstXORI
		case 0b110:
			inst.Name = InstORI
		case 0b111:
			inst.Name = InstANDI
		case 0b001:
			inst.Name = InstSLLI
			inst.Imm = (word >> 20) & 0x3F // 6-bit shamt for RV64
		case 0b101:
			inst.Imm = (word >> 20) & 0x3F
			if funct7>>1 == 0b0100000>>1 {
				inst.Name = InstSRAI
			} else {
				inst.Name = InstSRLI
			}
		}
	case 0x1B: // OP-IMM-32
		inst.Fmt = FmtI
		inst.Imm = word >> 20
		switch funct3 {
		case 0b000:
			inst.Name = InstADDIW
		case 0b001:
			inst.Name = InstSLLIW
			inst.Imm = rs2 & 0x1F
		case 0b101:
			inst.Imm = rs2 & 0x1F
			if funct7 == 0b0100000 {
				inst.Name = InstSRAIW
			} else {
				inst.Name = InstSRLIW
			}
		}
	case 0x33: // OP
		inst.Fmt = FmtR
		switch {
		case funct7 == 0b0000001:
			switch funct3 {
			case 0b000:
				inst.Name = InstMUL
			case 0b001:
				inst.Name = InstMULH
			case 0b010:
				inst.Name = InstMULHSU
			case 0b011:
				inst.Name = InstMULHU
			case 0b100:
				inst.Name = InstDIV
			case 0b101:
				inst.Name = InstDIVU
			case 0b110:
				inst.Name = InstREM
			case 0b111:
				inst.Name = InstREMU
			}
		default:
			switch funct3 {
			case 0b000:
				if funct7 == 0b0100000 {
					inst.Name = InstSUB
				} else {
					inst.Name = InstADD
				}
			case 0b001:
				inst.Name = InstSLL
			case 0b010:
				inst.Name = InstSLT
			case 0b011:
				inst.Name = InstSLTU
			case 0b100:
				inst.Name = InstXOR
			case 0b101:
				if funct7 == 0b0100000 {
					inst.Name = InstSRA
				} else {
					inst.Name = InstSRL
				}
			case 0b110:
				inst.Name = InstOR
			case 0b111:
				inst.Name = InstAND
			}
		}
	case 0x3B: // OP-32
		inst.Fmt = FmtR
		switch {
		case funct7 == 0b0000001:
			switch funct3 {
			case 0b000:
				inst.Name = InstMULW
			case 0b100:
				inst.Name = InstDIVW
			case 0b101:
				inst.Name = InstDIVUW
			case 0b110:
				inst.Name = InstREMW
			case 0b111:
				inst.Name = InstREMUW
			}
		default:
			switch funct3 {
			case 0b000:
				if funct7 == 0b0100000 {
					inst.Name = InstSUBW
				} else {
					inst.Name = InstADDW
				}
			case 0b001:
				inst.Name = InstSLLW
			case 0b101:
				if funct7 == 0b0100000 {
					inst.Name = InstSRAW
				} else {
					inst.Name = InstSRLW
				}
			}
		}
	case 0x0F: // MISC-MEM
		inst.Fmt = FmtI
		if funct3 == 0b001 {
			inst.Name = InstFENCEI
		} else {
			inst.Name = InstFENCE
		}
	case 0x73: // SYSTEM
		inst.Fmt = FmtI
		inst.Csr = uint16(funct12)
		if funct3 == 0 {
			switch funct12 {
			case 0x000:
				inst.Name = InstECALL
			case 0x001:
				inst.Name = InstEBREAK
			case 0x102:
				inst.Name = InstSRET
			case 0x302:
				inst.Name = InstMRET
			case 0x105:
				inst.Name = InstWFI
			default:
				if funct7 == 0b0001001 {
					inst.Name = InstSFENCEVMA
				}
			}
		} else {
			inst.Imm = rs1 // zimm for the *I variants
			switch funct3 {
			case 0b001:
				inst.Name = InstCSRRW
			case 0b010:
				inst.Name = InstCSRRS
			case 0b011:
				inst.Name = InstCSRRC
			case 0b101:
				inst.Name = InstCSRRWI
			case 0b110:
				inst.Name = InstCSRRSI
			case 0b111:
				inst.Name = InstCSRRCI
			}
		}
	case 0x2F: // AMO
		inst.Fmt = FmtR
		funct5 := funct7 >> 2
		isD := funct3 == 0b011
		switch funct5 {
		case 0b00010:
			if isD {
				inst.Name = InstLRD
			} else {
				inst.Name = InstLRW
			}
		case 0b00011:
			if isD {
				inst.Name = InstSCD
			} else {
				inst.Name = InstSCW
			}
		case 0b00001:
			if isD {
				inst.Name = InstAMOSWAPD
			} else {
				inst.Name = InstAMOSWAPW
			}
		case 0b00000:
			if isD {
				inst.Name = InstAMOADDD
			} else {
				inst.Name = InstAMOADDW
			}
		case 0b00100:
			if isD {
				inst.Name = InstAMOXORD
			} else {
				inst.Name = InstAMOXORW
			}
		case 0b01100:
			if isD {
				inst.Name = InstAMOANDD
			} else {
				inst.Name = InstAMOANDW
			}
		case 0b01000:
			if isD {
				inst.Name = InstAMOORD
			} else {
				inst.Name = InstAMOORW
			}
		case 0b10000:
			if isD {
				inst.Name = InstAMOMIND
			} else {
				inst.Name = InstAMOMINW
			}
		case 0b10100:
			if isD {
				inst.Name = InstAMOMAXD
			} else {
				inst.Name = InstAMOMAXW
			}
		case 0b11000:
			if isD {
				inst.Name = InstAMOMINUD
			} else {
				inst.Name = InstAMOMINUW
			}
		case 0b11100:
			if isD {
				inst.Name = InstAMOMAXUD
			} else {
				inst.Name = InstAMOMAXUW
			}
		}
	}

	return inst
}

func decodeSImm(word uint32) uint32 {
	return ((word >> 25) << 5) | ((word >> 7) & 0x1F)
}

func decodeBImm(word uint32) uint32 {
	b12 := (word >> 31) & 1
	b11 := (word >> 7) & 1
	b10_5 := (word >> 25) & 0x3F
	b4_1 := (word >> 8) & 0xF
	return (b12 << 12) | (b11 << 11) | (b10_5 << 5) | (b4_1 << 1)
}

func decodeJImm(word uint32) uint32 {
	b20 := (word >> 31) & 1
	b19_12 := (word >> 12) & 0xFF
	b11 := (word >> 20) & 1
	b10_1 := (word >> 21) & 0x3FF
	return (b20 << 20) | (b19_12 << 12) | (b11 << 11) | (b10_1 << 1)
}
