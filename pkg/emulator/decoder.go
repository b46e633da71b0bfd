package emulator

// Decode converts a 4-byte peek window into a symbolic operation and the
// number of bytes it consumes (1..4). Callers pad the window with zero
// bytes when fetching near the end of memory.
//
// The strategy is a priority-ordered pattern match: earlier, more specific
// rules win over later, more general ones. The tiers below are numbered to
// match the priority order of the opcode table this implements.
func Decode(window [4]byte) (Op, int) {
	b0, b1, b2, b3 := window[0], window[1], window[2], window[3]

	// Tier 1: exact single-byte opcodes.
	if op, ok := decodeExact(b0); ok {
		return op, 1
	}

	// Tier 2: ED-prefixed miscellaneous ops.
	if b0 == 0xED {
		if op, consumed, ok := decodeED(b1); ok {
			return op, consumed
		}
	}

	// Tier 3: CB-prefixed bit operations.
	if b0 == 0xCB {
		return decodeCB(b1), 2
	}

	// Tier 4: I/O.
	if b0 == 0xDB {
		return Op{Kind: OpIN, Dst8: Reg8Loc(RegA), Port: ImmediateLoc(b1)}, 2
	}
	if b0 == 0xD3 {
		return Op{Kind: OpOUT, Src8: Reg8Loc(RegA), Port: ImmediateLoc(b1)}, 2
	}

	// Tier 5: absolute/conditional jumps, relative jumps, DJNZ.
	if op, consumed, ok := decodeJumps(b0, b1, b2); ok {
		return op, consumed
	}

	// Tier 6: 8-bit loads.
	if b0&0b1100_0000 == 0b0100_0000 {
		// 0x76 (HALT) was already matched in tier 1.
		return Op{Kind: OpLD8, Dst8: regBits((b0 >> 3) & 7), Src8: regBits(b0 & 7)}, 1
	}
	if b0&0b1100_0111 == 0b0000_0110 {
		return Op{Kind: OpLD8, Dst8: regBits((b0 >> 3) & 7), Src8: ImmediateLoc(b1)}, 2
	}

	// Tier 7: 16-bit loads.
	if op, consumed, ok := decode16BitLoads(b0, b1, b2, b3); ok {
		return op, consumed
	}

	// Tier 8: stack ops.
	if op, ok := decodeStack(b0); ok {
		return op, 1
	}

	// Tier 9: indirect A-loads.
	if op, consumed, ok := decodeIndirectA(b0, b1, b2); ok {
		return op, consumed
	}

	// Tier 10: boolean & arithmetic.
	if b0&0b1100_0000 == 0b1000_0000 {
		return Op{Kind: aluKind((b0 >> 3) & 7), Dst8: Reg8Loc(RegA), Src8: regBits(b0 & 7)}, 1
	}
	if b0&0b1100_0111 == 0b1100_0110 {
		return Op{Kind: aluKind((b0 >> 3) & 7), Dst8: Reg8Loc(RegA), Src8: ImmediateLoc(b1)}, 2
	}

	// Tier 11: INC/DEC.
	if b0&0b1100_0111 == 0b0000_0100 {
		return Op{Kind: OpINC, Dst8: regBits((b0 >> 3) & 7)}, 1
	}
	if b0&0b1100_0111 == 0b0000_0101 {
		return Op{Kind: OpDEC, Dst8: regBits((b0 >> 3) & 7)}, 1
	}

	panic(&DecodeError{Window: window})
}

// ParseStream repeatedly decodes a full program image from the start,
// returning every Op in order. It is a convenience for tests and tooling
// that want a decoded instruction trace without running the CPU.
func ParseStream(program []byte) []Op {
	var ops []Op
	pc := 0
	for pc < len(program) {
		var window [4]byte
		for i := range window {
			if pc+i < len(program) {
				window[i] = program[pc+i]
			}
		}
		op, consumed := Decode(window)
		ops = append(ops, op)
		pc += consumed
	}
	return ops
}

func decodeExact(b0 byte) (Op, bool) {
	switch b0 {
	case 0x00:
		return Op{Kind: OpNOP}, true
	case 0x76:
		return Op{Kind: OpHALT}, true
	case 0x07:
		return Op{Kind: OpRLCA}, true
	case 0x0F:
		return Op{Kind: OpRRCA}, true
	case 0x17:
		return Op{Kind: OpRLA}, true
	case 0x1F:
		return Op{Kind: OpRRA}, true
	case 0x27:
		return Op{Kind: OpDAA}, true
	case 0x2F:
		return Op{Kind: OpCPL}, true
	case 0x3F:
		return Op{Kind: OpCCF}, true
	case 0x37:
		return Op{Kind: OpSCF}, true
	default:
		return Op{}, false
	}
}

func decodeED(b1 byte) (Op, int, bool) {
	switch b1 {
	case 0x67:
		return Op{Kind: OpRRD}, 2, true
	case 0x6F:
		return Op{Kind: OpRLD}, 2, true
	case 0x44:
		return Op{Kind: OpNEG}, 2, true
	}
	if b1&0b1100_0111 == 0b0100_0000 {
		reg := regBits((b1 >> 3) & 7)
		port := Location8{kind: locReg8, reg: RegC}
		if b1&1 == 0 {
			return Op{Kind: OpIN, Dst8: reg, Port: port}, 2, true
		}
		return Op{Kind: OpOUT, Src8: reg, Port: port}, 2, true
	}
	return Op{}, 0, false
}

func decodeCB(b1 byte) Op {
	loc := regBits(b1 & 7)
	n := int((b1 >> 3) & 7)
	switch b1 >> 6 {
	case 0b00:
		switch (b1 >> 3) & 7 {
		case 0b000:
			return Op{Kind: OpRLC, Dst8: loc}
		case 0b001:
			return Op{Kind: OpRRC, Dst8: loc}
		case 0b010:
			return Op{Kind: OpRL, Dst8: loc}
		case 0b011:
			return Op{Kind: OpRR, Dst8: loc}
		case 0b100:
			return Op{Kind: OpSLA, Dst8: loc}
		case 0b101:
			return Op{Kind: OpSRA, Dst8: loc}
		case 0b110:
			panic(&UnsupportedOpcodeError{Name: "SLL (CB 30..37, undocumented)"})
		case 0b111:
			return Op{Kind: OpSRL, Dst8: loc}
		}
	case 0b01:
		return Op{Kind: OpBIT, N: n, Dst8: loc}
	case 0b10:
		return Op{Kind: OpRES, N: n, Dst8: loc}
	case 0b11:
		return Op{Kind: OpSET, N: n, Dst8: loc}
	}
	panic(&DecodeError{Window: [4]byte{0xCB, b1, 0, 0}})
}

func decodeJumps(b0, b1, b2 byte) (Op, int, bool) {
	word := func() uint16 { return uint16(b1) | uint16(b2)<<8 }

	switch b0 {
	case 0x18:
		return Op{Kind: OpJR, Cond: CondUnconditional, Offset: int8(b1)}, 2, true
	case 0x20:
		return Op{Kind: OpJR, Cond: CondNonZero, Offset: int8(b1)}, 2, true
	case 0x28:
		return Op{Kind: OpJR, Cond: CondZero, Offset: int8(b1)}, 2, true
	case 0x30:
		return Op{Kind: OpJR, Cond: CondNoCarry, Offset: int8(b1)}, 2, true
	case 0x38:
		return Op{Kind: OpJR, Cond: CondCarry, Offset: int8(b1)}, 2, true
	case 0x10:
		return Op{Kind: OpDJNZ, Offset: int8(b1)}, 2, true
	case 0xC3:
		return Op{Kind: OpJP, Cond: CondUnconditional, Target: ImmediateLoc16(word())}, 3, true
	case 0xC2:
		return Op{Kind: OpJP, Cond: CondNonZero, Target: ImmediateLoc16(word())}, 3, true
	case 0xCA:
		return Op{Kind: OpJP, Cond: CondZero, Target: ImmediateLoc16(word())}, 3, true
	case 0xD2:
		return Op{Kind: OpJP, Cond: CondNoCarry, Target: ImmediateLoc16(word())}, 3, true
	case 0xDA:
		return Op{Kind: OpJP, Cond: CondCarry, Target: ImmediateLoc16(word())}, 3, true
	case 0xE2:
		return Op{Kind: OpJP, Cond: CondParityOdd, Target: ImmediateLoc16(word())}, 3, true
	case 0xEA:
		return Op{Kind: OpJP, Cond: CondParityEven, Target: ImmediateLoc16(word())}, 3, true
	case 0xF2:
		return Op{Kind: OpJP, Cond: CondSignPositive, Target: ImmediateLoc16(word())}, 3, true
	case 0xFA:
		return Op{Kind: OpJP, Cond: CondSignNegative, Target: ImmediateLoc16(word())}, 3, true
	case 0xCD:
		return Op{Kind: OpCALL, Cond: CondUnconditional, Addr: word()}, 3, true
	case 0xC4:
		return Op{Kind: OpCALL, Cond: CondNonZero, Addr: word()}, 3, true
	case 0xCC:
		return Op{Kind: OpCALL, Cond: CondZero, Addr: word()}, 3, true
	case 0xD4:
		return Op{Kind: OpCALL, Cond: CondNoCarry, Addr: word()}, 3, true
	case 0xDC:
		return Op{Kind: OpCALL, Cond: CondCarry, Addr: word()}, 3, true
	case 0xE4:
		return Op{Kind: OpCALL, Cond: CondParityOdd, Addr: word()}, 3, true
	case 0xEC:
		return Op{Kind: OpCALL, Cond: CondParityEven, Addr: word()}, 3, true
	case 0xF4:
		return Op{Kind: OpCALL, Cond: CondSignPositive, Addr: word()}, 3, true
	case 0xFC:
		return Op{Kind: OpCALL, Cond: CondSignNegative, Addr: word()}, 3, true
	case 0xC9:
		return Op{Kind: OpRET, Cond: CondUnconditional}, 1, true
	case 0xC0:
		return Op{Kind: OpRET, Cond: CondNonZero}, 1, true
	case 0xC8:
		return Op{Kind: OpRET, Cond: CondZero}, 1, true
	case 0xD0:
		return Op{Kind: OpRET, Cond: CondNoCarry}, 1, true
	case 0xD8:
		return Op{Kind: OpRET, Cond: CondCarry}, 1, true
	case 0xE0:
		return Op{Kind: OpRET, Cond: CondParityOdd}, 1, true
	case 0xE8:
		return Op{Kind: OpRET, Cond: CondParityEven}, 1, true
	case 0xF0:
		return Op{Kind: OpRET, Cond: CondSignPositive}, 1, true
	case 0xF8:
		return Op{Kind: OpRET, Cond: CondSignNegative}, 1, true
	}
	return Op{}, 0, false
}

func decode16BitLoads(b0, b1, b2, b3 byte) (Op, int, bool) {
	word := func(lo, hi byte) uint16 { return uint16(lo) | uint16(hi)<<8 }

	if b0 == 0xDD && b1 == 0x21 {
		return Op{Kind: OpLD16, Dst16: Reg16Loc(RegIX), Src16: ImmediateLoc16(word(b2, b3))}, 4, true
	}
	if b0 == 0xFD && b1 == 0x21 {
		return Op{Kind: OpLD16, Dst16: Reg16Loc(RegIY), Src16: ImmediateLoc16(word(b2, b3))}, 4, true
	}
	if b0&0b1100_1111 == 0b0000_0001 {
		pair := pairBits((b0 >> 4) & 3)
		return Op{Kind: OpLD16, Dst16: Reg16Loc(pair), Src16: ImmediateLoc16(word(b1, b2))}, 3, true
	}
	if b0 == 0x2A {
		return Op{Kind: OpLD16, Dst16: Reg16Loc(RegHL), Src16: ImmediateIndirectLoc16(word(b1, b2))}, 3, true
	}
	if b0 == 0x22 {
		return Op{Kind: OpLD16, Dst16: ImmediateIndirectLoc16(word(b1, b2)), Src16: Reg16Loc(RegHL)}, 3, true
	}
	return Op{}, 0, false
}

func decodeStack(b0 byte) (Op, bool) {
	switch b0 {
	case 0xC5:
		return Op{Kind: OpPUSH, Pair: RegBC}, true
	case 0xD5:
		return Op{Kind: OpPUSH, Pair: RegDE}, true
	case 0xE5:
		return Op{Kind: OpPUSH, Pair: RegHL}, true
	case 0xF5:
		return Op{Kind: OpPUSH, Pair: RegAF}, true
	case 0xC1:
		return Op{Kind: OpPOP, Pair: RegBC}, true
	case 0xD1:
		return Op{Kind: OpPOP, Pair: RegDE}, true
	case 0xE1:
		return Op{Kind: OpPOP, Pair: RegHL}, true
	case 0xF1:
		return Op{Kind: OpPOP, Pair: RegAF}, true
	}
	return Op{}, false
}

func decodeIndirectA(b0, b1, b2 byte) (Op, int, bool) {
	word := uint16(b1) | uint16(b2)<<8
	switch b0 {
	case 0x0A:
		return Op{Kind: OpLD8, Dst8: Reg8Loc(RegA), Src8: RegIndirectLoc(RegBC)}, 1, true
	case 0x1A:
		return Op{Kind: OpLD8, Dst8: Reg8Loc(RegA), Src8: RegIndirectLoc(RegDE)}, 1, true
	case 0x02:
		return Op{Kind: OpLD8, Dst8: RegIndirectLoc(RegBC), Src8: Reg8Loc(RegA)}, 1, true
	case 0x12:
		return Op{Kind: OpLD8, Dst8: RegIndirectLoc(RegDE), Src8: Reg8Loc(RegA)}, 1, true
	case 0x3A:
		return Op{Kind: OpLD8, Dst8: Reg8Loc(RegA), Src8: ImmediateIndirectLoc8(word)}, 3, true
	case 0x32:
		return Op{Kind: OpLD8, Dst8: ImmediateIndirectLoc8(word), Src8: Reg8Loc(RegA)}, 3, true
	}
	return Op{}, 0, false
}

// regBits decodes the low-3-bit "LLL" register field shared by most of the
// opcode map: 000=B, 001=C, 010=D, 011=E, 100=H, 101=L, 110=(HL), 111=A.
func regBits(bits uint8) Location8 {
	switch bits & 7 {
	case 0b000:
		return Reg8Loc(RegB)
	case 0b001:
		return Reg8Loc(RegC)
	case 0b010:
		return Reg8Loc(RegD)
	case 0b011:
		return Reg8Loc(RegE)
	case 0b100:
		return Reg8Loc(RegH)
	case 0b101:
		return Reg8Loc(RegL)
	case 0b110:
		return RegIndirectLoc(RegHL)
	case 0b111:
		return Reg8Loc(RegA)
	}
	panic("emulator: unreachable reg_bits")
}

// pairBits decodes the 2-bit register-pair field used by 16-bit loads:
// 00=BC, 01=DE, 10=HL, 11=SP.
func pairBits(bits uint8) Reg16 {
	switch bits & 3 {
	case 0b00:
		return RegBC
	case 0b01:
		return RegDE
	case 0b10:
		return RegHL
	case 0b11:
		return RegSP
	}
	panic("emulator: unreachable pair_bits")
}

// aluKind maps the 3-bit "xx" selector of the boolean/arithmetic encoding
// to its Op kind: 000=ADD, 001=ADC, 010=SUB, 011=SBC, 100=AND, 101=XOR,
// 110=OR, 111=CP.
func aluKind(bits uint8) OpKind {
	switch bits & 7 {
	case 0b000:
		return OpADD8
	case 0b001:
		return OpADC
	case 0b010:
		return OpSUB8
	case 0b011:
		return OpSBC
	case 0b100:
		return OpAND
	case 0b101:
		return OpXOR
	case 0b110:
		return OpOR
	case 0b111:
		return OpCP
	}
	panic("emulator: unreachable alu_kind")
}
