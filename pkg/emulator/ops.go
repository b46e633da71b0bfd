package emulator

// Location8 names where an 8-bit value lives.
type Location8 struct {
	kind locKind
	reg  Reg8
	pair Reg16  // for RegIndirect
	addr uint16 // for ImmediateIndirect
	imm  uint8  // for Immediate
}

type locKind int

const (
	locReg8 locKind = iota
	locRegIndirect
	locImmediateIndirect8
	locImmediate8
)

// Reg8Loc builds a Location8 naming a plain register.
func Reg8Loc(r Reg8) Location8 { return Location8{kind: locReg8, reg: r} }

// RegIndirectLoc builds a Location8 naming the memory cell addressed by a
// register pair (e.g. (HL)).
func RegIndirectLoc(pair Reg16) Location8 { return Location8{kind: locRegIndirect, pair: pair} }

// ImmediateIndirectLoc8 builds a Location8 naming the memory cell at a
// literal address.
func ImmediateIndirectLoc8(addr uint16) Location8 {
	return Location8{kind: locImmediateIndirect8, addr: addr}
}

// ImmediateLoc builds a Location8 naming a literal value. It is never a
// valid store target.
func ImmediateLoc(v uint8) Location8 { return Location8{kind: locImmediate8, imm: v} }

// Location16 names where a 16-bit value lives.
type Location16 struct {
	kind  loc16Kind
	pair  Reg16
	addr  uint16
	imm16 uint16
}

type loc16Kind int

const (
	loc16Reg loc16Kind = iota
	loc16ImmediateIndirect
	loc16Immediate
)

// Reg16Loc builds a Location16 naming a register or register-pair view.
func Reg16Loc(r Reg16) Location16 { return Location16{kind: loc16Reg, pair: r} }

// ImmediateIndirectLoc16 builds a Location16 naming the two-byte
// little-endian cell at a literal address.
func ImmediateIndirectLoc16(addr uint16) Location16 {
	return Location16{kind: loc16ImmediateIndirect, addr: addr}
}

// ImmediateLoc16 builds a Location16 naming a literal 16-bit value.
func ImmediateLoc16(v uint16) Location16 { return Location16{kind: loc16Immediate, imm16: v} }

// JumpConditional names a condition code tested by JP/JR/CALL/RET.
type JumpConditional int

const (
	CondUnconditional JumpConditional = iota
	CondNonZero
	CondZero
	CondNoCarry
	CondCarry
	CondParityOdd
	CondParityEven
	CondSignPositive
	CondSignNegative
)

// holds reports whether the condition is currently true given the flags in
// r.
func (c JumpConditional) holds(r *Registers) bool {
	switch c {
	case CondUnconditional:
		return true
	case CondNonZero:
		return !r.GetFlag(FlagZero)
	case CondZero:
		return r.GetFlag(FlagZero)
	case CondNoCarry:
		return !r.GetFlag(FlagCarry)
	case CondCarry:
		return r.GetFlag(FlagCarry)
	case CondParityOdd:
		return !r.GetFlag(FlagParityOverflow)
	case CondParityEven:
		return r.GetFlag(FlagParityOverflow)
	case CondSignPositive:
		return !r.GetFlag(FlagSign)
	case CondSignNegative:
		return r.GetFlag(FlagSign)
	default:
		panic("emulator: invalid jump condition")
	}
}

// OpKind tags the variant of a decoded Op.
type OpKind int

const (
	OpNOP OpKind = iota
	OpHALT
	OpDAA
	OpLD8
	OpLD16
	OpPUSH
	OpPOP
	OpADD8
	OpADC
	OpSUB8
	OpSBC
	OpINC
	OpDEC
	OpCP
	OpAND
	OpOR
	OpXOR
	OpCPL
	OpNEG
	OpCCF
	OpSCF
	OpRLCA
	OpRLA
	OpRRCA
	OpRRA
	OpRLC
	OpRL
	OpRRC
	OpRR
	OpSLA
	OpSRA
	OpSRL
	OpRLD
	OpRRD
	OpBIT
	OpSET
	OpRES
	OpIN
	OpOUT
	OpJP
	OpJR
	OpDJNZ
	OpCALL
	OpRET
)

// Op is a decoded instruction: a tagged sum of every supported opcode,
// carrying whichever operands its Kind needs. Fields unused by a given Kind
// are zero.
type Op struct {
	Kind OpKind

	Dst8 Location8
	Src8 Location8

	Dst16 Location16
	Src16 Location16

	Pair Reg16 // PUSH/POP register pair

	N int // bit index for BIT/SET/RES

	Port Location8 // IN/OUT port: Immediate(n) or Reg(C)

	Cond   JumpConditional
	Target Location16 // JP target
	Offset int8       // JR/DJNZ relative offset
	Addr   uint16     // CALL target
}
