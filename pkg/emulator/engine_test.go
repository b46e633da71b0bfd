package emulator

import "testing"

func newCPU() *CPU {
	return New()
}

func TestAddWraparoundBoundary(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegA, 0xFF)
	op := Op{Kind: OpADD8, Dst8: Reg8Loc(RegA), Src8: ImmediateLoc(0x01)}
	c.Exec(op)

	if got := c.Registers.GetReg8(RegA); got != 0x00 {
		t.Fatalf("A = %#02x, want 0x00", got)
	}
	if !c.Registers.GetFlag(FlagZero) {
		t.Error("Z should be set")
	}
	if c.Registers.GetFlag(FlagSign) {
		t.Error("S should be clear")
	}
	if !c.Registers.GetFlag(FlagParityOverflow) {
		t.Error("P/V should be set (unsigned wrap)")
	}
	if c.Registers.GetFlag(FlagCarry) {
		t.Error("C should be clear per the reference's masked check")
	}
	if c.Registers.GetFlag(FlagHalfCarry) {
		t.Error("H should be clear")
	}
	if c.Registers.GetFlag(FlagAddSubtract) {
		t.Error("N should be clear")
	}
}

func TestSubFlagVector(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegA, 0b1010_0000)
	op := Op{Kind: OpSUB8, Dst8: Reg8Loc(RegA), Src8: ImmediateLoc(0b0100_0100)}
	c.Exec(op)

	if got := c.Registers.GetReg8(RegA); got != 0b0101_1100 {
		t.Fatalf("A = %#08b, want 0b01011100", got)
	}
	want := map[StatusFlag]bool{
		FlagSign:           false,
		FlagZero:           false,
		FlagHalfCarry:      true,
		FlagParityOverflow: false,
		FlagAddSubtract:    true,
		FlagCarry:          true,
	}
	for f, v := range want {
		if got := c.Registers.GetFlag(f); got != v {
			t.Errorf("flag %v = %v, want %v", f, got, v)
		}
	}
}

func TestIncDecCarryUnchanged(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegB, 0xFF)
	c.Registers.SetFlag(FlagCarry, true)
	c.Exec(Op{Kind: OpINC, Dst8: Reg8Loc(RegB)})
	if !c.Registers.GetFlag(FlagCarry) {
		t.Error("INC must leave Carry unchanged when it was set")
	}

	c.Registers.SetFlag(FlagCarry, false)
	c.Exec(Op{Kind: OpDEC, Dst8: Reg8Loc(RegB)})
	if c.Registers.GetFlag(FlagCarry) {
		t.Error("DEC must leave Carry unchanged when it was clear")
	}
}

func TestNegate(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegA, 0x80)
	c.Exec(Op{Kind: OpNEG})
	if !c.Registers.GetFlag(FlagParityOverflow) {
		t.Error("NEG of 0x80 should set P/V")
	}
	if !c.Registers.GetFlag(FlagCarry) {
		t.Error("NEG of a nonzero A should set C")
	}

	c.Registers.SetReg8(RegA, 0x00)
	c.Exec(Op{Kind: OpNEG})
	if c.Registers.GetFlag(FlagCarry) {
		t.Error("NEG of 0x00 should clear C")
	}
	if !c.Registers.GetFlag(FlagZero) {
		t.Error("NEG of 0x00 should set Z")
	}
}

func TestBoolOpHalfCarryConvention(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegA, 0xFF)
	c.Exec(Op{Kind: OpAND, Dst8: Reg8Loc(RegA), Src8: ImmediateLoc(0xFF)})
	if !c.Registers.GetFlag(FlagHalfCarry) {
		t.Error("AND must set H (canonical convention)")
	}

	c.Registers.SetReg8(RegA, 0xFF)
	c.Exec(Op{Kind: OpOR, Dst8: Reg8Loc(RegA), Src8: ImmediateLoc(0x00)})
	if c.Registers.GetFlag(FlagHalfCarry) {
		t.Error("OR must clear H")
	}

	c.Registers.SetReg8(RegA, 0xFF)
	c.Exec(Op{Kind: OpXOR, Dst8: Reg8Loc(RegA), Src8: ImmediateLoc(0xFF)})
	if c.Registers.GetFlag(FlagHalfCarry) {
		t.Error("XOR must clear H")
	}
}

func TestCCFIdempotence(t *testing.T) {
	c := newCPU()
	before := c.Registers.GetFlag(FlagCarry)
	c.Exec(Op{Kind: OpCCF})
	c.Exec(Op{Kind: OpCCF})
	if got := c.Registers.GetFlag(FlagCarry); got != before {
		t.Errorf("CCF twice should leave Carry at %v, got %v", before, got)
	}
	if c.Registers.GetFlag(FlagAddSubtract) {
		t.Error("CCF must clear N")
	}
}

func TestBitTestSweep(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegA, 0b1100_0001)
	wantZ := []bool{false, true, true, true, true, true, false, false}
	for n := 0; n < 8; n++ {
		c.Exec(Op{Kind: OpBIT, N: n, Dst8: Reg8Loc(RegA)})
		if got := c.Registers.GetFlag(FlagZero); got != wantZ[n] {
			t.Errorf("BIT %d: Z = %v, want %v", n, got, wantZ[n])
		}
		if !c.Registers.GetFlag(FlagHalfCarry) {
			t.Errorf("BIT %d: H must be set", n)
		}
		if c.Registers.GetFlag(FlagAddSubtract) {
			t.Errorf("BIT %d: N must be clear", n)
		}
	}
}

func TestInvalidBitIndexPanics(t *testing.T) {
	c := newCPU()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for bit index 8")
		}
		if _, ok := r.(*InvalidBitIndexError); !ok {
			t.Fatalf("expected *InvalidBitIndexError, got %T", r)
		}
	}()
	c.Exec(Op{Kind: OpBIT, N: 8, Dst8: Reg8Loc(RegA)})
}

func TestRLD(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegA, 0x7A)
	c.Registers.SetReg16(RegHL, 0x1000)
	c.Memory.WriteByte(0x1000, 0x31)

	c.Exec(Op{Kind: OpRLD})

	if got := c.Registers.GetReg8(RegA); got != 0x73 {
		t.Errorf("A = %#02x, want 0x73", got)
	}
	if got := c.Memory.ReadByte(0x1000); got != 0x1A {
		t.Errorf("(HL) = %#02x, want 0x1A", got)
	}
	for f, want := range map[StatusFlag]bool{
		FlagSign: false, FlagZero: false, FlagHalfCarry: false,
		FlagParityOverflow: false, FlagAddSubtract: false,
	} {
		if got := c.Registers.GetFlag(f); got != want {
			t.Errorf("flag %v = %v, want %v", f, got, want)
		}
	}
}

func TestDJNZ(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegB, 2)
	c.Registers.SetPC(0x0100)
	newPC, jumped := c.Exec(Op{Kind: OpDJNZ, Offset: 5})
	if !jumped || newPC != 0x0105 {
		t.Fatalf("DJNZ with B=2 should jump to 0x0105, got (%#04x, %v)", newPC, jumped)
	}
	if got := c.Registers.GetReg8(RegB); got != 1 {
		t.Fatalf("B = %d, want 1", got)
	}

	_, jumped = c.Exec(Op{Kind: OpDJNZ, Offset: 5})
	if jumped {
		t.Fatal("DJNZ with B=1 decrementing to 0 should not jump")
	}
	if got := c.Registers.GetReg8(RegB); got != 0 {
		t.Fatalf("B = %d, want 0", got)
	}

	_, jumped = c.Exec(Op{Kind: OpDJNZ, Offset: 5})
	if jumped {
		t.Fatal("DJNZ with B=0 must saturate, never wrap, and never jump")
	}
	if got := c.Registers.GetReg8(RegB); got != 0 {
		t.Fatalf("B = %d, want 0 (saturated)", got)
	}
}

func TestJRUsesOwnPC(t *testing.T) {
	c := newCPU()
	c.Registers.SetPC(0x0010)
	newPC, jumped := c.Exec(Op{Kind: OpJR, Cond: CondUnconditional, Offset: -16})
	if !jumped || newPC != 0x0000 {
		t.Fatalf("JR -16 from PC=0x10 should land at 0x00, got (%#04x, %v)", newPC, jumped)
	}
}

func TestStackRoundTrip(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg16(RegSP, 0x1000)
	c.Registers.SetReg16(RegBC, 0xBEEF)

	c.Exec(Op{Kind: OpPUSH, Pair: RegBC})
	if sp := c.Registers.GetReg16(RegSP); sp != 0x0FFE {
		t.Fatalf("SP after PUSH = %#04x, want 0x0FFE", sp)
	}

	c.Exec(Op{Kind: OpPOP, Pair: RegDE})
	if sp := c.Registers.GetReg16(RegSP); sp != 0x1000 {
		t.Fatalf("SP after POP = %#04x, want 0x1000", sp)
	}
	if got := c.Registers.GetReg16(RegDE); got != 0xBEEF {
		t.Fatalf("DE after POP = %#04x, want 0xBEEF", got)
	}
}

func TestCallRet(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg16(RegSP, 0x1000)
	c.Registers.SetPC(0x0200)

	newPC, jumped := c.Exec(Op{Kind: OpCALL, Cond: CondUnconditional, Addr: 0x0400})
	if !jumped || newPC != 0x0400 {
		t.Fatalf("CALL should jump to 0x0400, got (%#04x, %v)", newPC, jumped)
	}

	newPC, jumped = c.Exec(Op{Kind: OpRET, Cond: CondUnconditional})
	if !jumped || newPC != 0x0203 {
		t.Fatalf("RET should return to 0x0203 (PC+3 of the CALL), got (%#04x, %v)", newPC, jumped)
	}
	if sp := c.Registers.GetReg16(RegSP); sp != 0x1000 {
		t.Fatalf("SP after CALL/RET = %#04x, want 0x1000", sp)
	}
}

func TestIOMissingPeripheralPanics(t *testing.T) {
	c := newCPU()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for IN against an empty port")
		}
		if _, ok := r.(*MissingPeripheralError); !ok {
			t.Fatalf("expected *MissingPeripheralError, got %T", r)
		}
	}()
	c.Exec(Op{Kind: OpIN, Dst8: Reg8Loc(RegA), Port: ImmediateLoc(0x00)})
}

func TestIOReadWrite(t *testing.T) {
	c := newCPU()
	in := NewBufferedInput([]byte{0x42})
	out := &BufferedOutput{}
	c.InstallInput(0x01, in)
	c.InstallOutput(0x02, out)

	c.Exec(Op{Kind: OpIN, Dst8: Reg8Loc(RegA), Port: ImmediateLoc(0x01)})
	if got := c.Registers.GetReg8(RegA); got != 0x42 {
		t.Fatalf("A after IN = %#02x, want 0x42", got)
	}

	c.Registers.SetReg8(RegB, 0x99)
	c.Exec(Op{Kind: OpOUT, Src8: Reg8Loc(RegB), Port: ImmediateLoc(0x02)})
	if result := out.Result(); len(result) != 1 || result[0] != 0x99 {
		t.Fatalf("output = %v, want [0x99]", result)
	}
}

func TestDAAUnsupported(t *testing.T) {
	c := newCPU()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for DAA")
		}
		if _, ok := r.(*UnsupportedOperationError); !ok {
			t.Fatalf("expected *UnsupportedOperationError, got %T", r)
		}
	}()
	c.Exec(Op{Kind: OpDAA})
}

func TestInvalidStoreTargetPanics(t *testing.T) {
	c := newCPU()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic storing to an Immediate location")
		}
		if _, ok := r.(*InvalidStoreTargetError); !ok {
			t.Fatalf("expected *InvalidStoreTargetError, got %T", r)
		}
	}()
	c.Exec(Op{Kind: OpLD8, Dst8: ImmediateLoc(0), Src8: Reg8Loc(RegA)})
}

func TestRotateWithoutCarryUsesBitRotatedOut(t *testing.T) {
	c := newCPU()
	c.Registers.SetReg8(RegA, 0b1000_0001)
	c.Exec(Op{Kind: OpRLCA})
	if got := c.Registers.GetReg8(RegA); got != 0b0000_0011 {
		t.Fatalf("A after RLCA = %#08b, want 0b00000011", got)
	}
	if !c.Registers.GetFlag(FlagCarry) {
		t.Error("RLCA should set C from the bit rotated out (old bit 7)")
	}
}
