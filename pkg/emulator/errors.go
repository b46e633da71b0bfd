package emulator

import "fmt"

// DecodeError reports a 4-byte opcode window that matched no decode rule.
type DecodeError struct {
	Window [4]byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("emulator: cannot decode opcode window %02X %02X %02X %02X",
		e.Window[0], e.Window[1], e.Window[2], e.Window[3])
}

// UnsupportedOpcodeError reports a recognised but unimplemented encoding,
// namely the undocumented CB 30..37 SLL family.
type UnsupportedOpcodeError struct {
	Name string
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("emulator: unsupported instruction: %s", e.Name)
}

// OutOfRangeError reports a memory access past the end of the 16 KiB image.
type OutOfRangeError struct {
	Address int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("emulator: address %04X is out of range (memory is %d bytes)", e.Address, MemorySize)
}

// InvalidStoreTargetError reports an attempt to write to an Immediate
// location, which the decoder should never produce as a store target.
type InvalidStoreTargetError struct{}

func (e *InvalidStoreTargetError) Error() string {
	return "emulator: cannot store to an immediate location"
}

// InvalidBitIndexError reports a BIT/SET/RES bit index outside 0..7.
type InvalidBitIndexError struct {
	N int
}

func (e *InvalidBitIndexError) Error() string {
	return fmt.Sprintf("emulator: invalid bit index %d (want 0..7)", e.N)
}

// MissingPeripheralError reports IN/OUT against a port with no installed
// device. The engine also raises it for IN when the installed input device
// reports that it has no data; the message does not distinguish the two.
type MissingPeripheralError struct {
	Port      uint8
	Direction string // "input" or "output"
}

func (e *MissingPeripheralError) Error() string {
	return fmt.Sprintf("emulator: no %s peripheral installed on port %d", e.Direction, e.Port)
}

// UnsupportedOperationError reports execution of an instruction this
// emulator deliberately does not implement, namely DAA.
type UnsupportedOperationError struct {
	Name string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("emulator: %s is not supported", e.Name)
}
