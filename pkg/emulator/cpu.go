package emulator

// CPU owns the register file, the 16 KiB memory, the halted latch, and the
// peripherals attached to its 256 input and output ports.
type CPU struct {
	Registers Registers
	Memory    Memory

	halted bool

	inputs  [256]InputDevice
	outputs [256]OutputDevice
}

// New returns a zero-initialised CPU: all registers and memory zero, not
// halted, no peripherals installed.
func New() *CPU {
	return &CPU{}
}

// Load copies a program image byte-for-byte into memory starting at
// address 0.
func (c *CPU) Load(program []byte) {
	c.Memory.Load(program)
}

// InstallInput attaches an input peripheral at the given port. Installing
// replaces whatever was previously installed there.
func (c *CPU) InstallInput(port uint8, dev InputDevice) {
	c.inputs[port] = dev
}

// InstallOutput attaches an output peripheral at the given port. Installing
// replaces whatever was previously installed there.
func (c *CPU) InstallOutput(port uint8, dev OutputDevice) {
	c.outputs[port] = dev
}

// Halted reports whether a HALT instruction has executed.
func (c *CPU) Halted() bool {
	return c.halted
}

// fetchWindow reads the 4-byte peek window starting at PC, padding with
// zero bytes past the end of memory.
func (c *CPU) fetchWindow(pc uint16) [4]byte {
	var w [4]byte
	for i := range w {
		addr := int(pc) + i
		if addr < MemorySize {
			w[i] = c.Memory.bytes[addr]
		}
	}
	return w
}

// Step decodes and executes exactly one instruction, advancing PC.
func (c *CPU) Step() {
	pc := c.Registers.GetPC()
	window := c.fetchWindow(pc)
	op, consumed := Decode(window)
	if newPC, ok := c.Exec(op); ok {
		c.Registers.SetPC(newPC)
	} else {
		c.Registers.SetPC(pc + uint16(consumed))
	}
}

// Run repeatedly fetches, decodes, and executes instructions until the
// halted latch is set. Decode and execution failures propagate as panics —
// callers that want to turn them into a clean error should recover around
// Run (see cmd/zrun).
func (c *CPU) Run() {
	for !c.halted {
		c.Step()
	}
}
