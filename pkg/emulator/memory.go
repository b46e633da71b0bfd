package emulator

// MemorySize is the fixed size of the emulator's linear address space:
// 16 KiB, addressable as u8[0x0000..0x4000].
const MemorySize = 16 * 1024

// Memory is a fixed-size, zero-initialised byte buffer. Reads and writes
// past the end of the buffer fail rather than wrapping.
type Memory struct {
	bytes [MemorySize]byte
}

// ReadByte reads a single byte. It panics with *OutOfRangeError if addr is
// outside the buffer.
func (m *Memory) ReadByte(addr uint16) uint8 {
	if int(addr) >= MemorySize {
		panic(&OutOfRangeError{Address: int(addr)})
	}
	return m.bytes[addr]
}

// WriteByte writes a single byte. It panics with *OutOfRangeError if addr
// is outside the buffer.
func (m *Memory) WriteByte(addr uint16, v uint8) {
	if int(addr) >= MemorySize {
		panic(&OutOfRangeError{Address: int(addr)})
	}
	m.bytes[addr] = v
}

// ReadWord reads a little-endian 16-bit value: the low byte at addr, the
// high byte at addr+1.
func (m *Memory) ReadWord(addr uint16) uint16 {
	lo := m.ReadByte(addr)
	hi := m.ReadByte(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteWord writes a little-endian 16-bit value: the low byte at addr, the
// high byte at addr+1.
func (m *Memory) WriteWord(addr uint16, v uint16) {
	m.WriteByte(addr, uint8(v))
	m.WriteByte(addr+1, uint8(v>>8))
}

// Load copies a program image byte-for-byte starting at address 0. It
// panics with *OutOfRangeError if the image does not fit.
func (m *Memory) Load(program []byte) {
	if len(program) > MemorySize {
		panic(&OutOfRangeError{Address: len(program) - 1})
	}
	copy(m.bytes[:], program)
}
