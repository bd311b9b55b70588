package emu

// Bus connects the Z80 to memory and the I/O ports. Only the low 8 bits
// of a port address are decoded.
type Bus struct {
	mem *Memory
	io  *SMSIO
}

// NewBus creates a Bus for the go-chip-z80 core.
func NewBus(mem *Memory, io *SMSIO) *Bus {
	return &Bus{mem: mem, io: io}
}

func (b *Bus) Fetch(addr uint16) uint8      { return b.mem.Get(addr) }
func (b *Bus) Read(addr uint16) uint8       { return b.mem.Get(addr) }
func (b *Bus) Write(addr uint16, val uint8) { b.mem.Set(addr, val) }
func (b *Bus) In(port uint16) uint8         { return b.io.In(uint8(port)) }
func (b *Bus) Out(port uint16, val uint8)   { b.io.Out(uint8(port), val) }
