package emu

// MapperType identifies the cartridge bank switching hardware.
type MapperType int

const (
	MapperSega        MapperType = iota // registers at $FFFC-$FFFF
	MapperCodemasters                   // registers at $0000, $4000, $8000
)

func (t MapperType) String() string {
	switch t {
	case MapperSega:
		return "Sega"
	case MapperCodemasters:
		return "Codemasters"
	default:
		return "Unknown"
	}
}

// Memory implements the SMS/GG memory map.
//
// Sega mapper:
//
//	$0000-$03FF: ROM (first 1KB, always bank 0)
//	$0400-$3FFF: ROM slot 0 (selectable via $FFFD)
//	$4000-$7FFF: ROM slot 1 (selectable via $FFFE)
//	$8000-$BFFF: ROM slot 2 (selectable via $FFFF) or cartridge RAM
//	$C000-$DFFF: RAM (8KB)
//	$E000-$FFFF: RAM mirror + bank registers at $FFFC-$FFFF
//
// Codemasters mapper: each 16KB slot is switched by a write to its first
// byte, slot 0 has no fixed first 1KB and $FFFC-$FFFF are plain RAM.
//
// SG-1000 cartridges never write the bank registers and run from the
// power-on banks 0, 1 and 2.
type Memory struct {
	rom        []uint8
	ram        [0x2000]uint8 // 8KB system RAM
	cartRAM    [0x8000]uint8 // 32KB cartridge RAM (battery backed)
	bankSlot   [3]uint8      // Bank numbers for slots 0, 1, 2
	ramControl uint8         // $FFFC: RAM mapping control (Sega mapper only)
	bankMask   uint8         // Mask for valid bank numbers (based on ROM size)
	mapper     MapperType
}

// NewMemory maps rom with the mapper listed for it in the ROM database,
// or the Sega mapper.
func NewMemory(rom []byte) *Memory {
	mapper := MapperSega
	if info, ok := lookupROM(rom); ok {
		mapper = info.Mapper
	}
	return newMemoryWithMapper(rom, mapper)
}

func newMemoryWithMapper(rom []byte, mapper MapperType) *Memory {
	m := &Memory{
		rom:      make([]uint8, len(rom)),
		bankSlot: [3]uint8{0, 1, 2},
		mapper:   mapper,
	}
	copy(m.rom, rom)

	// Codemasters boards power on with bank 0 in slot 2
	if mapper == MapperCodemasters {
		m.bankSlot[2] = 0
	}

	// bank count rounded up to a power of 2 so bank numbers wrap
	banks := max((len(rom)+0x3FFF)/0x4000, 1)
	pow2 := 1
	for pow2 < banks {
		pow2 <<= 1
	}
	m.bankMask = uint8(pow2 - 1)

	return m
}

// romByte reads offset off of the bank mapped into slot, or open bus
// past the end of the ROM.
func (m *Memory) romByte(slot int, off uint16) uint8 {
	bank := uint32(m.bankSlot[slot] & m.bankMask)
	romAddr := bank*0x4000 + uint32(off)
	if romAddr < uint32(len(m.rom)) {
		return m.rom[romAddr]
	}
	return 0xFF
}

// cartRAMAddr returns the cartridge RAM offset for a slot 2 address and
// whether cartridge RAM is mapped there.
func (m *Memory) cartRAMAddr(addr uint16) (uint32, bool) {
	if m.ramControl&0x08 == 0 {
		return 0, false
	}
	ramBank := uint32((m.ramControl >> 2) & 0x01)
	return ramBank*0x4000 + uint32(addr-0x8000), true
}

// Get reads a byte from memory
func (m *Memory) Get(addr uint16) uint8 {
	switch {
	case addr < 0x0400 && m.mapper == MapperSega:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x4000:
		return m.romByte(0, addr)
	case addr < 0x8000:
		return m.romByte(1, addr-0x4000)
	case addr < 0xC000:
		if ra, ok := m.cartRAMAddr(addr); ok {
			return m.cartRAM[ra]
		}
		return m.romByte(2, addr-0x8000)
	default:
		return m.ram[addr&0x1FFF]
	}
}

// Set writes a byte to memory
func (m *Memory) Set(addr uint16, val uint8) {
	if m.mapper == MapperCodemasters {
		m.setCodemasters(addr, val)
		return
	}

	switch {
	case addr < 0x8000:
		// ROM
	case addr < 0xC000:
		if ra, ok := m.cartRAMAddr(addr); ok {
			m.cartRAM[ra] = val
		}
	default:
		m.ram[addr&0x1FFF] = val

		switch addr {
		case 0xFFFC:
			m.ramControl = val
		case 0xFFFD:
			m.bankSlot[0] = val
		case 0xFFFE:
			m.bankSlot[1] = val
		case 0xFFFF:
			m.bankSlot[2] = val
		}
	}
}

func (m *Memory) setCodemasters(addr uint16, val uint8) {
	switch addr {
	case 0x0000:
		m.bankSlot[0] = val
	case 0x4000:
		m.bankSlot[1] = val
	case 0x8000:
		m.bankSlot[2] = val
	default:
		if addr >= 0xC000 {
			m.ram[addr&0x1FFF] = val
		}
	}
}

// Mapper returns the bank switching scheme in use.
func (m *Memory) Mapper() MapperType {
	return m.mapper
}

// GetBankSlot returns the bank number mapped to the given slot (0-2)
func (m *Memory) GetBankSlot(slot int) uint8 {
	return m.bankSlot[slot]
}

// GetRAMControl returns the RAM mapping control byte ($FFFC)
func (m *Memory) GetRAMControl() uint8 {
	return m.ramControl
}
