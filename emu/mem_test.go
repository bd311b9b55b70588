package emu

import "testing"

// TestMemory_RAMMirroring tests that $E000-$FFFF mirrors $C000-$DFFF
func TestMemory_RAMMirroring(t *testing.T) {
	mem := NewMemory(createTestROM(4))

	testCases := []struct {
		writeAddr uint16
		readAddr  uint16
		val       uint8
	}{
		{0xC000, 0xE000, 0x42},
		{0xD123, 0xF123, 0xAB},
		{0xE500, 0xC500, 0x99},
		{0xDFFF, 0xFFFF, 0xCD}, // $FFFF is also the slot 2 register
	}

	for _, tc := range testCases {
		mem.Set(tc.writeAddr, tc.val)
		if got := mem.Get(tc.readAddr); got != tc.val {
			t.Errorf("wrote 0x%02X to 0x%04X, read 0x%04X: got 0x%02X",
				tc.val, tc.writeAddr, tc.readAddr, got)
		}
	}
}

// TestMemory_Banking tests the three slot registers at $FFFD-$FFFF
func TestMemory_Banking(t *testing.T) {
	testCases := []struct {
		name     string
		reg      uint16
		bank     uint8
		addr     uint16
		slot     int
		expected uint8
	}{
		{"slot 0", 0xFFFD, 5, 0x0400, 0, 0x05},
		{"slot 0 end", 0xFFFD, 6, 0x3FFF, 0, 0x06},
		{"slot 1", 0xFFFE, 3, 0x4000, 1, 0x03},
		{"slot 1 end", 0xFFFE, 7, 0x7FFF, 1, 0x07},
		{"slot 2", 0xFFFF, 4, 0x8000, 2, 0x04},
		{"slot 2 end", 0xFFFF, 0, 0xBFFF, 2, 0x00},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mem := NewMemory(createTestROM(8))
			mem.Set(tc.reg, tc.bank)
			if got := mem.GetBankSlot(tc.slot); got != tc.bank {
				t.Errorf("bank slot %d: expected %d, got %d", tc.slot, tc.bank, got)
			}
			if got := mem.Get(tc.addr); got != tc.expected {
				t.Errorf("read 0x%04X: expected 0x%02X, got 0x%02X", tc.addr, tc.expected, got)
			}
		})
	}
}

// TestMemory_First1KBFixed tests that $0000-$03FF ignores the slot 0 bank
func TestMemory_First1KBFixed(t *testing.T) {
	mem := NewMemory(createTestROMWithPattern(8))
	mem.Set(0xFFFD, 5)

	if got := mem.Get(0x03FF); got != 0x00 {
		t.Errorf("0x03FF after bank switch: expected 0x00, got 0x%02X", got)
	}
	if got := mem.Get(0x0400); got != 0x51 {
		t.Errorf("0x0400 after bank switch: expected 0x51, got 0x%02X", got)
	}
}

// TestMemory_CartRAM tests $FFFC bit 3 (enable) and bit 2 (bank select)
func TestMemory_CartRAM(t *testing.T) {
	mem := NewMemory(createTestROM(4))

	mem.Set(0x8000, 0x55) // ROM, ignored
	if got := mem.Get(0x8000); got != 0x02 {
		t.Fatalf("$8000 before enable: expected ROM 0x02, got 0x%02X", got)
	}

	mem.Set(0xFFFC, 0x08)
	mem.Set(0x8000, 0x11)
	mem.Set(0xFFFC, 0x0C)
	mem.Set(0x8000, 0x22)

	if got := mem.Get(0x8000); got != 0x22 {
		t.Errorf("cart RAM bank 1: expected 0x22, got 0x%02X", got)
	}
	mem.Set(0xFFFC, 0x08)
	if got := mem.Get(0x8000); got != 0x11 {
		t.Errorf("cart RAM bank 0: expected 0x11, got 0x%02X", got)
	}
	if got := mem.GetRAMControl(); got != 0x08 {
		t.Errorf("RAM control: expected 0x08, got 0x%02X", got)
	}

	mem.Set(0xFFFC, 0x00)
	if got := mem.Get(0x8000); got != 0x02 {
		t.Errorf("$8000 after disable: expected ROM 0x02, got 0x%02X", got)
	}
	if mem.cartRAM[0x4000] != 0x22 {
		t.Errorf("cart RAM bank 1 offset: expected 0x22, got 0x%02X", mem.cartRAM[0x4000])
	}
}

// TestMemory_ROMWriteIgnored tests that writes below $8000 have no effect
func TestMemory_ROMWriteIgnored(t *testing.T) {
	mem := NewMemory(createTestROM(4))
	mem.Set(0x0000, 0xFF)
	mem.Set(0x4000, 0xFF)

	if got := mem.Get(0x0000); got != 0x00 {
		t.Errorf("$0000: expected 0x00, got 0x%02X", got)
	}
	if got := mem.Get(0x4000); got != 0x01 {
		t.Errorf("$4000: expected 0x01, got 0x%02X", got)
	}
}

// TestMemory_BankWrapping tests that bank numbers are masked to the ROM size
func TestMemory_BankWrapping(t *testing.T) {
	mem := NewMemory(createTestROM(2))

	// power-on slot 2 is bank 2, which wraps to 0
	if got := mem.Get(0x8000); got != 0x00 {
		t.Errorf("slot 2 power-on: expected 0x00, got 0x%02X", got)
	}
	mem.Set(0xFFFE, 5)
	if got := mem.Get(0x4000); got != 0x01 {
		t.Errorf("bank 5 -> 1: expected 0x01, got 0x%02X", got)
	}

	// 3 banks round up to a mask of 3; bank 3 is past the end
	mem3 := NewMemory(createTestROM(3))
	mem3.Set(0xFFFF, 7)
	if got := mem3.Get(0x8000); got != 0xFF {
		t.Errorf("bank 7 -> 3 past end: expected 0xFF, got 0x%02X", got)
	}
}

// TestMemory_SmallROM tests an 8KB SG-1000 image running from the
// power-on banks
func TestMemory_SmallROM(t *testing.T) {
	rom := make([]byte, 0x2000)
	for i := range rom {
		rom[i] = uint8(i >> 8)
	}
	mem := NewMemory(rom)

	if got := mem.Get(0x1FFF); got != 0x1F {
		t.Errorf("$1FFF: expected 0x1F, got 0x%02X", got)
	}
	if got := mem.Get(0x2000); got != 0xFF {
		t.Errorf("$2000 past end: expected open bus 0xFF, got 0x%02X", got)
	}
	// slot 1 holds bank 1, masked to bank 0
	if got := mem.Get(0x4100); got != 0x01 {
		t.Errorf("$4100: expected 0x01, got 0x%02X", got)
	}
}

// TestMemory_InitialBankState tests power-on bank registers
func TestMemory_InitialBankState(t *testing.T) {
	mem := NewMemory(createTestROM(4))

	for slot := 0; slot < 3; slot++ {
		if got := mem.GetBankSlot(slot); got != uint8(slot) {
			t.Errorf("bank slot %d: expected %d, got %d", slot, slot, got)
		}
	}
	if got := mem.GetRAMControl(); got != 0 {
		t.Errorf("RAM control: expected 0, got %d", got)
	}
}

// TestMemory_MapperDetection tests the mapper choice from the ROM database
func TestMemory_MapperDetection(t *testing.T) {
	if got := NewMemory(createTestROM(4)).Mapper(); got != MapperSega {
		t.Errorf("unknown ROM: expected %v, got %v", MapperSega, got)
	}

	rom := createTestROM(8)
	withROMEntry(t, rom, romInfo{MapperCodemasters, RegionPAL})
	mem := NewMemory(rom)
	if got := mem.Mapper(); got != MapperCodemasters {
		t.Fatalf("listed ROM: expected %v, got %v", MapperCodemasters, got)
	}
	// slot 2 starts at bank 0 on Codemasters boards
	if got := mem.Get(0x8000); got != 0x00 {
		t.Errorf("power-on slot 2: expected 0x00, got 0x%02X", got)
	}
}

// TestMemory_CodemastersBanking tests slot switching via $0000, $4000 and $8000
func TestMemory_CodemastersBanking(t *testing.T) {
	mem := newMemoryWithMapper(createTestROM(8), MapperCodemasters)

	testCases := []struct {
		reg   uint16
		bank  uint8
		first uint16
		last  uint16
	}{
		{0x0000, 5, 0x0000, 0x3FFF},
		{0x4000, 3, 0x4000, 0x7FFF},
		{0x8000, 7, 0x8000, 0xBFFF},
	}

	for _, tc := range testCases {
		mem.Set(tc.reg, tc.bank)
		if got := mem.Get(tc.first); got != tc.bank {
			t.Errorf("$%04X after write to $%04X: expected 0x%02X, got 0x%02X", tc.first, tc.reg, tc.bank, got)
		}
		if got := mem.Get(tc.last); got != tc.bank {
			t.Errorf("$%04X after write to $%04X: expected 0x%02X, got 0x%02X", tc.last, tc.reg, tc.bank, got)
		}
	}
}

// TestMemory_CodemastersSlot0FullyBanked tests that the first 1KB follows slot 0
func TestMemory_CodemastersSlot0FullyBanked(t *testing.T) {
	mem := newMemoryWithMapper(createTestROM(8), MapperCodemasters)
	mem.Set(0x0000, 5)

	for _, addr := range []uint16{0x0000, 0x0300, 0x03FF} {
		if got := mem.Get(addr); got != 0x05 {
			t.Errorf("$%04X: expected 0x05, got 0x%02X", addr, got)
		}
	}
}

// TestMemory_CodemastersRegisterAddresses tests that only the first byte of
// each slot switches banks
func TestMemory_CodemastersRegisterAddresses(t *testing.T) {
	mem := newMemoryWithMapper(createTestROM(8), MapperCodemasters)

	mem.Set(0x0001, 5)
	mem.Set(0x4001, 5)
	mem.Set(0x8001, 5)
	for slot, want := range []uint8{0, 1, 0} {
		if got := mem.GetBankSlot(slot); got != want {
			t.Errorf("slot %d: expected bank %d, got %d", slot, want, got)
		}
	}
}

// TestMemory_CodemastersRAM tests that $FFFC-$FFFF are plain RAM
func TestMemory_CodemastersRAM(t *testing.T) {
	mem := newMemoryWithMapper(createTestROM(8), MapperCodemasters)

	mem.Set(0xC000, 0x42)
	if got := mem.Get(0xE000); got != 0x42 {
		t.Errorf("RAM mirror at $E000: expected 0x42, got 0x%02X", got)
	}

	mem.Set(0xFFFC, 0x08)
	mem.Set(0xFFFD, 5)
	if got := mem.GetBankSlot(0); got != 0 {
		t.Errorf("write to $FFFD changed slot 0 to %d", got)
	}
	if got := mem.Get(0xFFFD); got != 5 {
		t.Errorf("RAM at $FFFD: expected 5, got 0x%02X", got)
	}
	// no cartridge RAM behind slot 2
	if got := mem.Get(0x8000); got != 0x00 {
		t.Errorf("$8000 after $FFFC write: expected ROM bank 0, got 0x%02X", got)
	}
}

// TestMemory_CodemastersBankWrapping tests bank numbers past the ROM size
func TestMemory_CodemastersBankWrapping(t *testing.T) {
	mem := newMemoryWithMapper(createTestROM(4), MapperCodemasters)

	mem.Set(0x0000, 7)
	if got := mem.Get(0x0000); got != 0x03 {
		t.Errorf("bank 7 with 4 banks: expected 0x03, got 0x%02X", got)
	}
	mem.Set(0x4000, 10)
	if got := mem.Get(0x4000); got != 0x02 {
		t.Errorf("bank 10 with 4 banks: expected 0x02, got 0x%02X", got)
	}
}
