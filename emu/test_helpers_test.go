package emu

// createTestROM returns a ROM of 16KB banks, each filled with its bank
// number.
func createTestROM(banks int) []byte {
	return fillTestROM(banks, func(bank, off int) byte { return byte(bank) })
}

// createTestROMWithPattern returns a ROM whose bytes hold the bank number
// in the high nibble and the 1KB block within the bank in the low nibble.
func createTestROMWithPattern(banks int) []byte {
	return fillTestROM(banks, func(bank, off int) byte { return byte(bank<<4 | (off>>10)&0x0F) })
}

func fillTestROM(banks int, value func(bank, off int) byte) []byte {
	rom := make([]byte, banks*0x4000)
	for i := range rom {
		rom[i] = value(i/0x4000, i%0x4000)
	}
	return rom
}
