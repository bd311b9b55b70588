package emu

import "github.com/user-none/emgg/render"

var _ render.VDP = (*VDP)(nil)

// VDP timing constants (in CPU cycles within a scanline)
const (
	// Cycle at which VBlank interrupt is triggered
	VBlankInterruptCycle = 4
	// Cycle at which line counter decrements and line interrupt may fire
	LineInterruptCycle = 8
	// Cycle at which CRAM and the per-line registers are latched for
	// rendering, leaving line interrupt handlers ~6 cycles to change them
	CRAMLatchCycle = 14
)

// hCounterTable maps CPU cycle offset (0-227) to the H-counter.
// A scanline is 684 master clocks (228 CPU cycles). The exposed counter
// runs $00-$93 across the active display, then jumps to $E9 and wraps
// through $00-$08 during H-blank.
var hCounterTable = func() [228]uint8 {
	var table [228]uint8
	for cycle := range table {
		mc := cycle * 3
		var h int
		switch {
		case mc < 256:
			h = mc / 2
		case mc < 512:
			h = min(0x80+(mc-256)*20/256, 0x93)
		default:
			h = (0xE9 + (mc-512)*32/172) & 0xFF
		}
		table[cycle] = uint8(h)
	}
	return table
}()

// GetHCounterForCycle returns the H-counter value for a given cycle offset within a scanline
func GetHCounterForCycle(cycle int) uint8 {
	if cycle < 0 {
		return 0
	}
	if cycle >= len(hCounterTable) {
		return hCounterTable[len(hCounterTable)-1]
	}
	return hCounterTable[cycle]
}

// smsLevels expands a 2 bit SMS color channel to 4 bits.
var smsLevels = [4]uint16{0x0, 0x5, 0xA, 0xF}

// VDP is the SMS/GG video display processor port and register model.
// Drawing is done by a render.Renderer reading the latched state through
// the render.VDP methods.
type VDP struct {
	vram     [0x4000]uint8 // 16KB VRAM
	cram     [0x40]uint8   // raw CRAM bytes (32 on SMS, 64 on GG)
	colors   [0x20]uint16  // CRAM as 0x0BGR
	cramLive [0x20]uint16  // latched colors seen by the renderer
	ggMode   bool
	ggLatch  uint8 // even byte of a GG CRAM write

	register       [16]uint8 // VDP registers
	addr           uint16    // Current VRAM/CRAM address
	addrLatch      uint8     // First byte of control write
	writeLatch     bool      // True if first byte written
	codeReg        uint8     // Command code (bits 6-7 of second write)
	readBuffer     uint8     // Read buffer for VRAM reads
	status         uint8     // Status register
	vCounter       uint16    // Current scanline (raw)
	hCounter       uint8     // Horizontal counter
	lineCounter    int16     // Line interrupt counter
	lineIntPending bool      // Line interrupt pending flag

	// Per-scanline latched values
	hScrollLatch uint8
	reg2Latch    uint8
	reg7Latch    uint8
	// Latched once per frame
	vScrollLatch uint8

	totalScanlines int // 262 for NTSC, 313 for PAL

	// Interrupt state tracking
	statusWasRead          bool // Set when status register is read (flags cleared)
	interruptCheckRequired bool // Set when reg0/reg1 written, requiring interrupt state update
}

// NewVDP creates a VDP. gg selects the Game Gear 12 bit CRAM.
func NewVDP(gg bool) *VDP {
	return &VDP{
		ggMode:         gg,
		totalScanlines: 262, // Default to NTSC
		lineCounter:    255, // Prevent spurious interrupt on first scanline
	}
}

// SetTotalScanlines configures the VDP for the correct region timing
func (v *VDP) SetTotalScanlines(scanlines int) {
	v.totalScanlines = scanlines
}

// Register implements render.VDP. Registers 2, 7 and 8 return the value
// latched for the current line and register 9 the value latched for the
// frame.
func (v *VDP) Register(n int) uint8 {
	switch n {
	case 2:
		return v.reg2Latch
	case 7:
		return v.reg7Latch
	case 8:
		return v.hScrollLatch
	case 9:
		return v.vScrollLatch
	}
	return v.register[n&0x0F]
}

// SetStatus implements render.VDP.
func (v *VDP) SetStatus(bits uint8) {
	v.status |= bits
}

// VRAM implements render.VDP.
func (v *VDP) VRAM() []uint8 {
	return v.vram[:]
}

// CRAM implements render.VDP with the colors latched for the current line.
func (v *VDP) CRAM() []uint16 {
	return v.cramLive[:]
}

// ReadVCounter returns the V-counter value with the non-linear jump that
// fits 262/313 scanlines into 8 bits.
func (v *VDP) ReadVCounter() uint8 {
	line := int(v.vCounter)

	// last line counted linearly before the jump
	var top int
	if v.totalScanlines == 313 {
		switch v.ActiveHeight() {
		case 192:
			top = 242 // 243->186
		case 224:
			top = 258 // 259->202
		case 240:
			top = 266 // 267->210
		}
		if line > top {
			return uint8(line - 57)
		}
		return uint8(line)
	}

	switch v.ActiveHeight() {
	case 192:
		top = 218 // 219->213
	case 224:
		top = 234 // 235->229
	default:
		// no jump in 240 line NTSC, the counter simply wraps
		return uint8(line)
	}
	if line > top {
		return uint8(line - 6)
	}
	return uint8(line)
}

// ReadHCounter returns the horizontal counter
func (v *VDP) ReadHCounter() uint8 {
	return v.hCounter
}

// SetHCounter updates the horizontal counter
func (v *VDP) SetHCounter(h uint8) {
	v.hCounter = h
}

// ActiveHeight returns the active display height. The extended heights
// need Mode 4 with M2 set; M1 then selects 224 and M3 240 lines.
func (v *VDP) ActiveHeight() int {
	if v.register[0]&0x06 != 0x06 {
		return 192
	}
	switch v.register[1] & 0x18 {
	case 0x10:
		return 224
	case 0x08:
		return 240
	}
	return 192
}

// ReadControl returns the status register and clears it. This drops
// VBlank, overflow and collision and the fifth sprite number.
func (v *VDP) ReadControl() uint8 {
	status := v.status
	v.status = 0
	v.lineIntPending = false
	v.writeLatch = false
	v.statusWasRead = true
	return status
}

// StatusWasRead returns and clears the status-read flag.
func (v *VDP) StatusWasRead() bool {
	if v.statusWasRead {
		v.statusWasRead = false
		return true
	}
	return false
}

// InterruptCheckRequired returns and clears the interrupt check flag.
// Set when reg0 or reg1 is written (interrupt enable bits may have changed).
func (v *VDP) InterruptCheckRequired() bool {
	if v.interruptCheckRequired {
		v.interruptCheckRequired = false
		return true
	}
	return false
}

// WriteControl handles the two-write control port sequence
func (v *VDP) WriteControl(value uint8) {
	if !v.writeLatch {
		v.addrLatch = value
		v.writeLatch = true
		return
	}

	v.writeLatch = false
	v.addr = uint16(v.addrLatch) | uint16(value&0x3F)<<8
	v.codeReg = value >> 6

	switch v.codeReg {
	case 0: // VRAM read: prefetch into the read buffer
		v.readBuffer = v.vram[v.addr&0x3FFF]
		v.addr = (v.addr + 1) & 0x3FFF
	case 2: // register write
		n := value & 0x0F
		v.register[n] = v.addrLatch
		if n == 0 || n == 1 {
			v.interruptCheckRequired = true
		}
	}
}

// ReadData returns data from VRAM
func (v *VDP) ReadData() uint8 {
	v.writeLatch = false
	data := v.readBuffer
	v.readBuffer = v.vram[v.addr&0x3FFF]
	v.addr = (v.addr + 1) & 0x3FFF
	return data
}

// WriteData writes to VRAM or CRAM depending on code register
func (v *VDP) WriteData(value uint8) {
	v.writeLatch = false
	v.readBuffer = value
	if v.codeReg == 3 {
		v.writeCRAM(value)
	} else {
		v.vram[v.addr&0x3FFF] = value
	}
	v.addr = (v.addr + 1) & 0x3FFF
}

// writeCRAM stores a palette byte and updates its 0x0BGR color.
// SMS entries are one byte, --BBGGRR. GG entries are two bytes,
// GGGGRRRR then ----BBBB; the even byte is held in a latch and both are
// committed by the odd write.
func (v *VDP) writeCRAM(value uint8) {
	if !v.ggMode {
		i := v.addr & 0x1F
		v.cram[i] = value
		v.colors[i] = smsLevels[value&0x03] |
			smsLevels[(value>>2)&0x03]<<4 |
			smsLevels[(value>>4)&0x03]<<8
		return
	}

	i := v.addr & 0x3F
	if i&1 == 0 {
		v.ggLatch = value
		return
	}
	v.cram[i-1] = v.ggLatch
	v.cram[i] = value
	v.colors[i>>1] = uint16(value&0x0F)<<8 | uint16(v.ggLatch)
}

// SetVBlank sets the VBlank flag in the status register
func (v *VDP) SetVBlank() {
	v.status |= 0x80
}

// InterruptPending returns true if VDP wants to trigger an interrupt
func (v *VDP) InterruptPending() bool {
	frameInt := v.status&0x80 != 0 && v.register[1]&0x20 != 0
	lineInt := v.lineIntPending && v.register[0]&0x10 != 0
	return frameInt || lineInt
}

// SetVCounter updates the current scanline. Called at the start of each
// scanline, before the CPU runs.
func (v *VDP) SetVCounter(line uint16) {
	v.vCounter = line
}

// LatchVScrollForFrame latches the vertical scroll register once per frame.
// Writes to register 9 during active display wait for the next frame.
func (v *VDP) LatchVScrollForFrame() {
	v.vScrollLatch = v.register[9]
}

// LatchCRAM latches the palette for rendering and reports whether any
// color differs from the previous latch.
func (v *VDP) LatchCRAM() bool {
	if v.cramLive == v.colors {
		return false
	}
	v.cramLive = v.colors
	return true
}

// LatchPerLineRegisters latches hScroll, the name table base and the
// backdrop color after line interrupts had a chance to modify them.
func (v *VDP) LatchPerLineRegisters() {
	v.hScrollLatch = v.register[8]
	v.reg2Latch = v.register[2]
	v.reg7Latch = v.register[7]
}

// UpdateLineCounter updates the line interrupt counter. The counter
// decrements on lines 0 through activeHeight and reloads from register 10
// on the remaining lines.
func (v *VDP) UpdateLineCounter() {
	if int(v.vCounter) <= v.ActiveHeight() {
		v.lineCounter--
		if v.lineCounter < 0 {
			v.lineCounter = int16(v.register[10])
			v.lineIntPending = true
		}
		return
	}
	v.lineCounter = int16(v.register[10])
}

// GetRegister returns the value of a VDP register (0-15) as written,
// ignoring the render latches.
func (v *VDP) GetRegister(n int) uint8 {
	if n < 0 || n >= len(v.register) {
		return 0
	}
	return v.register[n]
}

// GetCRAM returns the raw CRAM bytes.
func (v *VDP) GetCRAM() []uint8 {
	if v.ggMode {
		return v.cram[:]
	}
	return v.cram[:0x20]
}

// GetAddress returns the current VRAM/CRAM address
func (v *VDP) GetAddress() uint16 {
	return v.addr
}

// GetCodeReg returns the code register (command type)
func (v *VDP) GetCodeReg() uint8 {
	return v.codeReg
}

// GetStatus returns the status register without clearing flags
func (v *VDP) GetStatus() uint8 {
	return v.status
}

// GetLineCounter returns the line interrupt counter
func (v *VDP) GetLineCounter() int16 {
	return v.lineCounter
}

// LeftColumnBlankEnabled returns true if VDP register 0 bit 5 is set,
// indicating the leftmost 8 pixels are masked with backdrop color
func (v *VDP) LeftColumnBlankEnabled() bool {
	return v.register[0]&0x20 != 0
}
