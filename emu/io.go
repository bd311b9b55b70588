package emu

import "github.com/user-none/go-chip-sn76489"

// Input holds controller state (directly usable as port values)
type Input struct {
	Port1 uint8 // Port $DC - Controller 1 + partial Controller 2
	Port2 uint8 // Port $DD - Controller 2 + misc
	Start bool  // Game Gear START button
}

// SMSIO decodes the Z80 I/O ports of a Master System or Game Gear.
type SMSIO struct {
	vdp         *VDP
	psg         *sn76489.SN76489
	Input       *Input
	nationality Nationality
	region      Region
	ioControl   uint8 // port $3F

	// Game Gear only
	gg     bool
	ggRegs [6]uint8 // ports $01-$05 (link port)
	stereo uint8    // port $06
}

func NewSMSIO(vdp *VDP, psg *sn76489.SN76489, nationality Nationality) *SMSIO {
	return &SMSIO{
		vdp:         vdp,
		psg:         psg,
		nationality: nationality,
		ioControl:   0xFF,
		ggRegs:      [6]uint8{0, 0x7F, 0xFF, 0x00, 0xFF, 0x00},
		stereo:      0xFF,
		Input: &Input{
			Port1: 0xFF, // All buttons released (active low)
			Port2: 0xFF,
		},
	}
}

// SetGameGear enables the Game Gear ports $00-$06.
func (e *SMSIO) SetGameGear(gg bool) {
	e.gg = gg
}

// SetRegion sets the video standard reported by GG port $00.
func (e *SMSIO) SetRegion(r Region) {
	e.region = r
}

// Stereo returns the Game Gear PSG stereo register. The high nibble
// enables channels 0-3 on the left, the low nibble on the right.
func (e *SMSIO) Stereo() uint8 {
	if !e.gg {
		return 0xFF
	}
	return e.stereo
}

func (e *SMSIO) In(addr uint8) uint8 {
	if e.gg && addr < 0x07 {
		return e.ggIn(addr)
	}

	// partial address decoding: bits 7 and 6 pick the group, bit 0
	// even/odd
	switch addr & 0xC1 {
	case 0x40: // $40-$7F even: V counter
		return e.vdp.ReadVCounter()
	case 0x41: // $40-$7F odd: H counter
		return e.vdp.ReadHCounter()
	case 0x80: // $80-$BF even: VDP data
		return e.vdp.ReadData()
	case 0x81: // $80-$BF odd: VDP control (status)
		return e.vdp.ReadControl()
	case 0xC0: // $C0-$FF even: I/O port A (controller 1)
		return e.Input.Port1
	case 0xC1: // $C0-$FF odd: I/O port B (controller 2 + misc)
		return e.portB()
	}
	return 0xFF
}

func (e *SMSIO) Out(addr uint8, value uint8) {
	if e.gg && addr < 0x07 {
		e.ggOut(addr, value)
		return
	}

	switch addr & 0xC1 {
	case 0x01: // $00-$3F odd: I/O control
		e.ioControl = value
	case 0x40, 0x41: // $40-$7F: PSG
		if e.psg != nil {
			e.psg.Write(value)
		}
	case 0x80: // $80-$BF even: VDP data
		e.vdp.WriteData(value)
	case 0x81: // $80-$BF odd: VDP control
		e.vdp.WriteControl(value)
	}
}

// portB merges the TH line levels into bits 6 and 7 of port $DD. A TH pin
// configured as output reads back the level written to port $3F; a
// Japanese console reads back the inverse.
func (e *SMSIO) portB() uint8 {
	v := e.Input.Port2 | 0xC0
	th := [2]struct{ dir, level, bit uint8 }{
		{0x02, 0x20, 0x40}, // TH-A
		{0x08, 0x80, 0x80}, // TH-B
	}
	for _, p := range th {
		if e.ioControl&p.dir != 0 {
			continue // input, pulled high
		}
		high := e.ioControl&p.level != 0
		if e.nationality == NationalityJapanese {
			high = !high
		}
		if !high {
			v &^= p.bit
		}
	}
	return v
}

// ggIn reads ports $00-$06.
// Port $00: bit 7 START (active low), bit 6 export, bit 5 PAL.
func (e *SMSIO) ggIn(addr uint8) uint8 {
	if addr != 0x00 {
		if addr == 0x06 {
			return 0xFF // write only
		}
		return e.ggRegs[addr]
	}

	v := uint8(0x1F)
	if !e.Input.Start {
		v |= 0x80
	}
	if e.nationality == NationalityExport {
		v |= 0x40
	}
	if e.region == RegionPAL {
		v |= 0x20
	}
	return v
}

func (e *SMSIO) ggOut(addr uint8, value uint8) {
	switch addr {
	case 0x00:
	case 0x06:
		e.stereo = value
	default:
		e.ggRegs[addr] = value
	}
}

// SetP1 updates Player 1 controller state.
// Port $DC bits (active low - 0 = pressed):
//
//	Bit 0: P1 Up
//	Bit 1: P1 Down
//	Bit 2: P1 Left
//	Bit 3: P1 Right
//	Bit 4: P1 Button 1
//	Bit 5: P1 Button 2
//	Bit 6: P2 Up
//	Bit 7: P2 Down
func (i *Input) SetP1(up, down, left, right, btn1, btn2 bool) {
	i.Port1 = setBits(i.Port1, 0x3F, up, down, left, right, btn1, btn2)
}

// SetP2 updates Player 2 controller state
// Port $DC bits 6-7: P2 Up, Down
// Port $DD bits 0-3: P2 Left, Right, Btn1, Btn2
func (i *Input) SetP2(up, down, left, right, btn1, btn2 bool) {
	i.Port1 = setBits(i.Port1, 0xC0, up, down)
	i.Port2 = setBits(i.Port2, 0x0F, left, right, btn1, btn2)
}

// setBits releases every bit of mask in port, then clears one bit per
// pressed button, lowest bit of mask first.
func setBits(port, mask uint8, pressed ...bool) uint8 {
	port |= mask
	bit := mask & -mask
	for _, p := range pressed {
		if p {
			port &^= bit
		}
		bit <<= 1
	}
	return port
}
