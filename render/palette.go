package render

import "image/color"

const (
	paletteBanks = 4
	bankSize     = 0x40
)

// tmsPalette replaces CRAM in the TMS9918 modes.
var tmsPalette = [32]uint16{
	0x0000, 0x0000, 0x00a0, 0x00f0, 0x0500, 0x0f00, 0x0005, 0x0ff0,
	0x000a, 0x000f, 0x0055, 0x00ff, 0x0050, 0x0f0f, 0x0555, 0x0fff,
}

// Convert expands a 0x0BGR color to the host layout. The top bits of each
// channel are repeated into the new low bits.
func (f Format) Convert(c uint16) uint16 {
	t := uint32(c)
	switch f {
	case FormatBGR555:
		t = (t&0x000f)<<1 | (t&0x00f0)<<2 | (t&0x0f00)<<3
		t |= (t >> 4) & 0x0421
	case FormatBGR565:
		t = (t&0x000f)<<1 | (t&0x00f0)<<3 | (t&0x0f00)<<4
		t |= (t >> 4) & 0x0861
	default:
		t = (t&0x000f)<<12 | (t&0x00f0)<<3 | (t&0x0f00)>>7
		t |= (t >> 4) & 0x0861
	}
	return uint16(t)
}

// RGBA expands a host pixel to 8 bits per channel.
func (f Format) RGBA(p uint16) color.RGBA {
	var r, g, b uint8
	switch f {
	case FormatBGR555:
		r, g, b = expand5(p), expand5(p>>5), expand5(p>>10)
	case FormatBGR565:
		r, g, b = expand5(p), expand6(p>>5), expand5(p>>11)
	default:
		r, g, b = expand5(p>>11), expand6(p>>5), expand5(p)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Pack reduces an 8 bit per channel color to the host layout.
func (f Format) Pack(c color.RGBA) uint16 {
	r, g, b := uint16(c.R), uint16(c.G), uint16(c.B)
	switch f {
	case FormatBGR555:
		return b>>3<<10 | g>>3<<5 | r>>3
	case FormatBGR565:
		return b>>3<<11 | g>>2<<5 | r>>3
	default:
		return r>>3<<11 | g>>2<<5 | b>>3
	}
}

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	v &= 0x3f
	return uint8(v<<2 | v>>4)
}

// Palette returns the output palette, converting it first if it is stale.
// Indexed output uses all banks up to the last mid-frame CRAM snapshot.
func (r *Renderer) Palette() []uint16 {
	if r.dirtyPal != 0 {
		r.updatePalette()
	}
	return r.pal[:]
}

// updatePalette converts the color source into the output palette banks.
func (r *Renderer) updatePalette() {
	if r.cfg.Output != OutputIndexed || r.dirtyPal == 2 {
		r.dirtyPal = 0
	}

	banks := r.palCount + 1
	if r.cfg.Output == OutputDirect {
		banks = 1
	}

	for j := 0; j < banks; j++ {
		var src []uint16
		switch {
		case r.reg(0)&0x04 == 0:
			src = tmsPalette[:]
		case r.cfg.Output == OutputDirect:
			src = r.vdp.CRAM()
		default:
			src = r.palSnap[j*0x20 : (j+1)*0x20]
		}
		dst := r.pal[j*bankSize : (j+1)*bankSize]
		for i := 0; i < 0x20 && i < len(src); i++ {
			dst[i] = r.cfg.Format.Convert(src[i])
		}
		// same colors again for pixels with the priority bit
		copy(dst[0x20:], dst[:0x20])
	}
}

// snapshotCRAM copies CRAM into snapshot bank n.
func (r *Renderer) snapshotCRAM(n int) {
	copy(r.palSnap[n*0x20:(n+1)*0x20], r.vdp.CRAM())
}
