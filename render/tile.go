package render

// Pixel orders for the tile decoders: position x of the output reads bit
// position order[x] of the tile row, where 0 is the leftmost source pixel.
var (
	orderNormal = [8]uint{0, 1, 2, 3, 4, 5, 6, 7}
	orderFlip   = [8]uint{7, 6, 5, 4, 3, 2, 1, 0}
	orderDouble = [16]uint{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7}
)

// Line buffer value bits in Mode 4.
const (
	pixelColor    = 0x0f
	pixelPalette  = 0x10 // sprite palette
	pixelPriority = 0x20 // background in front of sprites
)

// planarBits isolates pixel p of all four bitplanes, one bit per byte.
func planarBits(pack uint32, p uint) uint32 {
	return (pack >> (7 - p)) & 0x01010101
}

// planarColor packs the output of planarBits into a 4 bit color: the
// multiply moves plane n's bit to bit 28+n.
func planarColor(t uint32) uint8 {
	return uint8((t * 0x10204080) >> 28)
}

// tileFillM4 draws a tile row with no set bits.
func tileFillM4(buf []uint8, sx int, pal uint8) {
	pd := buf[sx : sx+8]
	for x := range pd {
		pd[x] = pal
	}
}

// tileBgM4 draws a Mode 4 background tile row.
func tileBgM4(buf []uint8, sx int, pack uint32, pal uint8, order *[8]uint) {
	pd := buf[sx : sx+8]
	for x, p := range order {
		pd[x] = pal | planarColor(planarBits(pack, p))
	}
}

// tileSprM4 draws a Mode 4 sprite row. Opaque pixels are written unless a
// priority background pixel with a non-zero color is already there.
func tileSprM4(buf []uint8, sx int, pack uint32, pal uint8, order []uint) {
	pd := buf[sx : sx+len(order)]
	for x, p := range order {
		t := planarBits(pack, p)
		if t != 0 && pd[x]&(pixelPriority|pixelColor) <= pixelPriority {
			pd[x] = pal | planarColor(t)
		}
	}
}

// tileBgTMS draws a one bit per pixel background row. Set bits take the
// foreground (high nibble of pal), clear bits the background nibble.
// Transparent (color 0) shows the backdrop.
func tileBgTMS(buf []uint8, sx int, pack uint8, pal uint8, backdrop uint8) {
	pd := buf[sx : sx+8]
	for x, p := range orderNormal {
		t := (pack >> (7 - p)) & 0x01
		c := (pal >> (t << 2)) & 0x0f
		if c == 0 {
			c = backdrop
		}
		pd[x] = c
	}
}

// tileSprTMS draws a one bit per pixel sprite row in a single color.
func tileSprTMS(buf []uint8, sx int, pack uint8, c uint8, order []uint) {
	pd := buf[sx : sx+len(order)]
	for x, p := range order {
		if (pack>>(7-p))&0x01 != 0 {
			pd[x] = c
		}
	}
}
