package render

import "math/bits"

// collisionBytes covers the screen plus one guard byte on the left and
// enough on the right for a zoomed, double width TMS sprite.
const (
	collisionBytes = 1 + 256/8 + 4
	collisionRight = 1 + 256/8 // first guard byte on the right
)

// collisionMap holds one bit per pixel of a scanline. Bit 0 of byte n is
// line buffer pixel n*8, so the left guard byte is the 8 pixels before
// the screen.
type collisionMap [collisionBytes]uint8

// morton doubles every bit of a nibble.
var morton = [16]uint8{
	0x00, 0x03, 0x0c, 0x0f, 0x30, 0x33, 0x3c, 0x3f,
	0xc0, 0xc3, 0xcc, 0xcf, 0xf0, 0xf3, 0xfc, 0xff,
}

// collisionDetect merges the opaque pixels of a sprite row into mb and
// reports whether any of them was already taken. mask has the leftmost
// pixel in bit 7; sx is the line buffer position of that pixel.
func collisionDetect(mb *collisionMap, sx int, mask uint8, zoomed bool) bool {
	mp := mb[sx>>3:]
	shift := uint(sx & 7)
	row := uint32(bits.Reverse8(mask))

	var col uint32
	if !zoomed {
		m := uint32(mp[0]) | uint32(mp[1])<<8
		row <<= shift
		col = m & row
		m |= row
		mp[0], mp[1] = uint8(m), uint8(m>>8)
	} else {
		row = uint32(morton[row&0x0f]) | uint32(morton[row>>4])<<8
		m := uint32(mp[0]) | uint32(mp[1])<<8 | uint32(mp[2])<<16
		row <<= shift
		col = m & row
		m |= row
		mp[0], mp[1], mp[2] = uint8(m), uint8(m>>8), uint8(m>>16)
	}

	// overscan is never tested for collision
	mb[0] = 0
	for i := collisionRight; i < len(mb); i++ {
		mb[i] = 0
	}
	return col != 0
}

// planeMask merges the 4 bitplanes of a Mode 4 tile row into a pixel mask.
func planeMask(pack uint32) uint8 {
	pack |= pack >> 16
	pack |= pack >> 8
	return uint8(pack)
}
