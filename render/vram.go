package render

import "encoding/binary"

// vramMask wraps every VRAM address into the 16KB space.
const vramMask = 0x3fff

// vram8 reads one byte.
func (r *Renderer) vram8(addr int) uint8 {
	return r.vdp.VRAM()[addr&vramMask]
}

// vram16 reads a little endian name table word. addr is word aligned.
func (r *Renderer) vram16(addr int) uint16 {
	return binary.LittleEndian.Uint16(r.vdp.VRAM()[addr&(vramMask&^1):])
}

// vram32 reads one tile row: four bitplane bytes, plane 0 in the low byte.
// addr is aligned to the 4 byte row.
func (r *Renderer) vram32(addr int) uint32 {
	return binary.LittleEndian.Uint32(r.vdp.VRAM()[addr&(vramMask&^3):])
}
