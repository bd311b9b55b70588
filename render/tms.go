package render

// TMS9918 Graphics I and Graphics II modes.

const maxSpritesTMS = 4

// graphicsTables holds the table addresses of one Graphics I/II line.
type graphicsTables struct {
	name    int
	color   int
	pattern int
	bitmap  bool // Graphics II: one color byte per pattern row
}

// drawStripTMS draws the 32 tile columns of a Graphics I/II line.
func (r *Renderer) drawStripTMS(t graphicsTables) {
	backdrop := r.borderColor()
	dx := lineOrigin
	for tilex := 0; tilex < 32; tilex, dx = tilex+1, dx+8 {
		code := int(r.vram8(t.name + tilex))

		var pal uint8
		if t.bitmap {
			pal = r.vram8(t.color + code<<3)
		} else {
			pal = r.vram8(t.color + code>>3)
		}
		pack := r.vram8(t.pattern + code<<3)
		tileBgTMS(r.lineBuf[:], dx, pack, pal, backdrop)
	}
}

// drawDisplayM2 draws a Graphics II line: the screen is split in thirds,
// each with its own 256 patterns and colors.
func (r *Renderer) drawDisplayM2(scanline int) {
	third := (scanline >> 6) << 11
	row := scanline & 7
	r.drawStripTMS(graphicsTables{
		name:    int(r.reg(2))<<10&0x3c00 + (scanline>>3)<<5,
		color:   int(r.reg(3))<<6&0x2000 + third + row,
		pattern: int(r.reg(4))<<11&0x2000 + third + row,
		bitmap:  true,
	})
	r.drawSpritesTMS(scanline)
}

// drawDisplayM1 draws a Graphics I line: one color byte per 8 patterns.
func (r *Renderer) drawDisplayM1(scanline int) {
	r.drawStripTMS(graphicsTables{
		name:    int(r.reg(2))<<10&0x3c00 + (scanline>>3)<<5,
		color:   int(r.reg(3)) << 6 & 0x3fc0,
		pattern: int(r.reg(4))<<11&0x3800 + scanline&7,
	})
	r.drawSpritesTMS(scanline)
}

// selectSpritesTMS scans the 4 byte SAT entries for sprites on scanline.
// Each slot keeps the SAT offset of the entry in x and the pattern row
// address in addr.
func (r *Renderer) selectSpritesTMS(scanline int, sprites *[maxSpritesTMS]spriteSlot) int {
	reg1 := r.reg(1)

	sat := int(r.reg(5)&0x7e) << 7
	addrMask, h := 0xff, 8
	if reg1&0x02 != 0 {
		addrMask, h = 0xfc, 16
	}
	zoom := uint(reg1 & 0x01)
	h <<= zoom
	base := int(r.reg(6)&0x07) << 11

	s := 0
	for i := 0; i < 32; i++ {
		y := (int(r.vram8(sat+4*i)) + 1) & 0xff
		if y == 0xd1 {
			break
		}
		if y > 0xe0 {
			y -= 256 // partly above the screen
		}
		if y+h <= scanline || scanline < y {
			continue
		}
		if s >= maxSpritesTMS {
			// fifth sprite number goes into the low status bits
			r.vdp.SetStatus(StatusOverflow | uint8(i))
			break
		}

		pattern := int(r.vram8(sat+4*i+2)) & addrMask
		sprites[s] = spriteSlot{
			x:    sat + 4*i,
			addr: base + pattern<<3 + (scanline-y)>>zoom,
		}
		s++
	}
	return s
}

func (r *Renderer) drawSpritesTMS(scanline int) {
	var sprites [maxSpritesTMS]spriteSlot
	var mb collisionMap

	reg1 := r.reg(1)
	zoomed := reg1&0x01 != 0
	order, w := orderNormal[:], 8
	if zoomed {
		order, w = orderDouble[:], 16
	}

	collided := false
	draw := func(x int, pack, c uint8) {
		if c != 0 {
			tileSprTMS(r.lineBuf[:], x, pack, c, order)
		}
		if !collided {
			collided = collisionDetect(&mb, x, pack, zoomed)
		}
	}

	for s := r.selectSpritesTMS(scanline, &sprites) - 1; s >= 0; s-- {
		spr := sprites[s]
		attr := r.vram8(spr.x + 3)
		x := int(r.vram8(spr.x+1)) + lineOrigin
		if attr&0x80 != 0 {
			x -= 32 // early clock
		}
		c := attr & 0x0f

		if x > 0 {
			draw(x, r.vram8(spr.addr), c)
		}
		// 16x16 sprites: right half comes from the pattern 16 bytes on
		if reg1&0x02 != 0 {
			x += w
			if x > 0 {
				draw(x, r.vram8(spr.addr+0x10), c)
			}
		}
	}
	if collided {
		r.vdp.SetStatus(StatusCollision)
	}
}
