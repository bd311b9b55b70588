package render

// Mode 4: 4 bitplane tiles, 8 sprites per line.

const maxSpritesM4 = 8

// spriteSlot is one sprite selected for the current line.
type spriteSlot struct {
	x    int // line buffer position, SAT offset in TMS modes
	addr int // VRAM address of the tile row
}

// drawStripM4 draws cells tiles of the name table row at nametab, starting
// at tile column tilex and line buffer position dx. ty is the byte offset
// of the pixel row inside a tile.
func (r *Renderer) drawStripM4(nametab, dx, cells, tilex, ty int) {
	oldcode := -1
	addr := 0
	var pal uint8

	for ; cells > 0; cells, dx, tilex = cells-1, dx+8, tilex+1 {
		code := int(r.vram16(nametab + (tilex&0x1f)<<1))

		if code != oldcode {
			oldcode = code
			addr = (code&0x1ff)<<5 + ty
			if code&0x0400 != 0 {
				addr ^= 0x1c // vertical flip
			}
			pal = uint8(code>>7) & (pixelPriority | pixelPalette)
		}

		pack := r.vram32(addr)
		switch {
		case pack == 0:
			tileFillM4(r.lineBuf[:], dx, pal)
		case code&0x0200 != 0:
			tileBgM4(r.lineBuf[:], dx, pack, pal, &orderFlip)
		default:
			tileBgM4(r.lineBuf[:], dx, pack, pal, &orderNormal)
		}
	}
}

func (r *Renderer) drawDisplayM4(scanline int) {
	reg0 := r.reg(0)

	line := int(r.reg(9)) + scanline // vscroll
	var nametab int
	if r.extendedHeight() {
		line &= 0xff
		nametab = int(r.reg(2)&0x0c)<<10 | 0x0700
	} else {
		for line >= 224 {
			line -= 224
		}
		nametab = int(r.reg(2)&0x0e) << 10
	}
	nametabFixed := nametab + (scanline>>3)<<6
	nametab += (line >> 3) << 6

	dx := int(r.reg(8)) // hscroll
	if scanline < 16 && reg0&0x40 != 0 {
		dx = 0 // top 2 rows locked
	}

	tilex := (-dx >> 3) & 0x1f
	ty := (line & 7) << 2
	cells := 32

	dx = ((dx - 1) & 7) + 1
	if dx != 8 {
		cells++ // partial cell on the left
	}

	switch {
	case r.ggLCD():
		// center 160 pixels only
		r.drawStripM4(nametab, dx, cells-12, tilex+6, ty)
	case reg0&0x80 != 0:
		// rightmost 8 columns ignore vscroll
		r.drawStripM4(nametab, dx, cells-8, tilex, ty)
		r.drawStripM4(nametabFixed, dx+(cells-8)*8, 8, tilex+cells-8, (scanline&7)<<2)
	default:
		r.drawStripM4(nametab, dx, cells, tilex, ty)
	}

	r.drawSpritesM4(scanline)

	if reg0&0x20 != 0 && !r.ggLCD() {
		tileFillM4(r.lineBuf[:], lineOrigin, r.borderColor())
	}
}

// selectSpritesM4 scans the SAT for sprites on scanline, in table order.
func (r *Renderer) selectSpritesM4(scanline int, sprites *[maxSpritesM4]spriteSlot) int {
	reg0, reg1 := r.reg(0), r.reg(1)

	xoff := lineOrigin
	if reg0&0x08 != 0 {
		xoff = 0 // early clock: shift left by 8
	}
	if r.ggLCD() {
		xoff -= 48
	}

	sat := int(r.reg(5)&0x7e) << 7
	addrMask, h := 0xff, 8
	if reg1&0x02 != 0 {
		addrMask, h = 0xfe, 16
	}
	zoom := uint(reg1 & 0x01)
	h <<= zoom
	base := int(r.reg(6)&0x04) << 11
	terminator := !r.extendedHeight()

	s := 0
	for i := 0; i < 64; i++ {
		y := (int(r.vram8(sat+i)) + 1) & 0xff
		if y == 0xd1 && terminator {
			break
		}
		if y+h <= scanline || scanline < y {
			continue
		}
		if s >= maxSpritesM4 {
			r.vdp.SetStatus(StatusOverflow)
			break
		}

		x := xoff + int(r.vram8(sat+0x80+i*2))
		if x < 0 {
			continue
		}
		pattern := int(r.vram8(sat+0x80+i*2+1)) & addrMask
		sprites[s] = spriteSlot{
			x:    x,
			addr: base + pattern<<5 + ((scanline-y)>>zoom)<<2,
		}
		s++
	}
	return s
}

func (r *Renderer) drawSpritesM4(scanline int) {
	var sprites [maxSpritesM4]spriteSlot
	var mb collisionMap

	zoomed := r.reg(1)&0x01 != 0
	order := orderNormal[:]
	if zoomed {
		order = orderDouble[:]
	}

	// lowest table index is drawn last and ends up on top
	collided := false
	for s := r.selectSpritesM4(scanline, &sprites) - 1; s >= 0; s-- {
		spr := sprites[s]
		pack := r.vram32(spr.addr)
		tileSprM4(r.lineBuf[:], spr.x, pack, pixelPalette, order)
		if !collided {
			collided = collisionDetect(&mb, spr.x, planeMask(pack), zoomed)
		}
	}
	if collided {
		r.vdp.SetStatus(StatusCollision)
	}
}
