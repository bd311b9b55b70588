package render

// testVDP is a bare register file and memory for driving the renderer.
type testVDP struct {
	reg    [16]uint8
	status uint8
	vram   [0x4000]uint8
	cram   [32]uint16

	statusWrites int
}

func (v *testVDP) Register(n int) uint8 { return v.reg[n&0x0f] }
func (v *testVDP) SetStatus(bits uint8) {
	v.status |= bits
	v.statusWrites++
}
func (v *testVDP) VRAM() []uint8  { return v.vram[:] }
func (v *testVDP) CRAM() []uint16 { return v.cram[:] }

const (
	testNameTable = 0x3800
	testSAT       = 0x3f00
)

// newMode4VDP returns a VDP in 192 line Mode 4 with the display on, the
// name table at $3800, the SAT at $3F00 terminated at entry 0 and all
// patterns at $0000.
func newMode4VDP() *testVDP {
	v := &testVDP{}
	v.reg[0] = 0x04
	v.reg[1] = 0x40
	v.reg[2] = 0x0e
	v.reg[5] = 0x7e
	v.vram[testSAT] = 0xd0
	return v
}

// newGraphic1VDP returns a VDP in Graphics I with name table $1800,
// color table $2000, patterns $0000, SAT $1B00 (terminated), sprite
// patterns $3800 and backdrop color 4.
func newGraphic1VDP() *testVDP {
	v := &testVDP{}
	v.reg[1] = 0x40
	v.reg[2] = 0x06
	v.reg[3] = 0x80
	v.reg[4] = 0x00
	v.reg[5] = 0x36
	v.reg[6] = 0x07
	v.reg[7] = 0x04
	v.vram[0x1b00] = 0xd0
	return v
}

// newTestRenderer creates an indexed, borderless renderer with a full
// size target.
func newTestRenderer(v VDP) *Renderer {
	return newTestRendererConfig(v, Config{NoBorder: true, Output: OutputIndexed})
}

func newTestRendererConfig(v VDP, cfg Config) *Renderer {
	bpp := 1
	if cfg.Output == OutputDirect {
		bpp = 2
	}
	out := Target{
		Pix:    make([]byte, OutputWidth*bpp*OutputHeight),
		Stride: OutputWidth * bpp,
	}
	return New(v, cfg, Hooks{}, out)
}

// drawLine renders a single scanline of a fresh frame.
func drawLine(v VDP, line int) *Renderer {
	r := newTestRenderer(v)
	r.FrameStart()
	r.Line(line)
	return r
}

// screen returns the 256 on-screen pixels of the line buffer.
func (r *Renderer) screen() []uint8 {
	return r.lineBuf[lineOrigin : lineOrigin+256]
}

// setTileRow writes the 4 bitplanes of one Mode 4 tile row.
func (v *testVDP) setTileRow(base, tile, row int, planes [4]uint8) {
	addr := base + tile*32 + row*4
	copy(v.vram[addr:addr+4], planes[:])
}

// setSolidTile fills a Mode 4 tile with a single color.
func (v *testVDP) setSolidTile(base, tile int, color uint8) {
	var planes [4]uint8
	for k := range planes {
		if color&(1<<k) != 0 {
			planes[k] = 0xff
		}
	}
	for row := 0; row < 8; row++ {
		v.setTileRow(base, tile, row, planes)
	}
}

// setName writes a Mode 4 name table entry.
func (v *testVDP) setName(col, row int, code uint16) {
	addr := testNameTable + (row*32+col)*2
	v.vram[addr] = uint8(code)
	v.vram[addr+1] = uint8(code >> 8)
}

// setSpriteM4 writes SAT entry i.
func (v *testVDP) setSpriteM4(i int, x, y, pattern uint8) {
	v.vram[testSAT+i] = y
	v.vram[testSAT+0x80+i*2] = x
	v.vram[testSAT+0x80+i*2+1] = pattern
}

// setSpriteTMS writes 4 byte SAT entry i at $1B00.
func (v *testVDP) setSpriteTMS(i int, x, y, pattern, attr uint8) {
	addr := 0x1b00 + i*4
	v.vram[addr] = y
	v.vram[addr+1] = x
	v.vram[addr+2] = pattern
	v.vram[addr+3] = attr
}

// packPlanes builds the 32 bit tile row word read by vram32.
func packPlanes(p0, p1, p2, p3 uint8) uint32 {
	return uint32(p0) | uint32(p1)<<8 | uint32(p2)<<16 | uint32(p3)<<24
}
