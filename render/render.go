// Package render draws the display of the Sega Master System / Game Gear
// VDP one scanline at a time. It covers Mode 4 (the 4 bitplane tile mode)
// and the TMS9918 Graphics I and Graphics II modes.
//
// A Renderer reads the register file and video memory of a VDP through the
// VDP interface, composes each line into an 8 bit intermediate buffer and
// hands the buffer to an output finalizer which writes host pixels (or
// palette indices) into a Target. Sprite overflow and collision are
// reported back through VDP.SetStatus.
package render

// Status register bits set by the sprite pipeline.
const (
	StatusOverflow  = 0x40
	StatusCollision = 0x20
)

// Output frame dimensions. Geometry offsets are relative to this frame.
const (
	OutputWidth  = 320
	OutputHeight = 240
)

// Line buffer layout. Index lineOrigin is screen column 0; the margins
// absorb sprites hanging off either edge.
const (
	lineOrigin     = 8
	lineBufferSize = lineOrigin + OutputWidth + 8
)

// VDP is the state the renderer consumes. Registers and memory are
// mutated by the owner between Line calls, never during one.
type VDP interface {
	// Register returns control register n (0-15).
	Register(n int) uint8
	// SetStatus ORs bits into the status register. Clearing is left to
	// the owner's status read protocol.
	SetStatus(bits uint8)
	// VRAM returns the 16KB video memory.
	VRAM() []uint8
	// CRAM returns the 32 palette entries in 0x0BGR form, 4 bits per channel.
	CRAM() []uint16
}

// Geometry describes the active picture inside the output frame.
type Geometry struct {
	LineOffset int // first output row of the picture
	Lines      int // 144, 192, 224 or 240
	ColOffset  int // first output column of the picture
	Columns    int // 160, 256 or 320 when soft scaled
}

// Hooks are optional callbacks into the host.
type Hooks struct {
	// ScanBegin is called with the output row of a line before it is
	// drawn. A non-zero return skips that many lines, starting with this one.
	ScanBegin func(line int) int
	// ScanEnd is called after a line is finished. A non-zero return skips
	// that many of the following lines.
	ScanEnd func(line int) int
	// ModeChange is called from FrameStart when the geometry differs from
	// the previous frame.
	ModeChange func(g Geometry)
}

// Target is the externally owned output frame. Direct output writes two
// bytes per pixel (little endian), indexed output one byte per pixel.
type Target struct {
	Pix    []byte
	Stride int // bytes per row
}

// row returns the bytes of output row y, or nil when y is outside Pix.
func (t Target) row(y int) []byte {
	start := y * t.Stride
	if y < 0 || t.Stride <= 0 || start+t.Stride > len(t.Pix) {
		return nil
	}
	return t.Pix[start : start+t.Stride]
}

// Renderer is the per-session renderer context.
type Renderer struct {
	vdp   VDP
	cfg   Config
	hooks Hooks
	out   Target
	fin   finalizer

	lineBuf [lineBufferSize]uint8

	// Output palette: up to 4 banks of 0x40 host colors. The upper half of
	// each bank repeats the lower half so the priority bit needs no mask.
	pal      [paletteBanks * bankSize]uint16
	palSnap  [paletteBanks * 0x20]uint16
	palCount int
	dirtyPal int // 0 clean, 1 dirty, 2 dirty and already snapshotted

	mode         int
	geom         Geometry
	geomValid    bool
	screenOffset int
	row          int
	skipNext     int
}

// New creates a renderer drawing the state of vdp into out.
func New(vdp VDP, cfg Config, hooks Hooks, out Target) *Renderer {
	r := &Renderer{
		vdp:   vdp,
		hooks: hooks,
		out:   out,
	}
	r.SetConfig(cfg)
	return r
}

// SetConfig switches configuration. The palette and geometry are
// recomputed on the next FrameStart.
func (r *Renderer) SetConfig(cfg Config) {
	r.cfg = cfg
	r.fin = newFinalizer(cfg)
	r.mode = -1
	r.geomValid = false
	r.dirtyPal = 1
}

// Config returns the active configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Geometry returns the geometry computed by the last FrameStart.
func (r *Renderer) Geometry() Geometry {
	return r.geom
}

// LineBuffer returns the visible part of the last composed line: color in
// bits 0-3, sprite palette in bit 4, priority in bit 5.
func (r *Renderer) LineBuffer() []uint8 {
	return r.visible()
}

// InvalidatePalette marks the output palette stale. Call it whenever CRAM
// changes.
func (r *Renderer) InvalidatePalette() {
	r.dirtyPal = 1
}

func (r *Renderer) reg(n int) uint8 {
	return r.vdp.Register(n)
}

// modeBits packs the mode select bits M2/M4 (reg 0) and M1/M3 (reg 1).
func (r *Renderer) modeBits() int {
	return int(r.reg(0)&0x06) | int(r.reg(1)&0x18)
}

// extendedHeight reports the 224/240 line Mode 4 selection.
func (r *Renderer) extendedHeight() bool {
	return r.reg(0)&0x06 == 0x06 && r.reg(1)&0x18 != 0
}

// ggLCD reports whether only the Game Gear LCD window is drawn.
func (r *Renderer) ggLCD() bool {
	return r.cfg.GameGear && r.cfg.GGLCD
}

// visibleColumns is the number of line buffer pixels handed to the output.
func (r *Renderer) visibleColumns() int {
	if r.ggLCD() {
		return 160
	}
	return 256
}

// FrameStart prepares a new frame. Call it once before the first Line.
func (r *Renderer) FrameStart() {
	lines, columns := 192, 256
	loffs := 24 // 192 lines are centered in 224
	r.screenOffset = 24
	r.skipNext = 0

	// some modes use the fixed TMS palette
	if mode := r.modeBits(); mode != r.mode {
		r.mode = mode
		r.dirtyPal = 1
	}

	if r.ggLCD() {
		// the LCD shows 160x144 whatever the mode; VDP timing stays 224 lines
		loffs = 48
		lines = 144
		columns = 160
	} else {
		switch r.mode {
		case 0x06 | 0x08:
			loffs, r.screenOffset = 0, 0
			lines = 240
		case 0x06 | 0x10:
			loffs, r.screenOffset = 8, 8
			lines = 224
		}
	}

	coffs := 0
	switch {
	case r.cfg.SoftScale:
		columns = OutputWidth
	case !r.cfg.NoBorder:
		coffs = (OutputWidth - columns) / 2
	}

	g := Geometry{LineOffset: loffs, Lines: lines, ColOffset: coffs, Columns: columns}
	if !r.geomValid || g != r.geom {
		r.geom = g
		r.geomValid = true
		if r.hooks.ModeChange != nil {
			r.hooks.ModeChange(g)
		}
	}

	r.row = r.screenOffset
	r.fin.frameStart(r)
}

// Line draws scanline line (0 based, increasing within a frame).
func (r *Renderer) Line(line int) {
	defer func() { r.row++ }()

	// Game Gear LCD: only the visible window is drawn
	if r.ggLCD() && (line < 24 || line >= 24+144) {
		return
	}

	skip := r.skipNext
	if r.hooks.ScanBegin != nil && skip == 0 {
		skip = r.hooks.ScanBegin(line + r.screenOffset)
	}
	if skip != 0 {
		r.skipNext = skip - 1
		return
	}

	r.backFill()
	if r.reg(1)&0x40 != 0 {
		switch {
		case r.reg(0)&0x04 != 0:
			r.drawDisplayM4(line)
		case r.reg(0)&0x02 != 0:
			r.drawDisplayM2(line)
		default:
			r.drawDisplayM1(line)
		}
	}

	r.fin.finalizeLine(r)

	if r.hooks.ScanEnd != nil {
		r.skipNext = r.hooks.ScanEnd(line + r.screenOffset)
	}
}

// borderColor is the line buffer value of the backdrop. Mode 4 takes it
// from the sprite palette.
func (r *Renderer) borderColor() uint8 {
	c := r.reg(7) & 0x0f
	if r.reg(0)&0x04 != 0 {
		c |= 0x10
	}
	return c
}

func (r *Renderer) backFill() {
	c := r.borderColor()
	for i := range r.lineBuf {
		r.lineBuf[i] = c
	}
}

// visible returns the part of the line buffer shown on screen.
func (r *Renderer) visible() []uint8 {
	return r.lineBuf[lineOrigin : lineOrigin+r.visibleColumns()]
}
