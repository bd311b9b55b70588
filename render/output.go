package render

import (
	"encoding/binary"
	"image"

	"golang.org/x/image/draw"
)

// finalizer turns the finished line buffer into output pixels.
type finalizer interface {
	frameStart(r *Renderer)
	finalizeLine(r *Renderer)
}

func newFinalizer(cfg Config) finalizer {
	if cfg.Output == OutputIndexed {
		return &indexedOutput{}
	}
	return &directOutput{
		src: image.NewRGBA(image.Rect(0, 0, 256, 1)),
		dst: image.NewRGBA(image.Rect(0, 0, OutputWidth, 1)),
	}
}

// directOutput converts every line through the live CRAM.
type directOutput struct {
	// soft scaling scratch rows
	src *image.RGBA
	dst *image.RGBA
}

func (d *directOutput) frameStart(r *Renderer) {}

func (d *directOutput) finalizeLine(r *Renderer) {
	if r.dirtyPal != 0 {
		r.updatePalette()
	}
	pd := r.out.row(r.row)
	if pd == nil {
		return
	}
	ps := r.visible()
	f := r.cfg.Format

	if r.cfg.SoftScale {
		src := d.src.SubImage(image.Rect(0, 0, len(ps), 1)).(*image.RGBA)
		for x, c := range ps {
			src.SetRGBA(x, 0, f.RGBA(r.pal[c]))
		}
		draw.ApproxBiLinear.Scale(d.dst, d.dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		for x := 0; x < OutputWidth && x*2+1 < len(pd); x++ {
			binary.LittleEndian.PutUint16(pd[x*2:], f.Pack(d.dst.RGBAAt(x, 0)))
		}
		return
	}

	if r.geom.ColOffset*2 >= len(pd) {
		return
	}
	pd = pd[r.geom.ColOffset*2:]
	for x, c := range ps {
		if x*2+1 >= len(pd) {
			break
		}
		binary.LittleEndian.PutUint16(pd[x*2:], r.pal[c])
	}
}

// indexedOutput emits palette indices. CRAM is snapshotted at frame start;
// a CRAM change during the frame opens the next palette bank (up to 4)
// and later lines carry the bank number in index bits 6-7.
type indexedOutput struct{}

func (x *indexedOutput) frameStart(r *Renderer) {
	// bank 0 is reloaded from a new snapshot whenever anything moved
	if r.palCount > 0 || r.dirtyPal != 0 {
		r.dirtyPal = 2
	}
	r.palCount = 0
	r.snapshotCRAM(0)
}

func (x *indexedOutput) finalizeLine(r *Renderer) {
	if r.dirtyPal == 1 {
		r.dirtyPal = 2
		// the TMS modes ignore CRAM
		if r.reg(0)&0x04 != 0 && r.palCount < paletteBanks-1 {
			r.palCount++
			r.snapshotCRAM(r.palCount)
		}
	}

	pd := r.out.row(r.row)
	if pd == nil {
		return
	}
	ps := r.visible()
	bank := uint8(r.palCount << 6)

	if r.cfg.SoftScale {
		// nearest neighbour, indices cannot be blended
		for i := 0; i < OutputWidth && i < len(pd); i++ {
			pd[i] = ps[i*len(ps)/OutputWidth] | bank
		}
		return
	}

	if r.geom.ColOffset >= len(pd) {
		return
	}
	pd = pd[r.geom.ColOffset:]
	for i, c := range ps {
		if i >= len(pd) {
			break
		}
		pd[i] = c | bank
	}
}
