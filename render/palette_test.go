package render

import (
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/go-test/deep"
)

func TestFormat_Convert(t *testing.T) {
	tests := []struct {
		name string
		c    uint16
		want [3]uint16 // RGB565, BGR565, BGR555
	}{
		{"black", 0x0000, [3]uint16{0x0000, 0x0000, 0x0000}},
		{"white", 0x0fff, [3]uint16{0xffff, 0xffff, 0x7fff}},
		{"red", 0x000f, [3]uint16{0xf800, 0x001f, 0x001f}},
		{"green", 0x00f0, [3]uint16{0x07e0, 0x07e0, 0x03e0}},
		{"blue", 0x0f00, [3]uint16{0x001f, 0xf800, 0x7c00}},
		{"half red", 0x0008, [3]uint16{0x8800, 0x0011, 0x0011}},
		{"grey", 0x0555, [3]uint16{0x52aa, 0x52aa, 0x294a}},
	}

	formats := []Format{FormatRGB565, FormatBGR565, FormatBGR555}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, f := range formats {
				if got := f.Convert(tt.c); got != tt.want[i] {
					t.Errorf("format %d: Convert(%04x) = %04x, want %04x", f, tt.c, got, tt.want[i])
				}
			}
		})
	}
}

func TestFormat_RGBA(t *testing.T) {
	formats := []Format{FormatRGB565, FormatBGR565, FormatBGR555}
	for _, f := range formats {
		got := f.RGBA(f.Convert(0x000f))
		if diff := deep.Equal(got, color.RGBA{R: 0xff, A: 0xff}); diff != nil {
			t.Errorf("format %d red: %v", f, diff)
		}
		got = f.RGBA(f.Convert(0x0f00))
		if diff := deep.Equal(got, color.RGBA{B: 0xff, A: 0xff}); diff != nil {
			t.Errorf("format %d blue: %v", f, diff)
		}
		// every converted color survives a trip through 8 bits per channel
		for c := uint16(0); c < 0x1000; c += 0x111 {
			p := f.Convert(c)
			if got := f.Pack(f.RGBA(p)); got != p {
				t.Errorf("format %d: %04x packs back to %04x", f, p, got)
			}
		}
	}
}

func TestRenderer_PaletteDirect(t *testing.T) {
	v := newMode4VDP()
	for i := range v.cram {
		v.cram[i] = uint16(i) * 0x0111 & 0x0fff
	}
	r := newTestRendererConfig(v, Config{Format: FormatBGR555})
	r.FrameStart()
	pal := r.Palette()

	for i := 0; i < 0x20; i++ {
		want := FormatBGR555.Convert(v.cram[i])
		if pal[i] != want {
			t.Errorf("entry %d = %04x, want %04x", i, pal[i], want)
		}
		if pal[i+0x20] != pal[i] {
			t.Errorf("priority entry %d = %04x, want %04x", i+0x20, pal[i+0x20], pal[i])
		}
	}
}

func TestRenderer_PaletteStaleUntilInvalidated(t *testing.T) {
	v := newMode4VDP()
	v.cram[1] = 0x000f
	r := newTestRendererConfig(v, Config{})
	r.FrameStart()
	first := r.Palette()[1]

	v.cram[1] = 0x0f00
	if got := r.Palette()[1]; got != first {
		t.Errorf("palette changed without InvalidatePalette: %04x", got)
	}

	r.InvalidatePalette()
	if got, want := r.Palette()[1], FormatRGB565.Convert(0x0f00); got != want {
		t.Errorf("after InvalidatePalette: %04x, want %04x", got, want)
	}
}

func TestRenderer_PaletteTMS(t *testing.T) {
	v := newGraphic1VDP()
	v.cram[1] = 0x0fff
	r := newTestRendererConfig(v, Config{})
	r.FrameStart()
	pal := r.Palette()

	for i := 0; i < 0x20; i++ {
		if want := FormatRGB565.Convert(tmsPalette[i]); pal[i] != want {
			t.Errorf("entry %d = %04x, want %04x", i, pal[i], want)
		}
	}
}

func TestRenderer_DirectOutput(t *testing.T) {
	v := newMode4VDP()
	v.setSolidTile(0, 1, 1)
	v.setName(0, 0, 1)
	v.setName(0, 1, 1)
	v.cram[1] = 0x000f

	r := newTestRendererConfig(v, Config{})
	r.FrameStart()
	r.Line(0)

	row := r.out.row(24)
	pixel := func(x int) uint16 { return binary.LittleEndian.Uint16(row[x*2:]) }
	if got := pixel(31); got != 0 {
		t.Errorf("border column written: %04x", got)
	}
	if got := pixel(32); got != 0xf800 {
		t.Errorf("first pixel %04x, want f800", got)
	}
	if got := pixel(40); got != 0 {
		t.Errorf("second tile %04x, want 0", got)
	}
	if got := pixel(288); got != 0 {
		t.Errorf("right border written: %04x", got)
	}

	// the next line sees the new CRAM
	v.cram[1] = 0x00f0
	r.InvalidatePalette()
	r.Line(1)
	row = r.out.row(25)
	if got := pixel(32); got != 0x07e0 {
		t.Errorf("after CRAM change %04x, want 07e0", got)
	}
}

func TestRenderer_DirectOutputSoftScale(t *testing.T) {
	v := newMode4VDP()
	v.cram[0] = 0x0fff

	r := newTestRendererConfig(v, Config{SoftScale: true})
	r.FrameStart()
	r.Line(0)

	row := r.out.row(24)
	for x := 0; x < OutputWidth; x++ {
		c := FormatRGB565.RGBA(binary.LittleEndian.Uint16(row[x*2:]))
		if c.R < 0xf0 || c.G < 0xf0 || c.B < 0xf0 {
			t.Fatalf("pixel %d = %v, want white", x, c)
		}
	}
}

func TestRenderer_IndexedBanks(t *testing.T) {
	v := newMode4VDP()
	v.cram[0] = 0x000f

	r := newTestRenderer(v)
	r.FrameStart()
	r.Line(0)

	v.cram[0] = 0x00f0
	r.InvalidatePalette()
	r.Line(1)
	r.Line(2)

	if got := r.out.row(24)[0]; got != 0x00 {
		t.Errorf("line 0 index %02x, want 00", got)
	}
	if got := r.out.row(25)[0]; got != 0x40 {
		t.Errorf("line 1 index %02x, want 40", got)
	}
	if got := r.out.row(26)[0]; got != 0x40 {
		t.Errorf("line 2 index %02x, want 40", got)
	}

	pal := r.Palette()
	want := []uint16{FormatRGB565.Convert(0x000f), FormatRGB565.Convert(0x00f0)}
	if diff := deep.Equal([]uint16{pal[0], pal[bankSize]}, want); diff != nil {
		t.Error(diff)
	}
	if pal[bankSize+0x20] != pal[bankSize] {
		t.Errorf("bank 1 priority half not filled")
	}
}

func TestRenderer_IndexedBankLimit(t *testing.T) {
	v := newMode4VDP()
	r := newTestRenderer(v)
	r.FrameStart()
	for line := 0; line < 6; line++ {
		v.cram[0] = uint16(line + 1)
		r.InvalidatePalette()
		r.Line(line)
	}
	if r.palCount != paletteBanks-1 {
		t.Errorf("palCount %d, want %d", r.palCount, paletteBanks-1)
	}
	if got := r.out.row(24 + 5)[0]; got != 0xc0 {
		t.Errorf("last line index %02x, want c0", got)
	}

	// a new frame starts over with one bank
	r.FrameStart()
	r.Line(0)
	if got := r.out.row(24)[0]; got != 0x00 {
		t.Errorf("next frame index %02x, want 00", got)
	}
	if got, want := r.Palette()[0], FormatRGB565.Convert(6); got != want {
		t.Errorf("next frame color %04x, want %04x", got, want)
	}
}

func TestRenderer_IndexedSoftScale(t *testing.T) {
	v := newMode4VDP()
	v.setSolidTile(0, 1, 1)
	v.setName(0, 0, 1)

	r := newTestRendererConfig(v, Config{SoftScale: true, Output: OutputIndexed})
	r.FrameStart()
	r.Line(0)

	want := append(fill(1, 10), fill(0, 2)...)
	if diff := deep.Equal(r.out.row(24)[0:12], want); diff != nil {
		t.Error(diff)
	}
}

func TestRenderer_IndexedPaletteNextFrame(t *testing.T) {
	v := newMode4VDP()
	v.cram[0] = 0x000f

	r := newTestRenderer(v)
	r.FrameStart()
	r.Line(0)
	v.cram[0] = 0x0f00
	r.InvalidatePalette()
	r.Line(1)
	r.Palette()

	// no CRAM change in the next frame: bank 0 must follow the snapshot
	r.FrameStart()
	r.Line(0)
	if got := r.out.row(24)[0]; got != 0x00 {
		t.Fatalf("next frame index %02x, want 00", got)
	}
	if got, want := r.Palette()[0], FormatRGB565.Convert(0x0f00); got != want {
		t.Errorf("next frame color %04x, want %04x", got, want)
	}

	// and it stays that way
	r.FrameStart()
	r.Line(0)
	if got, want := r.Palette()[0], FormatRGB565.Convert(0x0f00); got != want {
		t.Errorf("third frame color %04x, want %04x", got, want)
	}
}

func TestRenderer_IndexedTMSIgnoresCRAM(t *testing.T) {
	v := newGraphic1VDP()
	r := newTestRenderer(v)
	r.FrameStart()
	r.Line(0)

	v.cram[4] = 0x0fff
	r.InvalidatePalette()
	r.Line(1)

	for line := 0; line < 2; line++ {
		if got := r.out.row(24 + line)[0]; got != 0x04 {
			t.Errorf("line %d index %02x, want 04", line, got)
		}
	}
	if r.palCount != 0 {
		t.Errorf("palCount %d, want 0", r.palCount)
	}
	if got, want := r.Palette()[4], FormatRGB565.Convert(tmsPalette[4]); got != want {
		t.Errorf("color 4 = %04x, want %04x", got, want)
	}
}
