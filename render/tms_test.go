package render

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
)

func TestRenderer_Graphic1Background(t *testing.T) {
	v := newGraphic1VDP()
	// pattern 8 uses color byte 1
	v.vram[0x1800] = 8
	v.vram[8*8+3] = 0xf0
	v.vram[0x2001] = 0x6a

	r := drawLine(v, 3)
	want := []uint8{6, 6, 6, 6, 0x0a, 0x0a, 0x0a, 0x0a, 4, 4, 4, 4, 4, 4, 4, 4}
	if diff := deep.Equal(r.screen()[0:16], want); diff != nil {
		t.Errorf("%v\n%s", diff, spew.Sdump(r.screen()[0:16]))
	}
}

func TestRenderer_Graphic2Background(t *testing.T) {
	v := newGraphic1VDP()
	v.reg[0] = 0x02
	v.reg[3] = 0xff
	v.reg[4] = 0x03

	// line 64 is in the second third: row 8 of the name table
	v.vram[0x1800+8*32] = 2
	v.vram[0x0800+2*8] = 0x80
	v.vram[0x2800+2*8] = 0xf1
	// the same pattern in the first third must not be used
	v.vram[2*8] = 0xff
	v.vram[0x2000+2*8] = 0x33

	r := drawLine(v, 64)
	want := []uint8{0x0f, 1, 1, 1, 1, 1, 1, 1}
	if diff := deep.Equal(r.screen()[0:8], want); diff != nil {
		t.Error(diff)
	}
}

func TestRenderer_BorderColorTMS(t *testing.T) {
	v := newGraphic1VDP()
	v.reg[1] = 0x00 // display off
	v.reg[7] = 0xf7

	r := drawLine(v, 0)
	if diff := deep.Equal(r.lineBuf[:], fill(7, lineBufferSize)); diff != nil {
		t.Error(diff)
	}
}

func TestRenderer_SpritesTMS(t *testing.T) {
	tests := []struct {
		name   string
		reg1   uint8
		attr   uint8
		y      uint8
		line   int
		start  int
		want   []uint8
		status uint8
	}{
		{"plain", 0x40, 0x0f, 9, 10, 40, fill(0x0f, 8), 0},
		{"early clock", 0x40, 0x8f, 9, 10, 8, fill(0x0f, 8), 0},
		{"zoomed", 0x41, 0x0f, 9, 10, 40, fill(0x0f, 16), 0},
		{"partly above the screen", 0x40, 0x0f, 0xfc, 0, 40, []uint8{0x0f, 4, 4, 4, 4, 4, 4, 0x0f}, 0},
		{"large", 0x42, 0x0f, 9, 10, 40, append(append(fill(0x0f, 8), fill(4, 4)...), fill(0x0f, 4)...), 0},
		{"transparent", 0x40, 0x00, 9, 10, 40, fill(4, 8), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newGraphic1VDP()
			v.reg[1] = tt.reg1
			v.vram[0x3808] = 0xff
			v.vram[0x3808+3] = 0x81
			// 16x16 pattern 4: left row 0 and right row 0
			v.vram[0x3820] = 0xff
			v.vram[0x3830] = 0x0f

			pattern := uint8(1)
			if tt.reg1&0x02 != 0 {
				pattern = 5 // rounds down to 4
			}
			v.setSpriteTMS(0, 40, tt.y, pattern, tt.attr)
			v.vram[0x1b04] = 0xd0

			r := drawLine(v, tt.line)
			got := r.screen()[tt.start : tt.start+len(tt.want)]
			if diff := deep.Equal(got, tt.want); diff != nil {
				t.Errorf("%v\n%s", diff, spew.Sdump(got))
			}
			if v.status != tt.status {
				t.Errorf("status = %02x, want %02x", v.status, tt.status)
			}
		})
	}
}

func TestRenderer_SpriteOverflowTMS(t *testing.T) {
	v := newGraphic1VDP()
	v.vram[0x3808] = 0xff
	for i := 0; i < 6; i++ {
		v.setSpriteTMS(i, uint8(i*16), 9, 1, uint8(i+1))
	}
	v.vram[0x1b00+6*4] = 0xd0

	r := drawLine(v, 10)
	if v.status != StatusOverflow|4 {
		t.Errorf("status = %02x, want %02x", v.status, StatusOverflow|4)
	}
	for i := 0; i < 4; i++ {
		if got := r.screen()[i*16]; got != uint8(i+1) {
			t.Errorf("sprite %d: got %02x", i, got)
		}
	}
	if got := r.screen()[64]; got != 4 {
		t.Errorf("fifth sprite drawn: %02x", got)
	}
}

func TestRenderer_SpriteCollisionTMS(t *testing.T) {
	v := newGraphic1VDP()
	v.vram[0x3808] = 0xff
	v.setSpriteTMS(0, 40, 9, 1, 0x02)
	v.setSpriteTMS(1, 44, 9, 1, 0x00) // invisible but still solid
	v.vram[0x1b08] = 0xd0

	r := drawLine(v, 10)
	if v.status != StatusCollision {
		t.Errorf("status = %02x, want %02x", v.status, StatusCollision)
	}
	want := append(fill(2, 8), fill(4, 4)...)
	if diff := deep.Equal(r.screen()[40:52], want); diff != nil {
		t.Error(diff)
	}
}
