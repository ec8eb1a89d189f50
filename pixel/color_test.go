package pixel

import "testing"

func TestPack(t *testing.T) {
	for _, tt := range []struct {
		c    RGB
		want uint16
	}{
		{RGB{0, 0, 0}, 0x0000},
		{RGB{255, 0, 0}, 0xf800},
		{RGB{0, 255, 0}, 0x07e0},
		{RGB{0, 0, 255}, 0x001f},
		{RGB{255, 255, 255}, 0xffff},
		{RGB{8, 4, 8}, 0x0841},
	} {
		if v := Pack(tt.c); v != tt.want {
			t.Errorf("expected Pack(%v) to be %#04x, got %#04x", tt.c, tt.want, v)
		}
	}
}

func TestPackUnpackQuantization(t *testing.T) {
	for r := 0; r < 256; r += 7 {
		for g := 0; g < 256; g += 11 {
			for b := 0; b < 256; b += 13 {
				c := RGB{uint8(r), uint8(g), uint8(b)}
				d := Unpack(Pack(c))
				if want := uint8(r/8) * 8; d.R != want {
					t.Fatalf("expected red %d to decode to %d, got %d", r, want, d.R)
				}
				if want := uint8(g/4) * 4; d.G != want {
					t.Fatalf("expected green %d to decode to %d, got %d", g, want, d.G)
				}
				if want := uint8(b/8) * 8; d.B != want {
					t.Fatalf("expected blue %d to decode to %d, got %d", b, want, d.B)
				}
			}
		}
	}
}

func TestPutLE(t *testing.T) {
	var buf [2]byte
	PutLE(buf[:], 0xf800)
	if buf[0] != 0x00 || buf[1] != 0xf8 {
		t.Errorf("expected low byte first, got % x", buf)
	}
}

func TestRGBA(t *testing.T) {
	r, g, b, a := RGB{0x12, 0x34, 0x56}.RGBA()
	if r != 0x1212 || g != 0x3434 || b != 0x5656 {
		t.Errorf("unexpected channels %#04x %#04x %#04x", r, g, b)
	}
	if a != 0xffff {
		t.Errorf("expected opaque alpha, got %#04x", a)
	}
}
