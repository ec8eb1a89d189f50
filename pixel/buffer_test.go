package pixel

import "testing"

func TestBufferBounds(t *testing.T) {
	p := NewBuffer(4, 3)

	// Out of bounds writes are dropped, reads come back black.
	p.SetRGB(-1, 0, White)
	p.SetRGB(4, 0, White)
	p.SetRGB(0, 3, White)
	for _, pix := range p.Pix {
		if pix != (RGB{}) {
			t.Fatal("out of bounds write mutated the buffer")
		}
	}
	if c := p.AtRGB(100, 100); c != (RGB{}) {
		t.Errorf("expected black for out of bounds read, got %v", c)
	}

	p.SetRGB(3, 2, White)
	if c := p.AtRGB(3, 2); c != White {
		t.Errorf("expected white at (3,2), got %v", c)
	}
}

func TestBufferFillClear(t *testing.T) {
	p := NewBuffer(8, 8)
	red := RGB{R: 255}
	p.Fill(red)
	if c := p.AtRGB(7, 7); c != red {
		t.Errorf("expected red after fill, got %v", c)
	}
	p.Clear()
	if c := p.AtRGB(0, 0); c != (RGB{}) {
		t.Errorf("expected black after clear, got %v", c)
	}
}

func TestBufferCopyFrom(t *testing.T) {
	src := NewBuffer(4, 4)
	src.Fill(RGB{G: 128})
	dst := NewBuffer(4, 4)
	dst.CopyFrom(src)
	if dst.AtRGB(3, 3) != (RGB{G: 128}) {
		t.Error("same-size copy did not cover the buffer")
	}

	// Mismatched sizes clamp to the overlap.
	small := NewBuffer(2, 2)
	small.Fill(White)
	dst.CopyFrom(small)
	if dst.AtRGB(1, 1) != White {
		t.Error("overlap region was not copied")
	}
	if dst.AtRGB(3, 3) != (RGB{G: 128}) {
		t.Error("pixels outside the overlap were clobbered")
	}
}
