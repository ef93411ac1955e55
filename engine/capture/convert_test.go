package capture

import "testing"

func TestConvertRowsSwapsChannels(t *testing.T) {
	// Two pixels: BGRA (1,2,3,4) and BGRX (10,20,30,99).
	src := []byte{1, 2, 3, 4, 10, 20, 30, 99}
	out := make([]byte, len(src))

	convertRows(src, out, 2, 0, 1, true)
	want := []byte{3, 2, 1, 4, 30, 20, 10, 99}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("with alpha: byte %d = %d, want %d (full: %v)", i, out[i], want[i], out)
		}
	}

	convertRows(src, out, 2, 0, 1, false)
	want = []byte{3, 2, 1, 255, 30, 20, 10, 255}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("without alpha: byte %d = %d, want %d (full: %v)", i, out[i], want[i], out)
		}
	}
}

func TestConvertRowsBandLimits(t *testing.T) {
	// 1x3 image; only convert the middle row.
	src := []byte{
		1, 2, 3, 255,
		4, 5, 6, 255,
		7, 8, 9, 255,
	}
	out := make([]byte, len(src))
	convertRows(src, out, 1, 1, 2, false)

	if out[0] != 0 || out[8] != 0 {
		t.Fatal("rows outside the band were written")
	}
	if out[4] != 6 || out[5] != 5 || out[6] != 4 {
		t.Fatalf("middle row not converted: %v", out[4:8])
	}
}

func TestConverterToRGBA(t *testing.T) {
	c := newConverter()

	width, height := uint32(16), uint32(128)
	src := make([]byte, width*height*4)
	for i := range src {
		src[i] = byte(i)
	}

	out, err := c.toRGBA(src, width, height, 24)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if uint32(len(out)) != width*height*4 {
		t.Fatalf("output length %d, want %d", len(out), width*height*4)
	}
	// Spot-check one pixel deep into the second band.
	i := (100*width + 7) * 4
	if out[i] != src[i+2] || out[i+2] != src[i] || out[i+3] != 255 {
		t.Fatalf("pixel at %d not converted: out %v src %v", i, out[i:i+4], src[i:i+4])
	}
}

func TestConverterRejectsBadInput(t *testing.T) {
	c := newConverter()

	if _, err := c.toRGBA(make([]byte, 64), 4, 4, 16); err == nil {
		t.Fatal("unsupported depth accepted")
	}
	if _, err := c.toRGBA(make([]byte, 8), 4, 4, 24); err == nil {
		t.Fatal("short buffer accepted")
	}
}

func TestCheckerboardPattern(t *testing.T) {
	width, height := uint32(130), uint32(70)
	pix := checkerboard(width, height)

	if uint32(len(pix)) != width*height*4 {
		t.Fatalf("length %d, want %d", len(pix), width*height*4)
	}
	// (0,0) is in the first light block, (64,0) in the adjacent dark one.
	if pix[0] != 200 {
		t.Fatalf("origin shade %d, want 200", pix[0])
	}
	i := 64 * 4
	if pix[i] != 60 {
		t.Fatalf("second block shade %d, want 60", pix[i])
	}
	if pix[3] != 255 {
		t.Fatal("alpha not opaque")
	}
}
