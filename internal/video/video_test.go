package video

import (
	"image"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMockSourcePublishesAtCadence(t *testing.T) {
	src := newMockSource(20*time.Millisecond, zerolog.Nop())
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer src.Stop()

	// Poll until a frame shows up.
	var frame *Frame
	for i := 0; i < 100; i++ {
		if frame = src.ConsumeLatest(); frame != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if frame == nil {
		t.Fatal("mock source never published a frame")
	}

	b := frame.Image.Bounds()
	if b.Dx() != mockWidth || b.Dy() != mockHeight {
		t.Fatalf("expected %dx%d placeholder, got %dx%d", mockWidth, mockHeight, b.Dx(), b.Dy())
	}
	if frame.CapturedAt.IsZero() {
		t.Fatal("frame missing its capture timestamp")
	}
}

func TestMockSourceConsumeClears(t *testing.T) {
	src := newMockSource(10*time.Millisecond, zerolog.Nop())
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer src.Stop()

	for i := 0; i < 100; i++ {
		if src.ConsumeLatest() != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	src.Stop() // no more publishes
	src.ConsumeLatest()
	if src.ConsumeLatest() != nil {
		t.Fatal("second consume without a publish must return nil")
	}
}

func TestMockSourceStopBeforeStart(t *testing.T) {
	src := newMockSource(time.Second, zerolog.Nop())
	src.Stop() // must not panic or block
	src.Stop()
}

func TestMockSourceDoubleStop(t *testing.T) {
	src := newMockSource(time.Second, zerolog.Nop())
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	src.Stop()
	src.Stop() // second stop is a no-op
}

func TestNormalizeStrideTightPassthrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	if got := normalizeStride(img); got != img {
		t.Fatal("tightly packed image must pass through unchanged")
	}
}

func TestNormalizeStrideCropsPadding(t *testing.T) {
	// 4x2 image with 8 bytes of row padding.
	w, h := 4, 2
	padded := &image.RGBA{
		Pix:    make([]uint8, (4*w+8)*h),
		Stride: 4*w + 8,
		Rect:   image.Rect(0, 0, w, h),
	}
	// Mark the first pixel of each row.
	padded.Pix[0] = 0xAA
	padded.Pix[padded.Stride] = 0xBB

	tight := normalizeStride(padded)
	if tight.Stride != 4*w {
		t.Fatalf("expected tight stride %d, got %d", 4*w, tight.Stride)
	}
	if b := tight.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Fatalf("dimensions changed: %v", b)
	}
	if tight.Pix[0] != 0xAA || tight.Pix[tight.Stride] != 0xBB {
		t.Fatal("row contents lost while cropping padding")
	}
}

func TestSelectFallsBackToMock(t *testing.T) {
	// No privilege and no display: the ladder must land on the mock source
	// rather than fail.
	src, simulated := Select(DisplayInfo{}, time.Second, false, zerolog.Nop())
	if _, ok := src.(*mockSource); !ok {
		t.Fatalf("expected mock source, got %T", src)
	}
	if !simulated {
		t.Fatal("mock frames must be flagged as simulated")
	}
}

func TestSelectMirrorIsNotSimulated(t *testing.T) {
	// Unprivileged but a display is reachable: genuine capture via the
	// mirror, so the session must not be reported as simulated.
	info := DisplayInfo{Index: 0, Bounds: image.Rect(0, 0, 1920, 1080)}
	src, simulated := Select(info, time.Second, false, zerolog.Nop())
	if _, ok := src.(*mirrorSource); !ok {
		t.Fatalf("expected mirror source, got %T", src)
	}
	if simulated {
		t.Fatal("real display capture must not be flagged as simulated")
	}
}
