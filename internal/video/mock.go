package video

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/mailbox"
)

// Mock frame geometry. Fixed: the placeholder only has to exercise the
// encode and transmit path, not look like a real screen.
const (
	mockWidth  = 640
	mockHeight = 360
)

// mockSource synthesizes timestamped placeholder frames so the pipeline
// stays exercised when no real capture backend is available.
type mockSource struct {
	interval time.Duration
	log      zerolog.Logger

	box     mailbox.Mailbox[Frame]
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

func newMockSource(interval time.Duration, log zerolog.Logger) *mockSource {
	return &mockSource{interval: interval, log: log}
}

func (m *mockSource) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.loop(ctx)
	return nil
}

func (m *mockSource) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.box.Publish(Frame{
				Image:      renderMockFrame(now),
				CapturedAt: now,
			})
		}
	}
}

// renderMockFrame draws a dark placeholder with the capture timestamp so
// frames received by the backend are distinguishable.
func renderMockFrame(now time.Time) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, mockWidth, mockHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{R: 24, G: 26, B: 32, A: 255}}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 220, G: 220, B: 220, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(16, mockHeight/2),
	}
	d.DrawString("SIMULATED CAPTURE " + now.Format(time.RFC3339))
	return img
}

func (m *mockSource) ConsumeLatest() *Frame {
	frame, ok := m.box.Consume()
	if !ok {
		return nil
	}
	return &frame
}

func (m *mockSource) Stop() {
	if m.stopped {
		return
	}
	m.stopped = true
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}
