package video

import (
	"context"
	"image"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/mailbox"
)

// mirrorSource continuously mirrors a display on a dedicated goroutine and
// republishes every captured image as the latest frame, so delivery never
// blocks the orchestrator's tick loop.
type mirrorSource struct {
	info     DisplayInfo
	interval time.Duration
	log      zerolog.Logger

	box     mailbox.Mailbox[Frame]
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

func newMirrorSource(info DisplayInfo, interval time.Duration, log zerolog.Logger) *mirrorSource {
	return &mirrorSource{info: info, interval: interval, log: log}
}

func (m *mirrorSource) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.loop(ctx)
	return nil
}

func (m *mirrorSource) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			img, err := screenshot.CaptureRect(m.info.Bounds)
			if err != nil {
				m.log.Debug().Err(err).Msg("Mirror capture failed, keeping previous frame")
				continue
			}
			m.box.Publish(Frame{
				Image:      normalizeStride(img),
				CapturedAt: time.Now(),
			})
		}
	}
}

// normalizeStride crops out row padding the capture backend may add when the
// pixel rows are aligned wider than 4·width. Tight images pass through.
func normalizeStride(img *image.RGBA) *image.RGBA {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if img.Stride == 4*w {
		return img
	}

	tight := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+4*w]
		copy(tight.Pix[y*tight.Stride:], src)
	}
	return tight
}

func (m *mirrorSource) ConsumeLatest() *Frame {
	frame, ok := m.box.Consume()
	if !ok {
		return nil
	}
	return &frame
}

func (m *mirrorSource) Stop() {
	if m.stopped {
		return
	}
	m.stopped = true
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}
