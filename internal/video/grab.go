package video

import (
	"bytes"
	"context"
	"image"
	_ "image/png" // grab tools emit PNG
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/mailbox"
)

// grabTimeout bounds one screen-dump invocation; a grab slower than this is
// useless at a one-second cadence anyway.
const grabTimeout = 5 * time.Second

// grabTools lists known screen-dump commands that write an image to stdout,
// in preference order.
var grabTools = [][]string{
	{"screencap", "-p"},
	{"grim", "-"},
	{"import", "-window", "root", "png:-"},
}

// findGrabTool returns the first available grab command, with a sudo prefix
// when not already running as root, or nil when none is installed.
func findGrabTool() []string {
	for _, tool := range grabTools {
		if _, err := exec.LookPath(tool[0]); err != nil {
			continue
		}
		if os.Geteuid() != 0 {
			return append([]string{"sudo", "-n"}, tool...)
		}
		return tool
	}
	return nil
}

// grabSource invokes a privileged screen-dump command on a fixed cadence and
// publishes each decoded image as the latest frame. A failed invocation or
// decode is logged and skipped; the previous frame stays in place.
type grabSource struct {
	command  []string
	interval time.Duration
	log      zerolog.Logger

	box     mailbox.Mailbox[Frame]
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

func newGrabSource(command []string, interval time.Duration, log zerolog.Logger) *grabSource {
	return &grabSource{command: command, interval: interval, log: log}
}

func (g *grabSource) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.done = make(chan struct{})
	go g.loop(ctx)
	return nil
}

func (g *grabSource) loop(ctx context.Context) {
	defer close(g.done)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.grabOnce(ctx)
		}
	}
}

func (g *grabSource) grabOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, grabTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, g.command[0], g.command[1:]...).Output()
	if err != nil {
		g.log.Debug().Err(err).Msg("Screen grab failed, keeping previous frame")
		return
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		g.log.Debug().Err(err).Msg("Grab output did not decode, keeping previous frame")
		return
	}

	g.box.Publish(Frame{Image: img, CapturedAt: time.Now()})
}

func (g *grabSource) ConsumeLatest() *Frame {
	frame, ok := g.box.Consume()
	if !ok {
		return nil
	}
	return &frame
}

func (g *grabSource) Stop() {
	if g.stopped {
		return
	}
	g.stopped = true
	if g.cancel != nil {
		g.cancel()
		<-g.done
	}
}
