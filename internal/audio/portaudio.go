package audio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/config"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/mailbox"
)

const (
	framesPerBlock = 512

	// retryDelay is how long the read loop waits after a transient read
	// failure before trying again.
	retryDelay = 50 * time.Millisecond
)

// monitorHints mark input devices that tap system playback rather than a
// physical microphone (PulseAudio monitors, WASAPI "Stereo Mix", etc).
var monitorHints = []string{"monitor", "loopback", "stereo mix"}

type portAudioSource struct {
	cfg      config.AudioConfig
	device   *portaudio.DeviceInfo
	channels int
	log      zerolog.Logger

	stream  *portaudio.Stream
	box     mailbox.Mailbox[Chunk]
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// Select acquires an audio source using the fallback ladder: a playback-tap
// (monitor) device when the session holds a privileged capture grant, then
// the default microphone. An explicit device ID in the config bypasses the
// ladder. Returns an error only when no usable input device exists; the
// caller runs the session audio-less in that case.
func Select(cfg config.AudioConfig, playbackTap bool, log zerolog.Logger) (Source, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	device, err := pickDevice(cfg.DeviceID, playbackTap, log)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	channels := device.MaxInputChannels
	if channels > 2 {
		channels = 2
	}

	log.Info().
		Str("device", device.Name).
		Int("channels", channels).
		Int("sample_rate", cfg.SampleRate).
		Msg("Audio source selected")

	return &portAudioSource{
		cfg:      cfg,
		device:   device,
		channels: channels,
		log:      log,
	}, nil
}

func pickDevice(deviceID string, playbackTap bool, log zerolog.Logger) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	if deviceID != "" {
		for _, d := range devices {
			if d.Name == deviceID && d.MaxInputChannels > 0 {
				return d, nil
			}
		}
		return nil, fmt.Errorf("device not found: %s", deviceID)
	}

	if playbackTap {
		for _, d := range devices {
			if d.MaxInputChannels == 0 {
				continue
			}
			name := strings.ToLower(d.Name)
			for _, hint := range monitorHints {
				if strings.Contains(name, hint) {
					return d, nil
				}
			}
		}
		log.Debug().Msg("No playback-tap device, falling back to microphone")
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil || device == nil {
		return nil, fmt.Errorf("no audio input device available: %w", err)
	}
	return device, nil
}

func (p *portAudioSource) Start() error {
	buffer := make([]int16, framesPerBlock*p.channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   p.device,
			Channels: p.channels,
			Latency:  p.device.DefaultLowInputLatency,
		},
		SampleRate:      float64(p.cfg.SampleRate),
		FramesPerBuffer: framesPerBlock,
	}, buffer)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}
	p.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		p.stream = nil
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.readLoop(ctx, buffer)
	return nil
}

func (p *portAudioSource) readLoop(ctx context.Context, buffer []int16) {
	defer close(p.done)

	seg := newSegmenter(p.cfg.SampleRate, p.cfg.SegmentDurationMs)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := p.stream.Read(); err != nil {
			// Overflow means we fell behind the hardware; anything else is
			// treated as transient backpressure. Either way: wait, retry.
			if err != portaudio.InputOverflowed {
				p.log.Debug().Err(err).Msg("Audio read failed, retrying")
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryDelay):
				}
			}
			continue
		}

		mono := downmixInterleaved(buffer, p.channels, framesPerBlock)
		if chunk := seg.Append(mono); chunk != nil {
			p.box.Publish(*chunk)
		}
	}
}

func (p *portAudioSource) ConsumeLatest() *Chunk {
	chunk, ok := p.box.Consume()
	if !ok {
		return nil
	}
	return &chunk
}

func (p *portAudioSource) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true

	if p.cancel != nil {
		p.cancel()
		<-p.done
		p.cancel = nil
	}
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
	}
	portaudio.Terminate()
}

// ListDevices enumerates input-capable devices for diagnostics and the
// config's device_id field.
func ListDevices() ([]AudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]AudioDevice, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, AudioDevice{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}
