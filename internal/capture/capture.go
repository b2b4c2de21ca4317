// Package capture owns the session state machine: it selects capture
// sources by capability, drives the fixed-cadence tick loop, and hands
// samples to the encoder and transmission client.
//
// States: STARTING → CAPTURING ⇄ ANALYZING → IDLE, with ERROR reachable
// only from a failed start. Nothing that happens after a successful start
// (capture hiccups, encode failures, backend errors) terminates the loop.
package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/audio"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/client"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/config"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/encode"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/privilege"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/video"
)

// Prober abstracts the privilege check for tests.
type Prober interface {
	Probe(ctx context.Context) bool
}

// Sender abstracts the transmission client for tests.
type Sender interface {
	Send(ctx context.Context, frame, audio []byte) (client.Prediction, error)
}

// Config wires a Service. Video, Audio, Sender and Prober are optional: when
// nil they are selected/constructed at Start from the app config.
type Config struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Reporter Reporter // Optional - can be nil

	Prober Prober
	Video  video.Source
	Audio  audio.Source
	Sender Sender
}

// Service is the capture orchestrator. One Service drives one session:
// Start at most once, Stop idempotent.
type Service struct {
	cfg      *config.Config
	log      zerolog.Logger
	reporter Reporter
	prober   Prober

	mu        sync.Mutex
	running   bool
	stopped   bool
	simulated bool

	videoSrc video.Source
	audioSrc audio.Source
	sender   Sender

	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config) *Service {
	prober := cfg.Prober
	if prober == nil {
		prober = &privilege.Prober{Log: cfg.Logger}
	}
	return &Service{
		cfg:      cfg.Config,
		log:      cfg.Logger,
		reporter: cfg.Reporter,
		prober:   prober,
		videoSrc: cfg.Video,
		audioSrc: cfg.Audio,
		sender:   cfg.Sender,
	}
}

// Start probes capabilities, acquires the capture sources, and launches the
// tick loop. Any failure here is fatal to the session: an ERROR status is
// reported, resources are released, and the error is returned. A missing
// privilege grant is not a failure: the session degrades to simulation
// mode (mock video, microphone-or-silence audio) and runs the full loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.stopped {
		return fmt.Errorf("capture session already started or stopped")
	}

	s.report(Event{Status: StatusStarting})

	privileged := s.prober.Probe(ctx)
	if !privileged {
		s.log.Warn().Msg("No privileged capture available")
	}

	interval := time.Duration(s.cfg.Capture.IntervalMs) * time.Millisecond

	// The simulation flag tracks the selected variant, not the probe: an
	// unprivileged session can still mirror a real display. With
	// caller-supplied sources the probe result stands.
	s.simulated = !privileged
	if s.videoSrc == nil {
		var mock bool
		s.videoSrc, mock = video.Select(video.PrimaryDisplay(), interval, privileged, s.log)
		s.simulated = mock
	}
	if s.simulated {
		s.log.Warn().Msg("Running in simulation mode")
	}
	if err := s.videoSrc.Start(); err != nil {
		err = fmt.Errorf("starting video source: %w", err)
		s.failLocked(err)
		return err
	}

	if s.audioSrc == nil {
		src, err := audio.Select(s.cfg.Audio, privileged, s.log)
		if err != nil {
			// A session without audio still carries video.
			s.log.Warn().Err(err).Msg("No audio capability for this session")
		} else {
			s.audioSrc = src
		}
	}
	if s.audioSrc != nil {
		if err := s.audioSrc.Start(); err != nil {
			s.log.Warn().Err(err).Msg("Audio source failed to start, continuing without audio")
			s.audioSrc.Stop()
			s.audioSrc = nil
		}
	}

	if s.sender == nil {
		s.sender = client.New(s.cfg.ServerURL, s.cfg.Client, s.log)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(loopCtx, interval)

	s.log.Info().
		Bool("simulated", s.simulated).
		Dur("interval", interval).
		Msg("Capture session started")
	s.report(Event{Status: StatusCapturing})
	return nil
}

// failLocked reports ERROR and releases whatever Start managed to acquire.
func (s *Service) failLocked(err error) {
	s.log.Error().Err(err).Msg("Capture session failed to start")
	if s.videoSrc != nil {
		s.videoSrc.Stop()
	}
	if s.audioSrc != nil {
		s.audioSrc.Stop()
	}
	s.stopped = true
	s.report(Event{Status: StatusError, Err: err.Error()})
}

// run is the tick loop: one goroutine, fixed cadence. Capture sources fill
// their mailboxes from their own goroutines, so a slow backend exchange here
// never blocks acquisition; the next tick simply consumes whatever
// accumulated in the meantime. At most one transmission is in flight.
func (s *Service) run(ctx context.Context, interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick consumes the latest samples and runs one encode-and-transmit
// exchange. Every per-tick failure is contained: logged, reported as a
// skipped verdict, never allowed to stop the loop.
func (s *Service) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Tick recovered; no sample this tick")
			s.report(Event{Status: StatusCapturing, Err: fmt.Sprint(r)})
		}
	}()

	frame := s.videoSrc.ConsumeLatest()
	var chunk *audio.Chunk
	if s.audioSrc != nil {
		chunk = s.audioSrc.ConsumeLatest()
	}
	if frame == nil && chunk == nil {
		// Nothing accumulated since the last tick; stay in CAPTURING.
		return
	}

	s.report(Event{Status: StatusAnalyzing})

	var framePayload, audioPayload []byte
	if frame != nil {
		jpeg, err := encode.JPEG(frame.Image, s.cfg.Capture.FrameEdge, s.cfg.Capture.JPEGQuality)
		if err != nil {
			s.log.Warn().Err(err).Msg("Frame encode failed, skipping frame this tick")
		} else {
			framePayload = jpeg
		}
	}
	if chunk != nil {
		audioPayload = encode.WAV(chunk.Samples, chunk.SampleRate)
	}

	if len(framePayload) == 0 && len(audioPayload) == 0 {
		s.report(Event{Status: StatusCapturing, Err: "no encodable sample this tick"})
		return
	}

	verdict, err := s.sender.Send(ctx, framePayload, audioPayload)
	if err != nil {
		// Skipped verdict for this tick; the loop continues unaffected.
		s.log.Warn().Err(err).Msg("Transmission failed")
		s.report(Event{Status: StatusCapturing, Err: err.Error()})
		return
	}

	s.log.Debug().
		Str("prediction", verdict.Label).
		Float64("confidence", verdict.Confidence).
		Msg("Verdict received")
	s.report(Event{
		Status:     StatusCapturing,
		Label:      verdict.Label,
		Confidence: verdict.Confidence,
	})
}

// Stop ends the session: cancels the tick loop, releases both capture
// sources exactly once, and reports a single terminal IDLE. Stopping an
// already-stopped (or never-started) service is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || !s.running {
		s.stopped = true
		return
	}
	s.stopped = true
	s.running = false

	s.cancel()
	<-s.done

	s.videoSrc.Stop()
	if s.audioSrc != nil {
		s.audioSrc.Stop()
	}

	s.log.Info().Msg("Capture session stopped")
	s.report(Event{Status: StatusIdle})
}

// IsRunning reports whether the tick loop is live.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Simulated reports whether the session runs on fallback capture.
func (s *Service) Simulated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulated
}

func (s *Service) report(ev Event) {
	ev.Simulated = s.simulated
	if s.reporter != nil {
		s.reporter.Report(ev)
	}
}
