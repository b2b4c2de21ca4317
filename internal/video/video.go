// Package video acquires a live screen-image stream. The capture backend is
// chosen once per session from an ordered ladder: privileged screen grab,
// unprivileged display mirror, synthesized mock frames.
package video

import (
	"image"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"
)

// Frame is an uncompressed captured image. Transient: consumed by the
// encoder immediately after ConsumeLatest, never retained.
type Frame struct {
	Image      image.Image
	CapturedAt time.Time
}

// Source is the capture contract shared with the audio package.
type Source interface {
	Start() error
	// ConsumeLatest returns the most recent frame and clears it, or nil if
	// nothing was captured since the last call.
	ConsumeLatest() *Frame
	// Stop releases the capture resource. Safe to call more than once and
	// safe to call on a source that never started.
	Stop()
}

// DisplayInfo describes the display to capture. Read once at session start
// and passed in explicitly; never re-read mid-session.
type DisplayInfo struct {
	Index  int
	Bounds image.Rectangle
}

// PrimaryDisplay probes the first active display. A zero Bounds means no
// display is reachable (headless host, no X session).
func PrimaryDisplay() DisplayInfo {
	if screenshot.NumActiveDisplays() == 0 {
		return DisplayInfo{}
	}
	return DisplayInfo{Index: 0, Bounds: screenshot.GetDisplayBounds(0)}
}

// Select picks the capture variant for this session. The choice is made once
// and not re-evaluated: a privileged grab tool when the privilege probe
// passed and a tool exists, the display mirror when a display is reachable,
// and synthesized mock frames otherwise. Select never fails; the mock
// variant keeps the rest of the pipeline exercised. The second return is
// true only for the mock variant, whose frames are synthesized rather than
// captured.
func Select(info DisplayInfo, interval time.Duration, privileged bool, log zerolog.Logger) (Source, bool) {
	if privileged {
		if cmd := findGrabTool(); cmd != nil {
			log.Info().Strs("command", cmd).Msg("Video source: privileged grab")
			return newGrabSource(cmd, interval, log), false
		}
		log.Debug().Msg("No privileged grab tool found, falling through")
	}

	if !info.Bounds.Empty() {
		log.Info().
			Int("display", info.Index).
			Str("bounds", info.Bounds.String()).
			Msg("Video source: display mirror")
		return newMirrorSource(info, interval, log), false
	}

	log.Warn().Msg("Video source: mock frames (no display available)")
	return newMockSource(interval, log), true
}
