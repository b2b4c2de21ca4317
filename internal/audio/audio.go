// Package audio acquires a live audio stream from the best available source
// and publishes fixed-duration PCM segments, latest-segment-wins.
package audio

// Chunk is a frozen segment of signed 16-bit PCM samples.
type Chunk struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Source is the capture contract shared with the video package: a background
// read loop publishes into a single-slot mailbox, ConsumeLatest drains it.
type Source interface {
	Start() error
	// ConsumeLatest returns the most recent frozen segment and clears it,
	// or nil if nothing accumulated since the last call.
	ConsumeLatest() *Chunk
	// Stop releases the capture device. Safe to call more than once and
	// safe to call on a source that never started.
	Stop()
}

// AudioDevice represents an audio input device
type AudioDevice struct {
	ID      string
	Name    string
	Default bool
}
