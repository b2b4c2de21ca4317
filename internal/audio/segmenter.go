package audio

// segmenter accumulates PCM blocks into a rolling buffer and freezes it into
// a Chunk once the target segment length is reached.
type segmenter struct {
	sampleRate int
	target     int // samples per frozen segment
	buf        []int16
}

func newSegmenter(sampleRate, segmentMs int) *segmenter {
	target := sampleRate * segmentMs / 1000
	return &segmenter{
		sampleRate: sampleRate,
		target:     target,
		buf:        make([]int16, 0, target),
	}
}

// Append adds a block of mono samples. When the accumulated buffer reaches
// the target duration it is frozen and returned, and accumulation restarts
// from empty; otherwise Append returns nil.
func (s *segmenter) Append(block []int16) *Chunk {
	s.buf = append(s.buf, block...)
	if len(s.buf) < s.target {
		return nil
	}

	frozen := s.buf
	s.buf = make([]int16, 0, s.target)
	return &Chunk{
		Samples:    frozen,
		SampleRate: s.sampleRate,
		Channels:   1,
	}
}

// downmixInterleaved averages interleaved multi-channel PCM into mono.
// Mono input is still copied so the caller can reuse its buffer.
func downmixInterleaved(samples []int16, channels, frames int) []int16 {
	mono := make([]int16, frames)
	if channels == 1 {
		copy(mono, samples[:frames])
		return mono
	}
	for i := 0; i < frames; i++ {
		var sum int
		for c := 0; c < channels; c++ {
			sum += int(samples[i*channels+c])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}
