package cavesynth

import "errors"

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length, each
	// sample represented by [2]float32. [0] is left channel, [1] is right.
	AudioBuffer [][2]float32

	// AudioContext is the render driver: it owns the output stream and calls
	// the given function from its real-time thread every time it needs a
	// buffer filled. The function must fill the whole buffer before
	// returning, and must not block.
	AudioContext interface {
		Play(render func(buf AudioBuffer) error) CloserWaiter
		SampleRate() int
		Close() error
	}

	// CloserWaiter is returned by AudioContext.Play. Close tears the stream
	// down; a callback in flight is allowed to complete. Wait blocks until the
	// stream has stopped, either by Close or because the render function
	// returned an error.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)

var (
	ErrNoAudioDevice = errors.New("no audio output device")
	ErrStreamOpen    = errors.New("could not open audio output stream")
)

// Fill writes the mono signal produced by next into both channels of the
// buffer, scaled by gain.
func (b AudioBuffer) Fill(next func() float64, gain float32) {
	for i := range b {
		s := float32(next()) * gain
		b[i] = [2]float32{s, s}
	}
}

// Clear silences the buffer.
func (b AudioBuffer) Clear() {
	for i := range b {
		b[i] = [2]float32{}
	}
}

// Interleave appends the buffer to dst as interleaved L R L R ... samples.
func (b AudioBuffer) Interleave(dst []float32) []float32 {
	for _, s := range b {
		dst = append(dst, s[0], s[1])
	}
	return dst
}
