package oto

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cavetracker/cavesynth"
	"github.com/ebitengine/oto/v3"
)

type (
	// OtoContext is a cavesynth.AudioContext playing through the default
	// audio output device, as interleaved float32 stereo.
	OtoContext struct {
		ctx        *oto.Context
		sampleRate int
		bufferSize int // frames
	}

	// OtoStream is the reader oto pulls the audio from. Every Read renders
	// one buffer by calling the render function.
	OtoStream struct {
		render func(buf cavesynth.AudioBuffer) error
		buffer cavesynth.AudioBuffer
		player *oto.Player

		err      error
		done     chan struct{}
		doneOnce sync.Once
	}
)

const bytesPerFrame = 8 // two float32 channels

// NewContext opens the audio device. bufferSize is the size of the device
// buffer in frames.
func NewContext(sampleRate, bufferSize int) (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %v: %w", err, cavesynth.ErrNoAudioDevice)
	}
	<-ready
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("oto context failed: %v: %w", err, cavesynth.ErrStreamOpen)
	}
	return &OtoContext{ctx: ctx, sampleRate: sampleRate, bufferSize: bufferSize}, nil
}

func (c *OtoContext) SampleRate() int { return c.sampleRate }

// Play starts a stream pulling audio from render. The render function is
// called on oto's audio thread.
func (c *OtoContext) Play(render func(buf cavesynth.AudioBuffer) error) cavesynth.CloserWaiter {
	s := NewStream(render, c.bufferSize)
	s.player = c.ctx.NewPlayer(s)
	s.player.Play()
	return s
}

// Close suspends the audio device. oto allows only one context per process,
// so it cannot be reopened with NewContext.
func (c *OtoContext) Close() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// NewStream creates a stream without a player; Read can be called directly.
func NewStream(render func(buf cavesynth.AudioBuffer) error, bufferSize int) *OtoStream {
	return &OtoStream{
		render: render,
		buffer: make(cavesynth.AudioBuffer, bufferSize),
		done:   make(chan struct{}),
	}
}

// Read implements io.Reader for oto. After the render function has failed or
// the stream was closed, it returns io.EOF.
func (s *OtoStream) Read(p []byte) (int, error) {
	select {
	case <-s.done:
		return 0, io.EOF
	default:
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if cap(s.buffer) < frames {
		s.buffer = make(cavesynth.AudioBuffer, frames)
	}
	buf := s.buffer[:frames]
	if err := s.render(buf); err != nil {
		s.err = fmt.Errorf("render failed: %w", err)
		s.finish()
		return 0, io.EOF
	}
	return AudioBufferToFloat32LE(buf, p), nil
}

// Close stops the stream. A render call in progress completes first.
func (s *OtoStream) Close() error {
	s.finish()
	if s.player != nil {
		if err := s.player.Close(); err != nil {
			return fmt.Errorf("cannot close oto player: %w", err)
		}
	}
	return nil
}

// Wait blocks until the stream has been closed or rendering failed.
func (s *OtoStream) Wait() { <-s.done }

// Err returns the error that stopped rendering, if any.
func (s *OtoStream) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *OtoStream) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}
