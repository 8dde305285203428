package engine

import (
	"math"

	"github.com/cavetracker/cavesynth"
)

type (
	// Source is a sound generator. Next renders one sample; the parameters
	// addressed by ParamID are what modulators read and rewrite between
	// samples.
	Source interface {
		Next() float64
		Param(id cavesynth.ParamID) float64
		SetParam(id cavesynth.ParamID, value float64)
		// Set retunes and rescales the source for a new note.
		Set(note, velocity byte)
		// Reset restores the state the source had when it was created.
		Reset()
	}

	// Sine is a naive (not band limited) sine oscillator.
	Sine struct {
		amplitude  float64
		freq       float64
		phase      float64 // in [0, 2π)
		sampleRate float64
	}
)

const twoPi = 2 * math.Pi

// NoteFreq returns the equal-tempered frequency of a MIDI note, A4 (69) being
// 440 Hz.
func NoteFreq(note byte) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

func NewSine(sampleRate float64) *Sine {
	s := &Sine{sampleRate: sampleRate}
	s.Reset()
	return s
}

func (s *Sine) Next() float64 {
	s.phase += twoPi * s.freq / s.sampleRate
	if s.phase > twoPi {
		s.phase -= twoPi
	}
	return s.amplitude * math.Sin(s.phase)
}

func (s *Sine) Set(note, velocity byte) {
	s.freq = NoteFreq(note)
	s.amplitude = float64(velocity) / 127
}

func (s *Sine) Param(id cavesynth.ParamID) float64 {
	switch id {
	case cavesynth.Amplitude:
		return s.amplitude
	case cavesynth.Frequency:
		return s.freq
	}
	return 0
}

func (s *Sine) SetParam(id cavesynth.ParamID, value float64) {
	switch id {
	case cavesynth.Amplitude:
		s.amplitude = value
	case cavesynth.Frequency:
		s.freq = value
	}
}

func (s *Sine) Reset() {
	s.amplitude = 1
	s.freq = 440
	s.phase = 0
}
