package engine

import (
	"errors"
	"fmt"

	"github.com/cavetracker/cavesynth"
)

type (
	// Synth is a polyphonic voice manager: a fixed array of Instruments built
	// from the same Patch, allocated to notes round robin, stealing the
	// oldest voice when all are busy.
	Synth struct {
		patch  cavesynth.Patch
		voices []voice
		cursor int // where the next voice search starts
		active int
	}

	voice struct {
		instrument *Instrument
		note       byte
		velocity   byte
		active     bool
	}

	// VoiceState is a snapshot of one voice, for inspection.
	VoiceState struct {
		Note     byte
		Velocity byte
		Active   bool
	}
)

var ErrInvalidPolyphony = errors.New("polyphony should be >= 0")

// NewSynth builds polyphony voices of the patch. The patch is validated
// once; all allocation happens here.
func NewSynth(patch cavesynth.Patch, polyphony int) (*Synth, error) {
	if polyphony < 0 {
		return nil, fmt.Errorf("polyphony %d: %w", polyphony, ErrInvalidPolyphony)
	}
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid patch: %w", err)
	}
	s := &Synth{patch: patch, voices: make([]voice, polyphony)}
	for i := range s.voices {
		inst, err := NewInstrument(patch)
		if err != nil {
			return nil, err
		}
		s.voices[i].instrument = inst
	}
	return s, nil
}

// NoteOn starts a note on the first free voice at or after the cursor. If no
// voice is free, the voice at the cursor is stolen. With zero voices this is
// a no-op.
func (s *Synth) NoteOn(note, velocity byte) {
	n := len(s.voices)
	if n == 0 {
		return
	}
	chosen := s.cursor
	for k := 0; k < n; k++ {
		i := (s.cursor + k) % n
		if !s.voices[i].active {
			chosen = i
			break
		}
	}
	v := &s.voices[chosen]
	v.instrument.Reset()
	v.instrument.NoteOn(note, velocity)
	v.note = note
	v.velocity = velocity
	v.active = true
	s.cursor = (chosen + 1) % n
	s.countActive()
}

// NoteOff releases every active voice playing the note.
func (s *Synth) NoteOff(note byte) {
	for i := range s.voices {
		v := &s.voices[i]
		if v.active && v.note == note {
			v.instrument.NoteOff()
		}
	}
}

// ReleaseAll releases every active voice.
func (s *Synth) ReleaseAll() {
	for i := range s.voices {
		if s.voices[i].active {
			s.voices[i].instrument.NoteOff()
		}
	}
}

// Cut silences every voice immediately, skipping the release.
func (s *Synth) Cut() {
	for i := range s.voices {
		s.voices[i].active = false
	}
	s.active = 0
}

// NextSample renders one sample of every active voice and returns their
// mean. A voice that turns silent during this sample still contributes to it
// and is reclaimed right after.
func (s *Synth) NextSample() float64 {
	var sum float64
	count := 0
	for i := range s.voices {
		v := &s.voices[i]
		if !v.active {
			continue
		}
		sum += v.instrument.Next()
		count++
		if v.instrument.IsSilent() {
			v.active = false
		}
	}
	s.countActive()
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (s *Synth) countActive() {
	s.active = 0
	for i := range s.voices {
		if s.voices[i].active {
			s.active++
		}
	}
}

func (s *Synth) ActiveVoices() int { return s.active }
func (s *Synth) Polyphony() int    { return len(s.voices) }

func (s *Synth) Patch() cavesynth.Patch { return s.patch }

// Voice returns the state of voice i; out of range indices return the zero
// VoiceState.
func (s *Synth) Voice(i int) VoiceState {
	if i < 0 || i >= len(s.voices) {
		return VoiceState{}
	}
	v := s.voices[i]
	return VoiceState{Note: v.note, Velocity: v.velocity, Active: v.active}
}
