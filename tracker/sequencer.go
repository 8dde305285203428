package tracker

type (
	// StepSequencer plays a pattern of rows on one channel, advancing one row
	// every SamplesPerRow frames. A row value of 0 releases the held note, 1
	// holds it and anything larger triggers that note.
	StepSequencer struct {
		Channel  int
		Velocity byte

		pattern       []byte
		sampleRate    int
		bpm           float64
		rowsPerBeat   int
		samplesPerRow int

		row     int // -1 before the first row
		rowtime int // frames played in the current row
		note    byte
		holding bool
	}

	// NoteTarget receives the notes of a sequencer; engine.Rack is one.
	NoteTarget interface {
		NoteOn(channel int, note, velocity byte)
		NoteOff(channel int, note byte)
	}
)

const defaultSequencerVelocity = 100

func NewStepSequencer(sampleRate int) *StepSequencer {
	s := &StepSequencer{
		Velocity:    defaultSequencerVelocity,
		sampleRate:  sampleRate,
		bpm:         120,
		rowsPerBeat: 4,
		row:         -1,
	}
	s.updateSamplesPerRow()
	return s
}

// SetPattern replaces the pattern. The position is kept if still within the
// new pattern.
func (s *StepSequencer) SetPattern(pattern []byte) {
	s.pattern = pattern
	if s.row >= len(pattern) {
		s.row = -1
	}
}

// SetTempo changes the tempo; non-positive values are ignored.
func (s *StepSequencer) SetTempo(bpm float64, rowsPerBeat int) {
	if bpm > 0 {
		s.bpm = bpm
	}
	if rowsPerBeat > 0 {
		s.rowsPerBeat = rowsPerBeat
	}
	s.updateSamplesPerRow()
}

func (s *StepSequencer) updateSamplesPerRow() {
	s.samplesPerRow = int(float64(s.sampleRate) * 60 / (s.bpm * float64(s.rowsPerBeat)))
}

func (s *StepSequencer) SamplesPerRow() int { return s.samplesPerRow }
func (s *StepSequencer) BPM() float64       { return s.bpm }

// Row returns the row being played, -1 if the sequencer has not started.
func (s *StepSequencer) Row() int { return s.row }

// Rewind moves to the start, so that the next Tick plays the first row.
func (s *StepSequencer) Rewind() {
	s.row = -1
	s.rowtime = s.samplesPerRow
}

// Release lets go of the held note, if any.
func (s *StepSequencer) Release(t NoteTarget) {
	if s.holding {
		t.NoteOff(s.Channel, s.note)
		s.holding = false
	}
}

// Tick advances the sequencer by one frame, sending the notes of a new row
// to t.
func (s *StepSequencer) Tick(t NoteTarget) {
	if len(s.pattern) == 0 || s.samplesPerRow <= 0 {
		return
	}
	if s.row < 0 || s.rowtime >= s.samplesPerRow {
		s.advanceRow(t)
	}
	s.rowtime++
}

func (s *StepSequencer) advanceRow(t NoteTarget) {
	s.row = (s.row + 1) % len(s.pattern)
	s.rowtime = 0
	switch n := s.pattern[s.row]; {
	case n == 0:
		s.Release(t)
	case n > 1:
		s.Release(t)
		t.NoteOn(s.Channel, n, s.Velocity)
		s.note = n
		s.holding = true
	default: // n == 1
	}
}
