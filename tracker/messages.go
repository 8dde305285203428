package tracker

import "github.com/cavetracker/cavesynth/engine"

// Control messages to the player. They are sent by value on Broker.ToPlayer
// and applied at the start of the next buffer.
type (
	NoteOnMsg struct {
		Channel  int
		Note     byte
		Velocity byte
	}

	NoteOffMsg struct {
		Channel int
		Note    byte
	}

	// StartMsg starts the step sequencer from its first row.
	StartMsg struct{}

	// StopMsg stops the sequencer and releases all voices.
	StopMsg struct{}

	// PatchMsg replaces the synth on a channel. Synth is built and validated
	// before sending; the player only swaps it in. A nil Synth empties the
	// channel.
	PatchMsg struct {
		Channel int
		Synth   *engine.Synth
	}

	// PanicMsg silences every voice immediately.
	PanicMsg struct{}

	GainMsg struct {
		Gain float32
	}

	// SequenceMsg replaces the sequencer pattern and tempo.
	SequenceMsg struct {
		Channel     int
		Pattern     []byte
		BPM         int
		RowsPerBeat int
	}
)
