package tracker

import (
	"errors"
	"fmt"

	"github.com/cavetracker/cavesynth"
	"github.com/cavetracker/cavesynth/engine"
)

// Control is the control-thread front door of a Player. Every method only
// enqueues a message; the player applies it at the start of its next buffer.
// Nothing here blocks: when the queue is full, ErrQueueFull is returned and
// the message is dropped.
type Control struct {
	broker    *Broker
	polyphony int
}

var (
	ErrQueueFull      = errors.New("player queue is full")
	ErrInvalidChannel = errors.New("channel should be in 0..15")
)

func NewControl(broker *Broker, polyphony int) *Control {
	return &Control{broker: broker, polyphony: polyphony}
}

func (c *Control) NoteOn(channel int, note, velocity byte) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	return c.send(NoteOnMsg{Channel: channel, Note: note, Velocity: velocity})
}

func (c *Control) NoteOff(channel int, note byte) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	return c.send(NoteOffMsg{Channel: channel, Note: note})
}

func (c *Control) Start() error { return c.send(StartMsg{}) }
func (c *Control) Stop() error  { return c.send(StopMsg{}) }
func (c *Control) Panic() error { return c.send(PanicMsg{}) }

func (c *Control) SetGain(gain float32) error {
	if gain < 0 {
		return fmt.Errorf("gain %v: %w", gain, cavesynth.ErrInvalidConfig)
	}
	return c.send(GainMsg{Gain: gain})
}

// LoadPatch builds the voices of the patch on the calling goroutine and ships
// the finished synth to the player. Invalid patches never reach the render
// thread.
func (c *Control) LoadPatch(channel int, patch cavesynth.Patch) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	synth, err := engine.NewSynth(patch, c.polyphony)
	if err != nil {
		return fmt.Errorf("LoadPatch: %w", err)
	}
	return c.send(PatchMsg{Channel: channel, Synth: synth})
}

// Unload empties a channel.
func (c *Control) Unload(channel int) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	return c.send(PatchMsg{Channel: channel})
}

// SetSequence replaces the pattern of the step sequencer.
func (c *Control) SetSequence(channel int, pattern []byte, bpm, rowsPerBeat int) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	p := make([]byte, len(pattern))
	copy(p, pattern)
	return c.send(SequenceMsg{Channel: channel, Pattern: p, BPM: bpm, RowsPerBeat: rowsPerBeat})
}

// LoadConfig loads the presets of every configured channel at the configured
// sample rate, and sets the gain and the sequence.
func (c *Control) LoadConfig(cfg cavesynth.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.polyphony = cfg.Polyphony
	for ch, name := range cfg.Channels {
		if err := c.LoadPatch(ch, cavesynth.Presets[name].WithSampleRate(float64(cfg.SampleRate))); err != nil {
			return fmt.Errorf("channel %d (%s): %w", ch, name, err)
		}
	}
	if err := c.SetGain(float32(cfg.Gain)); err != nil {
		return err
	}
	return c.SetSequence(0, cfg.Pattern, cfg.BPM, cfg.RowsPerBeat)
}

func (c *Control) send(msg any) error {
	if !TrySend(c.broker.ToPlayer, msg) {
		return ErrQueueFull
	}
	return nil
}

func checkChannel(channel int) error {
	if channel < 0 || channel >= engine.RackSlots {
		return fmt.Errorf("channel %d: %w", channel, ErrInvalidChannel)
	}
	return nil
}
