package cavesynth

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a player session: the audio stream, the
// instruments loaded on each MIDI channel and the transport. Settings missing
// from a loaded document keep their defaults.
type Config struct {
	SampleRate  int     `yaml:"samplerate,omitempty"`
	BufferSize  int     `yaml:"buffersize,omitempty"` // in frames
	Polyphony   int     `yaml:"polyphony,omitempty"`
	Gain        float64 `yaml:"gain,omitempty"`
	BPM         int     `yaml:"bpm,omitempty"`
	RowsPerBeat int     `yaml:"rowsperbeat,omitempty"`

	// Channels maps MIDI channels (0-15) to preset names, see Presets.
	Channels map[int]string `yaml:",omitempty"`

	// Pattern is played by the step sequencer on channel 0 when the
	// transport is started: 0 releases, 1 holds, larger values trigger a
	// note.
	Pattern []byte `yaml:",flow,omitempty"`

	MIDIInput string `yaml:"midiinput,omitempty"` // device name prefix
	Listen    string `yaml:"listen,omitempty"`    // address of the remote control server
}

const MaxPolyphony = 64

var ErrInvalidConfig = errors.New("invalid config")

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		BufferSize:  512,
		Polyphony:   8,
		Gain:        0.5,
		BPM:         120,
		RowsPerBeat: 4,
		Channels:    map[int]string{0: "pluck"},
		Pattern:     []byte{60, 1, 0, 0, 64, 1, 0, 0, 67, 1, 1, 0, 72, 1, 1, 1},
	}
}

// LoadConfig reads a YAML config file. Settings missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open config %v: %w", path, err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ReadConfig decodes a YAML config document from r over the defaults and
// validates it. A channels mapping in the document replaces the default one.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	c.Channels = nil
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	if c.Channels == nil {
		c.Channels = DefaultConfig().Channels
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the ranges of the settings.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("samplerate %d: %w", c.SampleRate, ErrInvalidConfig)
	case c.BufferSize <= 0:
		return fmt.Errorf("buffersize %d: %w", c.BufferSize, ErrInvalidConfig)
	case c.Polyphony < 0 || c.Polyphony > MaxPolyphony:
		return fmt.Errorf("polyphony %d not in 0..%d: %w", c.Polyphony, MaxPolyphony, ErrInvalidConfig)
	case c.Gain < 0:
		return fmt.Errorf("gain %v: %w", c.Gain, ErrInvalidConfig)
	case c.BPM <= 0 || c.RowsPerBeat <= 0:
		return fmt.Errorf("bpm %d, rowsperbeat %d: %w", c.BPM, c.RowsPerBeat, ErrInvalidConfig)
	}
	for ch, name := range c.Channels {
		if ch < 0 || ch > 15 {
			return fmt.Errorf("channel %d not in 0..15: %w", ch, ErrInvalidConfig)
		}
		if _, ok := Presets[name]; !ok {
			return fmt.Errorf("channel %d: unknown preset %q: %w", ch, name, ErrInvalidConfig)
		}
	}
	return nil
}

// SamplesPerRow returns the number of frames each sequencer row lasts.
func (c Config) SamplesPerRow() int {
	if divisor := c.BPM * c.RowsPerBeat; divisor > 0 {
		return c.SampleRate * 60 / divisor
	}
	return 0
}
