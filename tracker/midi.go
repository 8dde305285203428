package tracker

import (
	"errors"
	"strings"
)

type (
	// MIDIContext enumerates the MIDI input devices of a driver.
	MIDIContext interface {
		InputDevices(yield func(MIDIDevice) bool)
		Close()
		HasDeviceOpen() bool
	}

	// MIDIInput is a MIDIContext that also delivers the notes of the open
	// device to the player.
	MIDIInput interface {
		MIDIContext
		PlayerProcessContext
	}

	MIDIDevice interface {
		Open() error
		String() string
	}

	// NullMIDIContext is a MIDIContext without devices, used when MIDI
	// support was not compiled in. It is also a PlayerProcessContext without
	// events.
	NullMIDIContext struct{}
)

var ErrNoMIDIDevice = errors.New("no matching MIDI input device")

// OpenMIDIInput opens the first device whose name starts with prefix. An
// empty prefix matches the first device.
func OpenMIDIInput(c MIDIContext, prefix string) (MIDIDevice, error) {
	for d := range c.InputDevices {
		if strings.HasPrefix(d.String(), prefix) {
			if err := d.Open(); err != nil {
				return nil, err
			}
			return d, nil
		}
	}
	return nil, ErrNoMIDIDevice
}

func (NullMIDIContext) InputDevices(yield func(MIDIDevice) bool) {}
func (NullMIDIContext) Close()                                   {}
func (NullMIDIContext) HasDeviceOpen() bool                      { return false }

func (NullMIDIContext) NextEvent(frame int) (MIDINoteEvent, bool) { return MIDINoteEvent{}, false }
func (NullMIDIContext) FinishBlock(frame int)                     {}
func (NullMIDIContext) BPM() (float64, bool)                      { return 0, false }
