//go:build !cgo

package cmd

import (
	"github.com/cavetracker/cavesynth/tracker"
)

func NewMIDIContext(sampleRate int) tracker.MIDIInput {
	// with no cgo, we cannot use MIDI, so return a null context
	return tracker.NullMIDIContext{}
}
