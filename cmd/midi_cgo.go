//go:build cgo

package cmd

import (
	"github.com/cavetracker/cavesynth/tracker"
	"github.com/cavetracker/cavesynth/tracker/gomidi"
)

func NewMIDIContext(sampleRate int) tracker.MIDIInput {
	return gomidi.NewContext(sampleRate)
}
