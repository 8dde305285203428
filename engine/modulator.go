package engine

import "github.com/cavetracker/cavesynth"

// Modulator reads and rewrites one parameter of a source once per sample.
//
// IsReleased and IsSilent drive voice reclamation. Modulators without a note
// lifecycle (LFOs, fixed values) report both as true, so that an instrument
// can aggregate them without knowing the kinds.
type Modulator interface {
	// Bind sets the source and its parameter that Tick modulates. target
	// indexes the sources of the instrument the modulator belongs to.
	Bind(target cavesynth.NodeID, param cavesynth.ParamID)
	Tick(sources []Source)
	NoteOn()
	NoteOff()
	IsActive() bool
	IsReleased() bool
	IsSilent() bool
	// Reset restores the state right after Bind, keeping the binding and the
	// constants.
	Reset()
}
