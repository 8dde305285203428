package engine

import (
	"fmt"

	"github.com/cavetracker/cavesynth"
)

// Instrument is one live voice built from a Patch: the sources and the
// modulators of the patch in two arenas, modulators referring to their
// targets by index into the source arena.
type Instrument struct {
	patch      cavesynth.Patch
	sources    []Source
	modulators []Modulator
}

// NewInstrument validates the patch and instantiates it. Nodes are created in
// document order, recording the NodeID each patch position gets; only then
// are the modulators bound, so a modulator may target a node declared after
// it.
func NewInstrument(patch cavesynth.Patch) (*Instrument, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid patch: %w", err)
	}
	sr := patch.SampleRate
	ret := &Instrument{
		patch:      patch,
		sources:    make([]Source, 0, patch.NumSources()),
		modulators: make([]Modulator, 0, patch.NumModulators()),
	}
	ids := make([]cavesynth.NodeID, len(patch.Nodes))
	for i, n := range patch.Nodes {
		switch d := n.(type) {
		case cavesynth.SineDef:
			ids[i] = cavesynth.NodeID(len(ret.sources))
			ret.sources = append(ret.sources, NewSine(sr))
		case cavesynth.LfoDef:
			ids[i] = cavesynth.NodeID(len(ret.modulators))
			ret.modulators = append(ret.modulators, NewLfo(sr, d))
		case cavesynth.AdsrDef:
			ids[i] = cavesynth.NodeID(len(ret.modulators))
			ret.modulators = append(ret.modulators, NewAdsr(sr, d))
		case cavesynth.FixedDef:
			ids[i] = cavesynth.NodeID(len(ret.modulators))
			ret.modulators = append(ret.modulators, NewFixed(d))
		default:
			return nil, fmt.Errorf("node %d (%s): %w", i, n.Type(), cavesynth.ErrUnknownNode)
		}
	}
	for i, n := range patch.Nodes {
		m, ok := n.(cavesynth.Modulating)
		if !ok {
			continue
		}
		target, param := m.Target()
		ret.modulators[ids[i]].Bind(ids[target], param)
	}
	return ret, nil
}

// Next ticks every modulator in declaration order and returns the mean of
// the sources' outputs.
func (i *Instrument) Next() float64 {
	for _, m := range i.modulators {
		m.Tick(i.sources)
	}
	if len(i.sources) == 0 {
		return 0
	}
	var sum float64
	for _, s := range i.sources {
		sum += s.Next()
	}
	return sum / float64(len(i.sources))
}

func (i *Instrument) NoteOn(note, velocity byte) {
	for _, s := range i.sources {
		s.Set(note, velocity)
	}
	for _, m := range i.modulators {
		m.NoteOn()
	}
}

func (i *Instrument) NoteOff() {
	for _, m := range i.modulators {
		m.NoteOff()
	}
}

// IsSilent reports if all modulators are silent. An instrument without
// modulators is always silent.
func (i *Instrument) IsSilent() bool {
	for _, m := range i.modulators {
		if !m.IsSilent() {
			return false
		}
	}
	return true
}

func (i *Instrument) IsReleased() bool {
	for _, m := range i.modulators {
		if !m.IsReleased() {
			return false
		}
	}
	return true
}

// Reset puts every node back in the state NewInstrument left it in. It does
// not allocate, so it is safe to call on the render thread.
func (i *Instrument) Reset() {
	for _, s := range i.sources {
		s.Reset()
	}
	for _, m := range i.modulators {
		m.Reset()
	}
}

func (i *Instrument) Patch() cavesynth.Patch { return i.patch }

// Sources returns the source arena, indexed by NodeID.
func (i *Instrument) Sources() []Source { return i.sources }

// Modulators returns the modulator arena, indexed by NodeID.
func (i *Instrument) Modulators() []Modulator { return i.modulators }
