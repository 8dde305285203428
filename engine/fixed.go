package engine

import "github.com/cavetracker/cavesynth"

// Fixed writes a constant to its target parameter on the first tick after
// creation and after every NoteOn, and leaves the parameter alone otherwise.
type Fixed struct {
	value   float64
	target  cavesynth.NodeID
	param   cavesynth.ParamID
	pending bool
}

func NewFixed(def cavesynth.FixedDef) *Fixed {
	return &Fixed{value: def.Value, pending: true}
}

func (f *Fixed) Bind(target cavesynth.NodeID, param cavesynth.ParamID) {
	f.target = target
	f.param = param
}

func (f *Fixed) Tick(sources []Source) {
	if !f.pending {
		return
	}
	sources[f.target].SetParam(f.param, f.value)
	f.pending = false
}

func (f *Fixed) NoteOn()  { f.pending = true }
func (f *Fixed) NoteOff() {}

func (f *Fixed) IsActive() bool   { return true }
func (f *Fixed) IsReleased() bool { return true }
func (f *Fixed) IsSilent() bool   { return true }

func (f *Fixed) Reset() { f.pending = true }
