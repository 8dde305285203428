package engine

import (
	"math"

	"github.com/cavetracker/cavesynth"
)

// Lfo swings its target parameter sinusoidally around the value the
// parameter had on the first tick after the last trigger.
type Lfo struct {
	sampleRate float64
	freq       float64
	depth      float64
	offset     float64

	target cavesynth.NodeID
	param  cavesynth.ParamID

	phase     float64
	center    float64
	hasCenter bool
}

func NewLfo(sampleRate float64, def cavesynth.LfoDef) *Lfo {
	return &Lfo{sampleRate: sampleRate, freq: def.Freq, depth: def.Depth, offset: def.Offset}
}

func (l *Lfo) Bind(target cavesynth.NodeID, param cavesynth.ParamID) {
	l.target = target
	l.param = param
}

func (l *Lfo) Tick(sources []Source) {
	src := sources[l.target]
	if !l.hasCenter {
		l.center = src.Param(l.param)
		l.hasCenter = true
	}
	l.phase += twoPi * l.freq / l.sampleRate
	if l.phase > twoPi {
		l.phase -= twoPi
	}
	src.SetParam(l.param, l.center+math.Sin(l.phase)*l.depth+l.offset)
}

// NoteOn restarts the cycle and re-centers on the new note's value.
func (l *Lfo) NoteOn() {
	l.phase = 0
	l.hasCenter = false
}

func (l *Lfo) NoteOff() {}

func (l *Lfo) IsActive() bool   { return true }
func (l *Lfo) IsReleased() bool { return true }
func (l *Lfo) IsSilent() bool   { return true }

func (l *Lfo) Reset() {
	l.phase = 0
	l.center = 0
	l.hasCenter = false
}
