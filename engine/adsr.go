package engine

import "github.com/cavetracker/cavesynth"

type (
	// Adsr is an envelope that scales its target parameter by a level going
	// through the attack, decay, sustain and release stages. The value the
	// parameter had before modulation, the base, is captured on the first
	// tick after creation or NoteOn.
	Adsr struct {
		dt                              float64 // seconds per sample
		attack, decay, sustain, release float64

		target cavesynth.NodeID
		param  cavesynth.ParamID

		stage        Stage
		time         float64 // seconds since the stage began
		level        float64
		releaseStart float64
		base         float64
		hasBase      bool
	}

	Stage int
)

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

// silenceThreshold is the level below which a released envelope is
// considered silent.
const silenceThreshold = 1e-4

var stageNames = [...]string{"idle", "attack", "decay", "sustain", "release"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

func NewAdsr(sampleRate float64, def cavesynth.AdsrDef) *Adsr {
	return &Adsr{
		dt:      1 / sampleRate,
		attack:  def.Attack,
		decay:   def.Decay,
		sustain: def.Sustain,
		release: def.Release,
	}
}

func (a *Adsr) Bind(target cavesynth.NodeID, param cavesynth.ParamID) {
	a.target = target
	a.param = param
}

func (a *Adsr) Tick(sources []Source) {
	a.time += a.dt
	src := sources[a.target]
	if !a.hasBase {
		a.base = src.Param(a.param)
		a.hasBase = true
	}
	switch a.stage {
	case Idle:
		a.level = 0
	case Attack:
		a.level = progress(a.time, a.attack)
		if a.level >= 1 {
			a.stage = Decay
			a.time = 0
		}
	case Decay:
		p := progress(a.time, a.decay)
		a.level = 1 - p*(1-a.sustain)
		if p >= 1 {
			a.stage = Sustain
		}
	case Sustain:
		a.level = a.sustain
	case Release:
		p := progress(a.time, a.release)
		a.level = a.releaseStart * (1 - p)
		if p >= 1 {
			a.level = 0
			a.stage = Idle
		}
	}
	src.SetParam(a.param, a.base*a.level)
}

// progress returns elapsed/length clamped to 1. A stage of zero length is
// complete immediately.
func progress(elapsed, length float64) float64 {
	if length <= 0 || elapsed >= length {
		return 1
	}
	return elapsed / length
}

func (a *Adsr) NoteOn() {
	a.stage = Attack
	a.time = 0
	a.hasBase = false
}

func (a *Adsr) NoteOff() {
	a.releaseStart = a.level
	a.stage = Release
	a.time = 0
}

func (a *Adsr) IsActive() bool   { return a.stage != Idle }
func (a *Adsr) IsReleased() bool { return a.stage == Idle }
func (a *Adsr) IsSilent() bool   { return a.level < silenceThreshold && a.IsReleased() }

// Level returns the envelope level computed by the last tick.
func (a *Adsr) Level() float64 { return a.level }

func (a *Adsr) Stage() Stage { return a.stage }

func (a *Adsr) Reset() {
	a.stage = Idle
	a.time = 0
	a.level = 0
	a.releaseStart = 0
	a.base = 0
	a.hasBase = false
}
