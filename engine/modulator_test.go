package engine_test

import (
	"math"
	"testing"

	"github.com/cavetracker/cavesynth"
	"github.com/cavetracker/cavesynth/engine"
)

const testRate = 1000

func tickN(m engine.Modulator, sources []engine.Source, n int) {
	for i := 0; i < n; i++ {
		m.Tick(sources)
	}
}

func near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestAdsrTiming(t *testing.T) {
	sources := []engine.Source{engine.NewSine(testRate)}
	a := engine.NewAdsr(testRate, cavesynth.AdsrDef{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.2})
	a.Bind(0, cavesynth.Amplitude)
	a.NoteOn()
	tickN(a, sources, 50)
	if a.Stage() != engine.Attack || !near(a.Level(), 0.5, 0.01) {
		t.Fatalf("t=0.05s: stage %v level %v, expected attack 0.5", a.Stage(), a.Level())
	}
	tickN(a, sources, 50)
	if !near(a.Level(), 1, 0.01) {
		t.Fatalf("t=0.1s: level %v, expected 1", a.Level())
	}
	tickN(a, sources, 100)
	if !near(a.Level(), 0.5, 0.01) {
		t.Fatalf("t=0.2s: level %v, expected 0.5", a.Level())
	}
	for _, ticks := range []int{5, 100, 700} {
		tickN(a, sources, ticks)
		if a.Stage() != engine.Sustain || a.Level() != 0.5 {
			t.Fatalf("during sustain: stage %v level %v, expected sustain 0.5", a.Stage(), a.Level())
		}
		if got := sources[0].Param(cavesynth.Amplitude); got != 0.5 {
			t.Fatalf("target amplitude %v, expected base 1 scaled to 0.5", got)
		}
	}
	if a.IsReleased() || a.IsSilent() || !a.IsActive() {
		t.Fatalf("sustaining envelope should be active, unreleased and audible")
	}
	a.NoteOff()
	tickN(a, sources, 100)
	if a.Stage() != engine.Release || !near(a.Level(), 0.25, 0.01) {
		t.Fatalf("0.1s into release: stage %v level %v, expected release 0.25", a.Stage(), a.Level())
	}
	tickN(a, sources, 100)
	if !near(a.Level(), 0, 0.01) {
		t.Fatalf("0.2s into release: level %v, expected 0", a.Level())
	}
	tickN(a, sources, 5)
	if a.Stage() != engine.Idle || a.Level() != 0 {
		t.Fatalf("after release: stage %v level %v, expected idle 0", a.Stage(), a.Level())
	}
	if !a.IsReleased() || !a.IsSilent() || a.IsActive() {
		t.Fatalf("finished envelope should be released, silent and inactive")
	}
}

func TestAdsrZeroLengthStages(t *testing.T) {
	sources := []engine.Source{engine.NewSine(testRate)}
	a := engine.NewAdsr(testRate, cavesynth.AdsrDef{Sustain: 0.7})
	a.Bind(0, cavesynth.Amplitude)
	a.NoteOn()
	a.Tick(sources)
	if a.Level() != 1 || a.Stage() != engine.Decay {
		t.Fatalf("zero attack: level %v stage %v, expected 1 and decay", a.Level(), a.Stage())
	}
	a.Tick(sources)
	if !near(a.Level(), 0.7, 1e-12) || a.Stage() != engine.Sustain {
		t.Fatalf("zero decay: level %v stage %v, expected 0.7 and sustain", a.Level(), a.Stage())
	}
	a.NoteOff()
	a.Tick(sources)
	if a.Level() != 0 || a.Stage() != engine.Idle {
		t.Fatalf("zero release: level %v stage %v, expected 0 and idle", a.Level(), a.Stage())
	}
	if math.IsNaN(sources[0].Param(cavesynth.Amplitude)) {
		t.Fatalf("zero length stages produced NaN")
	}
}

func TestAdsrReleaseDuringAttack(t *testing.T) {
	sources := []engine.Source{engine.NewSine(testRate)}
	a := engine.NewAdsr(testRate, cavesynth.AdsrDef{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1})
	a.Bind(0, cavesynth.Amplitude)
	a.NoteOn()
	tickN(a, sources, 20)
	start := a.Level()
	a.NoteOff()
	a.Tick(sources)
	if a.Level() >= start {
		t.Fatalf("release should fall from %v, got %v", start, a.Level())
	}
}

func TestIdleAdsrIsSilent(t *testing.T) {
	a := engine.NewAdsr(testRate, cavesynth.AdsrDef{Attack: 0.1})
	if !a.IsSilent() || !a.IsReleased() || a.IsActive() {
		t.Fatalf("an envelope that was never triggered should be silent")
	}
}

func TestLfoSwingsAroundCenter(t *testing.T) {
	sine := engine.NewSine(testRate)
	sources := []engine.Source{sine}
	l := engine.NewLfo(testRate, cavesynth.LfoDef{Freq: 1, Depth: 50})
	l.Bind(0, cavesynth.Frequency)
	tickN(l, sources, 250)
	if got := sine.Param(cavesynth.Frequency); !near(got, 490, 0.01) {
		t.Fatalf("quarter cycle: frequency %v, expected 490", got)
	}
	tickN(l, sources, 500)
	if got := sine.Param(cavesynth.Frequency); !near(got, 390, 0.01) {
		t.Fatalf("three quarter cycle: frequency %v, expected 390", got)
	}
	// retrigger with a new note recenters
	sine.Set(81, 127)
	l.NoteOn()
	tickN(l, sources, 250)
	if got := sine.Param(cavesynth.Frequency); !near(got, 930, 0.01) {
		t.Fatalf("after retrigger: frequency %v, expected 930", got)
	}
	if !l.IsActive() || !l.IsReleased() || !l.IsSilent() {
		t.Fatalf("lfo should be active, released and silent at all times")
	}
}

func TestLfoOffset(t *testing.T) {
	sine := engine.NewSine(testRate)
	l := engine.NewLfo(testRate, cavesynth.LfoDef{Freq: 1, Offset: 10})
	l.Bind(0, cavesynth.Frequency)
	l.Tick([]engine.Source{sine})
	if got := sine.Param(cavesynth.Frequency); got != 450 {
		t.Fatalf("zero depth lfo with offset: frequency %v, expected 450", got)
	}
}

func TestFixedWritesOncePerTrigger(t *testing.T) {
	sine := engine.NewSine(testRate)
	sources := []engine.Source{sine}
	f := engine.NewFixed(cavesynth.FixedDef{Value: 110})
	f.Bind(0, cavesynth.Frequency)
	f.Tick(sources)
	if got := sine.Param(cavesynth.Frequency); got != 110 {
		t.Fatalf("frequency %v, expected 110", got)
	}
	sine.SetParam(cavesynth.Frequency, 220)
	f.Tick(sources)
	if got := sine.Param(cavesynth.Frequency); got != 220 {
		t.Fatalf("fixed should write only once, got %v", got)
	}
	f.NoteOn()
	f.Tick(sources)
	if got := sine.Param(cavesynth.Frequency); got != 110 {
		t.Fatalf("fixed should write again after NoteOn, got %v", got)
	}
}

func TestSine(t *testing.T) {
	s := engine.NewSine(testRate)
	if s.Param(cavesynth.Frequency) != 440 || s.Param(cavesynth.Amplitude) != 1 {
		t.Fatalf("fresh sine should be 440 Hz at amplitude 1")
	}
	s.Set(57, 127)
	if got := s.Param(cavesynth.Frequency); !near(got, 220, 1e-9) {
		t.Fatalf("note 57: frequency %v, expected 220", got)
	}
	s.Set(69, 0)
	if got := s.Next(); got != 0 {
		t.Fatalf("zero velocity should be silent, got %v", got)
	}
	s.SetParam(99, 5)
	if got := s.Param(99); got != 0 {
		t.Fatalf("unknown parameter should read 0, got %v", got)
	}
	s.Set(69, 127)
	s.SetParam(cavesynth.Frequency, 250)
	for i := 0; i < 10000; i++ {
		if v := s.Next(); v < -1 || v > 1 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}
