package engine_test

import (
	"errors"
	"testing"

	"github.com/cavetracker/cavesynth"
	"github.com/cavetracker/cavesynth/engine"
)

func TestInvalidPatches(t *testing.T) {
	sine := cavesynth.SineDef{}
	tests := []struct {
		name  string
		patch cavesynth.Patch
		err   error
	}{
		{"zero sample rate", cavesynth.Patch{Nodes: []cavesynth.NodeDef{sine}}, cavesynth.ErrInvalidSampleRate},
		{"target out of range", cavesynth.Patch{SampleRate: testRate, Nodes: []cavesynth.NodeDef{sine, cavesynth.AdsrDef{TargetNode: 5}}}, cavesynth.ErrTargetOutOfRange},
		{"negative target", cavesynth.Patch{SampleRate: testRate, Nodes: []cavesynth.NodeDef{cavesynth.LfoDef{TargetNode: -1}}}, cavesynth.ErrTargetOutOfRange},
		{"modulator target", cavesynth.Patch{SampleRate: testRate, Nodes: []cavesynth.NodeDef{sine, cavesynth.AdsrDef{TargetNode: 2}, cavesynth.FixedDef{TargetNode: 0}}}, cavesynth.ErrTargetNotSource},
		{"unknown param", cavesynth.Patch{SampleRate: testRate, Nodes: []cavesynth.NodeDef{sine, cavesynth.LfoDef{TargetNode: 0, TargetParam: 7}}}, cavesynth.ErrUnknownParam},
		{"nil node", cavesynth.Patch{SampleRate: testRate, Nodes: []cavesynth.NodeDef{nil}}, cavesynth.ErrUnknownNode},
		{"bad connection", cavesynth.Patch{SampleRate: testRate, Nodes: []cavesynth.NodeDef{sine}, Connections: []cavesynth.Connection{{From: 0, To: 1}}}, cavesynth.ErrInvalidConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.NewInstrument(tt.patch); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestForwardReference(t *testing.T) {
	patch := cavesynth.Patch{
		SampleRate: testRate,
		Nodes: []cavesynth.NodeDef{
			cavesynth.AdsrDef{Sustain: 0.5, TargetNode: 2, TargetParam: cavesynth.Amplitude},
			cavesynth.SineDef{},
			cavesynth.SineDef{},
		},
	}
	inst, err := engine.NewInstrument(patch)
	if err != nil {
		t.Fatalf("NewInstrument failed: %v", err)
	}
	if len(inst.Sources()) != 2 || len(inst.Modulators()) != 1 {
		t.Fatalf("expected 2 sources and 1 modulator, got %d and %d", len(inst.Sources()), len(inst.Modulators()))
	}
	inst.NoteOn(69, 127)
	inst.Next()
	inst.Next()
	if got := inst.Sources()[1].Param(cavesynth.Amplitude); !near(got, 0.5, 1e-12) {
		t.Fatalf("second sine amplitude %v, expected 0.5", got)
	}
	if got := inst.Sources()[0].Param(cavesynth.Amplitude); got != 1 {
		t.Fatalf("first sine should not be modulated, amplitude %v", got)
	}
}

func TestInstrumentWithoutSources(t *testing.T) {
	inst, err := engine.NewInstrument(cavesynth.Patch{SampleRate: testRate})
	if err != nil {
		t.Fatalf("NewInstrument failed: %v", err)
	}
	inst.NoteOn(60, 100)
	if inst.Next() != 0 {
		t.Fatalf("instrument without sources should render 0")
	}
	if !inst.IsSilent() || !inst.IsReleased() {
		t.Fatalf("instrument without modulators should be silent and released")
	}
}

func TestResetMatchesFreshInstrument(t *testing.T) {
	patch := cavesynth.Presets["pad"].WithSampleRate(testRate)
	used, err := engine.NewInstrument(patch)
	if err != nil {
		t.Fatalf("NewInstrument failed: %v", err)
	}
	used.NoteOn(60, 100)
	for i := 0; i < 777; i++ {
		used.Next()
	}
	used.NoteOff()
	used.Next()
	used.Reset()
	fresh, _ := engine.NewInstrument(patch)
	used.NoteOn(64, 90)
	fresh.NoteOn(64, 90)
	for i := 0; i < 1000; i++ {
		if a, b := used.Next(), fresh.Next(); a != b {
			t.Fatalf("frame %d: reset instrument %v, fresh instrument %v", i, a, b)
		}
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range cavesynth.PresetNames() {
		t.Run(name, func(t *testing.T) {
			inst, err := engine.NewInstrument(cavesynth.Presets[name].WithSampleRate(44100))
			if err != nil {
				t.Fatalf("NewInstrument failed: %v", err)
			}
			inst.NoteOn(60, 100)
			for i := 0; i < 4410; i++ {
				if v := inst.Next(); v < -1 || v > 1 {
					t.Fatalf("sample %d out of range: %v", i, v)
				}
			}
		})
	}
}

func TestFixedOverridesNotePitch(t *testing.T) {
	inst, err := engine.NewInstrument(cavesynth.Presets["drone"].WithSampleRate(testRate))
	if err != nil {
		t.Fatalf("NewInstrument failed: %v", err)
	}
	inst.NoteOn(60, 100)
	inst.Next()
	if got := inst.Sources()[0].Param(cavesynth.Frequency); got != 110 {
		t.Fatalf("drone frequency %v, expected 110", got)
	}
}
