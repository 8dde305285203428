package cavesynth

import "sort"

// Presets are the built-in patches, all at 44100 Hz. Use WithSampleRate to
// get a copy for another rate.
var Presets = map[string]Patch{
	// pluck: a sine with a fast attack and a long decay to silence.
	"pluck": {
		SampleRate: 44100,
		Nodes: []NodeDef{
			SineDef{},
			AdsrDef{Attack: 0.01, Decay: 0.4, Sustain: 0, Release: 1.0, TargetNode: 0, TargetParam: Amplitude},
		},
	},
	// vibrato: slow and deep pitch wobble on top of the pluck envelope.
	"vibrato": {
		SampleRate: 44100,
		Nodes: []NodeDef{
			SineDef{},
			LfoDef{Freq: 0.2, Depth: 50, Offset: 0, TargetNode: 0, TargetParam: Frequency},
			AdsrDef{Attack: 0.01, Decay: 0.4, Sustain: 0, Release: 1.0, TargetNode: 0, TargetParam: Amplitude},
		},
	},
	"pad": {
		SampleRate: 44100,
		Nodes: []NodeDef{
			AdsrDef{Attack: 0.5, Decay: 0.5, Sustain: 0.7, Release: 1.5, TargetNode: 2, TargetParam: Amplitude},
			AdsrDef{Attack: 0.6, Decay: 0.5, Sustain: 0.7, Release: 1.5, TargetNode: 3, TargetParam: Amplitude},
			SineDef{},
			SineDef{},
			LfoDef{Freq: 5, Depth: 2, TargetNode: 2, TargetParam: Frequency},
			LfoDef{Freq: 4.5, Depth: 2, Offset: 1, TargetNode: 3, TargetParam: Frequency},
		},
	},
	// drone ignores the pitch of the note and stays at A2.
	"drone": {
		SampleRate: 44100,
		Nodes: []NodeDef{
			SineDef{},
			FixedDef{Value: 110, TargetNode: 0, TargetParam: Frequency},
			AdsrDef{Attack: 1, Decay: 0, Sustain: 1, Release: 2, TargetNode: 0, TargetParam: Amplitude},
		},
	},
}

// PresetNames returns the names of the built-in patches, sorted.
func PresetNames() []string {
	ret := make([]string, 0, len(Presets))
	for k := range Presets {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// WithSampleRate returns a copy of the patch rendering at the given rate.
func (p Patch) WithSampleRate(sampleRate float64) Patch {
	ret := p.Copy()
	ret.SampleRate = sampleRate
	return ret
}
