package cavesynth

import (
	"errors"
	"fmt"
	"sort"
)

type (
	// ParamID addresses one modulatable parameter slot on a source. The set
	// is open ended: a source that does not know an id reads it as zero and
	// ignores writes to it.
	ParamID int

	// NodeID is an index into the per-kind storage of one live instrument.
	// Sources and modulators have separate index spaces.
	NodeID int

	// Patch is the declarative description of one instrument: the sample rate
	// it renders at and an ordered list of nodes. Once handed to an engine, a
	// Patch is treated as immutable and shared by all the voices built from
	// it.
	Patch struct {
		SampleRate float64
		Nodes      []NodeDef

		// Connections is reserved for routing the output of one node into
		// the input of another. Rendering does not use it yet, but the
		// endpoints are validated.
		Connections []Connection
	}

	// NodeDef is one node definition in a Patch: SineDef, LfoDef, AdsrDef or
	// FixedDef. The interface is sealed; the engine switches over the
	// concrete types when instantiating.
	NodeDef interface {
		// Type returns the key of the node in NodeTypes, e.g. "sine".
		Type() string
		nodeDef()
	}

	// SineDef is a sine oscillator with default parameters.
	SineDef struct{}

	// LfoDef is a low frequency oscillator that swings the target parameter
	// around the value it had when the note was triggered. Freq is in Hz,
	// Depth is the swing in parameter units and Offset is added on top.
	LfoDef struct {
		Freq        float64
		Depth       float64
		Offset      float64
		TargetNode  int // position of the target in Patch.Nodes
		TargetParam ParamID
	}

	// AdsrDef is an attack-decay-sustain-release envelope scaling the target
	// parameter. Attack, Decay and Release are in seconds; Sustain is a level
	// between 0 and 1.
	AdsrDef struct {
		Attack      float64
		Decay       float64
		Sustain     float64
		Release     float64
		TargetNode  int
		TargetParam ParamID
	}

	// FixedDef writes Value to the target parameter once after every
	// trigger, overriding what the note set, e.g. to pin an oscillator to a
	// fixed pitch.
	FixedDef struct {
		Value       float64
		TargetNode  int
		TargetParam ParamID
	}

	// Connection routes node From into node To, both positions in
	// Patch.Nodes. Reserved.
	Connection struct {
		From int
		To   int
	}

	// Modulating is implemented by the node definitions that modulate a
	// parameter of another node.
	Modulating interface {
		Target() (node int, param ParamID)
	}

	// NodeKind tells in which storage of an instrument a node ends up.
	NodeKind int

	// NodeType documents one node type: its kind and, for sources, the
	// parameters that modulators may target.
	NodeType struct {
		Kind   NodeKind
		Params []ParamID
	}
)

const (
	Amplitude ParamID = iota
	Frequency
)

const (
	SourceKind NodeKind = iota
	ModulatorKind
)

// NodeTypes documents all the available node types.
var NodeTypes = map[string]NodeType{
	"sine":  {Kind: SourceKind, Params: []ParamID{Amplitude, Frequency}},
	"lfo":   {Kind: ModulatorKind},
	"adsr":  {Kind: ModulatorKind},
	"fixed": {Kind: ModulatorKind},
}

var (
	ErrInvalidSampleRate = errors.New("sample rate should be > 0")
	ErrUnknownNode       = errors.New("unknown node type")
	ErrTargetOutOfRange  = errors.New("modulator target is out of range")
	ErrTargetNotSource   = errors.New("modulator target is not a source")
	ErrUnknownParam      = errors.New("target does not have the parameter")
	ErrInvalidConnection = errors.New("connection endpoint is out of range")
)

var paramNames = map[ParamID]string{
	Amplitude: "amplitude",
	Frequency: "frequency",
}

func (p ParamID) String() string {
	if s, ok := paramNames[p]; ok {
		return s
	}
	return fmt.Sprintf("param(%d)", int(p))
}

// ParamNames returns the names of all known parameters, sorted.
func ParamNames() []string {
	ret := make([]string, 0, len(paramNames))
	for _, n := range paramNames {
		ret = append(ret, n)
	}
	sort.Strings(ret)
	return ret
}

func (SineDef) Type() string  { return "sine" }
func (LfoDef) Type() string   { return "lfo" }
func (AdsrDef) Type() string  { return "adsr" }
func (FixedDef) Type() string { return "fixed" }

func (SineDef) nodeDef()  {}
func (LfoDef) nodeDef()   {}
func (AdsrDef) nodeDef()  {}
func (FixedDef) nodeDef() {}

func (d LfoDef) Target() (int, ParamID)   { return d.TargetNode, d.TargetParam }
func (d AdsrDef) Target() (int, ParamID)  { return d.TargetNode, d.TargetParam }
func (d FixedDef) Target() (int, ParamID) { return d.TargetNode, d.TargetParam }

// Has reports if a node of this type exposes the parameter.
func (t NodeType) Has(param ParamID) bool {
	for _, p := range t.Params {
		if p == param {
			return true
		}
	}
	return false
}

// Validate checks that the patch can be instantiated: the sample rate is
// positive, every node has a known type, every modulator targets a source
// parameter that exists, and connections stay within the node list. The
// returned error wraps one of the Err* values of this package.
func (p Patch) Validate() error {
	if !(p.SampleRate > 0) {
		return fmt.Errorf("patch sample rate %v: %w", p.SampleRate, ErrInvalidSampleRate)
	}
	for i, n := range p.Nodes {
		if n == nil {
			return fmt.Errorf("node %d: %w", i, ErrUnknownNode)
		}
		if _, ok := NodeTypes[n.Type()]; !ok {
			return fmt.Errorf("node %d (%s): %w", i, n.Type(), ErrUnknownNode)
		}
		m, ok := n.(Modulating)
		if !ok {
			continue
		}
		target, param := m.Target()
		if target < 0 || target >= len(p.Nodes) {
			return fmt.Errorf("node %d targets node %d of %d: %w", i, target, len(p.Nodes), ErrTargetOutOfRange)
		}
		if p.Nodes[target] == nil {
			return fmt.Errorf("node %d targets node %d: %w", i, target, ErrUnknownNode)
		}
		tt, ok := NodeTypes[p.Nodes[target].Type()]
		if !ok {
			return fmt.Errorf("node %d targets node %d: %w", i, target, ErrUnknownNode)
		}
		if tt.Kind != SourceKind {
			return fmt.Errorf("node %d targets node %d (%s): %w", i, target, p.Nodes[target].Type(), ErrTargetNotSource)
		}
		if !tt.Has(param) {
			return fmt.Errorf("node %d targets %s of node %d (%s): %w", i, param, target, p.Nodes[target].Type(), ErrUnknownParam)
		}
	}
	for i, c := range p.Connections {
		if c.From < 0 || c.From >= len(p.Nodes) || c.To < 0 || c.To >= len(p.Nodes) {
			return fmt.Errorf("connection %d (%d -> %d): %w", i, c.From, c.To, ErrInvalidConnection)
		}
	}
	return nil
}

// NumSources returns how many of the nodes end up in source storage.
func (p Patch) NumSources() int {
	return p.count(SourceKind)
}

// NumModulators returns how many of the nodes end up in modulator storage.
func (p Patch) NumModulators() int {
	return p.count(ModulatorKind)
}

func (p Patch) count(kind NodeKind) (ret int) {
	for _, n := range p.Nodes {
		if n == nil {
			continue
		}
		if t, ok := NodeTypes[n.Type()]; ok && t.Kind == kind {
			ret++
		}
	}
	return
}

// Copy makes a deep copy of a patch. Node definitions are values, so copying
// the slices is enough.
func (p Patch) Copy() Patch {
	nodes := make([]NodeDef, len(p.Nodes))
	copy(nodes, p.Nodes)
	conns := make([]Connection, len(p.Connections))
	copy(conns, p.Connections)
	return Patch{SampleRate: p.SampleRate, Nodes: nodes, Connections: conns}
}
