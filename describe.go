package cavesynth

import (
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"
)

const describeTemplate = `{{ .Name | title }} @ {{ .Patch.SampleRate }} Hz: {{ .Patch.NumSources }} {{ if eq .Patch.NumSources 1 }}source{{ else }}sources{{ end }}, {{ .Patch.NumModulators }} {{ if eq .Patch.NumModulators 1 }}modulator{{ else }}modulators{{ end }}
{{- range $i, $n := .Patch.Nodes }}
  {{ printf "%2d" $i }} {{ $n.Type | upper | printf "%-6s" }}{{ with target $n }} -> {{ .Node }}.{{ .Param }}{{ end }}{{ with fields $n }} {{ . }}{{ end }}
{{- end }}
`

type describedTarget struct {
	Node  int
	Param ParamID
}

var describeFuncs = template.FuncMap{
	"target": func(n NodeDef) *describedTarget {
		m, ok := n.(Modulating)
		if !ok {
			return nil
		}
		node, param := m.Target()
		return &describedTarget{Node: node, Param: param}
	},
	"fields": func(n NodeDef) string {
		switch d := n.(type) {
		case LfoDef:
			return fmt.Sprintf("freq=%g depth=%g offset=%g", d.Freq, d.Depth, d.Offset)
		case AdsrDef:
			return fmt.Sprintf("a=%g d=%g s=%g r=%g", d.Attack, d.Decay, d.Sustain, d.Release)
		case FixedDef:
			return fmt.Sprintf("value=%g", d.Value)
		}
		return ""
	},
}

var describe = template.Must(template.New("describe").
	Funcs(sprig.TxtFuncMap()).
	Funcs(describeFuncs).
	Parse(describeTemplate))

// DescribePatch writes a human readable summary of the patch, one line per
// node, to w.
func DescribePatch(w io.Writer, name string, p Patch) error {
	err := describe.Execute(w, struct {
		Name  string
		Patch Patch
	}{name, p})
	if err != nil {
		return fmt.Errorf("DescribePatch failed: %w", err)
	}
	return nil
}
