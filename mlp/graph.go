package mlp

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/chewxy/math32"
)

type layerDesc struct {
	Index   int
	Kind    string
	Neurons int
	Weights int
	Start   int
	Range   string
}

// ToDot renders the layer graph of the network in the dot language.
func (net *Network) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)
	g.AddAttr("G", "rankdir", "LR")

	weights := net.Weights()
	var buf bytes.Buffer
	var w int
	for l, size := range net.sizes {
		d := layerDesc{
			Index:   l,
			Kind:    "hidden",
			Neurons: size,
			Start:   int(net.heads[l]),
			Range:   "-",
		}
		switch l {
		case 0:
			d.Kind = "input"
		case len(net.sizes) - 1:
			d.Kind = "output"
		}
		if l > 0 {
			d.Weights = (net.sizes[l-1] + 1) * size
			d.Range = weightRange(weights[w : w+d.Weights])
			w += d.Weights
		}

		tmpl.Execute(&buf, d)
		g.AddNode("G", layerName(l), map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		})
		buf.Reset()

		if l > 0 {
			g.AddEdge(layerName(l-1), layerName(l), true, map[string]string{
				"label": fmt.Sprintf("\"%d links\"", net.sizes[l-1]*size),
			})
		}
	}
	return g.String()
}

func layerName(l int) string { return fmt.Sprintf("L%d", l) }

// weightRange formats the smallest and largest finite weight of a layer.
func weightRange(w []float32) string {
	lo, hi := math32.Inf(1), math32.Inf(-1)
	for _, v := range w {
		if math32.IsInf(v, 0) || math32.IsNaN(v) {
			continue
		}
		lo = math32.Min(lo, v)
		hi = math32.Max(hi, v)
	}
	if lo > hi {
		return "-"
	}
	return fmt.Sprintf("%+1.3f .. %+1.3f", lo, hi)
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Layer</TD><TD>{{.Index}} ({{.Kind}})</TD></TR>
<TR><TD>Neurons</TD><TD>{{.Neurons}}</TD></TR>
<TR><TD>First Neuron</TD><TD>{{.Start}}</TD></TR>
<TR><TD>Weights</TD><TD>{{.Weights}}</TD></TR>
<TR><TD>Range</TD><TD>{{.Range}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("layer").Parse(tmplRaw))
}
