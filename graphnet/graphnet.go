// Package graphnet evaluates an mlp.Network on a gorgonia expression graph.
//
// The graph is built once from a snapshot of the network's topology and
// weights: every layer past the input becomes rectify(x·W + b), with W laid out
// as (previous layer × layer) and b as a row vector. Reloading the network's
// weights does not affect an Inferencer that has already been built.
package graphnet

import (
	"bytes"
	"fmt"
	"log"

	"github.com/gorgonia/neuronet/mlp"
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	nnops "gorgonia.org/gorgonia/ops/nn"
	"gorgonia.org/tensor"
)

var Float = G.Float32

// Inferencer holds the expression graph of a network and the VM that runs it.
// It is not safe for concurrent use.
type Inferencer struct {
	sizes []int
	g     *G.ExprGraph
	m     G.VM

	x      *G.Node
	output G.Value

	input *tensor.Dense
	buf   *bytes.Buffer
}

// New builds an Inferencer from net. If toLog is set, the VM traces its execution into ExecLog.
func New(net *mlp.Network, toLog bool) (*Inferencer, error) {
	sizes := net.LayerSizes()
	weights := net.Weights()

	retVal := &Inferencer{
		sizes: sizes,
		g:     G.NewGraph(),
		input: tensor.New(tensor.WithShape(1, sizes[0]), tensor.Of(Float)),
		buf:   new(bytes.Buffer),
	}
	retVal.x = G.NewMatrix(retVal.g, Float, G.WithShape(1, sizes[0]), G.WithName("x"), G.WithValue(retVal.input))

	var m maebe
	layer := retVal.x
	var start int
	for l := 1; l < len(sizes); l++ {
		prev, n := sizes[l-1], sizes[l]
		w, b := split(weights[start:start+(prev+1)*n], prev, n)
		start += (prev + 1) * n

		layer = m.linear(layer, w, b, l)
		layer = m.rectify(layer)
	}
	if m.err != nil {
		return nil, m.err
	}
	G.Read(layer, &retVal.output)

	if toLog {
		logger := log.New(retVal.buf, "", 0)
		retVal.m = G.NewTapeMachine(retVal.g,
			G.WithLogger(logger),
			G.WithWatchlist(),
			G.TraceExec(),
			G.WithValueFmt("%+1.1v"),
			G.WithNaNWatch(),
		)
	} else {
		retVal.m = G.NewTapeMachine(retVal.g)
	}
	return retVal, nil
}

// split turns the forward weight blocks of one layer into a (prev × n) link
// matrix and a (1 × n) bias row.
func split(blocks []float32, prev, n int) (w, b *tensor.Dense) {
	wBacking := make([]float32, prev*n)
	bBacking := make([]float32, n)
	for j := 0; j < n; j++ {
		block := blocks[j*(prev+1) : (j+1)*(prev+1)]
		for i := 0; i < prev; i++ {
			wBacking[i*n+j] = block[i]
		}
		bBacking[j] = block[prev]
	}
	w = tensor.New(tensor.WithShape(prev, n), tensor.WithBacking(wBacking))
	b = tensor.New(tensor.WithShape(1, n), tensor.WithBacking(bBacking))
	return w, b
}

// Evaluate runs the graph on input and returns the index of the most active output neuron.
func (m *Inferencer) Evaluate(input []float32) (int, error) {
	if len(input) != m.sizes[0] {
		return 0, errors.WithStack(mlp.ShapeMismatchError{Have: len(input), Want: m.sizes[0]})
	}
	data := m.input.Data().([]float32)
	copy(data, input)

	m.m.Reset()
	m.buf.Reset()
	if err := G.Let(m.x, m.input); err != nil {
		return 0, errors.WithStack(err)
	}
	if err := m.m.RunAll(); err != nil {
		return 0, errors.Wrapf(err, "running graph of %v", m.sizes)
	}
	return mlp.Argmax(m.Output()), nil
}

// Output returns the output layer computed by the last Evaluate.
func (m *Inferencer) Output() []float32 {
	if m.output == nil {
		return nil
	}
	return m.output.Data().([]float32)
}

// ExecLog returns the execution log. If New was called with toLog = false, then it will return an empty string
func (m *Inferencer) ExecLog() string { return m.buf.String() }

// Close implements a closer, because well, a gorgonia VM is a resource.
func (m *Inferencer) Close() error { return m.m.Close() }

type maebe struct {
	err error
}

func (m *maebe) do(f func() (*G.Node, error)) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

func (m *maebe) linear(input *G.Node, w, b *tensor.Dense, layer int) *G.Node {
	if m.err != nil {
		return nil
	}
	wn := G.NewMatrix(input.Graph(), Float, G.WithShape(w.Shape()...), G.WithName(fmt.Sprintf("W%d", layer)), G.WithValue(w))
	bn := G.NewMatrix(input.Graph(), Float, G.WithShape(b.Shape()...), G.WithName(fmt.Sprintf("b%d", layer)), G.WithValue(b))
	xw := m.do(func() (*G.Node, error) { return G.Mul(input, wn) })
	return m.do(func() (*G.Node, error) { return G.Add(xw, bn) })
}

func (m *maebe) rectify(input *G.Node) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = nnops.Rectify(input); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}
