package neuronet

import (
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/gorgonia/neuronet/mlp"
	"github.com/pkg/errors"
)

// Backend selects the implementation an Evaluator runs the forward pass on.
type Backend int

const (
	Flat  Backend = iota // flat buffers, mlp.Activations
	Graph                // gorgonia expression graph, graphnet.Inferencer
	MAXBACKEND
)

func (b Backend) String() string {
	switch b {
	case Flat:
		return "flat"
	case Graph:
		return "graph"
	}
	return "Backend(" + strconv.Itoa(int(b)) + ")"
}

// ParseBackend is the inverse of Backend.String.
func ParseBackend(s string) (Backend, error) {
	for b := Flat; b < MAXBACKEND; b++ {
		if strings.EqualFold(s, b.String()) {
			return b, nil
		}
	}
	return Flat, errors.Errorf("Unknown backend %q", s)
}

// Config configures a network and the evaluators built for it.
type Config struct {
	Name    string
	Layers  []int   // neurons per layer, input first
	Backend Backend // which evaluator to build
	Workers int     // number of evaluators in a Pool
	ExecLog bool    // trace graph execution. Only the Graph backend keeps a log.
}

// DefaultConf returns a flat backend configuration with one worker per CPU.
func DefaultConf(layers ...int) Config {
	return Config{
		Name:    "MLP",
		Layers:  layers,
		Backend: Flat,
		Workers: runtime.NumCPU(),
	}
}

func (conf Config) IsValid() bool {
	if len(conf.Layers) < 2 || len(conf.Layers) > mlp.MaxLayers {
		return false
	}
	for _, s := range conf.Layers {
		if s <= 0 {
			return false
		}
	}
	return conf.Backend >= Flat && conf.Backend < MAXBACKEND &&
		conf.Workers >= 1
}

// ParseLayers parses a layer description such as "784 128 10" or "784,128,10".
func ParseLayers(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	retVal := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d of %q", i, s)
		}
		retVal[i] = n
	}
	return retVal, nil
}

// Evaluator is anything that can run the forward pass of a network on an input
// and return the index of the most active output neuron.
type Evaluator interface {
	Evaluate(input []float32) (int, error)
	io.Closer
}

// OutputReader is an Evaluator that exposes the output layer of its last evaluation.
type OutputReader interface {
	Output() []float32
}

// ExecLogger is anything that can return the execution log.
type ExecLogger interface {
	ExecLog() string
}

// OutputEncoder receives every classified sample, in input order.
//
// An example OutputEncoder is the GifEncoder.
type OutputEncoder interface {
	Encode(s Sample) error
	Flush() error
}

// Sample is one classified input.
type Sample struct {
	Index      int
	Pixels     []byte
	Rows, Cols int
	Label      int // -1 if unknown
	Predicted  int
}
