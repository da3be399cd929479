// Package mlp implements inference for a fully connected feed-forward network
// (multilayer perceptron) laid out in flat, contiguous buffers.
//
// Neurons are indexed globally by flattening the layers in order: the input
// layer's neurons come first, then the first hidden layer's, and so on. Every
// neuron past the input layer owns a forward weight block in the weight buffer:
// one link weight per neuron of the preceding layer, in that layer's order,
// followed by a single bias. The blocks are stored in ascending global neuron
// order, which is also the order a weight file must supply them in.
package mlp

import (
	"sync"

	"github.com/pkg/errors"
)

// MaxLayers is the largest number of layers (input and output included) a Network may have.
const MaxLayers = 8

// Network is a multilayer perceptron. The topology and its derived index tables
// are fixed at construction; the weights may be replaced by Load as long as the
// shape does not change.
type Network struct {
	lock sync.RWMutex

	sizes        []int
	heads        []offset // first neuron of each layer
	totalNeurons int
	totalWeights int

	weights []float32

	// per global neuron index. Entries for the input layer are noOffset.
	forwardWeights  []offset // start of the neuron's block in weights
	previousNeurons []offset // first neuron of the preceding layer

	act *Activations
}

// New creates a network with one layer per entry of layerSizes, the first being
// the input layer and the last the output layer. The weights are all zero until
// Load is called.
func New(layerSizes ...int) (*Network, error) {
	n := len(layerSizes)
	if n < 2 || n > MaxLayers {
		return nil, errors.WithStack(TopologyError{Layers: n, Sizes: append([]int(nil), layerSizes...)})
	}
	for _, s := range layerSizes {
		if s <= 0 {
			return nil, errors.WithStack(TopologyError{Layers: n, Sizes: append([]int(nil), layerSizes...)})
		}
	}

	net := &Network{
		sizes: make([]int, n),
		heads: make([]offset, n),
	}
	copy(net.sizes, layerSizes)

	for l, s := range net.sizes {
		net.heads[l] = offset(net.totalNeurons)
		net.totalNeurons += s
	}
	for l := 1; l < n; l++ {
		// one bias per neuron
		net.totalWeights += (net.sizes[l-1] + 1) * net.sizes[l]
	}

	net.weights = make([]float32, net.totalWeights)
	net.forwardWeights = make([]offset, net.totalNeurons)
	net.previousNeurons = make([]offset, net.totalNeurons)
	for i := 0; i < net.sizes[0]; i++ {
		net.forwardWeights[i] = noOffset
		net.previousNeurons[i] = noOffset
	}

	var sum offset
	neuron := net.sizes[0]
	for l := 1; l < n; l++ {
		for j := 0; j < net.sizes[l]; j, neuron = j+1, neuron+1 {
			net.previousNeurons[neuron] = net.heads[l-1]
			net.forwardWeights[neuron] = sum
			sum += offset(net.sizes[l-1] + 1)
		}
	}

	net.act = net.NewActivations()
	return net, nil
}

// Layers returns the number of layers, input and output included.
func (net *Network) Layers() int { return len(net.sizes) }

// LayerSizes returns a copy of the per layer neuron counts.
func (net *Network) LayerSizes() []int {
	retVal := make([]int, len(net.sizes))
	copy(retVal, net.sizes)
	return retVal
}

// OutputSize is the number of neurons in the output layer.
func (net *Network) OutputSize() int { return net.sizes[len(net.sizes)-1] }

// TotalNeurons is the length of the activation buffer.
func (net *Network) TotalNeurons() int { return net.totalNeurons }

// TotalWeights is the number of values Load expects.
func (net *Network) TotalWeights() int { return net.totalWeights }

// Weights returns a copy of the weight buffer in block order.
func (net *Network) Weights() []float32 {
	net.lock.RLock()
	retVal := make([]float32, len(net.weights))
	copy(retVal, net.weights)
	net.lock.RUnlock()
	return retVal
}

// Output is a view of the output layer activations computed by the last call to Evaluate.
func (net *Network) Output() []float32 { return net.act.Output() }

// Evaluate runs the forward pass on the network's own activation buffer and
// returns the index of the most active output neuron.
//
// Evaluate is not safe for concurrent use; use NewActivations to get storage per caller.
func (net *Network) Evaluate(input []float32) (int, error) { return net.act.Evaluate(input) }
