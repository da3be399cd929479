package mlp

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Activations is the neuron value storage for one evaluation at a time. Several
// Activations created from the same Network may evaluate concurrently.
type Activations struct {
	net     *Network
	neurons []float32
	output  []float32 // aliases the output layer segment of neurons
}

// NewActivations allocates activation storage for net.
func (net *Network) NewActivations() *Activations {
	neurons := make([]float32, net.totalNeurons)
	return &Activations{
		net:     net,
		neurons: neurons,
		output:  neurons[net.heads[len(net.heads)-1]:],
	}
}

// Output is a view of the output layer computed by the last Evaluate.
func (a *Activations) Output() []float32 { return a.output }

// Evaluate copies input into the input layer, propagates it through every
// layer and returns the index of the most active output neuron.
func (a *Activations) Evaluate(input []float32) (int, error) {
	net := a.net
	net.lock.RLock()
	defer net.lock.RUnlock()
	if len(input) != net.sizes[0] {
		return 0, errors.WithStack(ShapeMismatchError{Have: len(input), Want: net.sizes[0]})
	}
	copy(a.neurons, input)

	neuron := net.sizes[0]
	for l := 1; l < len(net.sizes); l++ {
		links := net.sizes[l-1]
		for j := 0; j < net.sizes[l]; j, neuron = j+1, neuron+1 {
			a.neurons[neuron] = a.fire(neuron, links)
		}
	}

	return Argmax(a.output), nil
}

// fire computes the activation of the given neuron from the preceding layer.
// The caller holds the read lock.
func (a *Activations) fire(neuron, links int) float32 {
	net := a.net
	prev := a.neurons[net.previousNeurons[neuron]:]
	w := net.weights[net.forwardWeights[neuron]:]

	var inner float32
	for k := 0; k < links; k++ {
		inner += prev[k] * w[k]
	}
	inner += w[links] // the last weight of a block is the bias
	return relu(inner)
}

// evaluateOneNeuron computes only the first neuron of layer 1 from whatever the
// input layer currently holds.
func (a *Activations) evaluateOneNeuron() float32 {
	net := a.net
	net.lock.RLock()
	defer net.lock.RUnlock()
	neuron := net.sizes[0]
	a.neurons[neuron] = a.fire(neuron, neuron)
	return a.neurons[neuron]
}

func relu(x float32) float32 {
	if x < 0 {
		return 0
	}
	return x
}

// Argmax returns the index of the largest value in a. Ties go to the first index.
func Argmax(a []float32) int {
	var retVal int
	var max float32 = math32.Inf(-1)
	for i := range a {
		if a[i] > max {
			max = a[i]
			retVal = i
		}
	}
	return retVal
}
