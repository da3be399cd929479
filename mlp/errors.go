package mlp

import "fmt"

// TopologyError is returned by New when the layer description cannot form a network.
type TopologyError struct {
	Layers int
	Sizes  []int
}

func (err TopologyError) Error() string {
	if err.Layers < 2 || err.Layers > MaxLayers {
		return fmt.Sprintf("layer count %d is less than 2 or larger than %d", err.Layers, MaxLayers)
	}
	return fmt.Sprintf("layer sizes %v must all be positive", err.Sizes)
}

// LoadError is returned when a weight source is shorter than the network requires.
// The network's weights are left untouched.
type LoadError struct {
	Have, Want int
}

func (err LoadError) Error() string {
	return fmt.Sprintf("weight source supplied %d values, network requires %d", err.Have, err.Want)
}

// ShapeMismatchError is returned when an input vector does not match the input layer.
type ShapeMismatchError struct {
	Have, Want int
}

func (err ShapeMismatchError) Error() string {
	return fmt.Sprintf("input has %d values, input layer has %d neurons", err.Have, err.Want)
}
