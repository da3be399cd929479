package mlp

import "github.com/pkg/errors"

// Load replaces the network's weights with the first TotalWeights values of weights.
// If weights is too short, a LoadError is returned and the network is not modified.
func (net *Network) Load(weights []float32) error {
	if len(weights) < net.totalWeights {
		return errors.WithStack(LoadError{Have: len(weights), Want: net.totalWeights})
	}
	net.lock.Lock()
	copy(net.weights, weights[:net.totalWeights])
	net.lock.Unlock()
	return nil
}
