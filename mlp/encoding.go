package mlp

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
)

// GobEncode encodes the layer sizes followed by the weights.
func (net *Network) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(net.sizes); err != nil {
		return nil, errors.WithStack(err)
	}
	net.lock.RLock()
	err := enc.Encode(net.weights)
	net.lock.RUnlock()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// GobDecode rebuilds the network from the output of GobEncode. The network
// must be a zero Network: changing the topology of a built network requires a
// new one.
func (net *Network) GobDecode(p []byte) error {
	net.lock.RLock()
	have := net.sizes
	net.lock.RUnlock()
	if have != nil {
		return errors.Errorf("Cannot decode into a network that already has layers %v", have)
	}

	dec := gob.NewDecoder(bytes.NewBuffer(p))
	var sizes []int
	if err := dec.Decode(&sizes); err != nil {
		return errors.WithStack(err)
	}
	var weights []float32
	if err := dec.Decode(&weights); err != nil {
		return errors.WithStack(err)
	}

	fresh, err := New(sizes...)
	if err != nil {
		return err
	}
	if err = fresh.Load(weights); err != nil {
		return err
	}

	net.lock.Lock()
	net.sizes = fresh.sizes
	net.heads = fresh.heads
	net.totalNeurons = fresh.totalNeurons
	net.totalWeights = fresh.totalWeights
	net.weights = fresh.weights
	net.forwardWeights = fresh.forwardWeights
	net.previousNeurons = fresh.previousNeurons
	net.act = net.NewActivations()
	net.lock.Unlock()
	return nil
}
