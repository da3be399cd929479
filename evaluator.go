package neuronet

import (
	"github.com/gorgonia/neuronet/graphnet"
	"github.com/gorgonia/neuronet/mlp"
	"github.com/pkg/errors"
)

// flat adapts *mlp.Activations to Evaluator.
type flat struct {
	*mlp.Activations
}

func (flat) Close() error { return nil }

// NewEvaluator builds an evaluator of net for the backend chosen in conf.
// Each evaluator owns its activation storage, so different evaluators of the
// same network may run concurrently.
func NewEvaluator(net *mlp.Network, conf Config) (Evaluator, error) {
	switch conf.Backend {
	case Flat:
		return flat{net.NewActivations()}, nil
	case Graph:
		inf, err := graphnet.New(net, conf.ExecLog)
		if err != nil {
			return nil, err
		}
		return inf, nil
	}
	return nil, errors.Errorf("Unknown backend %v", conf.Backend)
}

// New creates a network from the layer sizes in conf.
func New(conf Config) (*mlp.Network, error) {
	net, err := mlp.New(conf.Layers...)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", conf.Name)
	}
	return net, nil
}
