package neuronet

import (
	"testing"

	"github.com/gorgonia/neuronet/mlp"
	"github.com/stretchr/testify/assert"
)

var layerStrings = []struct {
	s       string
	correct []int
	err     bool
}{
	{"784 128 10", []int{784, 128, 10}, false},
	{"784,128,10", []int{784, 128, 10}, false},
	{" 2,  2 1 ", []int{2, 2, 1}, false},
	{"", []int{}, false},
	{"784 x 10", nil, true},
}

func TestParseLayers(t *testing.T) {
	for _, c := range layerStrings {
		layers, err := ParseLayers(c.s)
		if c.err {
			assert.Error(t, err, "%q", c.s)
			continue
		}
		assert.NoError(t, err, "%q", c.s)
		assert.Equal(t, c.correct, layers, "%q", c.s)
	}
}

func TestDefaultConfig(t *testing.T) {
	if !DefaultConf(784, 128, 10).IsValid() {
		t.Errorf("Expected Default Config to be correct")
	}

	bad := []Config{
		DefaultConf(784),
		DefaultConf(make([]int, mlp.MaxLayers+1)...),
		DefaultConf(784, 0, 10),
		{Layers: []int{2, 2}, Workers: 0},
		{Layers: []int{2, 2}, Workers: 1, Backend: MAXBACKEND},
	}
	for _, conf := range bad {
		assert.False(t, conf.IsValid(), "%+v", conf)
	}
}

func TestBackend(t *testing.T) {
	for b := Flat; b < MAXBACKEND; b++ {
		parsed, err := ParseBackend(b.String())
		assert.NoError(t, err)
		assert.Equal(t, b, parsed)
	}
	b, err := ParseBackend("GRAPH")
	assert.NoError(t, err)
	assert.Equal(t, Graph, b)

	_, err = ParseBackend("fpga")
	assert.Error(t, err)
	assert.Equal(t, "Backend(7)", Backend(7).String())
}
