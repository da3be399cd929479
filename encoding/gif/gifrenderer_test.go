package gif

import (
	"bytes"
	"image/gif"
	"testing"

	"github.com/gorgonia/neuronet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrey(t *testing.T) {
	assert.Equal(t, 0, grey(0))
	assert.Equal(t, greys-1, grey(255))
	assert.Equal(t, 32, grey(130))
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewGifEncoder(400, 600)
	enc.Writer = &buf

	pix := make([]byte, 28*28)
	for i := range pix {
		pix[i] = byte(i)
	}
	samples := []neuronet.Sample{
		{Index: 0, Pixels: pix, Rows: 28, Cols: 28, Label: 7, Predicted: 7},
		{Index: 1, Pixels: pix, Rows: 28, Cols: 28, Label: 2, Predicted: 1},
		{Index: 2, Pixels: pix, Rows: 28, Cols: 28, Label: -1, Predicted: 3},
	}
	for _, s := range samples {
		require.NoError(t, enc.Encode(s))
	}
	assert.Equal(t, 3, enc.Frames())
	assert.Error(t, enc.Encode(neuronet.Sample{Pixels: pix[:10], Rows: 28, Cols: 28}))

	require.NoError(t, enc.Flush())
	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, g.Image, 3)
	b := g.Image[0].Bounds()
	assert.Equal(t, enc.W, b.Dx())
	assert.Equal(t, enc.H, b.Dy())
}
