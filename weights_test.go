package neuronet

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorgonia/neuronet/mlp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteWeights(t *testing.T) {
	w := []float32{1, -2.5, 0, 3.25e-3}
	var buf bytes.Buffer
	require.NoError(t, WriteWeights(&buf, w))
	assert.Equal(t, 16, buf.Len())
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf.Bytes()[:4], "1.0 in little endian")

	got, err := ReadWeights(&buf, len(w))
	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestReadWeightsShort(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeights(&buf, []float32{1, 2, 3}))
	buf.WriteByte(0) // a partial fourth value

	_, err := ReadWeights(&buf, 9)
	require.Error(t, err)
	assert.Equal(t, mlp.LoadError{Have: 3, Want: 9}, errors.Cause(err))

	_, err = ReadWeights(bytes.NewReader(nil), 1)
	assert.Equal(t, mlp.LoadError{Have: 0, Want: 1}, errors.Cause(err))
}

func TestWeightsFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "weights_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	src := exampleNet(t)
	for _, name := range []string{"w.bin", "w.bin.gz"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, SaveWeightsFile(filename, src))

		dst, err := mlp.New(2, 2, 1)
		require.NoError(t, err)
		require.NoError(t, LoadWeightsFile(filename, dst))
		assert.Equal(t, src.Weights(), dst.Weights(), name)
	}

	// a bigger network needs more weights than the file holds
	big, err := mlp.New(3, 3, 3)
	require.NoError(t, err)
	err = LoadWeightsFile(filepath.Join(dir, "w.bin"), big)
	require.Error(t, err)
	assert.IsType(t, mlp.LoadError{}, errors.Cause(err))
	assert.Equal(t, make([]float32, big.TotalWeights()), big.Weights())

	assert.Error(t, LoadWeightsFile(filepath.Join(dir, "missing.bin"), big))
}
