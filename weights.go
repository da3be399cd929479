package neuronet

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gorgonia/neuronet/mlp"
	"github.com/pkg/errors"
)

// ReadWeights reads n little endian float32 values from r. If r ends early the
// error is an mlp.LoadError carrying the number of values that were available.
func ReadWeights(r io.Reader, n int) ([]float32, error) {
	raw := make([]byte, 4*n)
	read, err := io.ReadFull(r, raw)
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		return nil, errors.WithStack(mlp.LoadError{Have: read / 4, Want: n})
	default:
		return nil, errors.WithStack(err)
	}

	retVal := make([]float32, n)
	for i := range retVal {
		retVal[i] = math32.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return retVal, nil
}

// WriteWeights writes w as little endian float32 values.
func WriteWeights(wr io.Writer, w []float32) error {
	buf := make([]byte, 4)
	for _, v := range w {
		binary.LittleEndian.PutUint32(buf, math32.Float32bits(v))
		if _, err := wr.Write(buf); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// LoadWeightsFile reads the weights of net from filename. Files ending in .gz are gunzipped.
func LoadWeightsFile(filename string, net *mlp.Network) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return errors.Wrapf(err, "gunzipping %v", filename)
		}
		defer gz.Close()
		r = gz
	}

	w, err := ReadWeights(r, net.TotalWeights())
	if err != nil {
		return errors.Wrapf(err, "reading %v", filename)
	}
	return net.Load(w)
}

// SaveWeightsFile writes the weights of net to filename in the format LoadWeightsFile reads.
func SaveWeightsFile(filename string, net *mlp.Network) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var wr io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(filename, ".gz") {
		gz = gzip.NewWriter(f)
		wr = gz
	}
	bw := bufio.NewWriter(wr)
	if err = WriteWeights(bw, net.Weights()); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.WithStack(err)
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
