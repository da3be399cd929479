package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageFile(n, rows, cols int) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, []uint32{imageMagic, uint32(n), uint32(rows), uint32(cols)})
	for i := 0; i < n*rows*cols; i++ {
		buf.WriteByte(byte(i))
	}
	return buf.Bytes()
}

func labelFile(labels ...byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, []uint32{labelMagic, uint32(len(labels))})
	buf.Write(labels)
	return buf.Bytes()
}

func TestReadImages(t *testing.T) {
	images, rows, cols, err := ReadImages(bytes.NewReader(imageFile(3, 2, 2)))
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, [][]byte{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9, 10, 11}}, images)
}

func TestReadImagesErrors(t *testing.T) {
	bad := imageFile(1, 2, 2)
	bad[3] = 0x01
	_, _, _, err := ReadImages(bytes.NewReader(bad))
	assert.Error(t, err, "bad magic")

	short := imageFile(2, 2, 2)
	_, _, _, err = ReadImages(bytes.NewReader(short[:len(short)-1]))
	assert.Error(t, err, "truncated")

	_, _, _, err = ReadImages(bytes.NewReader(nil))
	assert.Error(t, err, "empty")
}

func header(fields ...uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, fields)
	return buf.Bytes()
}

func TestReadImagesHostileHeader(t *testing.T) {
	// claims four billion images but carries one
	huge := append(header(imageMagic, 1<<32-1, 2, 2), 1, 2, 3, 4)
	_, _, _, err := ReadImages(bytes.NewReader(huge))
	assert.Error(t, err)

	_, _, _, err = ReadImages(bytes.NewReader(header(imageMagic, 1, MaxDim+1, 1)))
	assert.Error(t, err, "too many rows")

	_, _, _, err = ReadImages(bytes.NewReader(header(imageMagic, 1<<32-1, 0, 0)))
	assert.Error(t, err, "empty images")
}

func TestReadLabels(t *testing.T) {
	labels, err := ReadLabels(bytes.NewReader(labelFile(7, 2, 1)))
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 2, 1}, labels)

	_, err = ReadLabels(bytes.NewReader(imageFile(1, 1, 1)))
	assert.Error(t, err)

	_, err = ReadLabels(bytes.NewReader(append(header(labelMagic, 1<<32-1), 5, 6)))
	assert.Error(t, err, "header claims more labels than present")
}

func TestOpen(t *testing.T) {
	dir, err := ioutil.TempDir("", "mnist")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	imgPath := filepath.Join(dir, "images-idx3-ubyte.gz")
	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	gz.Write(imageFile(2, 3, 3))
	require.NoError(t, gz.Close())
	require.NoError(t, ioutil.WriteFile(imgPath, gzBuf.Bytes(), 0644))

	lblPath := filepath.Join(dir, "labels-idx1-ubyte")
	require.NoError(t, ioutil.WriteFile(lblPath, labelFile(4, 9), 0644))

	s, err := Open(imgPath, lblPath)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 3, s.Cols)
	assert.Equal(t, 9, s.Label(1))

	unlabeled, err := Open(imgPath, "")
	require.NoError(t, err)
	assert.Equal(t, -1, unlabeled.Label(0))

	require.NoError(t, ioutil.WriteFile(lblPath, labelFile(4), 0644))
	_, err = Open(imgPath, lblPath)
	assert.Error(t, err, "label count mismatch")

	_, err = Open(filepath.Join(dir, "missing"), "")
	assert.Error(t, err)
}
