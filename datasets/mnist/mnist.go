// Package mnist reads images and labels in the IDX format the MNIST database is distributed in.
package mnist

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	imageMagic = 0x00000803
	labelMagic = 0x00000801

	// MaxDim bounds the rows and columns of an image.
	MaxDim = 1 << 12

	// headers are not trusted for preallocation beyond this many images
	prealloc = 1 << 16
)

// Set is a set of equally sized 8 bit grey images and, optionally, their labels.
type Set struct {
	Rows, Cols int
	Images     [][]byte
	Labels     []byte // nil if the set is unlabeled
}

// Len is the number of images.
func (s *Set) Len() int { return len(s.Images) }

// Label returns the label of image i, or -1 if the set is unlabeled.
func (s *Set) Label(i int) int {
	if s.Labels == nil {
		return -1
	}
	return int(s.Labels[i])
}

// ReadImages reads an IDX3 image file.
func ReadImages(r io.Reader) (images [][]byte, rows, cols int, err error) {
	var hdr [4]uint32
	if err = binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, 0, 0, errors.Wrap(err, "reading image header")
	}
	if hdr[0] != imageMagic {
		return nil, 0, 0, errors.Errorf("Bad image magic number %#x", hdr[0])
	}
	n, rows, cols := int(hdr[1]), int(hdr[2]), int(hdr[3])
	if rows < 1 || cols < 1 || rows > MaxDim || cols > MaxDim {
		return nil, 0, 0, errors.Errorf("Image size %dx%d is not within 1x1 and %dx%d", rows, cols, MaxDim, MaxDim)
	}

	images = make([][]byte, 0, minInt(n, prealloc))
	for i := 0; i < n; i++ {
		img := make([]byte, rows*cols)
		if _, err = io.ReadFull(r, img); err != nil {
			return nil, 0, 0, errors.Wrapf(err, "reading image %d of %d (%dx%d)", i, n, rows, cols)
		}
		images = append(images, img)
	}
	return images, rows, cols, nil
}

// ReadLabels reads an IDX1 label file.
func ReadLabels(r io.Reader) ([]byte, error) {
	var hdr [2]uint32
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, errors.Wrap(err, "reading label header")
	}
	if hdr[0] != labelMagic {
		return nil, errors.Errorf("Bad label magic number %#x", hdr[0])
	}
	labels, err := ioutil.ReadAll(io.LimitReader(r, int64(hdr[1])))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %d labels", hdr[1])
	}
	if len(labels) != int(hdr[1]) {
		return nil, errors.Wrapf(io.ErrUnexpectedEOF, "reading %d labels, got %d", hdr[1], len(labels))
	}
	return labels, nil
}

// Open reads a set from an image file and an optional label file. Files ending
// in .gz are gunzipped.
func Open(imagesPath, labelsPath string) (*Set, error) {
	s := new(Set)
	err := withFile(imagesPath, func(r io.Reader) (err error) {
		s.Images, s.Rows, s.Cols, err = ReadImages(r)
		return
	})
	if err != nil {
		return nil, err
	}
	if labelsPath == "" {
		return s, nil
	}

	err = withFile(labelsPath, func(r io.Reader) (err error) {
		s.Labels, err = ReadLabels(r)
		return
	})
	if err != nil {
		return nil, err
	}
	if len(s.Labels) != len(s.Images) {
		return nil, errors.Errorf("%v has %d labels for %d images in %v", labelsPath, len(s.Labels), len(s.Images), imagesPath)
	}
	return s, nil
}

func withFile(filename string, fn func(io.Reader) error) error {
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
	if err = fn(r); err != nil {
		return errors.Wrapf(err, "%v", filename)
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
