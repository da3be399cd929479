package neuronet

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	s := MakeStatistics(3)
	assert.Equal(t, 0.0, s.Accuracy())

	s.Update(0, 0)
	s.Update(1, 1)
	s.Update(1, 2)
	s.Update(2, 2)
	s.Update(-1, 2) // unlabeled
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Correct)
	assert.Equal(t, 1, s.Unlabeled)
	assert.InDelta(t, 0.75, s.Accuracy(), 1e-9)
	assert.Equal(t, [][]int{{1, 0, 0}, {0, 1, 1}, {0, 0, 1}}, s.Confusion)

	dir, err := ioutil.TempDir("", "stats")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	filename := filepath.Join(dir, "stats.csv")
	require.NoError(t, s.Dump(filename))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"label", "0", "1", "2", "recall"},
		{"0", "1", "0", "0", "1.000"},
		{"1", "0", "1", "1", "0.500"},
		{"2", "0", "0", "1", "1.000"},
	}, records)
}

func TestStatisticsDumpError(t *testing.T) {
	s := MakeStatistics(2)
	err := s.Dump(filepath.Join("no", "such", "dir", "stats.csv"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)), "%+v", err)
	_, ok := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, ok, "Dump errors carry a stack")
}
