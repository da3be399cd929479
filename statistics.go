package neuronet

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics accumulates a confusion matrix of labels against predictions.
type Statistics struct {
	Confusion [][]int // [label][predicted]
	Total     int
	Correct   int
	Unlabeled int
}

// MakeStatistics returns empty Statistics for predictions in [0, classes).
func MakeStatistics(classes int) Statistics {
	s := Statistics{Confusion: make([][]int, classes)}
	for i := range s.Confusion {
		s.Confusion[i] = make([]int, classes)
	}
	return s
}

// Update records one prediction. Labels outside the matrix count as unlabeled.
func (s *Statistics) Update(label, predicted int) {
	s.Total++
	if label < 0 || label >= len(s.Confusion) || predicted < 0 || predicted >= len(s.Confusion) {
		s.Unlabeled++
		return
	}
	s.Confusion[label][predicted]++
	if label == predicted {
		s.Correct++
	}
}

// Accuracy is the fraction of labeled samples predicted correctly.
func (s *Statistics) Accuracy() float64 {
	labeled := s.Total - s.Unlabeled
	if labeled == 0 {
		return 0
	}
	return float64(s.Correct) / float64(labeled)
}

// Dump writes the confusion matrix as CSV, one row per label.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := make([]string, len(s.Confusion)+2)
	header[0] = "label"
	for i := range s.Confusion {
		header[i+1] = strconv.Itoa(i)
	}
	header[len(header)-1] = "recall"
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "writing header to %v", filename)
	}

	var records [][]string
	for label, row := range s.Confusion {
		record := make([]string, len(row)+2)
		record[0] = strconv.Itoa(label)
		var total int
		for j, c := range row {
			record[j+1] = strconv.Itoa(c)
			total += c
		}
		var recall float64
		if total > 0 {
			recall = float64(row[label]) / float64(total)
		}
		record[len(record)-1] = strconv.FormatFloat(recall, 'f', 3, 64)
		records = append(records, record)
	}
	if err := w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "writing %d rows to %v", len(records), filename)
	}
	w.Flush()
	return errors.WithStack(w.Error())
}
