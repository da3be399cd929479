package neuronet

import (
	"sync"

	"github.com/gorgonia/neuronet/datasets/mnist"
	"github.com/pkg/errors"
)

// Classify evaluates the first limit images of set (all of them if limit <= 0)
// across the workers of p. Predictions are recorded in stats and passed to enc
// in input order. Either of stats and enc may be nil.
func Classify(p *Pool, set *mnist.Set, limit int, stats *Statistics, enc OutputEncoder) ([]int, error) {
	n := set.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	predictions := make([]int, n)

	work := make(chan int)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error
	for w := 0; w < p.Workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				input := EncodeImage(set.Images[i], borrowInput(len(set.Images[i])))
				idx, err := p.Evaluate(input)
				returnInput(input)
				if err != nil {
					once.Do(func() { firstErr = errors.Wrapf(err, "image %d", i) })
					continue
				}
				predictions[i] = idx
			}
		}()
	}
	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	for i, predicted := range predictions {
		label := set.Label(i)
		if stats != nil {
			stats.Update(label, predicted)
		}
		if enc == nil {
			continue
		}
		s := Sample{
			Index:     i,
			Pixels:    set.Images[i],
			Rows:      set.Rows,
			Cols:      set.Cols,
			Label:     label,
			Predicted: predicted,
		}
		if err := enc.Encode(s); err != nil {
			return predictions, err
		}
	}
	return predictions, nil
}
