package neuronet

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"sync"

	"github.com/gorgonia/neuronet/mlp"
	"github.com/pkg/errors"
)

// Pool hands out a fixed set of evaluators of one network. It is safe for concurrent use.
type Pool struct {
	conf       Config
	evaluators chan Evaluator
	all        []Evaluator
	logger     *log.Logger

	closing sync.Mutex
}

// NewPool builds conf.Workers evaluators of net. conf must be valid and describe
// the layers of net. A nil logger discards the log.
func NewPool(net *mlp.Network, conf Config, logger *log.Logger) (p *Pool, err error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid config %+v", conf)
	}
	if !sameLayers(conf.Layers, net.LayerSizes()) {
		return nil, errors.Errorf("Config layers %v do not match the network's %v", conf.Layers, net.LayerSizes())
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	p = &Pool{
		conf:       conf,
		evaluators: make(chan Evaluator, conf.Workers),
		logger:     logger,
	}
	for i := 0; i < conf.Workers; i++ {
		var ev Evaluator
		if ev, err = NewEvaluator(net, conf); err != nil {
			p.Close()
			return nil, err
		}
		p.all = append(p.all, ev)
		p.evaluators <- ev
	}
	p.logger.Printf("%s: %d %v evaluators for layers %v", conf.Name, conf.Workers, conf.Backend, net.LayerSizes())
	return p, nil
}

// Workers is the number of evaluators in the pool.
func (p *Pool) Workers() int { return p.conf.Workers }

// Evaluate borrows an evaluator, runs it on input and returns the index of the most active output neuron.
func (p *Pool) Evaluate(input []float32) (int, error) {
	ev, ok := <-p.evaluators
	if !ok {
		return 0, errors.New("Pool is closed")
	}
	defer func() { p.evaluators <- ev }()

	idx, err := ev.Evaluate(input)
	if err != nil {
		if el, ok := ev.(ExecLogger); ok {
			p.logger.Println(el.ExecLog())
		}
		return 0, err
	}
	return idx, nil
}

// Close waits for every borrowed evaluator to come back and closes them all.
// Evaluate fails on a closed pool. Closing twice is a no-op.
func (p *Pool) Close() error {
	p.closing.Lock()
	defer p.closing.Unlock()
	if p.all == nil {
		return nil
	}
	for range p.all {
		<-p.evaluators
	}
	close(p.evaluators)

	var errs manyErr
	for _, ev := range p.all {
		if err := ev.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.all = nil
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type manyErr []error

func (err manyErr) Error() string {
	var buf bytes.Buffer
	for _, e := range err {
		fmt.Fprintln(&buf, e.Error())
	}
	return buf.String()
}

var (
	inputPoolLock sync.Mutex
	inputPool     = make(map[int]*sync.Pool)
)

func borrowInput(n int) []float32 {
	inputPoolLock.Lock()
	p, ok := inputPool[n]
	if !ok {
		p = &sync.Pool{
			New: func() interface{} { return make([]float32, n) },
		}
		inputPool[n] = p
	}
	inputPoolLock.Unlock()
	return p.Get().([]float32)
}

func returnInput(buf []float32) {
	inputPoolLock.Lock()
	p, ok := inputPool[len(buf)]
	inputPoolLock.Unlock()
	if ok {
		p.Put(buf)
	}
}

func sameLayers(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
