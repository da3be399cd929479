// Command neuronet classifies IDX images with a multilayer perceptron.
//
//	neuronet -layers "784 128 10" -weights weights.bin -images t10k-images-idx3-ubyte.gz -labels t10k-labels-idx1-ubyte.gz
package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/gorgonia/neuronet"
	"github.com/gorgonia/neuronet/datasets/mnist"
	"github.com/gorgonia/neuronet/encoding/gif"
	"github.com/gorgonia/neuronet/mlp"
)

var (
	layers   = flag.String("layers", "784 128 10", "neurons per layer, input first")
	weights  = flag.String("weights", "", "little endian float32 weight file (.gz is gunzipped)")
	model    = flag.String("model", "", "gob encoded network to load instead of -layers and -weights")
	save     = flag.String("save", "", "write the loaded network as gob to this file")
	images   = flag.String("images", "", "IDX image file")
	labels   = flag.String("labels", "", "IDX label file")
	backend  = flag.String("backend", "flat", "evaluator backend: flat or graph")
	workers  = flag.Int("workers", 0, "number of evaluators, 0 for one per CPU")
	limit    = flag.Int("limit", 0, "classify at most this many images")
	statsOut = flag.String("stats", "", "write the confusion matrix as CSV to this file")
	gifOut   = flag.String("gif", "", "render the classified images to this gif")
	dotOut   = flag.String("dot", "", "write the layer graph in the dot language to this file")
	verbose  = flag.Bool("v", false, "log evaluator details")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	conf, net, err := setup()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("%s: layers %v, %d neurons, %d weights", conf.Name, net.LayerSizes(), net.TotalNeurons(), net.TotalWeights())

	if *save != "" {
		if err := writeModel(*save, net); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	if *dotOut != "" {
		if err := ioutil.WriteFile(*dotOut, []byte(net.ToDot()), 0644); err != nil {
			log.Fatal(err)
		}
	}
	if *images == "" {
		return
	}

	set, err := mnist.Open(*images, *labels)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "\t", log.Ltime)
	}
	p, err := neuronet.NewPool(net, conf, logger)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	defer p.Close()

	var enc neuronet.OutputEncoder
	if *gifOut != "" {
		f, err := os.OpenFile(*gifOut, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		g := gif.NewGifEncoder(600, 800)
		g.Writer = f
		enc = g
	}

	stats := neuronet.MakeStatistics(net.OutputSize())
	predictions, err := neuronet.Classify(p, set, *limit, &stats, enc)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if enc != nil {
		if err := enc.Flush(); err != nil {
			log.Fatal(err)
		}
	}
	if *statsOut != "" {
		if err := stats.Dump(*statsOut); err != nil {
			log.Fatal(err)
		}
	}

	if set.Labels == nil {
		for i, c := range predictions {
			fmt.Printf("%d\t%d\n", i, c)
		}
		return
	}
	fmt.Printf("%d images, %d correct, accuracy %.2f%%\n", stats.Total, stats.Correct, 100*stats.Accuracy())
}

func setup() (conf neuronet.Config, net *mlp.Network, err error) {
	conf = neuronet.DefaultConf()
	if conf.Backend, err = neuronet.ParseBackend(*backend); err != nil {
		return conf, nil, err
	}
	if *workers > 0 {
		conf.Workers = *workers
	}
	conf.ExecLog = *verbose

	if *model != "" {
		if net, err = readModel(*model); err != nil {
			return conf, nil, err
		}
		conf.Layers = net.LayerSizes()
		return conf, net, nil
	}

	if conf.Layers, err = neuronet.ParseLayers(*layers); err != nil {
		return conf, nil, err
	}
	if net, err = neuronet.New(conf); err != nil {
		return conf, nil, err
	}
	if *weights == "" {
		log.Printf("No weights given. All weights are zero.")
		return conf, net, nil
	}
	return conf, net, neuronet.LoadWeightsFile(*weights, net)
}

func readModel(filename string) (*mlp.Network, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	net := new(mlp.Network)
	if err = gob.NewDecoder(f).Decode(net); err != nil {
		return nil, err
	}
	return net, nil
}

func writeModel(filename string, net *mlp.Network) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(net)
}
