package neuronet

import "gorgonia.org/vecf32"

// EncodeImage encodes 8 bit grey levels as activations in [0, 1].
func EncodeImage(pix []byte, prealloc []float32) []float32 {
	if len(prealloc) != len(pix) {
		prealloc = make([]float32, len(pix))
	}
	for i := range pix {
		prealloc[i] = float32(pix[i])
	}
	vecf32.Scale(prealloc, 1/float32(255))
	return prealloc
}
