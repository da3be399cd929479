package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/neuronet"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `#100000 predicted 9 label 9`
	greys           = 64
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var (
	wrong = color.RGBA{0xd0, 0x20, 0x20, 0xff}
	right = color.RGBA{0x20, 0xa0, 0x20, 0xff}
)

var globPalette = func() color.Palette {
	p := make(color.Palette, 0, greys+2)
	for i := 0; i < greys; i++ {
		p = append(p, color.Gray{uint8(i * 255 / (greys - 1))})
	}
	return append(p, wrong, right)
}()

// Encoder draws every classified sample as one frame of an animated gif,
// according to the neuronet.OutputEncoder interface
type Encoder struct {
	H, W  int
	Scale int // each input pixel is drawn as a Scale×Scale block
	Delay int // per frame, in 100ths of a second
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewGifEncoder with height and width
func NewGifEncoder(h, w int) *Encoder {
	return &Encoder{
		H:     -1,
		W:     -1,
		Scale: 4,
		Delay: 50,
		maxH:  h,
		maxW:  w,
		padH:  10,
		padW:  10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Encode a sample
func (enc *Encoder) Encode(s neuronet.Sample) error {
	if len(s.Pixels) != s.Rows*s.Cols {
		return fmt.Errorf("sample %d has %d pixels, expected %dx%d", s.Index, len(s.Pixels), s.Rows, s.Cols)
	}
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))

	if !enc.initialized {
		// lazy init of specifications
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		textW := font.MeasureString(enc.Face, dummyLongString).Ceil()
		w := maxInt(textW, s.Cols*enc.Scale) + 2*enc.padW
		h := s.Rows*enc.Scale + 2*dy + 2*enc.padH // two lines of text under the image

		w = minInt(w, enc.maxW)
		h = minInt(h, enc.maxH)
		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}

		enc.H = h
		enc.W = w
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)

	// the digit, white on black as in the data set
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			idx := uint8(grey(s.Pixels[r*s.Cols+c]))
			for y := 0; y < enc.Scale; y++ {
				for x := 0; x < enc.Scale; x++ {
					px, py := enc.padW+c*enc.Scale+x, enc.padH+r*enc.Scale+y
					if px < enc.W && py < enc.H {
						im.SetColorIndex(px, py, idx)
					}
				}
			}
		}
	}

	y := enc.padH + s.Rows*enc.Scale + dy
	enc.Dst = im
	enc.Src = image.Black
	enc.Dot = fixed.P(enc.padW, y)
	enc.DrawString(fmt.Sprintf("#%d predicted %d", s.Index, s.Predicted))
	y += dy

	if s.Label >= 0 {
		enc.Src = image.NewUniform(wrong)
		verdict := "wrong"
		if s.Label == s.Predicted {
			enc.Src = image.NewUniform(right)
			verdict = "right"
		}
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(fmt.Sprintf("label %d, %s", s.Label, verdict))
	}

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, enc.Delay)
	return nil
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error { return gif.EncodeAll(enc.Writer, enc.out) }

// Frames is the number of samples encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// grey maps a pixel to its palette index.
func grey(p byte) int {
	v := math32.Min(math32.Max(float32(p)/255, 0), 1)
	return int(v*(greys-1) + 0.5)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
