// Package raster implements an RGB image genome that evolves towards a target image.
package raster

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/esthedebeste/evolvers/evolve"
)

// Mutation controls the point mutations applied during crossover.
type Mutation struct {
	Rate    float64 // probability that a pixel is mutated
	Divisor int     // each channel moves by a random int8 divided by Divisor
}

// DefaultMutation mutates one pixel in a thousand by at most ±32 per channel.
var DefaultMutation = Mutation{Rate: 0.001, Divisor: 4}

// Target is the reference image genomes are scored against.
// It cannot be modified once built, so it is safe to share between fitness workers.
type Target struct {
	width, height int
	pix           []uint8 // RGB triples, row-major
}

// NewTarget copies img into a Target.
func NewTarget(img image.Image) *Target {
	w, h, pix := rgbPixels(img)
	return &Target{width: w, height: h, pix: pix}
}

// Bounds returns the size of the target in pixels.
func (t *Target) Bounds() (width, height int) {
	return t.width, t.height
}

// At returns the RGB value of the pixel at (x, y).
func (t *Target) At(x, y int) color.RGBA {
	i := (y*t.width + x) * 3
	return color.RGBA{R: t.pix[i], G: t.pix[i+1], B: t.pix[i+2], A: 0xff}
}

// Image is an RGB pixel buffer genome.
type Image struct {
	width, height int
	pix           []uint8 // RGB triples, row-major
	mutation      Mutation
}

var _ evolve.Genome[*Image, *Target] = (*Image)(nil)

// FromImage copies img into a genome that mutates with m.
func FromImage(img image.Image, m Mutation) *Image {
	w, h, pix := rgbPixels(img)
	return &Image{width: w, height: h, pix: pix, mutation: m}
}

// Random returns a generator of target-sized images with uniformly random pixels.
func Random(m Mutation) evolve.Generator[*Image, *Target] {
	return func(t *Target, _ int) *Image {
		pix := make([]uint8, len(t.pix))
		for i := range pix {
			pix[i] = uint8(rand.Uint32())
		}
		return &Image{width: t.width, height: t.height, pix: pix, mutation: m}
	}
}

// Bounds returns the size of the image in pixels.
func (img *Image) Bounds() (width, height int) {
	return img.width, img.height
}

// Cross builds a child whose every pixel comes from one of the two parents, chosen by coin flip.
// With probability Mutation.Rate the inherited pixel is shifted by a small random amount per channel;
// channel values wrap around instead of saturating. Both parents must have the same size.
func (img *Image) Cross(other *Image, rng *rand.Rand) *Image {
	child := &Image{
		width:    img.width,
		height:   img.height,
		pix:      make([]uint8, len(img.pix)),
		mutation: img.mutation,
	}
	divisor := img.mutation.Divisor
	if divisor < 1 {
		divisor = 1
	}

	for i := 0; i < len(child.pix); i += 3 {
		src := evolve.PickParent(rng, img, other).pix[i : i+3]
		if rng.Float64() < img.mutation.Rate {
			for c := 0; c < 3; c++ {
				delta := int(int8(rng.Uint32())) / divisor
				child.pix[i+c] = uint8(int(src[c]) + delta)
			}
			continue
		}
		copy(child.pix[i:i+3], src)
	}
	return child
}

// Fitness is MaxFitness minus the summed absolute channel difference to the target.
func (img *Image) Fitness(t *Target) evolve.Fitness {
	var distance int64
	for i, v := range img.pix {
		d := int64(v) - int64(t.pix[i])
		if d < 0 {
			d = -d
		}
		distance += d
	}
	f := int64(evolve.MaxFitness) - distance
	if f < math.MinInt32 {
		f = math.MinInt32
	}
	return evolve.Fitness(f)
}

// Distance converts a fitness produced by Image.Fitness back into the L1 distance to the target.
func Distance(f evolve.Fitness) int64 {
	return int64(evolve.MaxFitness) - int64(f)
}

// RGBA renders the genome as an opaque image.
func (img *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for p := 0; p < img.width*img.height; p++ {
		out.Pix[p*4] = img.pix[p*3]
		out.Pix[p*4+1] = img.pix[p*3+1]
		out.Pix[p*4+2] = img.pix[p*3+2]
		out.Pix[p*4+3] = 0xff
	}
	return out
}

func rgbPixels(img image.Image) (int, int, []uint8) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return w, h, pix
}
