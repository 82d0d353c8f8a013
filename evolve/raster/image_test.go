package raster

import (
	"image"
	"image/color"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esthedebeste/evolvers/evolve"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFitnessIsInvertedDistance(t *testing.T) {
	target := NewTarget(solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))

	same := FromImage(solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), DefaultMutation)
	assert.Equal(t, evolve.MaxFitness, same.Fitness(target))
	assert.Zero(t, Distance(same.Fitness(target)))

	black := FromImage(solid(2, 2, color.NRGBA{A: 255}), DefaultMutation)
	assert.Equal(t, evolve.MaxFitness-240, black.Fitness(target))
	assert.Equal(t, int64(240), Distance(black.Fitness(target)))

	// Distance is symmetric per channel.
	white := FromImage(solid(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), DefaultMutation)
	assert.Equal(t, int64(4*(245+235+225)), Distance(white.Fitness(target)))
}

func TestTargetAt(t *testing.T) {
	img := solid(3, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.Set(2, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	target := NewTarget(img)

	w, h := target.Bounds()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, target.At(2, 1))
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, target.At(0, 0))
}

func TestCrossWithoutMutationInheritsParentPixels(t *testing.T) {
	noMutation := Mutation{Rate: 0, Divisor: 4}
	red := FromImage(solid(8, 8, color.NRGBA{R: 255, A: 255}), noMutation)
	blue := FromImage(solid(8, 8, color.NRGBA{B: 255, A: 255}), noMutation)
	rng := rand.New(rand.NewPCG(1, 1))

	child := red.Cross(blue, rng)
	w, h := child.Bounds()
	require.Equal(t, 8, w)
	require.Equal(t, 8, h)

	fromRed, fromBlue := 0, 0
	rendered := child.RGBA()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch rendered.RGBAAt(x, y) {
			case color.RGBA{R: 255, A: 255}:
				fromRed++
			case color.RGBA{B: 255, A: 255}:
				fromBlue++
			default:
				t.Fatalf("pixel (%d, %d) comes from neither parent", x, y)
			}
		}
	}
	assert.Positive(t, fromRed)
	assert.Positive(t, fromBlue)

	// Parents are left untouched.
	assert.Equal(t, color.RGBA{R: 255, A: 255}, red.RGBA().RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, blue.RGBA().RGBAAt(3, 3))
}

func TestCrossMutationIsBoundedAndWraps(t *testing.T) {
	always := Mutation{Rate: 1, Divisor: 4}
	parent := FromImage(solid(16, 16, color.NRGBA{R: 0, G: 128, B: 255, A: 255}), always)
	rng := rand.New(rand.NewPCG(2, 2))

	child := parent.Cross(parent, rng)
	changed := 0
	for i, v := range child.pix {
		delta := int8(v - parent.pix[i])
		assert.True(t, delta >= -32 && delta <= 31, "channel %d moved by %d", i, delta)
		if delta != 0 {
			changed++
		}
	}
	assert.Positive(t, changed)
}

func TestRandomMatchesTargetSize(t *testing.T) {
	target := NewTarget(solid(5, 3, color.Black))
	img := Random(DefaultMutation)(target, 0)

	w, h := img.Bounds()
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)
	assert.Len(t, img.pix, 5*3*3)
}

func TestSaveAndLoadTarget(t *testing.T) {
	src := solid(4, 4, color.NRGBA{R: 9, G: 99, B: 199, A: 255})
	src.Set(1, 2, color.NRGBA{R: 250, G: 5, B: 60, A: 255})
	img := FromImage(src, DefaultMutation)

	path := filepath.Join(t.TempDir(), "curr.png")
	require.NoError(t, img.Save(path))

	target, err := LoadTarget(path)
	require.NoError(t, err)
	assert.Equal(t, evolve.MaxFitness, img.Fitness(target))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadTarget(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorContains(t, err, "failed to open image")
}

func TestPopulationApproachesTarget(t *testing.T) {
	target := NewTarget(solid(4, 4, color.NRGBA{R: 200, G: 40, B: 120, A: 255}))
	pop, err := evolve.New(Random(DefaultMutation), 60, target, evolve.WithSeed(99))
	require.NoError(t, err)

	first, err := pop.Evaluate().Best()
	require.NoError(t, err)

	for gen := 0; gen < 100; gen++ {
		require.NoError(t, pop.Evaluate().Advance())
	}
	last, err := pop.Evaluate().Best()
	require.NoError(t, err)

	assert.Equal(t, 60, pop.Size())
	assert.Less(t, Distance(last.Fitness), Distance(first.Fitness))
}
