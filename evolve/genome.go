package evolve

import (
	"math"
	"math/rand/v2"
)

// Fitness is the score of a genome. Higher is better.
type Fitness int32

// MaxFitness is the largest representable fitness. Genomes that score by distance
// usually report MaxFitness minus the distance.
const MaxFitness Fitness = math.MaxInt32

// Genome is the capability every candidate solution type implements.
// G is the concrete genome type and C the shared evaluation context it is scored against.
type Genome[G any, C any] interface {
	// Cross produces a fresh child from the receiver and other.
	// rng belongs to the calling worker and must be the only random source used.
	Cross(other G, rng *rand.Rand) G

	// Fitness scores the genome against ctx. It is called concurrently for every
	// individual of a generation and must not modify the genome or the context.
	Fitness(ctx C) Fitness
}

// Generator creates the genome for slot index of the initial population.
type Generator[G any, C any] func(ctx C, index int) G

// PickParent returns a or b with equal probability.
// Crossover implementations use it for per-locus parent choice.
func PickParent[T any](rng *rand.Rand, a, b T) T {
	if rng.IntN(2) == 0 {
		return a
	}
	return b
}
