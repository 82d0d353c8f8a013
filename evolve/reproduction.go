package evolve

import (
	"math/rand/v2"
	"sort"

	"github.com/sourcegraph/conc/pool"
)

// Advance replaces the scored generation with a new one of the same size.
//
// Every slot of the new generation is the child of two parents drawn independently with
// probability proportional to (fitness - minimum fitness). The least fit individuals therefore
// never reproduce. When every individual has the same fitness all weights are zero and parents
// are drawn uniformly instead. The children start with zero fitness; call Evaluate before
// reading them.
func (e *Evaluation[G, C]) Advance() error {
	if err := e.check(); err != nil {
		return err
	}
	p := e.pop
	current := p.individuals
	wheel := newRoulette(current)

	// Seeds are drawn up front so the master source is never shared between workers.
	seeds := make([][2]uint64, len(current))
	for i := range seeds {
		seeds[i] = [2]uint64{p.rng.Uint64(), p.rng.Uint64()}
	}

	next := make([]Individual[G], len(current))
	wp := pool.New().WithMaxGoroutines(p.workers)
	for i := range next {
		seed := seeds[i]
		wp.Go(func() {
			rng := rand.New(rand.NewPCG(seed[0], seed[1]))
			a := current[wheel.pick(rng)].Genome
			b := current[wheel.pick(rng)].Genome
			next[i] = Individual[G]{Genome: a.Cross(b, rng)}
		})
	}
	wp.Wait()

	p.individuals = next
	p.generation++
	return nil
}

func minFitness[G any](individuals []Individual[G]) Fitness {
	lowest := individuals[0].Fitness
	for _, ind := range individuals[1:] {
		if ind.Fitness < lowest {
			lowest = ind.Fitness
		}
	}
	return lowest
}

// selectionWeights shifts every fitness by the generation minimum so the weakest weighs 0.
// int64 keeps the difference of two int32 values exact.
func selectionWeights[G any](individuals []Individual[G]) []int64 {
	lowest := int64(minFitness(individuals))
	weights := make([]int64, len(individuals))
	for i, ind := range individuals {
		weights[i] = int64(ind.Fitness) - lowest
	}
	return weights
}

// roulette is a cumulative weight table for fitness-proportionate sampling.
// It is read-only after construction and safe to share between workers.
type roulette struct {
	cumulative []int64
	total      int64
}

func newRoulette[G any](individuals []Individual[G]) roulette {
	weights := selectionWeights(individuals)
	cumulative := make([]int64, len(weights))
	var total int64
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	return roulette{cumulative: cumulative, total: total}
}

// pick returns the index of the sampled individual.
// Zero total weight falls back to a uniform draw.
func (r roulette) pick(rng *rand.Rand) int {
	if r.total == 0 {
		return rng.IntN(len(r.cumulative))
	}
	spin := rng.Int64N(r.total)
	// First slot whose running total passes the spin; zero-weight slots never qualify.
	return sort.Search(len(r.cumulative), func(i int) bool {
		return r.cumulative[i] > spin
	})
}
