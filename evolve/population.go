package evolve

import (
	"errors"
	"math/rand/v2"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

var (
	// ErrEmptyPopulation is returned by New when asked for fewer than one individual.
	ErrEmptyPopulation = errors.New("population size must be at least 1")

	// ErrStaleEvaluation is returned when an Evaluation is used after the population it
	// scored has advanced to a new generation.
	ErrStaleEvaluation = errors.New("evaluation is stale: population advanced since it was scored")
)

// Individual pairs a genome with the fitness cached for it by the last Evaluate.
// A freshly crossed individual carries a zero fitness until it is evaluated.
type Individual[G any] struct {
	Genome  G
	Fitness Fitness
}

// Population holds a fixed number of individuals and the evaluation context they are scored against.
// Fitness values are only reachable through the Evaluation returned by Evaluate.
type Population[G Genome[G, C], C any] struct {
	individuals []Individual[G]
	ctx         C
	generation  int
	workers     int
	rng         *rand.Rand // master source, only touched by the calling goroutine
}

type options struct {
	workers int
	seed    uint64
}

// Option configures a Population at construction.
type Option func(*options)

// WithWorkers bounds the number of goroutines used by Evaluate and Advance.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithSeed seeds the master random source that parent selection and crossover draw from.
// Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// New creates a population of size individuals, calling gen once per slot.
// The context is owned by the population from here on and must not be modified by the caller.
func New[G Genome[G, C], C any](gen Generator[G, C], size int, ctx C, opts ...Option) (*Population[G, C], error) {
	if size < 1 {
		return nil, ErrEmptyPopulation
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	seed1, seed2 := o.seed, o.seed
	if o.seed == 0 {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}

	individuals := make([]Individual[G], size)
	for i := range individuals {
		individuals[i] = Individual[G]{Genome: gen(ctx, i)}
	}

	return &Population[G, C]{
		individuals: individuals,
		ctx:         ctx,
		workers:     o.workers,
		rng:         rand.New(rand.NewPCG(seed1, seed2)),
	}, nil
}

// Size returns the number of individuals. It never changes after New.
func (p *Population[G, C]) Size() int {
	return len(p.individuals)
}

// Generation returns how many times the population has advanced.
func (p *Population[G, C]) Generation() int {
	return p.generation
}

// Context returns the evaluation context.
func (p *Population[G, C]) Context() C {
	return p.ctx
}

// Evaluate recomputes the fitness of every individual in parallel and blocks until all are done.
// The returned Evaluation stays valid until the next Advance.
func (p *Population[G, C]) Evaluate() *Evaluation[G, C] {
	scored := make([]Individual[G], len(p.individuals))

	wp := pool.New().WithMaxGoroutines(p.workers)
	for i, ind := range p.individuals {
		wp.Go(func() {
			scored[i] = Individual[G]{Genome: ind.Genome, Fitness: ind.Genome.Fitness(p.ctx)}
		})
	}
	wp.Wait()

	p.individuals = scored
	return &Evaluation[G, C]{pop: p, generation: p.generation}
}

// Evaluation is a scored generation. Reading fitness or advancing is only possible through it,
// so nothing can observe the zeroed fitness of an unevaluated generation.
type Evaluation[G Genome[G, C], C any] struct {
	pop        *Population[G, C]
	generation int
}

// Generation returns the generation this evaluation scored.
func (e *Evaluation[G, C]) Generation() int {
	return e.generation
}

func (e *Evaluation[G, C]) check() error {
	if e.generation != e.pop.generation {
		return ErrStaleEvaluation
	}
	return nil
}

// Best returns the individual with the highest fitness. Ties go to the lowest index.
func (e *Evaluation[G, C]) Best() (Individual[G], error) {
	if err := e.check(); err != nil {
		return Individual[G]{}, err
	}
	best := e.pop.individuals[0]
	for _, ind := range e.pop.individuals[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best, nil
}

// MinFitness returns the lowest fitness in the generation.
func (e *Evaluation[G, C]) MinFitness() (Fitness, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	return minFitness(e.pop.individuals), nil
}

// Individuals returns a copy of the scored individuals in slot order.
func (e *Evaluation[G, C]) Individuals() ([]Individual[G], error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	out := make([]Individual[G], len(e.pop.individuals))
	copy(out, e.pop.individuals)
	return out, nil
}

// Weights returns the selection weight of every individual: its fitness minus the generation minimum.
func (e *Evaluation[G, C]) Weights() ([]int64, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return selectionWeights(e.pop.individuals), nil
}

// Stats summarizes the fitness distribution of the generation.
func (e *Evaluation[G, C]) Stats() (Stats, error) {
	if err := e.check(); err != nil {
		return Stats{}, err
	}
	return computeStats(e.generation, e.pop.individuals), nil
}
