package evolve

import (
	"gonum.org/v1/gonum/stat"
)

// Stats describes the fitness distribution of one evaluated generation.
type Stats struct {
	Generation int
	Size       int
	Best       Fitness
	Worst      Fitness
	Mean       float64
	StdDev     float64 // sample standard deviation, 0 for a single individual
}

func computeStats[G any](generation int, individuals []Individual[G]) Stats {
	values := make([]float64, len(individuals))
	s := Stats{
		Generation: generation,
		Size:       len(individuals),
		Best:       individuals[0].Fitness,
		Worst:      individuals[0].Fitness,
	}
	for i, ind := range individuals {
		values[i] = float64(ind.Fitness)
		if ind.Fitness > s.Best {
			s.Best = ind.Fitness
		}
		if ind.Fitness < s.Worst {
			s.Worst = ind.Fitness
		}
	}

	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
