// Package evolvers provides a generic evolutionary-optimization engine for Go.
//
// The engine keeps a fixed-size population of genomes, scores every genome in parallel against a
// shared read-only context, and replaces the whole population each generation with children of
// parents drawn in proportion to how far their fitness lies above the generation minimum.
// Any type implementing evolve.Genome plugs in; evolve/raster evolves an image towards a target.
//
// Basic usage:
//
//	target, err := raster.LoadTarget("target.png")
//	if err != nil {
//		log.Fatalf("Error loading target: %v", err)
//	}
//
//	// Create a population of random images
//	pop, err := evolve.New(raster.Random(raster.DefaultMutation), 1000, target)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	for {
//		ev := pop.Evaluate()
//		best, _ := ev.Best()
//		fmt.Println(ev.Generation(), raster.Distance(best.Fitness))
//		if err := ev.Advance(); err != nil {
//			log.Fatalf("Error advancing: %v", err)
//		}
//	}
package evolvers
