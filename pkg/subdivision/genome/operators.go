package genome

import "math/rand"

// Crossover recombines two parents into two children. With probability
// crossoverRate it applies one- or two-point crossover (the point count is
// drawn from rng); otherwise the children are plain copies. Parents are
// never modified. Children are repaired before being returned.
func Crossover(a, b Genome, crossoverRate float64, rng *rand.Rand) (Genome, Genome) {
	child1 := a.Clone()
	child2 := b.Clone()

	if rng.Float64() < crossoverRate {
		points := 1
		if rng.Float64() < 0.5 {
			points = 2
		}
		lo := rng.Intn(Length)
		hi := Length
		if points == 2 {
			hi = lo + 1 + rng.Intn(Length-lo)
		}
		for i := lo; i < hi; i++ {
			child1[i], child2[i] = child2[i], child1[i]
		}
	}

	return Repair(child1), Repair(child2)
}

// Mutate perturbs each gene with probability mutationRate by a uniform
// delta of up to ±0.25, then repairs the genome in place.
func Mutate(g Genome, mutationRate float64, rng *rand.Rand) Genome {
	for i := range g {
		if rng.Float64() < mutationRate {
			g[i] += (rng.Float64() - 0.5) * 0.5
		}
	}
	return Repair(g)
}
