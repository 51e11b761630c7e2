// Package algorithms implements the evolutionary engine: an NSGA-II style
// generational loop over subdivision genomes with tournament selection,
// crossover, mutation, repair and elitism.
package algorithms

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"k8s.io/klog/v2"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/framework"
	"github.com/parcelopt/parcelopt/pkg/subdivision/genome"
)

const (
	Name = "NSGA-II"
)

// State is the engine's phase within a run.
type State string

const (
	StateInitializing State = "Initializing"
	StateEvaluating   State = "Evaluating"
	StateSelecting    State = "Selecting"
	StateVarying      State = "Varying"
	StateTerminated   State = "Terminated"
)

// TerminationReason records why a run stopped.
type TerminationReason string

const (
	ReasonMaxGenerations TerminationReason = "max_generations"
	ReasonPlateau        TerminationReason = "plateau"
	ReasonCancelled      TerminationReason = "cancelled"
)

// Evaluator resolves the fitness of one individual. Implementations must
// be safe for concurrent use; the engine calls it from a worker pool.
type Evaluator interface {
	Evaluate(ind *framework.Individual)
}

// Config are the engine parameters.
type Config struct {
	PopulationSize int
	MaxGenerations int
	CrossoverRate  float64
	MutationRate   float64
	EliteCount     int
	TournamentSize int
	PlateauWindow  int
	Workers        int
	Seed           int64
}

// ConfigFromSpec maps the scenario's GA section onto engine parameters.
func ConfigFromSpec(ga v1alpha1.GASpec) Config {
	return Config{
		PopulationSize: ga.PopulationSize,
		MaxGenerations: ga.MaxGenerations,
		CrossoverRate:  ga.CrossoverRate,
		MutationRate:   ga.MutationRate,
		EliteCount:     ga.EliteCount,
		TournamentSize: ga.TournamentSize,
		PlateauWindow:  ga.PlateauWindow,
		Workers:        ga.Workers,
		Seed:           ga.Seed,
	}
}

// GenerationStats is one generation's diagnostic record. BestFinancial is
// the penalized financial objective, the same quantity elitism preserves,
// so it never regresses within a run; MeanFinancial is the raw mean.
type GenerationStats struct {
	Generation    int     `json:"generation"`
	BestFinancial float64 `json:"bestFinancial"`
	MeanFinancial float64 `json:"meanFinancial"`
	FrontSize     int     `json:"frontSize"`
	FeasibleCount int     `json:"feasibleCount"`
}

// Result is what a run returns: the best-known Pareto front, the final
// population, and per-generation diagnostics. A cancelled run still
// returns the best front found so far.
type Result struct {
	Front       []*framework.Individual
	Population  []*framework.Individual
	Generations int
	Stats       []GenerationStats
	Reason      TerminationReason
}

// NSGAII is the engine. All randomness flows through the seeded rng, so a
// run is reproducible from its config.
type NSGAII struct {
	cfg   Config
	eval  Evaluator
	rng   *rand.Rand
	state State
}

// NewNSGAII creates an engine from validated config.
func NewNSGAII(cfg Config, eval Evaluator) *NSGAII {
	return &NSGAII{
		cfg:   cfg,
		eval:  eval,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		state: StateInitializing,
	}
}

// State returns the engine's current phase.
func (n *NSGAII) State() State { return n.state }

// Run executes the generational loop until max generations, a financial
// plateau, or cancellation. Cancellation is cooperative: the context is
// polled once per generation boundary and an in-flight generation always
// finishes evaluating.
func (n *NSGAII) Run(ctx context.Context) *Result {
	n.state = StateInitializing
	population := make([]*framework.Individual, n.cfg.PopulationSize)
	for i := range population {
		population[i] = &framework.Individual{Genome: genome.NewRandom(n.rng)}
	}

	result := &Result{Reason: ReasonMaxGenerations}
	bestFinancial := math.Inf(-1)
	sinceImproved := 0

	for gen := 0; gen < n.cfg.MaxGenerations; gen++ {
		if ctx.Err() != nil {
			result.Reason = ReasonCancelled
			break
		}

		// Barrier: every individual's fitness resolves before selection.
		n.state = StateEvaluating
		n.evaluateAll(population)

		fronts := framework.NonDominatedSort(population)
		for _, front := range fronts {
			framework.CrowdingDistance(front)
		}
		front := fronts[0]
		result.Front = front
		result.Population = population
		result.Generations = gen + 1

		stats := collectStats(gen, population, front)
		result.Stats = append(result.Stats, stats)
		klog.V(2).InfoS("generation complete", "algorithm", Name,
			"generation", gen, "bestFinancial", stats.BestFinancial,
			"frontSize", stats.FrontSize, "feasible", stats.FeasibleCount)

		if stats.BestFinancial > bestFinancial+1e-12 {
			bestFinancial = stats.BestFinancial
			sinceImproved = 0
		} else {
			sinceImproved++
			if n.cfg.PlateauWindow > 0 && sinceImproved >= n.cfg.PlateauWindow {
				result.Reason = ReasonPlateau
				break
			}
		}

		if gen == n.cfg.MaxGenerations-1 {
			break
		}

		n.state = StateSelecting
		parents := n.selectParents(population)

		n.state = StateVarying
		population = n.vary(front, parents)
	}

	n.state = StateTerminated
	return result
}

// evaluateAll fans the unevaluated individuals out over the worker pool.
// Each worker writes only to its own individuals, so the wait group is the
// only synchronization needed.
func (n *NSGAII) evaluateAll(population []*framework.Individual) {
	workers := n.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(population) {
		workers = len(population)
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				n.eval.Evaluate(population[i])
			}
		}()
	}
	for i := range population {
		idx <- i
	}
	close(idx)
	wg.Wait()
}

// selectParents fills the parent pool by tournament: sample k uniformly,
// keep the dominance-rank winner, ties broken by crowding distance and
// then by the financial objective.
func (n *NSGAII) selectParents(population []*framework.Individual) []*framework.Individual {
	parents := make([]*framework.Individual, len(population))
	for i := range parents {
		best := population[n.rng.Intn(len(population))]
		for k := 1; k < n.cfg.TournamentSize; k++ {
			challenger := population[n.rng.Intn(len(population))]
			if n.beats(challenger, best) {
				best = challenger
			}
		}
		parents[i] = best
	}
	return parents
}

func (n *NSGAII) beats(a, b *framework.Individual) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Objectives[framework.ObjFinancial] > b.Objectives[framework.ObjFinancial]
}

// vary builds the next generation: elites carried forward unchanged, the
// rest bred from the parent pool with crossover, mutation and repair.
func (n *NSGAII) vary(front, parents []*framework.Individual) []*framework.Individual {
	next := make([]*framework.Individual, 0, n.cfg.PopulationSize)
	next = append(next, n.elites(front)...)

	for len(next) < n.cfg.PopulationSize {
		p1 := parents[n.rng.Intn(len(parents))]
		p2 := parents[n.rng.Intn(len(parents))]
		c1, c2 := genome.Crossover(p1.Genome, p2.Genome, n.cfg.CrossoverRate, n.rng)
		c1 = genome.Mutate(c1, n.cfg.MutationRate, n.rng)
		c2 = genome.Mutate(c2, n.cfg.MutationRate, n.rng)

		next = append(next, &framework.Individual{Genome: c1})
		if len(next) < n.cfg.PopulationSize {
			next = append(next, &framework.Individual{Genome: c2})
		}
	}
	return next
}

// elites picks up to EliteCount members of the first front, always
// including the best financial individual so the best-known return never
// regresses, then the most spread-out by crowding distance.
func (n *NSGAII) elites(front []*framework.Individual) []*framework.Individual {
	count := n.cfg.EliteCount
	if count <= 0 || len(front) == 0 {
		return nil
	}
	if count > len(front) {
		count = len(front)
	}

	bestFin := front[0]
	for _, ind := range front[1:] {
		if ind.Objectives[framework.ObjFinancial] > bestFin.Objectives[framework.ObjFinancial] {
			bestFin = ind
		}
	}

	byDistance := make([]*framework.Individual, len(front))
	copy(byDistance, front)
	sort.SliceStable(byDistance, func(i, j int) bool {
		return byDistance[i].Distance > byDistance[j].Distance
	})

	out := []*framework.Individual{bestFin}
	for _, ind := range byDistance {
		if len(out) == count {
			break
		}
		if ind != bestFin {
			out = append(out, ind)
		}
	}
	return out
}

func collectStats(gen int, population, front []*framework.Individual) GenerationStats {
	stats := GenerationStats{
		Generation:    gen,
		BestFinancial: math.Inf(-1),
		FrontSize:     len(front),
	}
	sum := 0.0
	for _, ind := range population {
		sum += ind.Fitness.Financial
		if fin := ind.Objectives[framework.ObjFinancial]; fin > stats.BestFinancial {
			stats.BestFinancial = fin
		}
		if ind.Fitness.Report.Feasible {
			stats.FeasibleCount++
		}
	}
	stats.MeanFinancial = sum / float64(len(population))
	return stats
}
