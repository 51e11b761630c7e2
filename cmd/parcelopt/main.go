// parcelopt runs the subdivision optimizer on a scenario file and reports
// the recommended plan from the resulting Pareto front.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/parcelopt/parcelopt/pkg/subdivision/algorithms"
	"github.com/parcelopt/parcelopt/pkg/subdivision/fitness"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
	"github.com/parcelopt/parcelopt/pkg/subdivision/pareto"
	"github.com/parcelopt/parcelopt/pkg/subdivision/util"
)

type options struct {
	scenario    string
	seed        int64
	generations int
	population  int
	workers     int
	plot        string
}

func main() {
	klog.InitFlags(nil)
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	var o options
	flag.StringVar(&o.scenario, "scenario", "", "path to the scenario YAML file")
	flag.Int64Var(&o.seed, "seed", 0, "override the scenario's random seed")
	flag.IntVar(&o.generations, "generations", 0, "override the scenario's generation limit")
	flag.IntVar(&o.population, "population", 0, "override the scenario's population size")
	flag.IntVar(&o.workers, "workers", 0, "override the scenario's evaluation worker count")
	flag.StringVar(&o.plot, "plot", "", "write an HTML scatter plot of the front to this path")
	flag.Parse()

	if o.scenario == "" {
		fmt.Fprintln(os.Stderr, "usage: parcelopt --scenario <file.yaml> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(&o); err != nil {
		klog.ErrorS(err, "optimization failed")
		os.Exit(1)
	}
}

func run(o *options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scenario, err := layout.LoadScenario(o.scenario)
	if err != nil {
		return err
	}

	cfg := algorithms.ConfigFromSpec(scenario.Spec.GA)
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.generations > 0 {
		cfg.MaxGenerations = o.generations
	}
	if o.population > 0 {
		cfg.PopulationSize = o.population
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}

	oracle := fitness.NewCachedFinancial(fitness.NewCostModel(scenario.Spec.Financial), time.Hour)
	eval := fitness.NewEvaluator(scenario.Boundary, scenario.Constraints, fitness.Oracles{Financial: oracle})
	engine := algorithms.NewNSGAII(cfg, eval)

	klog.InfoS("starting optimization", "scenario", scenario.Name,
		"parcelArea", scenario.Boundary.Area(),
		"population", cfg.PopulationSize, "generations", cfg.MaxGenerations,
		"seed", cfg.Seed, "workers", cfg.Workers)

	start := time.Now()
	result := engine.Run(ctx)
	elapsed := time.Since(start)

	hits, misses := oracle.Stats()
	klog.InfoS("optimization finished", "reason", result.Reason,
		"generations", result.Generations, "frontSize", len(result.Front),
		"elapsed", elapsed.Round(time.Millisecond),
		"cacheHits", hits, "cacheMisses", misses,
		"oracleFailures", eval.OracleFailures())

	if len(result.Front) == 0 {
		return fmt.Errorf("run produced no evaluated plans")
	}

	printReport(scenario, result)

	if o.plot != "" {
		if err := util.PlotFront(result.Front, result.Population, scenario.Name, o.plot); err != nil {
			return err
		}
		klog.InfoS("wrote front plot", "path", o.plot)
	}
	return nil
}

func printReport(scenario *layout.Scenario, result *algorithms.Result) {
	rec := pareto.Recommend(result.Front)
	if rec == nil {
		fmt.Println("no decodable plan on the front")
		return
	}
	l := rec.Layout
	fv := rec.Fitness

	fmt.Printf("scenario:     %s\n", scenario.Name)
	fmt.Printf("parcel area:  %s m²\n", humanize.CommafWithDigits(scenario.Boundary.Area(), 0))
	fmt.Printf("front size:   %d plans, %d generations (%s)\n",
		len(result.Front), result.Generations, result.Reason)
	fmt.Println()
	fmt.Println("recommended plan:")
	fmt.Printf("  lots:          %d (%s m² sellable)\n", len(l.Lots), humanize.CommafWithDigits(l.LotArea(), 0))
	fmt.Printf("  roads:         %s m over %d segments\n", humanize.CommafWithDigits(l.TotalRoadLength(), 0), len(l.Roads))
	fmt.Printf("  green space:   %.1f%%\n", l.GreenRatio()*100)
	fmt.Printf("  financial:     %.2f%% return\n", fv.Financial)
	if fv.Report.Feasible {
		fmt.Printf("  constraints:   satisfied (soft penalty %.2f)\n", fv.Report.SoftPenalty)
	} else {
		fmt.Printf("  constraints:   INFEASIBLE, %d hard violations\n", fv.Report.HardViolations)
		for _, v := range fv.Report.Violations {
			fmt.Printf("    %-20s actual %s, required %s\n", v.Rule,
				humanize.CommafWithDigits(v.Actual, 2), humanize.CommafWithDigits(v.Required, 2))
		}
	}
}
