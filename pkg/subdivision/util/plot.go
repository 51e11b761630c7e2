package util

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/parcelopt/parcelopt/pkg/subdivision/framework"
)

// PlotFront renders the final Pareto front as an HTML scatter chart of
// financial return against lot count, with dominated population members
// shown alongside for contrast.
func PlotFront(front, population []*framework.Individual, scenarioName, path string) error {
	if len(front) == 0 {
		return fmt.Errorf("front is empty for scenario %s", scenarioName)
	}

	// Create scatter chart
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Pareto Front for %s", scenarioName),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "lots",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "financial return",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	onFront := make(map[*framework.Individual]bool, len(front))
	frontData := make([]opts.ScatterData, len(front))
	for i, ind := range front {
		onFront[ind] = true
		frontData[i] = opts.ScatterData{
			Value:      []float64{ind.Fitness.LotCount, ind.Fitness.Financial},
			Symbol:     "circle",
			SymbolSize: 10,
		}
	}

	var restData []opts.ScatterData
	for _, ind := range population {
		if onFront[ind] {
			continue
		}
		restData = append(restData, opts.ScatterData{
			Value:      []float64{ind.Fitness.LotCount, ind.Fitness.Financial},
			Symbol:     "triangle",
			SymbolSize: 10,
		})
	}

	// Add data series
	scatter.AddSeries("Pareto Front", frontData).
		AddSeries("Dominated Plans", restData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	// Create HTML file
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return scatter.Render(f)
}
