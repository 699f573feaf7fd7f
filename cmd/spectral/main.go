package main

import (
	"flag"
	"math"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/raysim/spectral/pkg/ckd"
	"github.com/raysim/spectral/pkg/config"
	"github.com/raysim/spectral/pkg/export"
	"github.com/raysim/spectral/pkg/grid"
	"github.com/raysim/spectral/pkg/spectral"
)

var (
	configPath = flag.String("config", "cmd/config.json", "Path to run configuration file")
	verbosity  = flag.String("verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
)

func init() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stdout)

	switch *verbosity {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// transmittanceKernel is the built-in stand-in for the rendering kernel: it
// evaluates the single-pass column transmittance of the absorbing medium at
// ground level, or unit radiance when no medium is configured.
func transmittanceKernel(ds *ckd.Dataset) spectral.Kernel {
	ground := ckd.State{Altitude: 0, Pressure: 101325, Temperature: 288.15}

	return func(idx spectral.Index) ([]float64, error) {
		if !idx.IsBinned() || ds == nil {
			return []float64{1}, nil
		}

		table, ok := ds.Table(idx.BinID)
		if !ok {
			return nil, &spectral.IndexEvaluationError{Index: idx}
		}

		k, err := table.AbsorptionCoefficient(idx.Node, ground)
		if err != nil {
			return nil, err
		}

		return []float64{math.Exp(-k)}, nil
	}
}

func main() {
	cfg := config.ReadConfigurationFile(*configPath)
	config.Validate(cfg)

	rf, err := cfg.ResponseFunction()
	if err != nil {
		log.Fatal(err)
	}

	defaultGrid, err := cfg.DefaultGrid()
	if err != nil {
		log.Fatal(err)
	}

	var ds *ckd.Dataset
	var mediumOverride grid.Grid
	if cfg.AbsorptionDatasetPath != "" {
		ds, err = ckd.LoadDataset(cfg.AbsorptionDatasetPath)
		if err != nil {
			log.Fatal(err)
		}

		override, err := ds.Grid()
		if err != nil {
			log.Fatal(err)
		}
		mediumOverride = override

		log.Infof("Absorption dataset supplies a %d-bin grid override", override.Len())
	}

	effective, err := grid.Build(defaultGrid, mediumOverride, rf)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Effective spectral grid has %d entries", effective.Len())

	plan, err := spectral.Enumerate(effective, ds, cfg.QuadraturePolicy())
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Run %s: dispatching %d spectral indexes", plan.RunID, len(plan.Indexes))

	for _, w := range plan.Warnings {
		log.Warn(w.String())
	}

	results := spectral.Evaluate(plan, transmittanceKernel(ds))

	result, err := spectral.Aggregate(plan, results, rf, cfg.AggregationPolicy())
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("Run %s: aggregate = %v (%d indexes dropped)", result.RunID, result.Value, result.Dropped)

	if cfg.OutputPathPrefix != "" {
		if err := export.WriteResult(result, cfg.OutputPathPrefix+"_result.csv"); err != nil {
			log.Fatal(err)
		}
		if err := export.WriteWeights(plan, result, cfg.OutputPathPrefix+"_weights.csv"); err != nil {
			log.Fatal(err)
		}
		log.Info("Results written to ", cfg.OutputPathPrefix, "_{result,weights}.csv")
	}
}
