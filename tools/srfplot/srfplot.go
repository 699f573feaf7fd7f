package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/raysim/spectral/pkg/srf"
)

func main() {
	var (
		inputPath  = flag.String("i", "srf.csv", "Path to the SRF dataset CSV file")
		outputPath = flag.String("o", "srf.png", "Path to the output figure")
		retention  = flag.Float64("r", 0, "Trim the SRF to this retained integral fraction before plotting (0 disables trimming)")
		debugLevel = flag.String("d", "info", "Debug level: info, debug")
	)
	flag.Parse()
	log.SetOutput(os.Stdout)

	switch *debugLevel {
	case "info":
		log.SetLevel(log.InfoLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug mode is enabled")
	}

	band, err := srf.LoadBand(*inputPath)
	if err != nil {
		log.Fatal(err)
	}

	if *retention > 0 {
		band, err = srf.TrimBand(band, *retention)
		if err != nil {
			log.Fatal(err)
		}
		log.Infof("Trimmed SRF to %d samples", len(band.Wavelengths()))
	}

	plotFig(*outputPath, band)
}

func plotFig(outputPath string, band *srf.Band) {
	p := plot.New()

	p.Title.Text = "Spectral response function"
	p.X.Label.Text = "Wavelength [nm]"
	p.Y.Label.Text = "Response"
	p.Y.Min = 0

	err := plotutil.AddLinePoints(p,
		"SRF", getXY(band),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Save the plot to a PNG file.
	if err := p.Save(6*vg.Inch, 4*vg.Inch, outputPath); err != nil {
		log.Fatal(err)
	}
}

func getXY(band *srf.Band) plotter.XYs {
	wavelengths := band.Wavelengths()
	values := band.Values()

	pts := make(plotter.XYs, len(wavelengths))
	for i := range pts {
		pts[i].X = wavelengths[i]
		pts[i].Y = values[i]
	}

	return pts
}
