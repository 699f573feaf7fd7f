package config

import (
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"
)

// RunConfiguration describes one measurement evaluation: the response
// function, the default spectral grid, the absorption dataset supplying the
// medium grid override, and the quadrature and failure policies.
type RunConfiguration struct {
	Seed int64 `json:"Seed"`

	SRFType        string    `json:"SRFType"` // uniform, band, multi_delta
	SRFPath        string    `json:"SRFPath"`
	SRFWMin        float64   `json:"SRFWMin"`
	SRFWMax        float64   `json:"SRFWMax"`
	SRFValue       float64   `json:"SRFValue"`
	SRFWavelengths []float64 `json:"SRFWavelengths"`
	SRFRetention   float64   `json:"SRFRetention"`

	GridType  string  `json:"GridType"` // discrete, binned
	GridStart float64 `json:"GridStart"`
	GridStop  float64 `json:"GridStop"`
	GridStep  float64 `json:"GridStep"`

	AbsorptionDatasetPath string `json:"AbsorptionDatasetPath"`

	QuadPolicy      string  `json:"QuadPolicy"` // fixed, min_error, error_threshold
	QuadNodeCount   int     `json:"QuadNodeCount"`
	QuadErrorTarget float64 `json:"QuadErrorTarget"`

	FailurePolicy string `json:"FailurePolicy"` // fail_fast, best_effort

	OutputPathPrefix string `json:"OutputPathPrefix"`
}

func ReadConfigurationFile(path string) RunConfiguration {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	var config RunConfiguration
	err = json.Unmarshal(byteValue, &config)
	if err != nil {
		log.Fatal(err)
	}

	return config
}
