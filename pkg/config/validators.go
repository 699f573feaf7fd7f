package config

import (
	"os"
	"slices"

	log "github.com/sirupsen/logrus"
)

var validSRFTypes = []string{"uniform", "band", "multi_delta"}
var validGridTypes = []string{"discrete", "binned"}
var validQuadPolicies = []string{"", "fixed", "min_error", "error_threshold"}
var validFailurePolicies = []string{"", "fail_fast", "best_effort"}

func CheckPath(path string) {
	if path == "" {
		return
	}
	_, err := os.Stat(path)
	if err != nil {
		log.Fatal(err)
	}
}

// Validate terminates the run on configuration-shape errors. These indicate
// a static mismatch that re-running cannot fix.
func Validate(cfg RunConfiguration) {
	if !slices.Contains(validSRFTypes, cfg.SRFType) {
		log.Fatal("Invalid SRF type ", cfg.SRFType)
	}
	if !slices.Contains(validGridTypes, cfg.GridType) {
		log.Fatal("Invalid grid type ", cfg.GridType)
	}
	if !slices.Contains(validQuadPolicies, cfg.QuadPolicy) {
		log.Fatal("Invalid quadrature policy ", cfg.QuadPolicy)
	}
	if !slices.Contains(validFailurePolicies, cfg.FailurePolicy) {
		log.Fatal("Invalid failure policy ", cfg.FailurePolicy)
	}

	if cfg.SRFType == "band" && cfg.SRFPath == "" {
		log.Fatal("A band SRF requires a dataset path.")
	}
	if cfg.SRFType == "multi_delta" && len(cfg.SRFWavelengths) == 0 {
		log.Fatal("A multi-delta SRF requires at least one wavelength.")
	}
	if cfg.SRFRetention < 0 || cfg.SRFRetention > 1 {
		log.Fatal("SRF retention must be within [0, 1].")
	}

	if cfg.GridStep <= 0 {
		log.Fatal("Grid step must be positive.")
	}
	if cfg.GridStart >= cfg.GridStop {
		log.Fatal("Grid start must be below grid stop.")
	}

	CheckPath(cfg.SRFPath)
	CheckPath(cfg.AbsorptionDatasetPath)
}
