// Package config holds the algorithm constants that are read once at
// load time and never change during a run. These are distinct from the
// CLI-visible policy thresholds, which live as flag.* variables in
// cmd/combfold and are threaded through explicitly.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Static is the set of load-time-immutable algorithm constants. The zero
// value is not valid; use Defaults() or Load().
type Static struct {
	// GridResolution is the bucket cell size r (Angstrom) of the uniform
	// spatial hash grid.
	GridResolution float64 `json:"grid_resolution"`
	// GridMargins is a bounding-box margin (Angstrom). It is loaded with
	// the other constants, but the sparse subunit grid has no bounding box
	// and no package reads this value.
	GridMargins float64 `json:"grid_margins"`
	// BackboneAtomRadius is the unified per-atom radius (Angstrom) used
	// for max-penetration-depth queries: no element-specific radius table
	// is exposed in any input file format here, so a single backbone
	// radius stands in for it.
	BackboneAtomRadius float64 `json:"backbone_atom_radius"`
	// DuplicatePlacementEpsilon is the minimum translation distance
	// (Angstrom) two placements of the same SubunitType must differ by
	// to count as distinct. Defaults to 4.0, the default GridResolution;
	// Load replaces a non-positive value with the loaded GridResolution.
	DuplicatePlacementEpsilon float64 `json:"duplicate_placement_epsilon"`
	// ConstraintEpsilon is the ε floor in the violation-ratio
	// denominator.
	ConstraintEpsilon float64 `json:"constraint_epsilon"`
	// ConstraintBonusWeight is w_xlink, the fixed scale applied to the
	// satisfied-restraint-weight fraction before adding it to a SuperBB's
	// score.
	ConstraintBonusWeight float64 `json:"constraint_bonus_weight"`
}

// Defaults returns the compiled-in default Static configuration.
func Defaults() *Static {
	return &Static{
		GridResolution:            4.0,
		GridMargins:               2.0,
		BackboneAtomRadius:        1.9,
		DuplicatePlacementEpsilon: 4.0, // == default GridResolution
		ConstraintEpsilon:         1e-9,
		ConstraintBonusWeight:     1.0,
	}
}

// Load returns Defaults() overlaid with any fields present in the JSON
// file at path. An empty path returns Defaults() unmodified. The result
// is never mutated again for the lifetime of a run.
func Load(path string) (*Static, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if cfg.DuplicatePlacementEpsilon <= 0 {
		cfg.DuplicatePlacementEpsilon = cfg.GridResolution
	}
	return cfg, nil
}
