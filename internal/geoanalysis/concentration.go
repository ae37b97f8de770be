package geoanalysis

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/model"
)

// shareTolerance is the acceptable floating drift when shares are checked
// against summing to 1.
const shareTolerance = 1e-6

// HHI thresholds on the [0,1] scale.
const (
	fragmentedBelow   = 0.15
	concentratedAbove = 0.25
)

// ErrInvariant means an internal consistency check failed. It indicates a
// bug upstream and is never silently corrected.
var ErrInvariant = eris.New("geoanalysis: invariant violation")

// Concentration computes the Herfindahl index over country shares. The
// shares must sum to 1 within tolerance. An empty share list (empty
// snapshot) yields the zero index.
func Concentration(shares []float64) (model.ConcentrationResult, error) {
	if len(shares) == 0 {
		return model.ConcentrationResult{Index: 0, Label: model.ConcentrationFragmented}, nil
	}

	sum := 0.0
	index := 0.0
	for _, s := range shares {
		sum += s
		index += s * s
	}
	if math.Abs(sum-1) > shareTolerance {
		return model.ConcentrationResult{}, eris.Wrapf(ErrInvariant,
			"country shares sum to %.9f, want 1", sum)
	}

	index = math.Round(index*10000) / 10000
	return model.ConcentrationResult{Index: index, Label: labelFor(index)}, nil
}

func labelFor(index float64) model.ConcentrationLabel {
	switch {
	case index < fragmentedBelow:
		return model.ConcentrationFragmented
	case index > concentratedAbove:
		return model.ConcentrationConcentrated
	default:
		return model.ConcentrationModerate
	}
}
