// Package congestion classifies traffic flow by the ratio of current to
// free-flow speed.
package congestion

import (
	"math"

	"github.com/nmishr/geo-dashboard/internal/models"
)

const (
	LabelSmooth   = "Smooth"
	LabelModerate = "Moderate"
	LabelHeavy    = "Heavy"
)

// Classify returns the congestion ratio (rounded to 2 decimals for display)
// and its qualitative band. Both are nil when either speed is absent or the
// free-flow speed is not positive.
func Classify(current, freeFlow *float64) (*float64, *string) {
	if current == nil || freeFlow == nil || *freeFlow <= 0 {
		return nil, nil
	}

	ratio := *current / *freeFlow

	var label string
	switch {
	case ratio >= 0.85:
		label = LabelSmooth
	case ratio >= 0.60:
		label = LabelModerate
	default:
		label = LabelHeavy
	}

	rounded := math.Round(ratio*100) / 100
	return &rounded, models.StringPtr(label)
}
