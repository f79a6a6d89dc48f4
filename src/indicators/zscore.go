package indicators

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// ZScore is a tagged result: Value is only meaningful when Defined is true. A window
// with zero variance has no z-score.
type ZScore struct {
	Value   float64
	Defined bool
}

func UndefinedZScore() ZScore {
	return ZScore{}
}

func (z ZScore) String() string {
	if !z.Defined {
		return "undefined"
	}

	return fmt.Sprintf("%.4f", z.Value)
}

// CalculateZScore measures how far the last value of the window lies from the window
// mean, in population standard deviations.
func CalculateZScore(window []float64) (ZScore, error) {
	if len(window) == 0 {
		return ZScore{}, fmt.Errorf("failed to calculate z-score: empty window")
	}

	flat, err := isFlat(window)
	if err != nil {
		return ZScore{}, err
	}

	if flat {
		return UndefinedZScore(), nil
	}

	mean, err := stats.Mean(window)
	if err != nil {
		return ZScore{}, fmt.Errorf("failed to calculate mean: %w", err)
	}

	sd, err := stats.StandardDeviationPopulation(window)
	if err != nil {
		return ZScore{}, fmt.Errorf("failed to calculate the standard deviation: %w", err)
	}

	if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return UndefinedZScore(), nil
	}

	value := (window[len(window)-1] - mean) / sd
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return UndefinedZScore(), nil
	}

	return ZScore{Value: value, Defined: true}, nil
}

// isFlat reports whether every value of window is the same. The rounded mean of a
// constant window can differ from its values, leaving a tiny non-zero deviation.
func isFlat(window []float64) (bool, error) {
	lo, err := stats.Min(window)
	if err != nil {
		return false, fmt.Errorf("failed to calculate min: %w", err)
	}

	hi, err := stats.Max(window)
	if err != nil {
		return false, fmt.Errorf("failed to calculate max: %w", err)
	}

	return lo == hi, nil
}
