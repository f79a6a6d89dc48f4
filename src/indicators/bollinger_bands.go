package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// BollingerBands are the price levels Width population standard deviations either side
// of the window mean. A close beyond Lower or Upper has a z-score beyond -Width or +Width.
type BollingerBands struct {
	Upper         float64
	Lower         float64
	MovingAverage float64
	Defined       bool
}

func (b BollingerBands) String() string {
	if !b.Defined {
		return "undefined"
	}

	return fmt.Sprintf("[%.4f, %.4f, %.4f]", b.Lower, b.MovingAverage, b.Upper)
}

func CalculateBollingerBands(window []float64, width float64) (BollingerBands, error) {
	if len(window) == 0 {
		return BollingerBands{}, fmt.Errorf("failed to calculate bollinger bands: empty window")
	}

	flat, err := isFlat(window)
	if err != nil {
		return BollingerBands{}, err
	}

	movingAverage, err := stats.Mean(window)
	if err != nil {
		return BollingerBands{}, fmt.Errorf("failed to caculate mean: %w", err)
	}

	sd, err := stats.StandardDeviationPopulation(window)
	if err != nil {
		return BollingerBands{}, fmt.Errorf("failed to caculate the standard deviation: %w", err)
	}

	if flat {
		return BollingerBands{Upper: window[0], Lower: window[0], MovingAverage: window[0]}, nil
	}

	return BollingerBands{
		Upper:         movingAverage + (width * sd),
		Lower:         movingAverage - (width * sd),
		MovingAverage: movingAverage,
		Defined:       true,
	}, nil
}
