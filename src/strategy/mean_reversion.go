package strategy

import (
	"fmt"
	"math"

	"github.com/jiaming2012/mean-reversion-trader/src/indicators"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

type Config struct {
	LookbackPeriod int     `json:"lookback_period" schema:"lookback_period"`
	EntryThreshold float64 `json:"entry_threshold" schema:"entry_threshold"`
	ExitThreshold  float64 `json:"exit_threshold" schema:"exit_threshold"`
	LotSize        float64 `json:"lot_size" schema:"lot_size"`
}

func (c Config) Validate() error {
	if c.LookbackPeriod <= 0 {
		return fmt.Errorf("lookback period must be positive, got %d: %w", c.LookbackPeriod, models.ErrInvalidConfiguration)
	}

	if !isPositive(c.EntryThreshold) {
		return fmt.Errorf("entry threshold must be positive, got %v: %w", c.EntryThreshold, models.ErrInvalidConfiguration)
	}

	if !isPositive(c.ExitThreshold) {
		return fmt.Errorf("exit threshold must be positive, got %v: %w", c.ExitThreshold, models.ErrInvalidConfiguration)
	}

	if !isPositive(c.LotSize) {
		return fmt.Errorf("lot size must be positive, got %v: %w", c.LotSize, models.ErrInvalidConfiguration)
	}

	return nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func NewConfigFromYAML(cfg models.BacktestConfigYAML) Config {
	return Config{
		LookbackPeriod: cfg.LookbackPeriod,
		EntryThreshold: cfg.EntryThreshold,
		ExitThreshold:  cfg.ExitThreshold,
		LotSize:        cfg.LotSize,
	}
}

// MeanReversion is the z-score signal generator. It is the only owner of the position
// state; one instance must not be shared between concurrent runs.
type MeanReversion struct {
	cfg   Config
	state models.PositionState
}

func NewMeanReversion(cfg Config) (*MeanReversion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &MeanReversion{
		cfg:   cfg,
		state: models.PositionStateFlat,
	}, nil
}

func (s *MeanReversion) Config() Config {
	return s.cfg
}

func (s *MeanReversion) State() models.PositionState {
	return s.state
}

func (s *MeanReversion) Reset() {
	s.state = models.PositionStateFlat
}

// GenerateSignal evaluates the trailing LookbackPeriod closes of window and advances
// the position state. A window without variance never changes state.
func (s *MeanReversion) GenerateSignal(window []float64) (models.Transition, error) {
	if len(window) < s.cfg.LookbackPeriod {
		return models.Transition{}, fmt.Errorf("window has %d closes, need %d: %w", len(window), s.cfg.LookbackPeriod, models.ErrInvalidInput)
	}

	z, err := indicators.CalculateZScore(window[len(window)-s.cfg.LookbackPeriod:])
	if err != nil {
		return models.Transition{}, fmt.Errorf("GenerateSignal: %w", err)
	}

	tr := s.next(z)
	s.state = tr.After

	return tr, nil
}

func (s *MeanReversion) next(z indicators.ZScore) models.Transition {
	before := s.state
	if !z.Defined {
		return models.NewNoopTransition(before)
	}

	entry, exit := s.cfg.EntryThreshold, s.cfg.ExitThreshold

	switch {
	case z.Value < -entry && before != models.PositionStateLong:
		return models.Transition{Signal: models.SignalActionBuy, Before: before, After: models.PositionStateLong, Entered: true}
	case z.Value > entry && before != models.PositionStateShort:
		return models.Transition{Signal: models.SignalActionSell, Before: before, After: models.PositionStateShort, Entered: true}
	case before == models.PositionStateLong && z.Value > -exit:
		return models.Transition{Signal: models.SignalActionClose, Before: before, After: models.PositionStateFlat}
	case before == models.PositionStateShort && z.Value < exit:
		return models.Transition{Signal: models.SignalActionClose, Before: before, After: models.PositionStateFlat}
	default:
		return models.NewNoopTransition(before)
	}
}
