package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

func newTestStrategy(t *testing.T) *MeanReversion {
	s, err := NewMeanReversion(Config{
		LookbackPeriod: 3,
		EntryThreshold: 1.0,
		ExitThreshold:  0.5,
		LotSize:        1.0,
	})
	require.NoError(t, err)

	return s
}

func TestConfigValidate(t *testing.T) {
	valid := Config{LookbackPeriod: 20, EntryThreshold: 2, ExitThreshold: 1, LotSize: 1}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("rejects non-positive values", func(t *testing.T) {
		cases := map[string]func(c *Config){
			"lookback":       func(c *Config) { c.LookbackPeriod = 0 },
			"entry":          func(c *Config) { c.EntryThreshold = -1 },
			"exit":           func(c *Config) { c.ExitThreshold = 0 },
			"lot size":       func(c *Config) { c.LotSize = 0 },
			"negative lookb": func(c *Config) { c.LookbackPeriod = -5 },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				cfg := valid
				mutate(&cfg)

				_, err := NewMeanReversion(cfg)
				assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
			})
		}
	})
}

func TestGenerateSignal(t *testing.T) {
	t.Run("constant window emits none and keeps state", func(t *testing.T) {
		s := newTestStrategy(t)

		tr, err := s.GenerateSignal([]float64{10, 10, 10})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionNone, tr.Signal)
		assert.Equal(t, models.PositionStateFlat, s.State())

		// a constant window must not close an open position either
		_, err = s.GenerateSignal([]float64{10, 10, 4})
		require.NoError(t, err)
		require.Equal(t, models.PositionStateLong, s.State())

		tr, err = s.GenerateSignal([]float64{7, 7, 7})
		require.NoError(t, err)
		assert.Equal(t, models.SignalActionNone, tr.Signal)
		assert.Equal(t, models.PositionStateLong, s.State())
	})

	t.Run("constant windows with inexact means keep state", func(t *testing.T) {
		constant := func(value float64, length int) []float64 {
			window := make([]float64, length)
			for i := range window {
				window[i] = value
			}
			return window
		}

		for _, value := range []float64{0.1, 100.1, 5123.7} {
			for _, length := range []int{3, 7, 20} {
				cfg := Config{LookbackPeriod: length, EntryThreshold: 0.5, ExitThreshold: 0.25, LotSize: 1}

				flat, err := NewMeanReversion(cfg)
				require.NoError(t, err)

				tr, err := flat.GenerateSignal(constant(value, length))
				require.NoError(t, err)
				assert.Equal(t, models.SignalActionNone, tr.Signal, "flat, value %v, length %d", value, length)
				assert.Equal(t, models.PositionStateFlat, flat.State())

				long, err := NewMeanReversion(cfg)
				require.NoError(t, err)

				// z = -sqrt(length-1) on the last close
				dip := constant(value, length)
				dip[length-1] = value - 1
				_, err = long.GenerateSignal(dip)
				require.NoError(t, err)
				require.Equal(t, models.PositionStateLong, long.State())

				tr, err = long.GenerateSignal(constant(value, length))
				require.NoError(t, err)
				assert.Equal(t, models.SignalActionNone, tr.Signal, "long, value %v, length %d", value, length)
				assert.Equal(t, models.PositionStateLong, long.State())
			}
		}
	})

	t.Run("buy below the entry band", func(t *testing.T) {
		s := newTestStrategy(t)

		tr, err := s.GenerateSignal([]float64{10, 10, 4})
		require.NoError(t, err)

		assert.Equal(t, models.Transition{
			Signal:  models.SignalActionBuy,
			Before:  models.PositionStateFlat,
			After:   models.PositionStateLong,
			Entered: true,
		}, tr)
		assert.Equal(t, models.PositionStateLong, s.State())
	})

	t.Run("sell above the entry band", func(t *testing.T) {
		s := newTestStrategy(t)

		tr, err := s.GenerateSignal([]float64{10, 10, 16})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionSell, tr.Signal)
		assert.True(t, tr.Entered)
		assert.Equal(t, models.PositionStateShort, s.State())
	})

	t.Run("no repeated entry on the same side", func(t *testing.T) {
		s := newTestStrategy(t)

		_, err := s.GenerateSignal([]float64{10, 10, 4})
		require.NoError(t, err)

		tr, err := s.GenerateSignal([]float64{10, 10, 9})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionNone, tr.Signal)
		assert.False(t, tr.Entered)
		assert.Equal(t, models.PositionStateLong, s.State())
	})

	t.Run("close long when z crosses back above -exit", func(t *testing.T) {
		s := newTestStrategy(t)

		_, err := s.GenerateSignal([]float64{10, 10, 4})
		require.NoError(t, err)

		tr, err := s.GenerateSignal([]float64{9, 11, 10})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionClose, tr.Signal)
		assert.Equal(t, models.PositionStateLong, tr.Before)
		assert.Equal(t, models.PositionStateFlat, tr.After)
		assert.Equal(t, models.PositionStateLong, tr.ClosedSide())
		assert.Equal(t, models.PositionStateFlat, s.State())
	})

	t.Run("close short when z crosses back below exit", func(t *testing.T) {
		s := newTestStrategy(t)

		_, err := s.GenerateSignal([]float64{10, 10, 16})
		require.NoError(t, err)

		tr, err := s.GenerateSignal([]float64{9, 11, 10})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionClose, tr.Signal)
		assert.Equal(t, models.PositionStateShort, tr.ClosedSide())
		assert.Equal(t, models.PositionStateFlat, s.State())
	})

	t.Run("flat and inside the bands emits none", func(t *testing.T) {
		s := newTestStrategy(t)

		tr, err := s.GenerateSignal([]float64{9, 11, 10})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionNone, tr.Signal)
		assert.Equal(t, models.PositionStateFlat, tr.ClosedSide())
	})

	t.Run("entry takes precedence over close and reverses", func(t *testing.T) {
		s := newTestStrategy(t)

		_, err := s.GenerateSignal([]float64{10, 10, 4})
		require.NoError(t, err)

		tr, err := s.GenerateSignal([]float64{10, 10, 11})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionSell, tr.Signal)
		assert.True(t, tr.IsReversal())
		assert.Equal(t, models.PositionStateLong, tr.ClosedSide())
		assert.Equal(t, models.PositionStateShort, s.State())
	})

	t.Run("uses only the trailing lookback closes", func(t *testing.T) {
		s := newTestStrategy(t)

		tr, err := s.GenerateSignal([]float64{1, 50, -20, 10, 10, 10})
		require.NoError(t, err)

		assert.Equal(t, models.SignalActionNone, tr.Signal)
	})

	t.Run("short window is an input error", func(t *testing.T) {
		s := newTestStrategy(t)

		_, err := s.GenerateSignal([]float64{10, 10})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		assert.Equal(t, models.PositionStateFlat, s.State())
	})

	t.Run("reset returns to flat", func(t *testing.T) {
		s := newTestStrategy(t)

		_, err := s.GenerateSignal([]float64{10, 10, 4})
		require.NoError(t, err)

		s.Reset()
		assert.Equal(t, models.PositionStateFlat, s.State())
	})
}
