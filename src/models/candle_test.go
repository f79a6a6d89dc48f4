package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandlesValidate(t *testing.T) {
	t0 := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)

	t.Run("empty series is valid", func(t *testing.T) {
		assert.NoError(t, Candles{}.Validate())
	})

	t.Run("gaps are allowed", func(t *testing.T) {
		candles := Candles{
			{Timestamp: t0, Close: 1},
			{Timestamp: t0.Add(time.Hour), Close: 2},
		}

		assert.NoError(t, candles.Validate())
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		candles := Candles{
			{Timestamp: t0, Close: 1},
			{Timestamp: t0, Close: 2},
		}

		err := candles.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorContains(t, err, "candle 1")
	})

	t.Run("missing close", func(t *testing.T) {
		candles := Candles{
			{Timestamp: t0, Close: 1},
			{Timestamp: t0.Add(time.Minute), Close: math.NaN()},
		}

		err := candles.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorContains(t, err, "missing close")
	})

	t.Run("nil candle", func(t *testing.T) {
		assert.ErrorIs(t, Candles{nil}.Validate(), ErrInvalidInput)
	})
}

func TestCandlesFetchRange(t *testing.T) {
	t0 := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)

	var candles Candles
	for i := 0; i < 5; i++ {
		candles = append(candles, &Candle{Timestamp: t0.Add(time.Duration(i) * time.Minute), Close: float64(i)})
	}

	assert.Equal(t, []float64{1, 2}, candles.FetchRange(t0.Add(time.Minute), t0.Add(3*time.Minute)).Closes())
	assert.Empty(t, candles.FetchRange(t0.Add(time.Hour), t0.Add(2*time.Hour)))
	assert.Equal(t, 4.0, candles.Last().Close)
	assert.Nil(t, Candles{}.Last())
}

func TestCandleDTO(t *testing.T) {
	closePrice := 101.5

	t.Run("time layouts", func(t *testing.T) {
		for _, ts := range []string{"2024-05-03T09:30:00Z", "2024-05-03 09:30:00", " 2024-05-03T09:30:00Z "} {
			c, err := (&CandleDTO{Timestamp: ts, Close: &closePrice}).ToModel()
			require.NoError(t, err, ts)
			assert.Equal(t, time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC), c.Timestamp)
			assert.Equal(t, 101.5, c.Close)
		}

		c, err := (&CandleDTO{Timestamp: "2024-05-03", Close: &closePrice}).ToModel()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), c.Timestamp)
	})

	t.Run("missing close becomes NaN", func(t *testing.T) {
		c, err := (&CandleDTO{Timestamp: "2024-05-03"}).ToModel()
		require.NoError(t, err)
		assert.True(t, math.IsNaN(c.Close))
	})

	t.Run("bad time", func(t *testing.T) {
		_, err := CandleDTOs{{Timestamp: "05/03/2024", Close: &closePrice}}.ToModel()
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorContains(t, err, "row 0")
	})
}
