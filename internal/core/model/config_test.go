package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"talktimer/internal/core/model"
)

func TestMarkerTimesNonDecreasing(t *testing.T) {
	cases := [][]time.Duration{
		{10 * time.Second, 10 * time.Second, 10 * time.Second},
		{0, 300 * time.Second, 300 * time.Second},
		{0, 0, 0},
		{5 * time.Second, -3 * time.Second, 7 * time.Second},
		{time.Second},
	}
	for _, durations := range cases {
		markers := model.MarkerTimes(durations)
		for index := 1; index < len(markers); index++ {
			assert.GreaterOrEqual(t, markers[index], markers[index-1])
		}
		var total time.Duration
		for _, value := range model.SanitizeDurations(durations) {
			total += value
		}
		assert.Equal(t, total, markers[len(markers)-1])
	}
}

func TestSecondsToDurationSanitizes(t *testing.T) {
	assert.Equal(t, time.Duration(0), model.SecondsToDuration(math.NaN()))
	assert.Equal(t, time.Duration(0), model.SecondsToDuration(math.Inf(1)))
	assert.Equal(t, time.Duration(0), model.SecondsToDuration(math.Inf(-1)))
	assert.Equal(t, time.Duration(0), model.SecondsToDuration(-12))
	assert.Equal(t, 1500*time.Millisecond, model.SecondsToDuration(1.5))
	assert.Equal(t, model.MaxSectionDuration, model.SecondsToDuration(1e12))
}

func TestDurationsSecondsRoundTrip(t *testing.T) {
	seconds := []float64{600, 300, 0.5}
	assert.Equal(t, seconds, model.DurationsToSeconds(model.SecondsToDurations(seconds)))
}

func TestDefaultChimeStrategy(t *testing.T) {
	assert.Equal(t, 1, model.DefaultChimeStrategy(0))
	assert.Equal(t, 2, model.DefaultChimeStrategy(1))
	assert.Equal(t, 3, model.DefaultChimeStrategy(2))
	assert.Equal(t, 3, model.DefaultChimeStrategy(7))
	assert.Equal(t, 1, model.DefaultChimeStrategy(-1))
}
