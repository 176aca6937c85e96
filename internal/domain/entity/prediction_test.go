package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPredictions_SortsAndClamps(t *testing.T) {
	p := NewPredictions(
		Prediction{Category: CategoryNut, Confidence: 10},
		Prediction{Category: CategoryBolt, Confidence: 120},
		Prediction{Category: CategoryWasher, Confidence: -5},
	)

	require.Equal(t, CategoryBolt, p.Top(0).Category)
	require.Equal(t, 100, p.Top(0).Confidence)
	require.Equal(t, CategoryNut, p.Top(1).Category)
	require.Equal(t, 0, p.Top(2).Confidence)
	require.Equal(t, Prediction{}, p.Top(5))
}

func TestPredictionsDiversity(t *testing.T) {
	tests := []struct {
		name string
		in   Predictions
		want float64
	}{
		{"empty", nil, 0},
		{"single", NewPredictions(Prediction{CategoryBolt, 80}), 0.2},
		{"balanced", NewPredictions(Prediction{CategoryBolt, 38}, Prediction{CategoryNut, 25}), 0.87},
		{"dominant", NewPredictions(Prediction{CategoryBolt, 85}, Prediction{CategoryNut, 10}), 0.25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, tc.in.Diversity(), 1e-9)
		})
	}
}

func TestPredictionsConfidenceOf(t *testing.T) {
	p := NewPredictions(Prediction{CategoryBolt, 60}, Prediction{CategoryNut, 30})

	conf, ok := p.ConfidenceOf(CategoryNut)
	require.True(t, ok)
	require.Equal(t, 30, conf)

	_, ok = p.ConfidenceOf(CategoryWasher)
	require.False(t, ok)
	require.True(t, p.AllKnown())
	require.False(t, append(p, Prediction{Category: 42}).AllKnown())
}

func TestCategoryTextRoundTrip(t *testing.T) {
	data, err := json.Marshal(Prediction{Category: CategoryWasher, Confidence: 35})
	require.NoError(t, err)
	require.JSONEq(t, `{"category":"washer","confidence":35}`, string(data))

	var back Prediction
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, CategoryWasher, back.Category)
}

func TestCategoryNames(t *testing.T) {
	require.Equal(t, "Гайка", CategoryNut.DisplayName())
	require.Equal(t, "unknown", Category(99).String())

	c, ok := ParseCategory("bolt")
	require.True(t, ok)
	require.Equal(t, CategoryBolt, c)

	_, ok = ParseCategory("screw")
	require.False(t, ok)
}
