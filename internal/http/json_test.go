package http

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kulutus/internal/core"
	"kulutus/internal/services"
)

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		want     string
	}{
		{1234.5678, 3, "1234.568"},
		{100, 3, "100.000"},
		{0, 4, "0.0000"},
		{-800, 3, "-800.000"},
		{25.5, 4, "25.5000"},
		{45210.7, 0, "45211"},
	}
	for _, tt := range tests {
		got, err := formatFixed(tt.value, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestFormatFixedRejectsNonFiniteValues(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := formatFixed(v, 3)
		require.Error(t, err, "value %v must not render as a string", v)
	}
	_, err := formatFixed(math.Inf(1), 0)
	require.Error(t, err)
}

func TestConsumptionToJSONPropagatesNonFiniteValues(t *testing.T) {
	base := core.Reading{
		ID:         1,
		PropertyID: "P1",
		Year:       2024,
		Month:      "Tammi",
		MonthNum:   1,
		Date:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Value:      100,
	}

	row := services.ConsumptionRow{Consumption: core.Consumption{Reading: base}}
	row.Value = math.NaN()
	_, err := consumptionToJSON(core.Water, row)
	require.Error(t, err)

	row = services.ConsumptionRow{Consumption: core.Consumption{Reading: base}}
	row.DeltaValue = math.Inf(1)
	_, err = consumptionToJSON(core.Water, row)
	require.Error(t, err)

	// The heat flow channel is guarded too.
	row = services.ConsumptionRow{Consumption: core.Consumption{Reading: base}}
	row.Flow = math.NaN()
	_, err = consumptionToJSON(core.Heat, row)
	require.Error(t, err)

	// A finite row still renders.
	row = services.ConsumptionRow{Consumption: core.Consumption{Reading: base, DeltaValue: 25.5}}
	got, err := consumptionToJSON(core.Water, row)
	require.NoError(t, err)
	require.Equal(t, "100.0000", got.Value)
	require.Equal(t, "25.5000", got.Consumption)
}
