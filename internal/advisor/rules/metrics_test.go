package rules

import (
	"testing"

	"go-options-advisor/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestIntrinsicValue(t *testing.T) {
	tests := []struct {
		name       string
		optionType string
		strike     float64
		underlying float64
		expected   float64
	}{
		{"call ITM", entity.OptionTypeCall, 100, 110, 10},
		{"call OTM clamps to zero", entity.OptionTypeCall, 100, 90, 0},
		{"call ATM", entity.OptionTypeCall, 100, 100, 0},
		{"put ITM", entity.OptionTypePut, 100, 90, 10},
		{"put OTM clamps to zero", entity.OptionTypePut, 100, 110, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IntrinsicValue(tt.optionType, tt.strike, tt.underlying))
		})
	}
}

func TestTimeValue(t *testing.T) {
	assert.Equal(t, 1.5, TimeValue(4.0, 2.5))
	assert.Equal(t, 4.0, TimeValue(4.0, 0))

	// A stale quote below intrinsic must not go negative.
	assert.Equal(t, 0.0, TimeValue(2.0, 2.5))
}

func TestPLPercent(t *testing.T) {
	tests := []struct {
		name     string
		side     string
		entry    float64
		current  float64
		expected float64
	}{
		{"short gains as price falls", entity.PositionSideShort, 2.0, 1.0, 50},
		{"short loses as price rises", entity.PositionSideShort, 2.0, 3.0, -50},
		{"long gains as price rises", entity.PositionSideLong, 2.0, 3.0, 50},
		{"long loses as price falls", entity.PositionSideLong, 2.0, 1.0, -50},
		{"zero entry premium yields zero", entity.PositionSideShort, 0, 5.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PLPercent(tt.side, tt.entry, tt.current), 0.001)
		})
	}
}

func TestMoneyness(t *testing.T) {
	tests := []struct {
		name       string
		optionType string
		strike     float64
		underlying float64
		expected   string
	}{
		{"call well ITM", entity.OptionTypeCall, 100, 105, MoneynessITM},
		{"call well OTM", entity.OptionTypeCall, 100, 95, MoneynessOTM},
		{"call inside ATM band", entity.OptionTypeCall, 100, 100.5, MoneynessATM},
		{"put well ITM", entity.OptionTypePut, 100, 95, MoneynessITM},
		{"put well OTM", entity.OptionTypePut, 100, 105, MoneynessOTM},
		{"missing underlying defaults OTM", entity.OptionTypeCall, 100, 0, MoneynessOTM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Moneyness(tt.optionType, tt.strike, tt.underlying))
		})
	}
}

func TestExtrinsicPercent(t *testing.T) {
	assert.InDelta(t, 25.0, ExtrinsicPercent(0.5, 2.0), 0.001)
	assert.Equal(t, 0.0, ExtrinsicPercent(0.5, 0))
}
