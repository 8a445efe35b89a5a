package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandedStatus(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		want Status
	}{
		{"midband", 20, StatusNormal},
		{"just under warn band", 22, StatusNormal},
		{"inside max warn band", 22.5, StatusWarning},
		{"at max", 24, StatusWarning},
		{"above max", 24.1, StatusCritical},
		{"inside min warn band", 16.5, StatusWarning},
		{"at min", 16, StatusWarning},
		{"below min", 15.9, StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BandedStatus(tt.temp, 16, 24))
		})
	}
}

func TestClimbStatus_IgnoresLowerBound(t *testing.T) {
	assert.Equal(t, StatusNormal, ClimbStatus(10, 24))
	assert.Equal(t, StatusWarning, ClimbStatus(23, 24))
	assert.Equal(t, StatusCritical, ClimbStatus(26, 24))
}

func TestSpikeStatus_HasNoWarningBand(t *testing.T) {
	assert.Equal(t, StatusNormal, SpikeStatus(23.9, 16, 24))
	assert.Equal(t, StatusNormal, SpikeStatus(16.2, 16, 24))
	assert.Equal(t, StatusCritical, SpikeStatus(35, 16, 24))
	assert.Equal(t, StatusCritical, SpikeStatus(10, 16, 24))
}

func TestRuleFires_Strict(t *testing.T) {
	above := AutomationRule{Condition: TempAbove, ConditionValue: 24}
	assert.False(t, above.Fires(24))
	assert.True(t, above.Fires(24.01))

	below := AutomationRule{Condition: TempBelow, ConditionValue: 16}
	assert.False(t, below.Fires(16))
	assert.True(t, below.Fires(15.99))

	unknown := AutomationRule{Condition: "humidity_above", ConditionValue: 0}
	assert.False(t, unknown.Fires(100))
}

func TestDeviceBand(t *testing.T) {
	d := Device{ThresholdMin: 16, ThresholdMax: 24}
	assert.Equal(t, 20.0, d.Midpoint())
	assert.Equal(t, 8.0, d.BandWidth())
}
