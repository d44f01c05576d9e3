package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRecommendations(t *testing.T) {
	t.Run("empty reading", func(t *testing.T) {
		got := DeriveRecommendations(AdvisoryReading{})
		assert.Equal(t, []string{RecNominal, RecLogAndNotify}, got)
	})

	t.Run("low tank, normal pressure", func(t *testing.T) {
		got := DeriveRecommendations(AdvisoryReading{TankLevelPct: Float(25), PressurePsi: Float(50)})

		assert.Contains(t, got, RecLowTankLevel)
		assert.NotContains(t, got, RecLowPressure)
		assert.NotContains(t, got, RecNominal)
		assert.Equal(t, RecLogAndNotify, got[len(got)-1])
	})

	t.Run("every rule fires in declaration order", func(t *testing.T) {
		got := DeriveRecommendations(AdvisoryReading{
			CallsLastHour:   Float(9),
			TurbidityNTU:    Float(2.5),
			FreeChlorineMgL: Float(0.1),
			FlowGpm:         Float(900),
			PressurePsi:     Float(20),
			TankLevelPct:    Float(10),
		})
		assert.Equal(t, []string{
			RecLowTankLevel,
			RecLowPressure,
			RecHighFlow,
			RecLowChlorine,
			RecHighTurbidity,
			RecCustomerCalls,
			RecLogAndNotify,
		}, got)
	})

	t.Run("zero values are evaluated", func(t *testing.T) {
		got := DeriveRecommendations(AdvisoryReading{TankLevelPct: Float(0), FreeChlorineMgL: Float(0)})
		assert.Equal(t, []string{RecLowTankLevel, RecLowChlorine, RecLogAndNotify}, got)
	})

	t.Run("deterministic", func(t *testing.T) {
		r := AdvisoryReading{FlowGpm: Float(650), CallsLastHour: Float(5)}
		assert.Equal(t, DeriveRecommendations(r), DeriveRecommendations(r))
	})
}

func TestDeriveRecommendationsBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		reading AdvisoryReading
		rec     string
		fires   bool
	}{
		{"tank 29.9", AdvisoryReading{TankLevelPct: Float(29.9)}, RecLowTankLevel, true},
		{"tank 30", AdvisoryReading{TankLevelPct: Float(30)}, RecLowTankLevel, false},
		{"pressure 34", AdvisoryReading{PressurePsi: Float(34)}, RecLowPressure, true},
		{"pressure 35", AdvisoryReading{PressurePsi: Float(35)}, RecLowPressure, false},
		{"flow 500", AdvisoryReading{FlowGpm: Float(500)}, RecHighFlow, false},
		{"flow 501", AdvisoryReading{FlowGpm: Float(501)}, RecHighFlow, true},
		{"chlorine 0.19", AdvisoryReading{FreeChlorineMgL: Float(0.19)}, RecLowChlorine, true},
		{"chlorine 0.2", AdvisoryReading{FreeChlorineMgL: Float(0.2)}, RecLowChlorine, false},
		{"turbidity 1", AdvisoryReading{TurbidityNTU: Float(1)}, RecHighTurbidity, false},
		{"turbidity 1.01", AdvisoryReading{TurbidityNTU: Float(1.01)}, RecHighTurbidity, true},
		{"calls 4", AdvisoryReading{CallsLastHour: Float(4)}, RecCustomerCalls, false},
		{"calls 5", AdvisoryReading{CallsLastHour: Float(5)}, RecCustomerCalls, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveRecommendations(tt.reading)
			require.NotEmpty(t, got)
			if tt.fires {
				assert.Contains(t, got, tt.rec)
				assert.Len(t, got, 2)
			} else {
				assert.Equal(t, []string{RecNominal, RecLogAndNotify}, got)
			}
		})
	}
}
