package domain

import "math"

// EnergyInputs are the annual operating figures for an energy screening.
type EnergyInputs struct {
	AnnualKWh           float64 `json:"annual_kwh" yaml:"annual_kwh" validate:"gte=0"`
	AnnualMG            float64 `json:"annual_mg" yaml:"annual_mg" validate:"gte=0"`
	RatePerKWh          float64 `json:"rate_per_kwh" yaml:"rate_per_kwh" validate:"gte=0"`
	PumpHP              float64 `json:"pump_hp" yaml:"pump_hp" validate:"gte=0"`
	PumpHoursPerYear    float64 `json:"pump_hours_per_year" yaml:"pump_hours_per_year" validate:"gte=0"`
	UnaccountedWaterPct float64 `json:"unaccounted_water_pct" yaml:"unaccounted_water_pct" validate:"gte=0,lte=100"`
}

// EnergyMeasure is one screening-level savings opportunity.
type EnergyMeasure struct {
	Name       string  `json:"name"`
	SavingsPct float64 `json:"savings_pct"`
	Notes      string  `json:"notes"`
}

// EnergyAssessment is the derived baseline and savings estimate.
type EnergyAssessment struct {
	IntensityKWhPerMG float64         `json:"intensity_kwh_per_mg"`
	AnnualCost        float64         `json:"annual_cost"`
	PumpKWh           float64         `json:"pump_kwh"`
	Measures          []EnergyMeasure `json:"measures"`
	TotalSavingsPct   float64         `json:"total_savings_pct"`
	SavedKWh          float64         `json:"saved_kwh"`
	SavedDollars      float64         `json:"saved_dollars"`
}

const (
	kwPerHP            = 0.746
	waterLossTargetPct = 10
)

// AssessEnergy computes the energy baseline and screens savings measures.
func AssessEnergy(in EnergyInputs, policies PolicyChecklist) EnergyAssessment {
	a := EnergyAssessment{
		AnnualCost: in.AnnualKWh * in.RatePerKWh,
		PumpKWh:    in.PumpHP * kwPerHP * in.PumpHoursPerYear,
	}
	if in.AnnualMG > 0 {
		a.IntensityKWhPerMG = in.AnnualKWh / in.AnnualMG
	}

	if in.UnaccountedWaterPct > waterLossTargetPct {
		a.Measures = append(a.Measures, EnergyMeasure{
			Name:       "Leak reduction & pressure mgmt",
			SavingsPct: math.Min(20, math.Max(5, in.UnaccountedWaterPct-waterLossTargetPct)),
			Notes:      "Perform AWWA M36 audit; target <10% losses; prioritize DMAs and night flows.",
		})
	}
	a.Measures = append(a.Measures,
		EnergyMeasure{
			Name:       "Pump VFD & best efficiency point ops",
			SavingsPct: 5,
			Notes:      "Tune pumps near BEP; add VFDs if throttling; optimize setpoints.",
		},
		EnergyMeasure{
			Name:       "Off-peak pumping & storage ops",
			SavingsPct: 3,
			Notes:      "Shift non-emergency runs to off-peak where tariff supports; confirm disinfection CT.",
		},
	)
	if !policies.AssetManagementPlan {
		a.Measures = append(a.Measures, EnergyMeasure{
			Name:       "Asset management & condition-based maintenance",
			SavingsPct: 2,
			Notes:      "Reduce rework/energy via proactive maintenance and replacements.",
		})
	}
	if !policies.WaterLossAudit {
		a.Measures = append(a.Measures, EnergyMeasure{
			Name:       "Institutionalize annual AWWA M36 audit",
			SavingsPct: 1,
			Notes:      "Embed data collection; meter testing; recovery of apparent losses.",
		})
	}

	for _, m := range a.Measures {
		a.TotalSavingsPct += m.SavingsPct
	}
	a.SavedKWh = math.Round(in.AnnualKWh * a.TotalSavingsPct / 100)
	a.SavedDollars = a.SavedKWh * in.RatePerKWh
	return a
}
