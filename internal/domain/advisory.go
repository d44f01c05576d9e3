package domain

// AdvisoryReading is one set of operator-entered SCADA values. A nil field was
// not entered and is skipped by every rule.
type AdvisoryReading struct {
	TankLevelPct    *float64 `json:"tank_level_pct,omitempty"`
	PressurePsi     *float64 `json:"pressure_psi,omitempty"`
	FlowGpm         *float64 `json:"flow_gpm,omitempty"`
	FreeChlorineMgL *float64 `json:"free_chlorine_mg_l,omitempty"`
	TurbidityNTU    *float64 `json:"turbidity_ntu,omitempty"`
	CallsLastHour   *float64 `json:"calls_last_hour,omitempty"`
}

// Recommendation texts, in evaluation order.
const (
	RecLowTankLevel  = "Tank level is low (<30%). Start/verify wells/boosters; check VFD setpoints."
	RecLowPressure   = "Distribution pressure <35 psi. Investigate booster operation and possible main break."
	RecHighFlow      = "High flow >500 gpm. Confirm demand spike or suspected leak; review district meters."
	RecLowChlorine   = "Free chlorine <0.2 mg/L. Increase residual (adjust dose or flush dead-ends) and resample."
	RecHighTurbidity = "Turbidity >1 NTU. Check filters/clarification; investigate source water."
	RecCustomerCalls = "Multiple customer calls. Activate incident comms and dispatch field check."
	RecNominal       = "All inputs within nominal ranges. Continue routine operations; monitor trends."
	RecLogAndNotify  = "Log actions in ops log and note any public notification requirements if thresholds persist."
)

type advisoryRule struct {
	field func(AdvisoryReading) *float64
	fires func(float64) bool
	text  string
}

var advisoryRules = []advisoryRule{
	{func(r AdvisoryReading) *float64 { return r.TankLevelPct }, func(v float64) bool { return v < 30 }, RecLowTankLevel},
	{func(r AdvisoryReading) *float64 { return r.PressurePsi }, func(v float64) bool { return v < 35 }, RecLowPressure},
	{func(r AdvisoryReading) *float64 { return r.FlowGpm }, func(v float64) bool { return v > 500 }, RecHighFlow},
	{func(r AdvisoryReading) *float64 { return r.FreeChlorineMgL }, func(v float64) bool { return v < 0.2 }, RecLowChlorine},
	{func(r AdvisoryReading) *float64 { return r.TurbidityNTU }, func(v float64) bool { return v > 1 }, RecHighTurbidity},
	{func(r AdvisoryReading) *float64 { return r.CallsLastHour }, func(v float64) bool { return v >= 5 }, RecCustomerCalls},
}

// DeriveRecommendations evaluates the reading against the fixed operating
// thresholds. The result is never empty and always ends with RecLogAndNotify.
func DeriveRecommendations(r AdvisoryReading) []string {
	out := make([]string, 0, len(advisoryRules)+1)
	for _, rule := range advisoryRules {
		v := rule.field(r)
		if v == nil {
			continue
		}
		if rule.fires(*v) {
			out = append(out, rule.text)
		}
	}
	if len(out) == 0 {
		out = append(out, RecNominal)
	}
	return append(out, RecLogAndNotify)
}

// Float returns a pointer to v, for building readings in code.
func Float(v float64) *float64 { return &v }
