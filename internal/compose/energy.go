package compose

import (
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/pws-advisor-service/internal/domain"
)

// EnergyAuditInput pairs the operating figures with their screening result.
type EnergyAuditInput struct {
	PWSName    string
	PWSID      string
	Inputs     domain.EnergyInputs
	Assessment domain.EnergyAssessment
	Policies   domain.PolicyChecklist
}

// EnergyAudit renders the screening-level energy audit.
func EnergyAudit(in EnergyAuditInput) Document {
	return Document{
		Kind:     KindEnergyAudit,
		Filename: Filename(KindEnergyAudit, in.PWSID),
		Content:  energyBody(in),
	}
}

func energyBody(in EnergyAuditInput) string {
	e, a := in.Inputs, in.Assessment

	var b strings.Builder
	fmt.Fprintf(&b, "# Energy Audit – %s\n\n", systemTitle(in.PWSName, in.PWSID))

	b.WriteString("## Baseline\n")
	fmt.Fprintf(&b, "- **Annual Production:** %s MG\n", Number(e.AnnualMG))
	fmt.Fprintf(&b, "- **Annual Electricity:** %s kWh\n", Number(e.AnnualKWh))
	fmt.Fprintf(&b, "- **Energy Intensity:** %.0f kWh/MG\n", a.IntensityKWhPerMG)
	fmt.Fprintf(&b, "- **Average Tariff:** %s/kWh\n", Currency(e.RatePerKWh))
	fmt.Fprintf(&b, "- **Annual Cost (approx):** %s\n", Currency(a.AnnualCost))
	fmt.Fprintf(&b, "- **Representative Pump:** %s HP × %s h/yr → ~%s kWh/yr\n\n",
		Number(e.PumpHP), Number(e.PumpHoursPerYear), Number(math.Round(a.PumpKWh)))

	b.WriteString("## Observations\n")
	fmt.Fprintf(&b, "- **Unaccounted Water (est.):** %s\n", Percent(e.UnaccountedWaterPct))
	fmt.Fprintf(&b, "- **Asset Mgmt in place:** %s\n", yesNo(in.Policies.AssetManagementPlan))
	fmt.Fprintf(&b, "- **Annual AWWA M36 audit:** %s\n\n", yesNo(in.Policies.WaterLossAudit))

	b.WriteString("## Opportunities (screening)\n")
	b.WriteString("| Measure | Est. kWh savings | Notes |\n")
	b.WriteString("|---|---:|---|\n")
	for _, m := range a.Measures {
		fmt.Fprintf(&b, "| %s | ~%s | %s |\n", m.Name, Percent(m.SavingsPct), m.Notes)
	}
	fmt.Fprintf(&b, "\n**Portfolio impact:** ~%s → ~%s kWh/yr (~%s/yr)  \n\n",
		Percent(a.TotalSavingsPct), Number(a.SavedKWh), Currency(a.SavedDollars))
	b.WriteString("> Estimates are screening-level only; refine with scada trend review, pump tests, and tariff analysis.\n\n")

	b.WriteString(`## Actions
- Perform AWWA M36 audit and develop repair plan for highest-loss DMAs.
- Verify pump curves; test wire-to-water efficiency; evaluate VFDs where throttling occurs.
- Implement off-peak operations where feasible; confirm CT and storage turnover.
- Add meter testing policy and schedule.
`)
	return b.String()
}
