package compose

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pws-advisor-service/internal/domain"
)

func intPtr(v int) *int { return &v }
func costPtr(v int64) *int64 { return &v }

func sampleFunding() domain.FundingPlan {
	assets := []domain.AssetRecord{
		{Name: "Pump 2", InstallYear: intPtr(1979), Condition: domain.ConditionPoor, EstimatedCost: costPtr(85000), Age: 47, RiskScore: 6},
		{Name: "Clearwell", Condition: domain.ConditionFair, EstimatedCost: costPtr(200000), Age: 20, RiskScore: 4},
		{Name: "SCADA <Panel>", InstallYear: intPtr(2015), Condition: domain.ConditionGood, Age: 11, RiskScore: 2},
	}
	return domain.PlanFunding(assets, 250000, 2)
}

func TestCapitalPlan(t *testing.T) {
	doc := CapitalPlan(CapitalPlanInput{
		System: domain.SystemRecord{
			PWSID:            "OK1020304",
			Name:             "Town of Example",
			City:             "Example",
			PopulationServed: "4,200",
			OwnerType:        "Local Government",
		},
		Violations: []domain.Violation{
			{Type: "MCL, Monthly (TCR)", Contaminant: "Coliform", BeginDate: "2024-03-01", EndDate: "2024-03-31", Significant: "Y"},
			{Type: "Monitoring", Contaminant: "Lead", BeginDate: "2024-01-01", Significant: "N"},
		},
		Objectives: []string{"Replace Pump 2", "", "Reduce water loss below 10%"},
		Hazards:    "Ice storms <winter>",
		GrowthPct:  1.5,
		Funding:    sampleFunding(),
	})

	assert.Equal(t, KindCapitalPlan, doc.Kind)
	assert.Equal(t, "SustainabilityPlan_OK1020304.md", doc.Filename)

	c := doc.Content
	assert.True(t, strings.HasPrefix(c, "# Sustainability & Capital Plan – Town of Example (OK1020304)\n"))
	assert.Contains(t, c, "**Jurisdiction:** Example, —  \n")
	assert.Contains(t, c, "**Population Served:** 4,200  \n")
	assert.Contains(t, c, "- **Significant Violations (past window):** 1\n")
	assert.Contains(t, c, "  - MCL, Monthly (TCR) – Coliform (Mar 01, 2024 to Mar 31, 2024)\n")
	assert.NotContains(t, c, "Lead")
	assert.Contains(t, c, "## 2) Objectives (Next 2 Years)\n- Replace Pump 2\n- Reduce water loss below 10%\n")
	assert.Contains(t, c, "- **Assumed growth:** 1.5%/year  \n")
	assert.Contains(t, c, "- **Budget target:** $250,000 per year\n")
	assert.Contains(t, c, "- **Key hazards:** Ice storms &lt;winter&gt;\n")
	assert.Contains(t, c, "| 1 | Pump 2 | 1979 | poor | 47 | $85,000 |\n")
	assert.Contains(t, c, "| 2 | Clearwell |  | fair | 20 | $200,000 |\n")
	assert.Contains(t, c, "| 3 | SCADA &lt;Panel&gt; | 2015 | good | 11 | $0 |\n")
	assert.Contains(t, c, "**Total Estimated Capital:** $285,000  \n")
	assert.Contains(t, c, "**Funding Time at Current Budget:** ~2 years\n")
	assert.Contains(t, c, "- Year 1: Pump 2 (est. $85,000)\n- Year 2: Clearwell (est. $200,000)\n- Year 2: SCADA &lt;Panel&gt; (est. $0)\n")
	assert.Contains(t, c, "- ECHO Facility Report: https://echo.epa.gov/detailed-facility-report?fid=OK1020304\n")
	assert.True(t, strings.HasSuffix(c, "- Envirofacts SDW Systems: https://data.epa.gov/efservice\n"))
}

func TestCapitalPlan_NoSystem(t *testing.T) {
	doc := CapitalPlan(CapitalPlanInput{Funding: domain.PlanFunding(nil, 0, 5)})

	assert.Equal(t, "SustainabilityPlan_Plan.md", doc.Filename)
	assert.Contains(t, doc.Content, "# Sustainability & Capital Plan – Selected System (N/A)\n")
	assert.Contains(t, doc.Content, "- **Significant Violations (past window):** 0\n  - None observed in current pull\n")
	assert.Contains(t, doc.Content, "**Funding Time at Current Budget:** ~0 years\n")
	assert.NotContains(t, doc.Content, "ECHO Facility Report")
}

func TestCapitalPlan_CapsListedViolations(t *testing.T) {
	var violations []domain.Violation
	for i := range 12 {
		violations = append(violations, domain.Violation{Code: fmt.Sprintf("V%02d", i), Significant: "y"})
	}

	c := CapitalPlan(CapitalPlanInput{Violations: violations}).Content

	assert.Contains(t, c, "(past window):** 12\n")
	assert.Contains(t, c, "  - V09 –  ()")
	assert.NotContains(t, c, "V10")
	assert.NotContains(t, c, "V11")
}

func TestCommunicationPlan(t *testing.T) {
	in := CommunicationPlanInput{
		PWSID:        "OK1020304",
		State:        "OK",
		Stakeholders: DefaultStakeholders,
		Channels:     DefaultChannels,
		Triggers:     DefaultTriggers,
		Contacts:     DefaultContacts,
	}

	doc := CommunicationPlan(in)

	assert.Equal(t, "CommunicationPlan_OK1020304.md", doc.Filename)
	c := doc.Content
	assert.True(t, strings.HasPrefix(c, "# Communication Plan – OK1020304 (OK)\n"))
	assert.Contains(t, c, "- **Spokesperson:** [Name]  \n")
	assert.Contains(t, c, "- **Policies in place:** No – create/approve written policy template\n")
	assert.Contains(t, c, "\"Due to our system detecting an issue")
	assert.Contains(t, c, "Jane Smith | Operator | (555) 555-1212 | ops@example.org\n")
	assert.True(t, strings.HasSuffix(c, "update templates and contact roster.\n"))

	in.PWSName = "Lake <Town>"
	in.Spokesperson = "Pat"
	in.Policies.CommunicationPolicy = true
	c = CommunicationPlan(in).Content
	assert.True(t, strings.HasPrefix(c, "# Communication Plan – Lake &lt;Town&gt; (OK)\n"))
	assert.Contains(t, c, "- **Spokesperson:** Pat  \n")
	assert.Contains(t, c, "- **Policies in place:** Yes\n")
	assert.Contains(t, c, "\"Due to Lake &lt;Town&gt; detecting an issue")
}

func TestCommunicationPlan_TitleFallback(t *testing.T) {
	c := CommunicationPlan(CommunicationPlanInput{State: "OK"}).Content
	assert.True(t, strings.HasPrefix(c, "# Communication Plan – PWS (OK)\n"))
}

func sampleEnergy() EnergyAuditInput {
	in := domain.EnergyInputs{
		AnnualKWh:           350000,
		AnnualMG:            120,
		RatePerKWh:          0.12,
		PumpHP:              75,
		PumpHoursPerYear:    2000,
		UnaccountedWaterPct: 12,
	}
	return EnergyAuditInput{
		PWSName:    "Town of Example",
		PWSID:      "OK1020304",
		Inputs:     in,
		Assessment: domain.AssessEnergy(in, domain.PolicyChecklist{}),
	}
}

func TestEnergyAudit(t *testing.T) {
	doc := EnergyAudit(sampleEnergy())

	assert.Equal(t, "EnergyAudit_OK1020304.md", doc.Filename)
	c := doc.Content
	assert.True(t, strings.HasPrefix(c, "# Energy Audit – Town of Example\n"))
	assert.Contains(t, c, "- **Annual Production:** 120 MG\n")
	assert.Contains(t, c, "- **Annual Electricity:** 350,000 kWh\n")
	assert.Contains(t, c, "- **Energy Intensity:** 2917 kWh/MG\n")
	assert.Contains(t, c, "- **Average Tariff:** $0.12/kWh\n")
	assert.Contains(t, c, "- **Annual Cost (approx):** $42,000.00\n")
	assert.Contains(t, c, "- **Representative Pump:** 75 HP × 2,000 h/yr → ~111,900 kWh/yr\n")
	assert.Contains(t, c, "- **Unaccounted Water (est.):** 12%\n")
	assert.Contains(t, c, "- **Asset Mgmt in place:** No\n")
	assert.Contains(t, c, "| Leak reduction & pressure mgmt | ~5% |")
	assert.Contains(t, c, "| Institutionalize annual AWWA M36 audit | ~1% |")
	assert.Contains(t, c, "**Portfolio impact:** ~16% → ~56,000 kWh/yr (~$6,720.00/yr)  \n")
	assert.True(t, strings.HasSuffix(c, "- Add meter testing policy and schedule.\n"))
}

func TestTMFActions(t *testing.T) {
	doc := TMFActions("OK1", domain.TMFGaps(domain.PolicyChecklist{
		CommunicationPolicy:   true,
		EmergencyResponsePlan: true,
		BackflowPlan:          true,
		WaterLossAudit:        true,
		AssetManagementPlan:   true,
	}))

	assert.Equal(t, "TMFActions_OK1.md", doc.Filename)
	assert.Equal(t, "# Actions\n"+
		"- [ ] Adopt Cybersecurity Plan; perform annual tabletop exercise.\n"+
		"- [ ] Join SoonerWARN or a mutual aid group; document membership and contacts.\n", doc.Content)

	empty := TMFActions("", nil)
	assert.Equal(t, "# Actions\n- [ ] No gaps flagged.\n", empty.Content)
}

func TestEvaluations(t *testing.T) {
	energy := sampleEnergy()
	doc := Evaluations(EvaluationsInput{
		Communication: CommunicationPlanInput{PWSName: "Town of Example", PWSID: "OK1020304", State: "OK"},
		Energy:        energy,
		Gaps:          domain.TMFGaps(domain.PolicyChecklist{}),
	})

	assert.Equal(t, "SystemEvaluations_OK1020304.md", doc.Filename)
	c := doc.Content
	require.True(t, strings.HasPrefix(c, "# System Evaluations Package – Town of Example (OK)\n\n# Communication Plan – Town of Example (OK)\n"))
	assert.Contains(t, c, "contact roster.\n\n---\n\n# Energy Audit – Town of Example\n")
	assert.Contains(t, c, "schedule.\n\n---\n\n## Required Follow-up Actions (TMF)\n")
	assert.Contains(t, c, "- [ ] Draft and adopt a written Communication Policy; train staff annually.\n- [ ] Update Emergency Response Plan")
	assert.NotContains(t, c, `\n`)
	assert.Equal(t, 7, strings.Count(c, "- [ ] "))
}

func TestEvaluations_NoGaps(t *testing.T) {
	c := Evaluations(EvaluationsInput{}).Content
	assert.True(t, strings.HasSuffix(c, "## Required Follow-up Actions (TMF)\n- [ ] No critical gaps flagged based on provided inputs.\n"))
}
