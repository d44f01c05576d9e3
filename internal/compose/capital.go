package compose

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/pws-advisor-service/internal/domain"
)

// maxListedViolations caps the significant violations itemized in a capital plan.
const maxListedViolations = 10

// noneObserved substitutes for an empty violation list.
const noneObserved = "None observed in current pull"

// CapitalPlanInput collects everything a sustainability and capital plan needs.
type CapitalPlanInput struct {
	System     domain.SystemRecord
	Violations []domain.Violation // significant ones are itemized
	Objectives []string
	Hazards    string
	GrowthPct  float64
	Funding    domain.FundingPlan
}

// CapitalPlan renders the sustainability and capital plan.
func CapitalPlan(in CapitalPlanInput) Document {
	sys := in.System
	significant := domain.SignificantViolations(in.Violations)
	horizon := in.Funding.HorizonYears

	var b strings.Builder
	name := sys.Name
	if strings.TrimSpace(name) == "" {
		name = "Selected System"
	}
	id := sys.PWSID
	if strings.TrimSpace(id) == "" {
		id = "N/A"
	}
	fmt.Fprintf(&b, "# Sustainability & Capital Plan – %s (%s)\n\n", Escape(name), Escape(id))
	fmt.Fprintf(&b, "**Jurisdiction:** %s, %s  \n", orMissing(sys.City), orMissing(sys.County))
	fmt.Fprintf(&b, "**Population Served:** %s  \n", orMissing(sys.PopulationServed))
	fmt.Fprintf(&b, "**Owner Type:** %s\n\n", orMissing(sys.OwnerType))

	b.WriteString("## 1) Current Compliance & Risks\n")
	fmt.Fprintf(&b, "- **Significant Violations (past window):** %d\n", len(significant))
	if len(significant) == 0 {
		b.WriteString("  - " + noneObserved + "\n")
	}
	for _, v := range significant[:min(len(significant), maxListedViolations)] {
		b.WriteString(violationLine(v))
	}

	fmt.Fprintf(&b, "\n## 2) Objectives (Next %d Years)\n", horizon)
	if objectives := bulletLines(in.Objectives); objectives != "" {
		b.WriteString(objectives + "\n")
	}

	b.WriteString("\n## 3) System Capacity & Growth Planning\n")
	fmt.Fprintf(&b, "- **Assumed growth:** %s/year  \n", Percent(in.GrowthPct))
	fmt.Fprintf(&b, "- **Planning horizon:** %d years  \n", horizon)
	fmt.Fprintf(&b, "- **Budget target:** $%s per year\n", Number(in.Funding.AnnualBudget))
	fmt.Fprintf(&b, "- **Key hazards:** %s\n", Escape(strings.TrimSpace(in.Hazards)))

	b.WriteString("\n## 4) Capital Improvement Evaluation (Prioritized)\n")
	b.WriteString("| Priority | Asset | Year | Condition | Age | Est. Cost |\n")
	b.WriteString("|---:|---|---:|---|---:|---:|\n")
	for i, a := range in.Funding.Assets {
		year := ""
		if a.InstallYear != nil {
			year = strconv.Itoa(*a.InstallYear)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %s |\n",
			i+1, Escape(a.Name), year, a.Condition, a.Age, Dollars(a.Cost()))
	}
	fmt.Fprintf(&b, "\n**Total Estimated Capital:** %s  \n", Dollars(in.Funding.TotalEstimatedCost))
	fmt.Fprintf(&b, "**Funding Time at Current Budget:** ~%d years\n", in.Funding.YearsToFund)

	b.WriteString("\n## 5) Implementation Schedule (Draft)\n")
	for i, a := range in.Funding.Assets {
		fmt.Fprintf(&b, "- Year %d: %s (est. %s)\n", domain.ScheduleYear(i, horizon), Escape(a.Name), Dollars(a.Cost()))
	}

	b.WriteString(`
## 6) Monitoring & Reporting Plan (Outline)
- Maintain sampling schedule (lead/copper, DBPs, bacteriological)
- Track pressure logs and chlorine residuals; alert on thresholds
- Quarterly review of violation status via EPA ECHO

## 7) Funding Strategy
- Pursue SRF set-asides and principal forgiveness where eligible
- Bundle small assets into single contracts to reduce mobilization costs
- Align major work with regulatory deadlines to maximize scoring

## 8) Appendices & Links
`)
	if strings.TrimSpace(sys.PWSID) != "" {
		fmt.Fprintf(&b, "- ECHO Facility Report: %s\n", FacilityReportURL(sys.PWSID))
	}
	b.WriteString("- Envirofacts SDW Systems: https://data.epa.gov/efservice\n")

	return Document{
		Kind:     KindCapitalPlan,
		Filename: Filename(KindCapitalPlan, sys.PWSID),
		Content:  b.String(),
	}
}

// FacilityReportURL links a PWSID to its ECHO detailed facility report.
func FacilityReportURL(pwsid string) string {
	return "https://echo.epa.gov/detailed-facility-report?fid=" + url.QueryEscape(strings.TrimSpace(pwsid))
}

func violationLine(v domain.Violation) string {
	period := FormatDate(v.BeginDate)
	if end := FormatDate(v.EndDate); end != "" {
		period += " to " + end
	}
	return fmt.Sprintf("  - %s – %s (%s)\n", Escape(v.Label()), Escape(v.Contaminant), period)
}
