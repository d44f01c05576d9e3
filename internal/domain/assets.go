package domain

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Condition is an operator-assessed asset condition, stored lower-case.
type Condition string

const (
	ConditionGood Condition = "good"
	ConditionFair Condition = "fair"
	ConditionPoor Condition = "poor"
)

// Score maps a condition onto its risk contribution: poor 3, fair 2, good 1.
func (c Condition) Score() int {
	switch c {
	case ConditionPoor:
		return 3
	case ConditionFair:
		return 2
	default:
		return 1
	}
}

// DefaultAssetAge is assumed when an asset line carries no install year.
const DefaultAssetAge = 20

// AssetRecord is one capital asset parsed from a line of free text such as
// "Well 1 (1985) | condition: Fair | est. cost: 120000".
type AssetRecord struct {
	Name          string    `json:"name"`
	InstallYear   *int      `json:"install_year,omitempty"`
	Condition     Condition `json:"condition"`
	EstimatedCost *int64    `json:"estimated_cost,omitempty"`
	Age           int       `json:"age"`
	RiskScore     int       `json:"risk_score"`
}

// Cost returns the estimated cost, or 0 when none was given.
func (a AssetRecord) Cost() int64 {
	if a.EstimatedCost == nil {
		return 0
	}
	return *a.EstimatedCost
}

var (
	assetYearRe      = regexp.MustCompile(`\([^)]*?\b(\d{4})\b[^)]*\)`)
	assetConditionRe = regexp.MustCompile(`(?i)condition:\s*(good|fair|poor)`)
	assetCostRe      = regexp.MustCompile(`(?i)est\.?\s*cost:\s*([$\d,]+)`)
)

// ParseAssetLine extracts an AssetRecord from one line. Every sub-pattern is
// optional; a line with none of them becomes an asset named after the whole
// line with fair condition and the default age.
func ParseAssetLine(line string) AssetRecord {
	line = strings.TrimSpace(line)

	rec := AssetRecord{
		Name:      assetName(line),
		Condition: ConditionFair,
		Age:       DefaultAssetAge,
	}

	if m := assetYearRe.FindStringSubmatch(line); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			rec.InstallYear = &year
			rec.Age = today().Year() - year
		}
	}
	if m := assetConditionRe.FindStringSubmatch(line); m != nil {
		rec.Condition = Condition(strings.ToLower(m[1]))
	}
	if m := assetCostRe.FindStringSubmatch(line); m != nil {
		if cost, ok := parseDigits(m[1]); ok {
			rec.EstimatedCost = &cost
		}
	}

	rec.RiskScore = RiskScore(rec.Condition, rec.Age)
	return rec
}

// RiskScore combines condition and age band. Range is [2, 6].
func RiskScore(c Condition, age int) int {
	return c.Score() + ageBand(age)
}

func ageBand(age int) int {
	switch {
	case age >= 30:
		return 3
	case age >= 15:
		return 2
	default:
		return 1
	}
}

// assetName is the text before the first "(" or "|", or the whole line.
func assetName(line string) string {
	if i := strings.IndexAny(line, "(|"); i > 0 {
		if name := strings.TrimSpace(line[:i]); name != "" {
			return name
		}
	}
	return line
}

// parseDigits keeps only ASCII digits, so "$1,250,000" parses as 1250000.
func parseDigits(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SplitAssetLines splits free text into one entry per non-blank line.
func SplitAssetLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// RankAssets parses every non-blank line and orders the result by risk score
// descending, then estimated cost descending.
func RankAssets(lines []string) []AssetRecord {
	assets := make([]AssetRecord, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		assets = append(assets, ParseAssetLine(l))
	}
	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].RiskScore != assets[j].RiskScore {
			return assets[i].RiskScore > assets[j].RiskScore
		}
		return assets[i].Cost() > assets[j].Cost()
	})
	return assets
}

// FundingPlan is the ranked asset list with its funding horizon.
type FundingPlan struct {
	Assets             []AssetRecord `json:"assets"`
	TotalEstimatedCost int64         `json:"total_estimated_cost"`
	AnnualBudget       float64       `json:"annual_budget"`
	HorizonYears       int           `json:"horizon_years"`
	YearsToFund        int           `json:"years_to_fund"`
}

// MaxYearsToFund caps YearsToFund when the budget is too small to express.
const MaxYearsToFund = math.MaxInt32

// PlanFunding totals the ranked assets and computes how many years the annual
// budget needs to cover them. A non-positive budget falls back to the planning
// horizon; an empty asset list needs zero years.
func PlanFunding(assets []AssetRecord, annualBudget float64, horizonYears int) FundingPlan {
	plan := FundingPlan{
		Assets:       assets,
		AnnualBudget: annualBudget,
		HorizonYears: horizonYears,
	}
	for _, a := range assets {
		plan.TotalEstimatedCost = addCost(plan.TotalEstimatedCost, a.Cost())
	}

	switch {
	case len(assets) == 0:
		plan.YearsToFund = 0
	case annualBudget > 0:
		plan.YearsToFund = yearsToFund(plan.TotalEstimatedCost, annualBudget)
	default:
		plan.YearsToFund = horizonYears
	}
	return plan
}

// addCost sums non-negative costs, saturating at math.MaxInt64.
func addCost(total, cost int64) int64 {
	if cost > math.MaxInt64-total {
		return math.MaxInt64
	}
	return total + cost
}

func yearsToFund(total int64, budget float64) int {
	years := math.Ceil(float64(total) / budget)
	if math.IsNaN(years) || years > MaxYearsToFund {
		return MaxYearsToFund
	}
	return int(years)
}

// ScheduleYear is the draft implementation year for the asset at rank index i
// (0-based): one asset per year, capped at the horizon.
func ScheduleYear(i, horizonYears int) int {
	return min(horizonYears, i+1)
}
