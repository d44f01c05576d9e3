// Package plan holds the operator's planning profile: the narrative and
// numeric inputs behind every generated document. A profile is loaded from
// the settings store (service) or a YAML file (CLI) and rendered with
// Render.
package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/domain"
)

// Plan is a complete planning profile.
type Plan struct {
	System        System                 `json:"system" yaml:"system"`
	Capital       Capital                `json:"capital" yaml:"capital"`
	Communication Communication          `json:"communication" yaml:"communication"`
	Energy        domain.EnergyInputs    `json:"energy" yaml:"energy"`
	Policies      domain.PolicyChecklist `json:"policies" yaml:"policies"`
}

// System identifies the water system the plan is for.
type System struct {
	State   string `json:"state" yaml:"state" validate:"omitempty,len=2,alpha"`
	County  string `json:"county" yaml:"county"`
	PWSID   string `json:"pwsid" yaml:"pwsid" validate:"omitempty,alphanum,max=12"`
	PWSName string `json:"pws_name" yaml:"pws_name"`
}

// Capital holds the sustainability and capital plan inputs. Assets and
// Objectives are free text with one entry per line.
type Capital struct {
	HorizonYears int     `json:"horizon_years" yaml:"horizon_years" validate:"min=1,max=50"`
	GrowthPct    float64 `json:"growth_pct" yaml:"growth_pct" validate:"gte=-100,lte=100"`
	AnnualBudget float64 `json:"annual_budget" yaml:"annual_budget" validate:"gte=0"`
	Assets       string  `json:"assets" yaml:"assets"`
	Hazards      string  `json:"hazards" yaml:"hazards"`
	Objectives   string  `json:"objectives" yaml:"objectives"`
}

// Communication holds the communication plan narrative.
type Communication struct {
	Spokesperson string `json:"spokesperson" yaml:"spokesperson"`
	Approver     string `json:"approver" yaml:"approver"`
	Stakeholders string `json:"stakeholders" yaml:"stakeholders"`
	Channels     string `json:"channels" yaml:"channels"`
	Triggers     string `json:"triggers" yaml:"triggers"`
	Contacts     string `json:"contacts" yaml:"contacts"`
}

// Default returns the profile an operator starts from.
func Default() Plan {
	return Plan{
		System: System{State: "OK"},
		Capital: Capital{
			HorizonYears: 5,
			GrowthPct:    1.5,
			AnnualBudget: 250000,
			Assets: strings.Join([]string{
				"Well 1 (1985) | condition: Fair | est. cost: 120000",
				"Elevated Tank (1998) | condition: Good | est. cost: 300000",
				"SCADA Panel (2006) | condition: Poor | est. cost: 45000",
			}, "\n"),
			Hazards:    "Power outage, Drought, Extreme cold, Flooding",
			Objectives: "Reduce water loss to <10%\nMaintain chlorine 0.5–1.5 mg/L\nReplace 100% LSLs by 2029",
		},
		Communication: Communication{
			Stakeholders: compose.DefaultStakeholders,
			Channels:     compose.DefaultChannels,
			Triggers:     compose.DefaultTriggers,
			Contacts:     compose.DefaultContacts,
		},
		Energy: domain.EnergyInputs{
			AnnualKWh:           350000,
			AnnualMG:            120,
			RatePerKWh:          0.12,
			PumpHP:              75,
			PumpHoursPerYear:    2000,
			UnaccountedWaterPct: 12,
		},
	}
}

var validate = validator.New()

// Validate checks numeric ranges and identifier shapes.
func (p Plan) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	return nil
}

// Records are the fetched ECHO records a document may draw on.
type Records struct {
	Systems    []domain.SystemRecord
	Violations []domain.Violation
}

// Render produces the document of the given kind. Unknown kinds fall back to
// the evaluations bundle.
func Render(kind compose.Kind, p Plan, rec Records) compose.Document {
	switch kind {
	case compose.KindCapitalPlan:
		return compose.CapitalPlan(p.capitalInput(rec))
	case compose.KindCommunicationPlan:
		return compose.CommunicationPlan(p.communicationInput(rec))
	case compose.KindEnergyAudit:
		return compose.EnergyAudit(p.energyInput(rec))
	case compose.KindTMFActions:
		return compose.TMFActions(p.System.PWSID, domain.TMFGaps(p.Policies))
	default:
		return compose.Evaluations(compose.EvaluationsInput{
			Communication: p.communicationInput(rec),
			Energy:        p.energyInput(rec),
			Gaps:          domain.TMFGaps(p.Policies),
		})
	}
}

// Funding ranks the plan's assets and computes the funding horizon.
func (p Plan) Funding() domain.FundingPlan {
	assets := domain.RankAssets(domain.SplitAssetLines(p.Capital.Assets))
	return domain.PlanFunding(assets, p.Capital.AnnualBudget, p.Capital.HorizonYears)
}

// selectedSystem picks the fetched record for the plan's PWSID. When nothing
// matches, the plan's own identity stands in.
func (p Plan) selectedSystem(rec Records) domain.SystemRecord {
	if sys, ok := domain.SelectSystem(rec.Systems, p.System.PWSID); ok {
		if sys.Name == "" {
			sys.Name = p.System.PWSName
		}
		return sys
	}
	return domain.SystemRecord{PWSID: p.System.PWSID, Name: p.System.PWSName, County: p.System.County}
}

// systemName prefers the operator-entered name over the fetched one.
func (p Plan) systemName(rec Records) string {
	if p.System.PWSName != "" {
		return p.System.PWSName
	}
	return p.selectedSystem(rec).Name
}

func (p Plan) capitalInput(rec Records) compose.CapitalPlanInput {
	return compose.CapitalPlanInput{
		System:     p.selectedSystem(rec),
		Violations: rec.Violations,
		Objectives: strings.Split(p.Capital.Objectives, "\n"),
		Hazards:    p.Capital.Hazards,
		GrowthPct:  p.Capital.GrowthPct,
		Funding:    p.Funding(),
	}
}

func (p Plan) communicationInput(rec Records) compose.CommunicationPlanInput {
	c := p.Communication
	return compose.CommunicationPlanInput{
		PWSName:      p.systemName(rec),
		PWSID:        p.System.PWSID,
		State:        p.System.State,
		Spokesperson: c.Spokesperson,
		Approver:     c.Approver,
		Stakeholders: c.Stakeholders,
		Channels:     c.Channels,
		Triggers:     c.Triggers,
		Contacts:     c.Contacts,
		Policies:     p.Policies,
	}
}

func (p Plan) energyInput(rec Records) compose.EnergyAuditInput {
	return compose.EnergyAuditInput{
		PWSName:    p.systemName(rec),
		PWSID:      p.System.PWSID,
		Inputs:     p.Energy,
		Assessment: domain.AssessEnergy(p.Energy, p.Policies),
		Policies:   p.Policies,
	}
}

// Settings is the subset of the settings store a profile is read from.
type Settings interface {
	Decode(ctx context.Context, key string, dst any) bool
}

// SettingsWriter is the subset of the settings store a profile is saved to.
type SettingsWriter interface {
	Set(ctx context.Context, key string, value any)
}

// FromSettings overlays every stored setting on the default profile.
func FromSettings(ctx context.Context, s Settings) Plan {
	p := Default()
	for _, b := range p.bindings() {
		s.Decode(ctx, b.key, b.ptr)
	}
	return p
}

// Save writes every field of p to the settings store.
func Save(ctx context.Context, s SettingsWriter, p Plan) {
	for _, b := range p.bindings() {
		s.Set(ctx, b.key, b.ptr)
	}
}

// DefaultValue returns the default for a known settings key.
func DefaultValue(key string) (any, bool) {
	d := Default()
	for _, b := range d.bindings() {
		if b.key == key {
			return b.ptr, true
		}
	}
	return nil, false
}

// IsKnownKey reports whether key maps to a profile field.
func IsKnownKey(key string) bool {
	_, ok := DefaultValue(key)
	return ok
}
