package plan

// Settings keys. The names are shared with earlier dashboard exports, so
// stored profiles keep loading.
const (
	KeyState   = "state"
	KeyCounty  = "county"
	KeyPWSID   = "pwsid"
	KeyPWSName = "pws_name"

	KeyPlanHorizon    = "plan_horizon"
	KeyPlanGrowthPct  = "plan_growth_pct"
	KeyPlanBudget     = "plan_budget"
	KeyPlanAssets     = "plan_assets"
	KeyPlanHazards    = "plan_hazards"
	KeyPlanObjectives = "plan_objectives"

	KeyCommSpokesperson = "comm_spokesperson"
	KeyCommApprover     = "comm_approver"
	KeyCommStakeholders = "comm_stakeholders"
	KeyCommChannels     = "comm_channels"
	KeyCommTriggers     = "comm_triggers"
	KeyCommContacts     = "comm_contacts"

	KeyEnergyKWh     = "energy_kwh"
	KeyEnergyMG      = "energy_mg"
	KeyEnergyRate    = "energy_rate"
	KeyEnergyPumpHP  = "energy_pumphp"
	KeyEnergyPumpHrs = "energy_pumphrs"
	KeyEnergyLeakPct = "energy_leakpct"

	KeyTMFCommsPolicy = "tmf_has_commspolicy"
	KeyTMFERP         = "tmf_has_erp"
	KeyTMFBackflow    = "tmf_has_backflow"
	KeyTMFWaterLoss   = "tmf_has_wla"
	KeyTMFAssetMgmt   = "tmf_has_asset"
	KeyTMFCyber       = "tmf_has_cyber"
	KeyTMFMutualAid   = "tmf_in_sw"
)

type binding struct {
	key string
	ptr any
}

// bindings maps each settings key to the profile field it fills.
func (p *Plan) bindings() []binding {
	return []binding{
		{KeyState, &p.System.State},
		{KeyCounty, &p.System.County},
		{KeyPWSID, &p.System.PWSID},
		{KeyPWSName, &p.System.PWSName},

		{KeyPlanHorizon, &p.Capital.HorizonYears},
		{KeyPlanGrowthPct, &p.Capital.GrowthPct},
		{KeyPlanBudget, &p.Capital.AnnualBudget},
		{KeyPlanAssets, &p.Capital.Assets},
		{KeyPlanHazards, &p.Capital.Hazards},
		{KeyPlanObjectives, &p.Capital.Objectives},

		{KeyCommSpokesperson, &p.Communication.Spokesperson},
		{KeyCommApprover, &p.Communication.Approver},
		{KeyCommStakeholders, &p.Communication.Stakeholders},
		{KeyCommChannels, &p.Communication.Channels},
		{KeyCommTriggers, &p.Communication.Triggers},
		{KeyCommContacts, &p.Communication.Contacts},

		{KeyEnergyKWh, &p.Energy.AnnualKWh},
		{KeyEnergyMG, &p.Energy.AnnualMG},
		{KeyEnergyRate, &p.Energy.RatePerKWh},
		{KeyEnergyPumpHP, &p.Energy.PumpHP},
		{KeyEnergyPumpHrs, &p.Energy.PumpHoursPerYear},
		{KeyEnergyLeakPct, &p.Energy.UnaccountedWaterPct},

		{KeyTMFCommsPolicy, &p.Policies.CommunicationPolicy},
		{KeyTMFERP, &p.Policies.EmergencyResponsePlan},
		{KeyTMFBackflow, &p.Policies.BackflowPlan},
		{KeyTMFWaterLoss, &p.Policies.WaterLossAudit},
		{KeyTMFAssetMgmt, &p.Policies.AssetManagementPlan},
		{KeyTMFCyber, &p.Policies.CybersecurityPlan},
		{KeyTMFMutualAid, &p.Policies.MutualAidMember},
	}
}
