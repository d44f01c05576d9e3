package domain

// PolicyChecklist records which TMF capacity policies the system already has.
type PolicyChecklist struct {
	CommunicationPolicy   bool `json:"communication_policy" yaml:"communication_policy"`
	EmergencyResponsePlan bool `json:"emergency_response_plan" yaml:"emergency_response_plan"`
	BackflowPlan          bool `json:"backflow_plan" yaml:"backflow_plan"`
	WaterLossAudit        bool `json:"water_loss_audit" yaml:"water_loss_audit"`
	AssetManagementPlan   bool `json:"asset_management_plan" yaml:"asset_management_plan"`
	CybersecurityPlan     bool `json:"cybersecurity_plan" yaml:"cybersecurity_plan"`
	MutualAidMember       bool `json:"mutual_aid_member" yaml:"mutual_aid_member"`
}

var tmfGapRules = []struct {
	has    func(PolicyChecklist) bool
	action string
}{
	{func(p PolicyChecklist) bool { return p.CommunicationPolicy }, "Draft and adopt a written Communication Policy; train staff annually."},
	{func(p PolicyChecklist) bool { return p.EmergencyResponsePlan }, "Update Emergency Response Plan; verify contacts and alternate power procedures."},
	{func(p PolicyChecklist) bool { return p.BackflowPlan }, "Adopt a written Backflow Cross-Connection Control plan; schedule testing."},
	{func(p PolicyChecklist) bool { return p.WaterLossAudit }, "Institutionalize annual AWWA M36 Water Loss Audit; submit results to DEQ if requested."},
	{func(p PolicyChecklist) bool { return p.AssetManagementPlan }, "Complete Asset Management Plan using DEQ template; set renewal funding strategy."},
	{func(p PolicyChecklist) bool { return p.CybersecurityPlan }, "Adopt Cybersecurity Plan; perform annual tabletop exercise."},
	{func(p PolicyChecklist) bool { return p.MutualAidMember }, "Join SoonerWARN or a mutual aid group; document membership and contacts."},
}

// TMFGaps lists the follow-up action for every policy the checklist is missing.
func TMFGaps(p PolicyChecklist) []string {
	var out []string
	for _, r := range tmfGapRules {
		if !r.has(p) {
			out = append(out, r.action)
		}
	}
	return out
}
