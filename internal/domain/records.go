package domain

import "strings"

// RawRecord is one upstream ECHO/SDWIS object as decoded from JSON. Keys vary
// between endpoints and API versions; see the alias tables in normalize.go.
type RawRecord map[string]any

// Violation is a canonical SDWIS violation record.
type Violation struct {
	SystemID    string `json:"pwsid"`
	Code        string `json:"code,omitempty"`
	Type        string `json:"type,omitempty"`
	Contaminant string `json:"contaminant,omitempty"`
	BeginDate   string `json:"begin_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Significant string `json:"significant,omitempty"` // raw "Y"/"N" marker
}

// IsSignificant reports whether the significance marker is exactly "Y",
// ignoring case and surrounding whitespace. Markers such as "Yes" do not count.
func (v Violation) IsSignificant() bool {
	return strings.EqualFold(strings.TrimSpace(v.Significant), "Y")
}

// Label returns the most descriptive identifier available for display.
func (v Violation) Label() string {
	switch {
	case v.Type != "":
		return v.Type
	case v.Code != "":
		return v.Code
	default:
		return "Violation"
	}
}

// SystemRecord is a canonical public water system record.
type SystemRecord struct {
	PWSID            string `json:"pwsid"`
	Name             string `json:"name,omitempty"`
	City             string `json:"city,omitempty"`
	County           string `json:"county,omitempty"`
	PopulationServed string `json:"population_served,omitempty"`
	OwnerType        string `json:"owner_type,omitempty"`
}

// SignificantViolations returns the violations flagged significant, in input order.
func SignificantViolations(violations []Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.IsSignificant() {
			out = append(out, v)
		}
	}
	return out
}

// SelectSystem picks the system matching pwsid (case-insensitive). With an
// empty pwsid the first system is returned. The boolean is false when nothing
// matches.
func SelectSystem(systems []SystemRecord, pwsid string) (SystemRecord, bool) {
	pwsid = strings.TrimSpace(pwsid)
	if pwsid == "" {
		if len(systems) == 0 {
			return SystemRecord{}, false
		}
		return systems[0], true
	}
	for _, s := range systems {
		if strings.EqualFold(s.PWSID, pwsid) {
			return s, true
		}
	}
	return SystemRecord{}, false
}
