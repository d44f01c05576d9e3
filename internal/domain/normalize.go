package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Upstream alias tables. ECHO's dsdw_rest_services, the older sdw_rest_services,
// and the Envirofacts exports each spell the same field differently. Each list
// is tried in order and the first non-empty value wins.
var (
	pwsIDKeys = []string{"PWSID", "PWSId", "pwsid", "PWS_ID", "PwsId"}

	systemNameKeys       = []string{"PWSName", "PWS_NAME", "pws_name", "PwsName", "Name"}
	systemCityKeys       = []string{"City", "CITY", "CityName", "CITY_NAME", "city"}
	systemCountyKeys     = []string{"County", "COUNTY", "CountiesServed", "COUNTY_SERVED", "county"}
	systemPopulationKeys = []string{"PopulationServed", "POPULATION", "POPULATION_SERVED_COUNT", "PopulationServedCount", "population_served"}
	systemOwnerKeys      = []string{"OwnerType", "OWNER_TYPE", "OwnerTypeDesc", "OWNER_TYPE_CODE", "owner_type"}

	violationCodeKeys        = []string{"ViolationCode", "VIOLATION_CODE", "ViolationID", "VIOLATION_ID", "violation_code"}
	violationTypeKeys        = []string{"ViolationType", "VIOLATION_TYPE", "ViolationCategoryDesc", "violation_type"}
	violationContaminantKeys = []string{"Contaminant", "CONTAMINANT", "ContaminantName", "CONTAMINANT_NAME", "contaminant"}
	violationBeginKeys       = []string{"BeginDate", "BEGIN_DATE", "CompliancePeriodBeginDate", "COMPL_PER_BEGIN_DATE", "begin_date"}
	violationEndKeys         = []string{"EndDate", "END_DATE", "CompliancePeriodEndDate", "COMPL_PER_END_DATE", "end_date"}
	violationSignificantKeys = []string{"IsSignificant", "SIG_VIOL", "IS_SIGNIFICANT", "isSignificant", "significant"}
)

// NormalizeSystem maps an upstream system object onto SystemRecord.
// Unknown shapes produce a record with empty fields.
func NormalizeSystem(raw RawRecord) SystemRecord {
	return SystemRecord{
		PWSID:            lookup(raw, pwsIDKeys),
		Name:             lookup(raw, systemNameKeys),
		City:             lookup(raw, systemCityKeys),
		County:           lookup(raw, systemCountyKeys),
		PopulationServed: lookup(raw, systemPopulationKeys),
		OwnerType:        lookup(raw, systemOwnerKeys),
	}
}

// NormalizeViolation maps an upstream violation object onto Violation.
func NormalizeViolation(raw RawRecord) Violation {
	return Violation{
		SystemID:    lookup(raw, pwsIDKeys),
		Code:        lookup(raw, violationCodeKeys),
		Type:        lookup(raw, violationTypeKeys),
		Contaminant: lookup(raw, violationContaminantKeys),
		BeginDate:   lookup(raw, violationBeginKeys),
		EndDate:     lookup(raw, violationEndKeys),
		Significant: lookup(raw, violationSignificantKeys),
	}
}

// NormalizeSystems applies NormalizeSystem to every record.
func NormalizeSystems(raws []RawRecord) []SystemRecord {
	out := make([]SystemRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeSystem(r))
	}
	return out
}

// NormalizeViolations applies NormalizeViolation to every record.
func NormalizeViolations(raws []RawRecord) []Violation {
	out := make([]Violation, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeViolation(r))
	}
	return out
}

func lookup(raw RawRecord, keys []string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if s := stringify(v); s != "" {
			return s
		}
	}
	return ""
}

// stringify renders scalar JSON values as trimmed strings. Objects, arrays
// and nulls yield "".
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "Y"
		}
		return "N"
	default:
		return ""
	}
}
