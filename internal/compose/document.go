package compose

import "strings"

// Kind names a generated document.
type Kind string

const (
	KindCapitalPlan       Kind = "capital"
	KindCommunicationPlan Kind = "communication"
	KindEnergyAudit       Kind = "energy"
	KindTMFActions        Kind = "tmf"
	KindEvaluations       Kind = "bundle"
)

// Kinds lists every document kind in display order.
var Kinds = []Kind{KindCapitalPlan, KindCommunicationPlan, KindEnergyAudit, KindTMFActions, KindEvaluations}

// ParseKind returns the Kind for s, or false when s names no document.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, true
		}
	}
	return "", false
}

// Document is a rendered Markdown document ready for a sink.
type Document struct {
	Kind     Kind   `json:"kind"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

var filenamePrefixes = map[Kind]string{
	KindCapitalPlan:       "SustainabilityPlan",
	KindCommunicationPlan: "CommunicationPlan",
	KindEnergyAudit:       "EnergyAudit",
	KindTMFActions:        "TMFActions",
	KindEvaluations:       "SystemEvaluations",
}

// Filename builds the download name for a document, e.g.
// "EnergyAudit_OK1020304.md". Characters outside [A-Za-z0-9_-] are dropped
// from the PWSID.
func Filename(kind Kind, pwsid string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, pwsid)
	if id == "" {
		id = "PWS"
		if kind == KindCapitalPlan {
			id = "Plan"
		}
	}
	prefix, ok := filenamePrefixes[kind]
	if !ok {
		prefix = "Document"
	}
	return prefix + "_" + id + ".md"
}
