package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ReadingSource identifies where the current reading came from.
type ReadingSource string

const (
	SourceSCADA ReadingSource = "scada"
	SourceWater ReadingSource = "water"
)

// ActionCategory groups next actions on the worklist.
type ActionCategory string

const (
	CategoryCompliance ActionCategory = "Compliance"
	CategorySampling   ActionCategory = "Sampling"
	CategoryInventory  ActionCategory = "Inventory"
	CategorySCADA      ActionCategory = "SCADA"
	CategoryFunding    ActionCategory = "Funding"
)

// ActionPriority orders the worklist, most urgent first.
type ActionPriority string

const (
	PriorityCritical ActionPriority = "Critical"
	PriorityHigh     ActionPriority = "High"
	PriorityMedium   ActionPriority = "Medium"
	PriorityLow      ActionPriority = "Low"
)

// Rank returns the sort weight of the priority. Unknown values sort after Low.
func (p ActionPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ActionStatus is tracked by the UI only; derivation always emits Open.
type ActionStatus string

const (
	StatusOpen      ActionStatus = "Open"
	StatusCompleted ActionStatus = "Completed"
	StatusSnoozed   ActionStatus = "Snoozed"
)

// NextAction is one worklist item. DueDate is an ISO date (YYYY-MM-DD) or
// empty when the action is undated.
type NextAction struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Category    ActionCategory `json:"category"`
	Priority    ActionPriority `json:"priority"`
	DueDate     string         `json:"due_date,omitempty"`
	Description string         `json:"description"`
	Steps       []string       `json:"steps"`
	Status      ActionStatus   `json:"status"`
}

// Stable action identifiers.
const (
	ActionSignificantViolations = "vio-sig"
	ActionSCADALowPressure      = "scada-low-pressure"
	ActionSRFSetAside           = "fund-1"
)

const (
	scadaPressureFloorPsi = 45
	isoDate               = "2006-01-02"
)

// BuildNextActions derives the operator worklist from the current violations
// and reading. The list is regenerated in full on every call; due dates are
// offsets from today.
func BuildNextActions(violations []Violation, reading AdvisoryReading, source ReadingSource) []NextAction {
	var out []NextAction

	if n := len(SignificantViolations(violations)); n > 0 {
		out = append(out, NextAction{
			ID:          ActionSignificantViolations,
			Title:       fmt.Sprintf("Resolve %d significant violations", n),
			Category:    CategoryCompliance,
			Priority:    PriorityCritical,
			DueDate:     dueIn(7),
			Description: "Review ECHO details, notify primacy if required, and document corrective actions.",
			Steps:       []string{"Open ECHO facility report", "Draft corrective action plan", "Schedule follow-up sampling/ops changes"},
			Status:      StatusOpen,
		})
	}

	if isSCADA(source) && reading.PressurePsi != nil && *reading.PressurePsi < scadaPressureFloorPsi {
		out = append(out, NextAction{
			ID:          ActionSCADALowPressure,
			Title:       "Investigate low pressure trend",
			Category:    CategorySCADA,
			Priority:    PriorityHigh,
			DueDate:     dueIn(1),
			Description: "Sustained pressure <45 psi. Check PRVs/valves and inspect for leaks.",
			Steps:       []string{"Check PRV setpoints", "Inspect for main breaks", "Document remediation"},
			Status:      StatusOpen,
		})
	}

	out = append(out, NextAction{
		ID:          ActionSRFSetAside,
		Title:       "Prepare SRF set-aside application draft",
		Category:    CategoryFunding,
		Priority:    PriorityMedium,
		DueDate:     dueIn(21),
		Description: "Draft scope & costs for LSLR or treatment improvements.",
		Steps:       []string{"Export inventory counts", "Draft phases & costs", "Gather letters of support"},
		Status:      StatusOpen,
	})

	SortActions(out)
	return out
}

// SortActions orders actions by priority rank, then by due date ascending.
// Undated actions sort after dated ones within the same priority.
func SortActions(actions []NextAction) {
	sort.SliceStable(actions, func(i, j int) bool {
		a, b := actions[i], actions[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.DueDate == "":
			return false
		case b.DueDate == "":
			return true
		default:
			// ISO dates compare correctly as strings.
			return a.DueDate < b.DueDate
		}
	})
}

func isSCADA(source ReadingSource) bool {
	return strings.EqualFold(strings.TrimSpace(string(source)), string(SourceSCADA))
}

func dueIn(days int) string {
	return today().AddDate(0, 0, days).Format(isoDate)
}
