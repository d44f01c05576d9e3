package compose

import (
	"fmt"
	"strings"
)

// EvaluationsInput is everything the combined evaluations package draws on.
type EvaluationsInput struct {
	Communication CommunicationPlanInput
	Energy        EnergyAuditInput
	Gaps          []string
}

// Evaluations renders the communication plan, the energy audit and the TMF
// follow-up actions as one package.
func Evaluations(in EvaluationsInput) Document {
	c := in.Communication

	var b strings.Builder
	fmt.Fprintf(&b, "# System Evaluations Package – %s (%s)\n\n", systemTitle(c.PWSName, c.PWSID), Escape(c.State))
	b.WriteString(strings.TrimRight(communicationBody(c), "\n"))
	b.WriteString("\n\n---\n\n")
	b.WriteString(strings.TrimRight(energyBody(in.Energy), "\n"))
	b.WriteString("\n\n---\n\n")
	b.WriteString("## Required Follow-up Actions (TMF)\n")
	b.WriteString(checklist(in.Gaps, noGapsBundle) + "\n")

	return Document{
		Kind:     KindEvaluations,
		Filename: Filename(KindEvaluations, c.PWSID),
		Content:  b.String(),
	}
}
