package compose

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/pws-advisor-service/internal/domain"
)

// Defaults mirror the values an operator starts from before editing the plan.
const (
	DefaultStakeholders = "Customers, City Council, County EM, Local Media, DEQ District Engineer, Schools"
	DefaultChannels     = "SMS, Email, Website, Facebook, X/Twitter, Door hangers, Radio"
	DefaultTriggers     = "Boil Order, Planned Outage, Main Break, Water Quality Advisory, Rate Change"
	DefaultContacts     = "Name | Role | Phone | Email\nJane Smith | Operator | (555) 555-1212 | ops@example.org\n..."
)

// CommunicationPlanInput holds the narrative fields of a communication plan.
type CommunicationPlanInput struct {
	PWSName      string                 `json:"pws_name" yaml:"pws_name"`
	PWSID        string                 `json:"pwsid" yaml:"pwsid"`
	State        string                 `json:"state" yaml:"state"`
	Spokesperson string                 `json:"spokesperson" yaml:"spokesperson"`
	Approver     string                 `json:"approver" yaml:"approver"`
	Stakeholders string                 `json:"stakeholders" yaml:"stakeholders"`
	Channels     string                 `json:"channels" yaml:"channels"`
	Triggers     string                 `json:"triggers" yaml:"triggers"`
	Contacts     string                 `json:"contacts" yaml:"contacts"`
	Policies     domain.PolicyChecklist `json:"policies" yaml:"policies"`
}

// CommunicationPlan renders the customer and stakeholder communication plan.
func CommunicationPlan(in CommunicationPlanInput) Document {
	return Document{
		Kind:     KindCommunicationPlan,
		Filename: Filename(KindCommunicationPlan, in.PWSID),
		Content:  communicationBody(in),
	}
}

func communicationBody(in CommunicationPlanInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Communication Plan – %s (%s)\n\n", systemTitle(in.PWSName, in.PWSID), Escape(in.State))

	b.WriteString("## Roles & Authorization\n")
	fmt.Fprintf(&b, "- **Spokesperson:** %s  \n", orPlaceholder(in.Spokesperson, "[Name]"))
	fmt.Fprintf(&b, "- **Approval/Legal Review:** %s  \n", orPlaceholder(in.Approver, "[Name]"))
	b.WriteString("- **Backups:** [Designate]\n")
	policy := "No – create/approve written policy template"
	if in.Policies.CommunicationPolicy {
		policy = "Yes"
	}
	fmt.Fprintf(&b, "- **Policies in place:** %s\n\n", policy)

	b.WriteString("## Stakeholders & Channels\n")
	fmt.Fprintf(&b, "- **Stakeholders:** %s\n", Escape(in.Stakeholders))
	fmt.Fprintf(&b, "- **Channels:** %s\n", Escape(in.Channels))
	fmt.Fprintf(&b, "- **Notification triggers:** %s\n\n", Escape(in.Triggers))

	b.WriteString(`## Notification Matrix
| Event | Who gets notified | Method | Timeframe |
|---|---|---|---|
| Boil Order | All customers; DEQ District Engineer; Local media | SMS/Email/Website/Radio | Per DEQ/EPA-required timeframes |
| Main Break | Affected customers; City/County | SMS/Door Hanger | Immediate |
| Planned Outage | Affected customers | Email/Website/Door Hanger | 72 hours prior |
| Water Quality Advisory | All customers; DEQ | Email/Website/Press | As required |

## Message Templates
**Boil Order (short):**  
`)
	fmt.Fprintf(&b, "\"Due to %s detecting an issue, a **Boil Water Advisory** is in effect until further notice. "+
		"Boil tap water for 1 minute before use. Updates at [website] or call [phone].\"\n\n",
		orPlaceholder(in.PWSName, "our system"))
	b.WriteString("**Outage (planned):**  \n")
	b.WriteString("\"Water service will be interrupted on [date/time] in [area]. We apologize for the inconvenience. Details: [link].\"\n\n")

	b.WriteString("## Contact Roster\n")
	b.WriteString(Escape(strings.TrimRight(in.Contacts, "\n")) + "\n\n")

	b.WriteString("## Training & Review\n")
	b.WriteString("- Annual tabletop drill on communication workflows.\n")
	b.WriteString("- After-action review after any major event; update templates and contact roster.\n")
	return b.String()
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return Escape(s)
}
