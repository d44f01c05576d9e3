package compose

import "strings"

const (
	noGapsChecklist = "- [ ] No gaps flagged."
	noGapsBundle    = "- [ ] No critical gaps flagged based on provided inputs."
)

// TMFActions renders the TMF gap list as a Markdown checklist.
func TMFActions(pwsid string, gaps []string) Document {
	return Document{
		Kind:     KindTMFActions,
		Filename: Filename(KindTMFActions, pwsid),
		Content:  "# Actions\n" + checklist(gaps, noGapsChecklist) + "\n",
	}
}

func checklist(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- [ ] " + Escape(item)
	}
	return strings.Join(lines, "\n")
}
