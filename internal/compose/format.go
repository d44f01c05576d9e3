package compose

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// missing stands in for an unknown header value.
const missing = "—"

var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Escape neutralizes the two HTML-significant characters in user text so the
// generated Markdown stays inert when rendered as HTML.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// orMissing escapes s, or returns the missing placeholder when s is blank.
func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return Escape(s)
}

// Dollars formats whole dollars with thousands separators: $120,000.
func Dollars(n int64) string {
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// Currency formats an amount to cents: $42,000.00.
func Currency(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Number formats v with thousands separators and no trailing zeros.
func Number(v float64) string {
	return humanize.Commaf(v)
}

// Percent formats v as a percentage without trailing zeros: 1.5%.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

var upstreamDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-06",
}

// FormatDate renders an upstream date as "Jan 02, 2006". Unparseable input is
// returned escaped and unchanged; empty input yields "".
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range upstreamDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 02, 2006")
		}
	}
	return Escape(raw)
}

// bulletLines renders each non-blank line as a Markdown bullet.
func bulletLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		if l = strings.TrimSpace(l); l == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(Escape(l))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// systemTitle prefers the system name, then its id, then a generic label.
func systemTitle(name, pwsid string) string {
	switch {
	case strings.TrimSpace(name) != "":
		return Escape(name)
	case strings.TrimSpace(pwsid) != "":
		return Escape(pwsid)
	default:
		return "PWS"
	}
}
