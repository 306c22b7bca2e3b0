package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/summary"
)

// FormatEntryOrg renders an entry as an Org-mode heading with its facts
// in a PROPERTIES drawer and an empty Notes section for the narrative.
func FormatEntryOrg(e ledger.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s %s (%s)\n", e.Date.Format(time.DateOnly), e.Direction, e.Code, shortID(e.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", e.ID)
	fmt.Fprintf(&b, ":CODE: %s\n", e.Code)
	fmt.Fprintf(&b, ":NAME: %s\n", e.Name)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", e.Direction)
	fmt.Fprintf(&b, ":QUANTITY: %s\n", f(e.Quantity))
	fmt.Fprintf(&b, ":PRICE: %.2f\n", e.Price)
	fmt.Fprintf(&b, ":VALUE: %.2f\n", e.Quantity*e.Price)
	fmt.Fprintf(&b, ":DATE: [%s]\n", e.Date.Format("2006-01-02 Mon"))
	fmt.Fprintf(&b, ":SEQ: %d\n", e.Seq)
	if e.Reason != "" {
		fmt.Fprintf(&b, ":REASON: %s\n", e.Reason)
	}
	b.WriteString(":END:\n")
	b.WriteString("\n*** Notes\n- \n")
	return b.String()
}

// FormatEntriesOrg renders entries separated by blank lines.
func FormatEntriesOrg(entries []ledger.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatEntryOrg(e))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

var summaryOrgFuncs = template.FuncMap{
	"money": func(x float64) string { return fmt.Sprintf("%.2f", x) },
	"qty":   f,
	"day": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.DateOnly)
	},
}

var summaryOrg = template.Must(template.New("summary").Funcs(summaryOrgFuncs).Parse(SummaryOrgTemplate))

// FormatSummaryOrg renders a portfolio summary as an Org-mode section with
// a per-instrument table.
func FormatSummaryOrg(p summary.Portfolio) (string, error) {
	var buf bytes.Buffer
	if err := summaryOrg.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

const SummaryOrgTemplate = `* SUMMARY: {{.Period}}
:PROPERTIES:
:PERIOD:        {{.Period}}
:FROM:          {{day .From}}
:REALIZED_PL:   {{money .TotalRealizedPnL}}
:CLOSED:        {{.TotalClosedTrades}}
:WINS:          {{.WinningTrades}}
:WIN_RATE:      {{printf "%.2f" .WinRate}}
:INSTRUMENTS:   {{len .Instruments}}
:END:

** Positions
| Code | Name | Net Qty | Avg Cost | Realized P/L | Closed | Wins |
|------+------+---------+----------+--------------+--------+------|
{{- range .Instruments }}
| {{.Code}} | {{.Name}} | {{qty .NetQuantity}} | {{money .AverageCost}} | {{money .RealizedPnL}} | {{.ClosedTrades}} | {{.WinningTrades}} |
{{- end }}

** Performance
- Realized P/L:  *{{money .TotalRealizedPnL}}*
- Win Rate:      *{{printf "%.2f" .WinRate}}%* ({{.WinningTrades}}/{{.TotalClosedTrades}})
`
