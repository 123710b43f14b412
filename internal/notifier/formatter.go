package notifier

import (
	"fmt"
	"html"
	"strings"

	"RationalPrice/internal/analysis"
)

// FormatReport formats an analysis result into a Telegram HTML message.
func FormatReport(res *analysis.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Ex-Post Rational Price</b> | %s\n\n", html.EscapeString(res.Symbol)))
	b.WriteString(fmt.Sprintf("Range: %s .. %s (%d periods)\n",
		res.Start().Format("2006-01"), res.End().Format("2006-01"), len(res.Rows)))
	b.WriteString(fmt.Sprintf("Discount rate: %.2f%% p.a. | Dividend yield: %.2f%%\n\n",
		res.Params.AnnualDiscountRate*100, res.Params.DividendYield*100))

	last := res.Rows[len(res.Rows)-1]
	b.WriteString(fmt.Sprintf("Last actual: %.2f\n", last.Actual))
	b.WriteString(fmt.Sprintf("Last ex-post: %.2f\n\n", last.Rational))

	b.WriteString("📈 <b>Standard deviation</b>\n")
	b.WriteString(fmt.Sprintf("  Actual: %.2f\n", res.ActualStdDev))
	b.WriteString(fmt.Sprintf("  Ex-post rational: %.2f\n", res.RationalStdDev))

	if res.Excess() {
		b.WriteString(fmt.Sprintf("\n⚠️ Excess volatility: %.2fx\n", res.VolatilityRatio))
	} else {
		b.WriteString("\n✅ No excess volatility\n")
	}
	return b.String()
}
