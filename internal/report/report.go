// Package report renders analysis results for terminals and files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"RationalPrice/internal/analysis"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/shopspring/decimal"
)

var (
	excessColor = color.New(color.FgRed, color.Bold)
	calmColor   = color.New(color.FgGreen)
	labelColor  = color.New(color.FgHiBlack)
)

func fixed(v float64, precision int) string {
	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// FormatSummary formats the two standard deviations and the verdict.
func FormatSummary(res *analysis.Result, precision int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s | %s .. %s | %d periods\n",
		labelColor.Sprint("symbol"), res.Symbol,
		res.Start().Format("2006-01-02"), res.End().Format("2006-01-02"), len(res.Rows))
	fmt.Fprintf(&b, "annual discount rate %s (periodic %s), dividend yield %s, %d periods/year\n",
		fixed(res.Params.AnnualDiscountRate, 4), fixed(res.PeriodicRate, 6),
		fixed(res.Params.DividendYield, 4), res.Params.PeriodsPerYear)
	fmt.Fprintf(&b, "Standard Deviation of Actual Prices: %s\n", fixed(res.ActualStdDev, precision))
	fmt.Fprintf(&b, "Standard Deviation of Ex-Post Rational Prices: %s\n", fixed(res.RationalStdDev, precision))
	fmt.Fprintf(&b, "Mean periodic return: %s%%\n", fixed(res.MeanReturn*100, 3))

	if res.Excess() {
		fmt.Fprintf(&b, "%s actual prices are %sx as volatile as the ex-post rational price\n",
			excessColor.Sprint("EXCESS VOLATILITY"), ratioString(res.VolatilityRatio))
	} else {
		fmt.Fprintf(&b, "%s actual prices are no more volatile than the ex-post rational price (%sx)\n",
			calmColor.Sprint("NO EXCESS"), ratioString(res.VolatilityRatio))
	}
	return b.String()
}

func ratioString(r float64) string {
	if r > 1e12 {
		return "inf"
	}
	return fixed(r, 2)
}

// WriteTable renders the last rows periods as a table. rows <= 0 renders all of them.
func WriteTable(w io.Writer, res *analysis.Result, rows, precision int) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Actual", "Dividend", "Ex-Post Rational"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	from := 0
	if rows > 0 && rows < len(res.Rows) {
		from = len(res.Rows) - rows
	}
	var data [][]string
	for _, r := range res.Rows[from:] {
		data = append(data, []string{
			r.Time.Format("2006-01-02"),
			fixed(r.Actual, precision),
			fixed(r.Dividend, precision),
			fixed(r.Rational, precision),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteCSV writes the full aligned series for plotting.
func WriteCSV(w io.Writer, res *analysis.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "actual_price", "dividend", "ex_post_rational_price"}); err != nil {
		return err
	}
	for _, r := range res.Rows {
		if err := cw.Write([]string{
			r.Time.Format("2006-01-02"),
			strconv.FormatFloat(r.Actual, 'g', -1, 64),
			strconv.FormatFloat(r.Dividend, 'g', -1, 64),
			strconv.FormatFloat(r.Rational, 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV series to path.
func WriteCSVFile(path string, res *analysis.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(file, res); err != nil {
		_ = file.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return file.Close()
}
