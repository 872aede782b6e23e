// Command expense-report runs the report pipeline over a CSV file without
// starting the web server: read, filter, aggregate, print.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/ingest"
	applog "expensetracker/internal/log"
	"expensetracker/internal/report"
)

type categoryFlags []string

func (c *categoryFlags) String() string {
	return strings.Join(*c, ",")
}

func (c *categoryFlags) Set(v string) error {
	*c = append(*c, v)
	return nil
}

type options struct {
	input      string
	categories categoryFlags
	currency   string
	csvOut     string
	xlsxOut    string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "", "CSV file with Category, Amount and Date columns (required)")
	flag.Var(&opts.categories, "category", "category to keep; repeat to select several (default all)")
	flag.StringVar(&opts.currency, "currency", "₹", "currency symbol used when printing amounts")
	flag.StringVar(&opts.csvOut, "csv", "", "write the filtered rows to this CSV file")
	flag.StringVar(&opts.xlsxOut, "xlsx", "", "write the filtered rows and summary to this XLSX file")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := cli.SetupLogger(*logLevel).WithComponent(applog.ComponentReport)
	if opts.input == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Error("Report failed", applog.FieldError, err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer, logger *applog.Logger) error {
	f, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	table, err := ingest.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.input, err)
	}
	logger.Info("Input parsed", applog.FieldRecords, len(table))

	rep := report.Build(table, opts.categories)
	if err := printReport(out, rep, opts.currency); err != nil {
		return err
	}

	rows := core.ToExportRows(rep.Rows)
	if opts.csvOut != "" {
		if err := writeFile(opts.csvOut, func(w io.Writer) error { return export.WriteCSV(w, rows) }); err != nil {
			return err
		}
		logger.Info("Export written", applog.FieldFormat, "csv", "path", opts.csvOut)
	}
	if opts.xlsxOut != "" {
		if err := writeFile(opts.xlsxOut, func(w io.Writer) error { return export.WriteXLSX(w, rows, rep.Summary()) }); err != nil {
			return err
		}
		logger.Info("Export written", applog.FieldFormat, "xlsx", "path", opts.xlsxOut)
	}
	return nil
}

func printReport(out io.Writer, rep report.Report, currency string) error {
	if errors.Is(rep.Warning, core.ErrEmptyInput) {
		_, err := fmt.Fprintln(out, "No expenses found.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Category\tAmount\tShare\t")
	for _, s := range rep.Slices {
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t\n", s.Name, core.FormatAmount(s.Amount, currency), s.Percent)
	}
	fmt.Fprintf(tw, "Total\t%s\t\t\n", core.FormatAmount(rep.Total, currency))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if rep.TrendErr != nil {
		_, err := fmt.Fprintln(out, "Monthly trend unavailable:", rep.TrendErr)
		return err
	}
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tAmount\t")
	for _, m := range rep.Trend {
		fmt.Fprintf(tw, "%s\t%s\t\n", m.Month, core.FormatAmount(m.Amount, currency))
	}
	return tw.Flush()
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
