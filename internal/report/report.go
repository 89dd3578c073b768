// Package report writes sweep results as JSON, CSV, and terminal tables.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/gridpricer/internal/sweep"
)

// WriteJSON writes results.json into outdir.
func WriteJSON(res *sweep.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "results.json"), b, 0644)
}

// WriteCSV writes results.csv into outdir.
func WriteCSV(rows []sweep.Row, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "results.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"name", "method", "kind", "price", "half_width", "reference", "abs_error", "elapsed_ms", "error"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			r.Method,
			r.Kind,
			fmt.Sprintf("%.6f", r.Price),
			formatOptional(r.HalfWidth),
			formatOptional(r.Reference),
			formatOptional(r.AbsError),
			fmt.Sprintf("%.1f", r.ElapsedMs),
			r.Error,
		}
		_ = w.Write(record)
	}
	return nil
}

// RenderTable prints results as an aligned table, for interactive runs.
func RenderTable(w io.Writer, rows []sweep.Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Method", "Kind", "Price", "±95%", "Reference", "Abs Err", "ms"})
	for _, r := range rows {
		if r.Error != "" {
			table.Append([]string{r.Name, r.Method, r.Kind, "error: " + r.Error, "", "", "", ""})
			continue
		}
		table.Append([]string{
			r.Name,
			r.Method,
			r.Kind,
			fmt.Sprintf("%.6f", r.Price),
			formatOptional(r.HalfWidth),
			formatOptional(r.Reference),
			formatOptional(r.AbsError),
			fmt.Sprintf("%.1f", r.ElapsedMs),
		})
	}
	table.Render()
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}
