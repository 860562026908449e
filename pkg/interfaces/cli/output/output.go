package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/sourcing/pkg/application/dto"
)

// BaseName is the file name, without extension, of a saved proposal
const BaseName = "propuesta_sourcing"

// Formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Columns of the proposal sheet
var Columns = []string{
	"Orden",
	"Material",
	"Centro",
	"Clase orden",
	"Cantidad Propuesta",
	"Unidad",
	"Fecha Carga",
	"Semana",
	"Horas Totales",
	"Ahorro Optimización (€)",
}

// Config holds configuration for output generation
type Config struct {
	Format     string
	OutputDir  string
	Verbose    bool
	PlanTime   time.Duration
	Cached     bool
	InputFiles map[string]string
}

// Generate writes the result in the configured format, to stdout or to a file
// under OutputDir. body is the encoded result, used verbatim for JSON.
func Generate(result *dto.PlanResult, body []byte, config Config) error {
	if config.OutputDir == "" {
		if config.Format == FormatXLSX {
			return fmt.Errorf("output directory required for xlsx format")
		}
		return Write(os.Stdout, result, body, config)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ext := config.Format
	if ext == FormatText {
		ext = "txt"
	}
	filename := filepath.Join(config.OutputDir, BaseName+"."+ext)

	var buf bytes.Buffer
	if err := Write(&buf, result, body, config); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", config.Format, err)
	}

	if config.Verbose {
		fmt.Printf("💾 Results saved to: %s\n", filename)
	}
	return nil
}

// Write renders the result in the configured format
func Write(w io.Writer, result *dto.PlanResult, body []byte, config Config) error {
	switch config.Format {
	case FormatText, "":
		return WriteText(w, result, config)
	case FormatJSON:
		return WriteJSON(w, body)
	case FormatCSV:
		return WriteCSV(w, result)
	case FormatXLSX:
		return WriteXLSX(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// WriteText creates human-readable text output
func WriteText(w io.Writer, result *dto.PlanResult, config Config) error {
	s := result.Summary

	fmt.Fprintf(w, "📊 Sourcing Proposal Summary\n")
	fmt.Fprintf(w, "============================\n\n")

	fmt.Fprintf(w, "Production Orders: %d\n", s.TotalOrders)
	fmt.Fprintf(w, "Total Quantity: %s\n", s.TotalQuantity.StringFixed(2))
	fmt.Fprintf(w, "Total Hours: %s\n", s.TotalHours.StringFixed(2))
	fmt.Fprintf(w, "Total Savings: %s €\n", s.TotalSavings.StringFixed(2))
	if config.PlanTime > 0 {
		fmt.Fprintf(w, "Plan Time: %v\n", config.PlanTime)
	}
	if config.Cached {
		fmt.Fprintf(w, "Served from memo: %s\n", result.Fingerprint)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "🏭 Centers:\n")
	fmt.Fprintf(w, "%-8s %-6s %-7s %-12s %-12s %-9s %-9s %-9s\n",
		"Center", "Alias", "Orders", "Hours", "Savings", "Hours %", "Orders %", "Load %")
	fmt.Fprintf(w, "%-8s %-6s %-7s %-12s %-12s %-9s %-9s %-9s\n",
		"--------", "------", "-------", "------------", "------------", "---------", "---------", "---------")
	for _, c := range s.Centers {
		load := "-"
		if c.Load != nil {
			load = c.Load.StringFixed(2)
		}
		fmt.Fprintf(w, "%-8s %-6s %-7d %-12s %-12s %-9s %-9s %-9s\n",
			c.Center, c.Alias, c.Orders,
			c.Hours.StringFixed(2), c.Savings.StringFixed(2),
			c.HoursShare.StringFixed(2), c.OrdersShare.StringFixed(2), load)
	}
	fmt.Fprintln(w)

	if len(result.Orders) > 0 {
		fmt.Fprintf(w, "📋 Production Orders:\n")
		fmt.Fprintf(w, "%-6s %-15s %-8s %-6s %-12s %-6s %-11s %-9s %-10s %-10s\n",
			"Order", "Material", "Center", "Class", "Quantity", "Unit", "Lot Date", "Week", "Hours", "Savings")
		fmt.Fprintf(w, "%-6s %-15s %-8s %-6s %-12s %-6s %-11s %-9s %-10s %-10s\n",
			"------", "---------------", "--------", "------", "------------", "------", "-----------", "---------", "----------", "----------")

		for _, o := range result.Orders {
			fmt.Fprintf(w, "%-6d %-15s %-8s %-6s %-12s %-6s %-11s %-9s %-10s %-10s\n",
				o.Number, o.Material, o.Center, o.OrderClass,
				o.Quantity.StringFixed(2), o.Unit, o.LotDateLabel(), o.Week,
				o.Hours.StringFixed(2), o.Savings.StringFixed(2))
		}
		fmt.Fprintln(w)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "⚠️  Warnings:\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  %s %s %q: %s\n", warning.Kind, warning.Table, warning.Value, warning.Message)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// WriteJSON pretty-prints the encoded result
func WriteJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteCSV writes the production orders as the proposal sheet
func WriteCSV(w io.Writer, result *dto.PlanResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range orderRows(result) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a workbook with the proposal and the summary sheets
func WriteXLSX(w io.Writer, result *dto.PlanResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const proposal, summary = "Propuesta", "Resumen"
	if err := f.SetSheetName(f.GetSheetName(0), proposal); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := setRow(f, proposal, 1, toAny(Columns)); err != nil {
		return err
	}
	for i, o := range result.Orders {
		row := []any{
			o.Number, string(o.Material), string(o.Center), o.OrderClass,
			o.Quantity.InexactFloat64(), o.Unit, o.LotDateLabel(), o.Week,
			o.Hours.InexactFloat64(), o.Savings.InexactFloat64(),
		}
		if err := setRow(f, proposal, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	header := []any{"Centro", "Alias", "Órdenes", "Horas", "Ahorro (€)", "% Horas", "% Órdenes", "Capacidad", "% Carga"}
	if err := setRow(f, summary, 1, header); err != nil {
		return err
	}
	for i, c := range result.Summary.Centers {
		row := []any{
			string(c.Center), c.Alias, c.Orders, c.Hours.InexactFloat64(), c.Savings.InexactFloat64(),
			c.HoursShare.InexactFloat64(), c.OrdersShare.InexactFloat64(), "", "",
		}
		if c.Capacity != nil && c.Load != nil {
			row[7], row[8] = c.Capacity.InexactFloat64(), c.Load.InexactFloat64()
		}
		if err := setRow(f, summary, i+2, row); err != nil {
			return err
		}
	}
	s := result.Summary
	total := []any{"Total", "", s.TotalOrders, s.TotalHours.InexactFloat64(), s.TotalSavings.InexactFloat64()}
	if err := setRow(f, summary, len(s.Centers)+2, total); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func orderRows(result *dto.PlanResult) [][]string {
	rows := make([][]string, 0, len(result.Orders))
	for _, o := range result.Orders {
		rows = append(rows, []string{
			fmt.Sprintf("%d", o.Number),
			string(o.Material),
			string(o.Center),
			o.OrderClass,
			o.Quantity.StringFixed(2),
			o.Unit,
			o.LotDateLabel(),
			o.Week,
			o.Hours.StringFixed(2),
			o.Savings.StringFixed(2),
		})
	}
	return rows
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
