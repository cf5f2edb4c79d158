package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"slimsamples/internal/batch"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func outcomeColor(outcome batch.Outcome) text.Colors {
	switch outcome {
	case batch.OutcomeSucceeded:
		return text.Colors{text.FgGreen}
	case batch.OutcomeFailed, batch.OutcomeInspectFailed:
		return text.Colors{text.FgRed}
	case batch.OutcomeInconsistent:
		return text.Colors{text.FgRed, text.Bold}
	case batch.OutcomeUnsupported:
		return text.Colors{text.FgYellow}
	default:
		return nil
	}
}

// printTotals writes one row per outcome that occurred, in report order.
func printTotals(w io.Writer, totals batch.Totals) {
	if totals.Total() == 0 {
		return
	}
	colorize := shouldColorize(w)
	rows := make([][]string, 0, len(batch.Outcomes)+1)
	for _, outcome := range batch.Outcomes {
		count := totals[outcome]
		if count == 0 {
			continue
		}
		label := string(outcome)
		if colorize {
			if colors := outcomeColor(outcome); colors != nil {
				label = colors.Sprint(label)
			}
		}
		rows = append(rows, []string{label, strconv.Itoa(count)})
	}
	rows = append(rows, []string{"total", strconv.Itoa(totals.Total())})
	fmt.Fprintln(w, renderTable([]string{"Outcome", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
}
