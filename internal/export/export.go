// Package export writes the rows of a management table as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/medhire/portal/internal/table"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const maxSheetName = 31

func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName is the download name for a table export, e.g.
// doctors-2024-03-01.csv.
func FileName(title string, f Format, now time.Time) string {
	name := slug.Make(fmt.Sprintf("%s %s", title, now.Format("2006-01-02")))
	if name == "" {
		name = "export"
	}
	return name + "." + string(f)
}

// Rows renders items as a header row of column labels followed by one row
// per record.
func Rows[T table.Record](items []T, cols []table.Column) [][]string {
	rows := make([][]string, 0, len(items)+1)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	rows = append(rows, header)
	for _, item := range items {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = item.Value(c.Key)
		}
		rows = append(rows, row)
	}
	return rows
}

func Write(w io.Writer, f Format, title string, rows [][]string) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, title, rows)
	}
	return errors.Errorf("unknown export format %q", f)
}

// WriteCSV writes rows as CSV. Cells that a spreadsheet would read as a
// formula are prefixed with a single quote.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = safeCell(v)
		}
		if err := cw.Write(cells); err != nil {
			return errors.Wrap(err, "unable to write csv")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "unable to write csv")
}

func safeCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}

func WriteXLSX(w io.Writer, title string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "unable to name sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "unable to create header style")
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrap(err, "unable to open sheet writer")
	}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			if i == 0 {
				cells[j] = excelize.Cell{StyleID: bold, Value: v}
				continue
			}
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "unable to address row")
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return errors.Wrapf(err, "unable to write row %d", i+1)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "unable to flush sheet")
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "unable to write xlsx")
	}
	return nil
}

// sheetName strips the characters Excel refuses in sheet names and
// truncates to 31 runes.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		return "Export"
	}
	return name
}
