package extract

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/aomi-research/edinet-cli/internal/model"
)

// exportHeader is the column layout shared by the CSV and XLSX exports.
var exportHeader = []string{
	"field", "display_name", "value",
	"source_identifier", "source_context", "source_member",
	"absent", "reason",
}

// Rows flattens a normalized result into provenance rows in field order.
func Rows(result *model.NormalizedResult) [][]string {
	rows := make([][]string, 0, len(result.FieldOrder))
	for _, name := range result.FieldOrder {
		fr, ok := result.Fields[name]
		if !ok {
			continue
		}
		absent := ""
		if fr.Absent {
			absent = "true"
		}
		rows = append(rows, []string{
			name, fr.DisplayName, fr.Value,
			fr.SourceIdentifier, fr.SourceContext, fr.SourceMember,
			absent, string(fr.Reason),
		})
	}
	return rows
}

// WriteCSV writes the result as a flat CSV table.
func WriteCSV(w io.Writer, result *model.NormalizedResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range Rows(result) {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX writes the result as a single-sheet workbook.
func WriteXLSX(path string, result *model.NormalizedResult) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("normalized")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range exportHeader {
		header.AddCell().SetString(col)
	}
	for _, row := range Rows(result) {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	return eris.Wrapf(wb.Save(path), "export: save %s", path)
}
