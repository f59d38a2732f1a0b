// Package xbrl decodes EDINET XBRL CSV archives into typed fact tables.
// EDINET ships facts as UTF-16LE tab-separated CSVs inside the type-5
// download ZIP.
package xbrl

import (
	"archive/zip"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/aomi-research/edinet-cli/internal/model"
)

// Column headers in the EDINET fact CSVs.
const (
	colElementID    = "要素ID"
	colItemName     = "項目名"
	colContextID    = "コンテキストID"
	colRelativeYear = "相対年度"
	colUnit         = "単位"
	colValue        = "値"
)

// DecodeArchive extracts every fact CSV in the ZIP and merges them into
// one ordered fact table. CSVs without a recognizable header are skipped.
func DecodeArchive(zipPath string) (*model.FactTable, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "xbrl: open archive %s", zipPath)
	}
	defer r.Close() //nolint:errcheck

	table := &model.FactTable{}
	decoded := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "xbrl: open entry %s", f.Name)
		}
		part, err := Decode(rc)
		rc.Close() //nolint:errcheck
		if err != nil {
			zap.L().Warn("xbrl: skipping undecodable csv",
				zap.String("entry", f.Name),
				zap.Error(err),
			)
			continue
		}
		if part == nil {
			continue
		}
		table.Facts = append(table.Facts, part.Facts...)
		table.Dropped += part.Dropped
		decoded++
	}

	if decoded == 0 {
		return nil, eris.Errorf("xbrl: no fact csv found in %s", zipPath)
	}
	return table, nil
}

// Decode reads one UTF-16LE tab-separated fact CSV. It returns nil (no
// error) when the stream lacks the element-ID and value columns, so
// non-fact CSVs inside an archive are skipped rather than fatal. Rows
// missing an identifier or value are dropped and counted.
func Decode(r io.Reader) (*model.FactTable, error) {
	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	cr := csv.NewReader(transform.NewReader(r, utf16.NewDecoder()))
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "xbrl: read header")
	}

	cols := indexColumns(header)
	if cols[colElementID] < 0 || cols[colValue] < 0 {
		return nil, nil
	}

	table := &model.FactTable{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "xbrl: read row")
		}

		identifier := field(record, cols[colElementID])
		value := field(record, cols[colValue])
		if identifier == "" || value == "" {
			table.Dropped++
			continue
		}

		contextLabel, member := splitContext(field(record, cols[colContextID]))
		table.Facts = append(table.Facts, model.Fact{
			Identifier:   identifier,
			Context:      contextLabel,
			RelativeYear: field(record, cols[colRelativeYear]),
			Member:       member,
			Name:         field(record, cols[colItemName]),
			Value:        value,
			Unit:         field(record, cols[colUnit]),
		})
	}
	return table, nil
}

func indexColumns(header []string) map[string]int {
	cols := map[string]int{
		colElementID:    -1,
		colItemName:     -1,
		colContextID:    -1,
		colRelativeYear: -1,
		colUnit:         -1,
		colValue:        -1,
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := cols[h]; ok {
			cols[h] = i
		}
	}
	return cols
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// splitContext separates an EDINET context ID into its period label and
// optional member dimension: "CurrentYearInstant_ConsolidatedMember"
// yields ("CurrentYearInstant", "ConsolidatedMember").
func splitContext(contextID string) (label, member string) {
	if contextID == "" {
		return "", ""
	}
	parts := strings.Split(contextID, "_")
	label = parts[0]
	for _, p := range parts[1:] {
		if strings.HasSuffix(p, "Member") {
			member = p
			break
		}
	}
	return label, member
}
