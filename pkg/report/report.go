// Package report reads package lists and writes provenance results.
//
// Input lists are YAML or CSV:
//
//	packages:
//	  - {ecosystem: npm, name: lodash, version: 4.17.21}
//	  - {ecosystem: maven, name: "org.apache.commons:commons-lang3", version: 3.14.0}
//
//	ecosystem,name,version
//	pypi,requests,2.31.0
//
// Results are written as flat rows (CSV, JSON or JSON Lines), one per
// package in input order.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

// Output formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Write renders records in format.
func Write(w io.Writer, format string, records []*provenance.ProvenanceRecord) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatJSONL:
		return WriteJSONL(w, records)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (want csv, json or jsonl)", format)
}

// WriteCSV writes a header line and one row per record.
func WriteCSV(w io.Writer, records []*provenance.ProvenanceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(provenance.RowHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Row().Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full records, diagnostics included, as an indented
// JSON array.
func WriteJSON(w io.Writer, records []*provenance.ProvenanceRecord) error {
	if records == nil {
		records = []*provenance.ProvenanceRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteJSONL writes one flat row object per line.
func WriteJSONL(w io.Writer, records []*provenance.ProvenanceRecord) error {
	enc := json.NewEncoder(w)
	for i, r := range records {
		if err := enc.Encode(r.Row()); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
