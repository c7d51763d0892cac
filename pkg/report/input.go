package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

type manifest struct {
	Packages []entry `yaml:"packages"`
}

type entry struct {
	Ecosystem string `yaml:"ecosystem"`
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`

	err error
}

// Rejected is a package list entry that failed validation.
type Rejected struct {
	// Position is the 1-based index of the entry in the list, not
	// counting a CSV header or comment lines.
	Position int
	Err      error
}

// ReadPackagesFile reads a package list, choosing the format by extension:
// .csv is CSV, anything else YAML.
func ReadPackagesFile(path string) ([]provenance.PackageIdentity, []Rejected, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		format = "csv"
	}
	return ReadPackages(bytes.NewReader(data), format)
}

// ReadPackages parses a YAML or CSV package list. Entries that fail
// validation are returned as rejected, with their position, and do not
// stop the rest of the list. Only an unreadable document is an error.
func ReadPackages(r io.Reader, format string) ([]provenance.PackageIdentity, []Rejected, error) {
	var entries []entry
	var err error
	switch format {
	case "yaml", "yml":
		entries, err = readYAML(r)
	case "csv":
		entries, err = readCSV(r)
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "unknown package list format %q", format)
	}
	if err != nil {
		return nil, nil, err
	}

	ids := make([]provenance.PackageIdentity, 0, len(entries))
	var rejected []Rejected
	for i, e := range entries {
		if e.err != nil {
			rejected = append(rejected, Rejected{Position: i + 1, Err: e.err})
			continue
		}
		id, err := provenance.NewIdentity(e.Ecosystem, e.Name, e.Version)
		if err != nil {
			rejected = append(rejected, Rejected{Position: i + 1, Err: err})
			continue
		}
		ids = append(ids, id)
	}
	return ids, rejected, nil
}

func readYAML(r io.Reader) ([]entry, error) {
	var m manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml package list")
	}
	return m.Packages, nil
}

func readCSV(r io.Reader) ([]entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse csv package list")
	}
	if len(rows) > 0 && strings.EqualFold(rows[0][0], "ecosystem") {
		rows = rows[1:]
	}

	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			entries = append(entries, entry{err: errors.New(errors.ErrCodeInvalidFormat, "want ecosystem,name,version, got %d fields", len(row))})
			continue
		}
		entries = append(entries, entry{Ecosystem: row[0], Name: row[1], Version: row[2]})
	}
	return entries, nil
}
