package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

func sampleRecords() []*provenance.ProvenanceRecord {
	lic := provenance.NewCandidate(provenance.SourceVCS, "LICENSE", "MIT")
	return []*provenance.ProvenanceRecord{
		{
			Identity:      provenance.PackageIdentity{Ecosystem: provenance.NPM, Name: "lodash", Version: "4.17.21"},
			RepositoryURL: "https://github.com/lodash/lodash",
			ResolvedTag: provenance.ResolvedTag{
				Tag:        &provenance.TagRecord{Name: "4.17.21", CommitSHA: "abc"},
				Confidence: provenance.ConfidenceExact,
			},
			License:             &lic,
			LicenseAlternatives: []provenance.LicenseCandidate{lic},
		},
		{
			Identity:    provenance.PackageIdentity{Ecosystem: provenance.PyPI, Name: "ghost", Version: "0.1"},
			ResolvedTag: provenance.ResolvedTag{Confidence: provenance.ConfidenceNone},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"ecosystem,name,version,repository_url,resolved_tag,tag_confidence,license,license_source",
		"npm,lodash,4.17.21,https://github.com/lodash/lodash,4.17.21,exact,MIT,vcs",
		"pypi,ghost,0.1,,,none,,",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSONL, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	var row provenance.Row
	if err := json.Unmarshal([]byte(lines[0]), &row); err != nil {
		t.Fatal(err)
	}
	if row.License != "MIT" || row.LicenseSource != "vcs" || row.TagConfidence != "exact" {
		t.Errorf("row = %+v", row)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	var recs []provenance.ProvenanceRecord
	if err := json.Unmarshal(buf.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].License == nil || recs[0].License.Source != provenance.SourceVCS {
		t.Errorf("decoded = %+v", recs)
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty output = %q, want []", buf.String())
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", nil)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestReadPackagesYAML(t *testing.T) {
	in := `
packages:
  - ecosystem: npm
    name: lodash
    version: 4.17.21
  - {ecosystem: java, name: "org.apache.commons:commons-lang3", version: 3.14.0}
  - {ecosystem: pip, name: requests, version: 2.0}
`
	ids, rejected, err := ReadPackages(strings.NewReader(in), "yaml")
	if err != nil || len(rejected) != 0 {
		t.Fatal(err, rejected)
	}
	want := []provenance.PackageIdentity{
		{Ecosystem: provenance.NPM, Name: "lodash", Version: "4.17.21"},
		{Ecosystem: provenance.Maven, Name: "org.apache.commons:commons-lang3", Version: "3.14.0"},
		{Ecosystem: provenance.PyPI, Name: "requests", Version: "2.0"},
	}
	if len(ids) != len(want) {
		t.Fatalf("ids = %+v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("id %d = %+v, want %+v", i, ids[i], want[i])
		}
	}
}

func TestReadPackagesCSV(t *testing.T) {
	in := "ecosystem,name,version\n# comment\nnuget, Newtonsoft.Json, 13.0.3\nnpm,@babel/core,7.24.0\n"
	ids, rejected, err := ReadPackages(strings.NewReader(in), "csv")
	if err != nil || len(rejected) != 0 {
		t.Fatal(err, rejected)
	}
	if len(ids) != 2 || ids[0].Name != "Newtonsoft.Json" || ids[1].Name != "@babel/core" {
		t.Errorf("ids = %+v", ids)
	}
}

func TestReadPackagesInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format string
		in     string
		code   errors.Code
	}{
		{"bad yaml", "yaml", "packages: [", errors.ErrCodeInvalidFormat},
		{"unknown format", "toml", "", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadPackages(strings.NewReader(tt.in), tt.format)
			if errors.GetCode(err) != tt.code {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadPackagesSkipsInvalidEntries(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		in        string
		wantNames []string
		position  int
		code      errors.Code
	}{
		{
			"bad ecosystem", "yaml",
			"packages: [{ecosystem: cargo, name: serde, version: 1.0.0}, {ecosystem: npm, name: lodash, version: 4.17.21}]",
			[]string{"lodash"}, 1, errors.ErrCodeInvalidEcosystem,
		},
		{
			"bad version", "csv",
			"npm,left-pad,1.3.0\nnpm,lodash,../x\npypi,requests,2.31.0\n",
			[]string{"left-pad", "requests"}, 2, errors.ErrCodeInvalidVersion,
		},
		{
			"short row", "csv",
			"ecosystem,name,version\nnpm,lodash\npypi,requests,2.31.0\n",
			[]string{"requests"}, 1, errors.ErrCodeInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, rejected, err := ReadPackages(strings.NewReader(tt.in), tt.format)
			if err != nil {
				t.Fatalf("ReadPackages() error: %v", err)
			}
			if len(ids) != len(tt.wantNames) {
				t.Fatalf("ids = %+v, want %v", ids, tt.wantNames)
			}
			for i, name := range tt.wantNames {
				if ids[i].Name != name {
					t.Errorf("id %d = %q, want %q", i, ids[i].Name, name)
				}
			}
			if len(rejected) != 1 {
				t.Fatalf("rejected = %+v, want one", rejected)
			}
			if rejected[0].Position != tt.position || errors.GetCode(rejected[0].Err) != tt.code {
				t.Errorf("rejected = %+v, want position %d with %s", rejected[0], tt.position, tt.code)
			}
		})
	}
}

func TestReadPackagesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkgs.CSV")
	if err := os.WriteFile(path, []byte("pypi,requests,2.31.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ids, _, err := ReadPackagesFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0].Ecosystem != provenance.PyPI {
		t.Errorf("ids = %+v", ids)
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	ids, _, err = ReadPackagesFile(empty)
	if err != nil || len(ids) != 0 {
		t.Errorf("empty yaml = %+v, %v", ids, err)
	}
}
