package tags

import (
	"fmt"
	"testing"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

func tagSet(names ...string) []provenance.TagRecord {
	out := make([]provenance.TagRecord, len(names))
	for i, n := range names {
		out[i] = provenance.TagRecord{Name: n, CommitSHA: fmt.Sprintf("sha%d", i)}
	}
	return out
}

func TestInferConvention(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want provenance.TagConvention
	}{
		{"plain", []string{"1.0.0", "1.1.0", "2.0.0"}, provenance.TagConvention{Separator: "."}},
		{"v prefix", []string{"v1.0.0", "v1.1.0", "latest"}, provenance.TagConvention{Prefix: "v", Separator: "."}},
		{"r prefix", []string{"r5.0.7", "r5.0.6"}, provenance.TagConvention{Prefix: "r", Separator: "."}},
		{
			"underscore with suffix",
			[]string{"release-1_2_3-final", "release-1_2_4-final", "release-2_0_0-final"},
			provenance.TagConvention{Prefix: "release-", Separator: "_", Suffix: "-final"},
		},
		{
			"independent field votes",
			[]string{"v1.0.0", "v1.1.0-rc1", "v1.2.0", "2.0.0-beta"},
			provenance.TagConvention{Prefix: "v", Separator: ".", Suffix: ""},
		},
		{"dot wins separator tie", []string{"1_0", "2.0"}, provenance.TagConvention{Separator: "."}},
		{"separator tie without dot defaults to dot", []string{"r1_0", "r2-0"}, provenance.TagConvention{Prefix: "r", Separator: "."}},
		{"separator majority", []string{"r1_0", "r2_0", "r3-0"}, provenance.TagConvention{Prefix: "r", Separator: "_"}},
		{"prefix tie goes to first seen", []string{"rel-1.0", "v2.0"}, provenance.TagConvention{Prefix: "rel-", Separator: "."}},
		{"single integer does not vote", []string{"v1", "v2", "build-3.4"}, provenance.TagConvention{Prefix: "build-", Separator: "."}},
		{"no versions", []string{"main", "latest", "v1"}, provenance.IdentityConvention},
		{"empty", nil, provenance.IdentityConvention},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferConvention(tagSet(tt.tags...)); got != tt.want {
				t.Errorf("InferConvention(%v) = %+v, want %+v", tt.tags, got, tt.want)
			}
		})
	}
}

// Every tag built from one fixed convention must yield that convention.
func TestInferConventionRecoversFixedConvention(t *testing.T) {
	conventions := []provenance.TagConvention{
		{Prefix: "", Separator: ".", Suffix: ""},
		{Prefix: "v", Separator: ".", Suffix: ""},
		{Prefix: "rel/", Separator: "-", Suffix: ""},
		{Prefix: "release-", Separator: "_", Suffix: "-final"},
		{Prefix: "PROJ_", Separator: "_", Suffix: "_GA"},
	}
	versions := []string{"1.0", "1.2.3", "10.20.30", "0.9.1.4"}
	for _, c := range conventions {
		t.Run(c.Apply("1.2.3"), func(t *testing.T) {
			var names []string
			for _, v := range versions {
				names = append(names, c.Apply(v))
			}
			if got := InferConvention(tagSet(names...)); got != c {
				t.Errorf("got %+v, want %+v", got, c)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		tags      []string
		wantTag   string
		wantConf  provenance.Confidence
		ambiguous bool
	}{
		{"identical", "1.2.3", []string{"1.2.2", "1.2.3"}, "1.2.3", provenance.ConfidenceExact, false},
		{"separator insensitive", "1.2.3", []string{"1_2_3", "1_2_2"}, "1_2_3", provenance.ConfidenceExact, false},
		{"convention prefix", "5.0.7", []string{"r5.0.7", "r5.0.6"}, "r5.0.7", provenance.ConfidenceConvention, false},
		{"v prefix", "2.31.0", []string{"v2.30.0", "v2.31.0"}, "v2.31.0", provenance.ConfidenceConvention, false},
		{
			"convention with suffix", "1.2.4",
			[]string{"release-1_2_3-final", "release-1_2_4-final"},
			"release-1_2_4-final", provenance.ConfidenceConvention, false,
		},
		{"ambiguous", "1.2.3", []string{"1.2.3", "1-2-3", "v1.2.3"}, "", provenance.ConfidenceNone, true},
		{"missing", "9.9.9", []string{"v1.0.0", "v1.1.0"}, "", provenance.ConfidenceNone, false},
		{"no tags", "1.0.0", nil, "", provenance.ConfidenceNone, false},
		{"duplicate names count once", "1.0.0", []string{"1.0.0", "1.0.0"}, "1.0.0", provenance.ConfidenceExact, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.version, tagSet(tt.tags...))
			if got.TagName() != tt.wantTag {
				t.Errorf("tag = %q, want %q", got.TagName(), tt.wantTag)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("confidence = %q, want %q", got.Confidence, tt.wantConf)
			}
			if got.Ambiguous != tt.ambiguous {
				t.Errorf("ambiguous = %v, want %v", got.Ambiguous, tt.ambiguous)
			}
			if got.Matched() != (tt.wantTag != "") {
				t.Errorf("Matched() = %v", got.Matched())
			}
		})
	}
}

func TestResolveKeepsCommit(t *testing.T) {
	tags := []provenance.TagRecord{
		{Name: "v1.0.0", CommitSHA: "aaa"},
		{Name: "v1.0.0", CommitSHA: "bbb"},
	}
	got := Resolve("1.0.0", tags)
	if got.Tag == nil || got.Tag.CommitSHA != "aaa" {
		t.Errorf("expected first record's commit, got %+v", got.Tag)
	}
}

// Any tag equal to the version after stripping separators resolves exactly.
func TestResolveExactProperty(t *testing.T) {
	versions := []string{"1.0", "2.3.4", "10.0.1", "1.2.3.4"}
	spell := []func(string) string{
		func(v string) string { return v },
		provenance.TagConvention{Separator: "_"}.Apply,
		provenance.TagConvention{Separator: "-"}.Apply,
	}
	for _, v := range versions {
		for i, f := range spell {
			name := f(v)
			t.Run(fmt.Sprintf("%s/%d", v, i), func(t *testing.T) {
				got := Resolve(v, tagSet("unrelated", name, "v0.0.1"))
				if got.Confidence != provenance.ConfidenceExact || got.TagName() != name {
					t.Errorf("Resolve(%q) = %+v, want exact %q", v, got, name)
				}
			})
		}
	}
}

func TestResolveAmbiguityIsDeterministic(t *testing.T) {
	tags := tagSet("1.2.3", "1_2_3")
	first := Resolve("1.2.3", tags)
	second := Resolve("1.2.3", tags)
	if first.Confidence != provenance.ConfidenceNone || first.Tag != nil || !first.Ambiguous {
		t.Fatalf("first = %+v, want ambiguous none", first)
	}
	if second.Confidence != first.Confidence || second.Tag != nil || second.Ambiguous != first.Ambiguous {
		t.Errorf("second = %+v differs from first %+v", second, first)
	}
}
