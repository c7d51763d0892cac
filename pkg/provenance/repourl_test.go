package provenance

import "testing"

func TestCanonicalRepoURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/o/r", "https://github.com/o/r"},
		{"git+https://github.com/o/r.git", "https://github.com/o/r"},
		{"git@github.com:o/r.git", "https://github.com/o/r"},
		{"git://github.com/o/r", "https://github.com/o/r"},
		{"ssh://git@github.com/o/r.git", "https://github.com/o/r"},
		{"https://github.com/o/r/tree/main/packages/sub", "https://github.com/o/r"},
		{"https://gitlab.com/g/p/-/tree/main", "https://gitlab.com/g/p"},
		{"http://www.github.com/o/r/", "https://github.com/o/r"},
		{"scm:git:git@github.com:o/r.git", "https://github.com/o/r"},
		{"https://github.com/o/r#readme", "https://github.com/o/r"},
		{"github.com/o/r", "https://github.com/o/r"},
		{"https://github.com/o/r/issues", "https://github.com/o/r"},
		{"https://gitlab.com/group/sub/project", "https://gitlab.com/group/sub/project"},
		{"", ""},
		{"   ", ""},
		{"not a url", ""},
		{"https://example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CanonicalRepoURL(tt.in); got != tt.want {
				t.Errorf("CanonicalRepoURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
