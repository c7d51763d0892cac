//go:build integration

package pypi

import (
	"context"
	"testing"
	"time"
)

func TestFetchRelease_Integration(t *testing.T) {
	client := NewClient(nil, 0, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		pkg     string
		version string
		wantErr bool
	}{
		{"requests", "requests", "2.31.0", false},
		{"nonexistent", "this-package-should-not-exist-12345", "1.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := client.FetchRelease(ctx, tt.pkg, tt.version, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("FetchRelease(%q) error = %v, wantErr %v", tt.pkg, err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(data) == 0 {
				t.Error("document should not be empty")
			}
		})
	}
}
