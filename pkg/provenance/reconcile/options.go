package reconcile

import (
	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/observability"
)

// ClearinghouseMode controls when the clearinghouse is queried.
type ClearinghouseMode string

const (
	// ClearinghouseAlways queries on every resolution so that all three
	// sources appear in the record's alternatives.
	ClearinghouseAlways ClearinghouseMode = "always"

	// ClearinghouseFallback queries only when the registry and VCS stages
	// produced no candidate.
	ClearinghouseFallback ClearinghouseMode = "fallback"

	// ClearinghouseNever disables the clearinghouse stage.
	ClearinghouseNever ClearinghouseMode = "never"
)

// ParseClearinghouseMode validates a mode name. "" selects the default.
func ParseClearinghouseMode(s string) (ClearinghouseMode, error) {
	switch m := ClearinghouseMode(s); m {
	case "":
		return ClearinghouseAlways, nil
	case ClearinghouseAlways, ClearinghouseFallback, ClearinghouseNever:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "invalid clearinghouse mode %q (want always, fallback or never)", s)
}

// Options tunes a Reconciler. The zero value is usable.
type Options struct {
	Clearinghouse ClearinghouseMode

	// RepoLicenseFallback asks the VCS host for the repository-level
	// license when no license file was read at the tag. It requires the
	// VCS to implement provenance.RepoLicenser.
	RepoLicenseFallback bool

	Hooks observability.ResolutionHooks
}

func (o Options) withDefaults() Options {
	if o.Clearinghouse == "" {
		o.Clearinghouse = ClearinghouseAlways
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopResolutionHooks{}
	}
	return o
}
