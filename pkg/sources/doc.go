// Package sources binds the HTTP clients in pkg/integrations to the
// collaborator interfaces of pkg/provenance.
//
//   - [Registry] implements provenance.RegistryFetcher over the Maven, npm,
//     PyPI and NuGet clients.
//   - [GitHub] implements provenance.VCS and provenance.RepoLicenser.
//   - [ClearlyDefined] implements provenance.Clearinghouse.
//
// Adapters translate client errors into the coded taxonomy of pkg/errors:
// upstream 404s become NOT_FOUND, everything else that is not already
// coded becomes UNREACHABLE.
package sources

import (
	stderrors "errors"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

// classify attaches a taxonomy code to err unless it already carries one.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return err
	}
	code := errors.ErrCodeUnreachable
	if stderrors.Is(err, integrations.ErrNotFound) {
		code = errors.ErrCodeNotFound
	}
	return errors.Wrap(code, err, format, args...)
}
