// Package integrations provides HTTP clients for the upstream services a
// provenance lookup talks to.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [maven]: Maven Central POM documents
//   - [npm]: npm registry version documents
//   - [pypi]: PyPI JSON API
//   - [nuget]: NuGet flat container nuspec documents
//   - [github]: GitHub tags, trees, blobs and repository license
//   - [clearlydefined]: ClearlyDefined license definitions
//
// # Client Pattern
//
// All clients embed the shared [Client]:
//
//	c := npm.NewClient(cache.NewNullCache(), 24*time.Hour, "")
//	doc, err := c.FetchVersion(ctx, "left-pad", "1.3.0", false)
//
// The shared client handles:
//   - response caching through [cache.Cache], keyed per namespace
//   - retries of transient failures with exponential backoff
//   - status mapping: 404 becomes [ErrNotFound], 5xx a retryable [ErrNetwork]
//   - request hooks for metrics
//
// Clients return raw or lightly decoded documents. Interpreting them is the
// job of pkg/provenance/metadata.
//
// [maven]: github.com/matzehuels/stackprov/pkg/integrations/maven
// [npm]: github.com/matzehuels/stackprov/pkg/integrations/npm
// [pypi]: github.com/matzehuels/stackprov/pkg/integrations/pypi
// [nuget]: github.com/matzehuels/stackprov/pkg/integrations/nuget
// [github]: github.com/matzehuels/stackprov/pkg/integrations/github
// [clearlydefined]: github.com/matzehuels/stackprov/pkg/integrations/clearlydefined
// [cache.Cache]: github.com/matzehuels/stackprov/pkg/cache.Cache
package integrations
