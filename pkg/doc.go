// Package pkg provides the libraries behind stackprov, a package provenance
// resolver.
//
// # Overview
//
// For a package identity (ecosystem, name, version) stackprov finds the
// source repository, the VCS tag of that release and the license,
// reconciling three sources in priority order: the registry manifest, the
// license files in the repository at the tag, and ClearlyDefined.
//
// The pkg directory is organized into four areas:
//
//  1. [provenance] - Domain logic (metadata normalization, tag matching,
//     license extraction, reconciliation)
//  2. [integrations] - HTTP clients for Maven Central, npm, PyPI, NuGet,
//     GitHub and ClearlyDefined, bound to the domain by [sources]
//  3. Infrastructure - [cache], [config], [errors], [observability],
//     [store]
//  4. Surfaces - [batch], [report] and the HTTP [api]
//
// # Architecture
//
// The data flow of one resolution:
//
//	Registry document (POM, package.json, PyPI JSON, nuspec)
//	         ↓
//	    [provenance/metadata] (repository hint, declared license)
//	         ↓
//	    [provenance/tags] (release tag for the version)
//	         ↓
//	    [provenance/license] (SPDX ids from license files at the tag)
//	         ↓
//	    [provenance/reconcile] (priority selection + clearinghouse fallback)
//	         ↓
//	    ProvenanceRecord
//
// # Quick Start
//
//	cfg := config.NewDefaultConfig()
//	set := sources.New(cfg, cache.NewNullCache(), nil)
//	opts, _ := sources.Options(cfg, nil)
//	r := set.Reconciler(opts)
//
//	id, _ := provenance.NewIdentity("npm", "lodash", "4.17.21")
//	rec := r.Reconcile(ctx, id)
//	fmt.Println(rec.RepositoryURL, rec.ResolvedTag.TagName(), rec.License.SPDXExpression)
//
// Records never carry errors; what failed is listed in rec.Diagnostics.
package pkg
