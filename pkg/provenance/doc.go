// Package provenance defines the data model and collaborator interfaces for
// resolving where a published package came from.
//
// For a [PackageIdentity] the resolver determines three facts:
//   - the source repository URL, from registry metadata
//   - the VCS tag that corresponds to the published version
//   - the license, from the registry, the tagged source tree or a
//     license clearinghouse, in that order of preference
//
// The work is split across subpackages:
//
//   - metadata: turns raw registry documents into [NormalizedMetadata]
//   - tags: infers a repository's tag naming convention and matches a
//     version against its tags
//   - license: extracts SPDX expressions from license files in a tree
//   - reconcile: runs the fixed registry, VCS, clearinghouse chain and
//     builds the [ProvenanceRecord]
//
// Network access goes through the [RegistryFetcher], [VCS] and
// [Clearinghouse] interfaces; pkg/sources binds them to real HTTP clients.
// Nothing in this package tree caches results or holds global state.
package provenance
