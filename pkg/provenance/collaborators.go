package provenance

import "context"

// RegistryFetcher retrieves the raw metadata document for a package version.
type RegistryFetcher interface {
	FetchMetadata(ctx context.Context, id PackageIdentity) (RawDocument, error)
}

// TreeEntry is one path in a repository tree listing.
type TreeEntry struct {
	Path    string
	BlobURL string

	// Kind is "blob" for files and "tree" for directories.
	Kind string
}

// TreeListing is the tree of one commit. Truncated is set when the host
// returned only part of it.
type TreeListing struct {
	Entries   []TreeEntry
	Truncated bool
}

// VCS reads tags and content from a hosted repository.
type VCS interface {
	Tags(ctx context.Context, repoURL string) ([]TagRecord, error)
	Tree(ctx context.Context, repoURL, commitSHA string) (TreeListing, error)
	Blob(ctx context.Context, blobURL string) ([]byte, error)
}

// Clearinghouse returns the license expressions a curated third-party
// database records for a package.
type Clearinghouse interface {
	Licenses(ctx context.Context, id PackageIdentity) ([]string, error)
}

// RepoLicenser is an optional VCS capability: the license the host detected
// for the repository's default branch.
type RepoLicenser interface {
	RepoLicense(ctx context.Context, repoURL string) (path, spdx string, err error)
}

// Stage names one step of reconciliation.
type Stage string

const (
	StageRegistryLookup        Stage = "registry_lookup"
	StageTagResolution         Stage = "tag_resolution"
	StageVCSExtraction         Stage = "vcs_extraction"
	StageRepoLicense           Stage = "repo_license"
	StageClearinghouseFallback Stage = "clearinghouse_fallback"
)

// Outcome summarises how a stage ended.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeEmpty       Outcome = "empty"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeMalformed   Outcome = "malformed"
	OutcomeAmbiguous   Outcome = "ambiguous"
	OutcomeTruncated   Outcome = "truncated"
)
