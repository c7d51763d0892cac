package sources

import (
	"context"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/integrations/github"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

// noAssertion is GitHub's SPDX id for a license file it could not classify.
const noAssertion = "NOASSERTION"

// GitHub reads repositories hosted on github.com. Repository URLs on other
// hosts are rejected with UNSUPPORTED.
type GitHub struct {
	Client  *github.Client
	Refresh bool
}

func parseRepo(repoURL string) (owner, repo string, err error) {
	owner, repo, ok := github.ParseRepoURL(repoURL)
	if !ok {
		return "", "", errors.New(errors.ErrCodeUnsupported, "not a GitHub repository: %s", repoURL)
	}
	return owner, repo, nil
}

// Tags implements provenance.VCS.
func (g *GitHub) Tags(ctx context.Context, repoURL string) ([]provenance.TagRecord, error) {
	owner, repo, err := parseRepo(repoURL)
	if err != nil {
		return nil, err
	}
	tags, err := g.Client.Tags(ctx, owner, repo, g.Refresh)
	if err != nil {
		return nil, classify(err, "tags %s/%s", owner, repo)
	}
	out := make([]provenance.TagRecord, len(tags))
	for i, t := range tags {
		out[i] = provenance.TagRecord{Name: t.Name, CommitSHA: t.CommitSHA}
	}
	return out, nil
}

// Tree implements provenance.VCS.
func (g *GitHub) Tree(ctx context.Context, repoURL, commitSHA string) (provenance.TreeListing, error) {
	owner, repo, err := parseRepo(repoURL)
	if err != nil {
		return provenance.TreeListing{}, err
	}
	tree, err := g.Client.Tree(ctx, owner, repo, commitSHA, g.Refresh)
	if err != nil {
		return provenance.TreeListing{}, classify(err, "tree %s/%s@%s", owner, repo, commitSHA)
	}
	out := provenance.TreeListing{
		Entries:   make([]provenance.TreeEntry, len(tree.Entries)),
		Truncated: tree.Truncated,
	}
	for i, e := range tree.Entries {
		out.Entries[i] = provenance.TreeEntry{Path: e.Path, BlobURL: e.URL, Kind: e.Type}
	}
	return out, nil
}

// Blob implements provenance.VCS.
func (g *GitHub) Blob(ctx context.Context, blobURL string) ([]byte, error) {
	data, err := g.Client.Blob(ctx, blobURL)
	if err != nil {
		return nil, classify(err, "blob %s", blobURL)
	}
	return data, nil
}

// RepoLicense implements provenance.RepoLicenser. An unclassified license
// file yields its path with an empty expression.
func (g *GitHub) RepoLicense(ctx context.Context, repoURL string) (string, string, error) {
	owner, repo, err := parseRepo(repoURL)
	if err != nil {
		return "", "", err
	}
	lic, err := g.Client.RepoLicense(ctx, owner, repo, g.Refresh)
	if err != nil {
		return "", "", classify(err, "license %s/%s", owner, repo)
	}
	if lic.SPDXID == noAssertion {
		return lic.Path, "", nil
	}
	return lic.Path, lic.SPDXID, nil
}

var (
	_ provenance.VCS          = (*GitHub)(nil)
	_ provenance.RepoLicenser = (*GitHub)(nil)
)
