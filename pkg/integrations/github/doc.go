// Package github provides a GitHub REST API client for reading the
// repository data a provenance lookup needs.
//
// # Operations
//
//   - [Client.Tags]: every tag with its commit SHA (paged, 100 per page)
//   - [Client.Tree]: the recursive tree at a commit
//   - [Client.Blob]: a decoded blob by its API URL
//   - [Client.RepoLicense]: GitHub's license detection for the default branch
//
// # Authentication
//
// A token raises the rate limit from 60 to 5000 requests per hour:
//
//	client := github.NewClient(cache.NewNullCache(), 0, os.Getenv("GITHUB_TOKEN"), "")
//
// Rate-limit responses surface as errors.RateLimitedError wrapped in
// integrations.ErrNetwork.
//
// # Repository URLs
//
// [ParseRepoURL] accepts canonical https://github.com/owner/repo URLs,
// which is the form pkg/provenance produces for repository hints.
package github
