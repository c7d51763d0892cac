package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

const (
	tagsPerPage = 100
	maxTagPages = 50
)

// Client reads tags, trees, blobs and license metadata from the GitHub API.
// It handles HTTP requests with caching, automatic retries and optional
// authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (lower rate limits). Cached responses are scoped
// by token so that private data never leaks across credentials.
func NewClient(c cache.Cache, ttl time.Duration, token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	client := integrations.NewClient(c, "github", ttl, headers).
		WithKeyer(cache.NewScopedKeyer(nil, cache.TokenScope(token)))
	return &Client{
		Client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Tags lists every tag of owner/repo with the commit it points to, in the
// order the API returns them.
func (c *Client) Tags(ctx context.Context, owner, repo string, refresh bool) ([]Tag, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var tags []Tag
	err := c.Cached(ctx, "tags:"+owner+"/"+repo, refresh, &tags, func() error {
		tags = tags[:0]
		for page := 1; page <= maxTagPages; page++ {
			var batch []tagResponse
			url := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=%d&page=%d", c.baseURL, owner, repo, tagsPerPage, page)
			if err := c.Get(ctx, url, &batch); err != nil {
				return err
			}
			for _, t := range batch {
				tags = append(tags, Tag{Name: t.Name, CommitSHA: t.Commit.SHA})
			}
			if len(batch) < tagsPerPage {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("github tags %s/%s: %w", owner, repo, err)
	}
	return tags, nil
}

// Tree lists the full recursive tree of owner/repo at ref (a commit SHA,
// branch or tag name). Very large trees come back with Truncated set.
func (c *Client) Tree(ctx context.Context, owner, repo, ref string, refresh bool) (*Tree, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	if ref == "" {
		ref = "HEAD"
	}

	var tree Tree
	err := c.Cached(ctx, "tree:"+owner+"/"+repo+"@"+ref, refresh, &tree, func() error {
		var resp treeResponse
		url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseURL, owner, repo, integrations.PathEscape(ref))
		if err := c.Get(ctx, url, &resp); err != nil {
			return err
		}
		tree = Tree{Entries: make([]TreeEntry, 0, len(resp.Tree)), Truncated: resp.Truncated}
		for _, item := range resp.Tree {
			tree.Entries = append(tree.Entries, TreeEntry{
				Path: item.Path,
				Type: item.Type,
				SHA:  item.SHA,
				URL:  item.URL,
				Size: item.Size,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("github tree %s/%s@%s: %w", owner, repo, ref, err)
	}
	return &tree, nil
}

// Blob fetches and decodes a git blob by its API URL, as found in
// [TreeEntry.URL]. Only URLs below the client's API root are accepted so
// the token is never sent elsewhere.
func (c *Client) Blob(ctx context.Context, blobURL string) ([]byte, error) {
	if !strings.HasPrefix(blobURL, c.baseURL+"/") {
		return nil, errors.New(errors.ErrCodeInvalidInput, "blob URL %q is outside %s", blobURL, c.baseURL)
	}

	data, err := c.CachedBytes(ctx, "blob:"+strings.TrimPrefix(blobURL, c.baseURL), false, func() ([]byte, error) {
		var resp contentResponse
		if err := c.Get(ctx, blobURL, &resp); err != nil {
			return nil, err
		}
		return decodeContent(resp)
	})
	if err != nil {
		return nil, fmt.Errorf("github blob: %w", err)
	}
	return data, nil
}

// RepoLicense returns the license GitHub detected for the default branch of
// owner/repo, together with the decoded license file.
func (c *Client) RepoLicense(ctx context.Context, owner, repo string, refresh bool) (*RepoLicense, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var lic RepoLicense
	err := c.Cached(ctx, "license:"+owner+"/"+repo, refresh, &lic, func() error {
		var resp licenseResponse
		if err := c.Get(ctx, fmt.Sprintf("%s/repos/%s/%s/license", c.baseURL, owner, repo), &resp); err != nil {
			return err
		}
		content, err := decodeContent(resp.contentResponse)
		if err != nil {
			return err
		}
		lic = RepoLicense{Path: resp.Path, SPDXID: resp.License.SPDXID, Content: content}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("github license %s/%s: %w", owner, repo, err)
	}
	return &lic, nil
}

func decodeContent(resp contentResponse) ([]byte, error) {
	switch resp.Encoding {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode base64 content")
		}
		return data, nil
	case "", "utf-8":
		return []byte(resp.Content), nil
	default:
		return nil, errors.New(errors.ErrCodeMalformedDocument, "unsupported content encoding %q", resp.Encoding)
	}
}
