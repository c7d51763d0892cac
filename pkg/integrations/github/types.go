package github

// Tag is a git tag and the commit it points to.
type Tag struct {
	Name      string `json:"name"`
	CommitSHA string `json:"commit_sha"`
}

// TreeEntry represents a file or directory in a repository tree.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "blob", "tree" or "commit" (submodule)
	SHA  string `json:"sha"`
	URL  string `json:"url"` // API URL of the blob or subtree
	Size int    `json:"size,omitempty"`
}

// Tree is a recursive tree listing. GitHub caps recursive listings;
// Truncated reports that Entries is incomplete.
type Tree struct {
	Entries   []TreeEntry `json:"entries"`
	Truncated bool        `json:"truncated,omitempty"`
}

// RepoLicense is GitHub's license detection result for a repository.
type RepoLicense struct {
	Path    string `json:"path"`
	SPDXID  string `json:"spdx_id"` // "NOASSERTION" when GitHub could not classify the file
	Content []byte `json:"content"`
}

type tagResponse struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type treeResponse struct {
	SHA  string `json:"sha"`
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		SHA  string `json:"sha"`
		URL  string `json:"url"`
		Size int    `json:"size"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type licenseResponse struct {
	contentResponse
	Path    string `json:"path"`
	License struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}
