package scan

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"
)

// RepoInfo describes a remote repository to scan
type RepoInfo struct {
	Host     string
	Owner    string
	Name     string
	URL      string
	CloneURL string
	Branch   string // empty means the remote default
}

// ParseRepoURL parses an HTTPS or SCP-style git URL (git@host:owner/repo.git)
func ParseRepoURL(rawURL string) (*RepoInfo, error) {
	if strings.HasPrefix(rawURL, "git@") {
		hostAndPath := strings.TrimPrefix(rawURL, "git@")
		parts := strings.Split(hostAndPath, ":")
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid SSH URL format: %s", rawURL)
		}
		pathParts := strings.Split(strings.TrimSuffix(parts[1], ".git"), "/")
		if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
			return nil, fmt.Errorf("invalid repo path: %s", parts[1])
		}
		return newRepoInfo(rawURL, parts[0], pathParts[0], pathParts[1]), nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("missing host in URL: %s", rawURL)
	}

	pathParts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(pathParts) < 2 || pathParts[0] == "" || pathParts[1] == "" {
		return nil, fmt.Errorf("invalid repo path: %s", parsed.Path)
	}

	name := strings.TrimSuffix(pathParts[1], ".git")
	return newRepoInfo(rawURL, parsed.Host, pathParts[0], name), nil
}

func newRepoInfo(rawURL, host, owner, name string) *RepoInfo {
	return &RepoInfo{
		Host:     host,
		Owner:    owner,
		Name:     name,
		URL:      rawURL,
		CloneURL: fmt.Sprintf("https://%s/%s/%s.git", host, owner, name),
	}
}

// Clone makes a shallow clone of info into dir and returns the checked out
// revision. A non-empty token is sent as HTTP basic auth.
func Clone(ctx context.Context, info *RepoInfo, dir, token string) (*Revision, error) {
	log.Info().
		Str("url", info.CloneURL).
		Str("path", dir).
		Msg("cloning repository")

	opts := &git.CloneOptions{
		URL:   info.CloneURL,
		Depth: 1,
	}
	if token != "" {
		opts.Auth = &http.BasicAuth{
			Username: "git",
			Password: token,
		}
	}
	if info.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(info.Branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to clone: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	rev := &Revision{
		Commit: head.Hash().String(),
		Branch: head.Name().Short(),
	}

	log.Info().
		Str("commit", rev.Commit[:8]).
		Str("branch", rev.Branch).
		Msg("clone complete")

	return rev, nil
}
