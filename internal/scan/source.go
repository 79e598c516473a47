package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	ignore "github.com/sabhiram/go-gitignore"
)

// File is a candidate source file found under the scan root
type File struct {
	Path string // slash separated, relative to the root
	Size int64

	read func() ([]byte, error)
}

// Read returns the file content
func (f File) Read() ([]byte, error) {
	return f.read()
}

// Revision identifies the commit a git scan read from
type Revision struct {
	Commit string `json:"commit" yaml:"commit"`
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// Filter decides which paths take part in a scan
type Filter struct {
	include  []string
	ignore   *ignore.GitIgnore
	maxBytes int64
}

// NewFilter builds a filter from include globs (matched against the base
// name), gitignore-style exclude lines and the root's .gitignore if present.
// maxBytes <= 0 disables the size check.
func NewFilter(root string, include, exclude []string, maxBytes int64) (*Filter, error) {
	lines := append([]string{}, exclude...)

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	switch {
	case err == nil:
		lines = append(lines, strings.Split(string(data), "\n")...)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return &Filter{
		include:  include,
		ignore:   ignore.CompileIgnoreLines(lines...),
		maxBytes: maxBytes,
	}, nil
}

// SkipDir reports whether a directory and everything below it is excluded
func (f *Filter) SkipDir(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	if strings.HasPrefix(path.Base(rel), ".") {
		return true
	}
	return f.ignore.MatchesPath(rel)
}

// Accept reports whether a file is scanned
func (f *Filter) Accept(rel string, size int64) bool {
	if f.maxBytes > 0 && size > f.maxBytes {
		return false
	}
	if f.ignore.MatchesPath(rel) {
		return false
	}
	// Files under an excluded or hidden directory
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if f.SkipDir(dir) {
			return false
		}
	}

	base := path.Base(rel)
	for _, pattern := range f.include {
		if matched, _ := path.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// ListDir walks root on disk and returns accepted files sorted by path
func ListDir(root string, filter *Filter) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if filter.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !filter.Accept(rel, info.Size()) {
			return nil
		}

		abs := p
		files = append(files, File{
			Path: rel,
			Size: info.Size(),
			read: func() ([]byte, error) { return os.ReadFile(abs) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sortFiles(files)
	return files, nil
}

// ListGitHead returns accepted files from the HEAD commit of the repository
// containing root. When root is a subdirectory of the worktree only entries
// below it are listed, with paths relative to root, and the repository's
// committed top-level .gitignore applies as well. Uncommitted changes are not
// seen.
func ListGitHead(root string, filter *Filter) ([]File, *Revision, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	prefix, err := worktreePrefix(wt.Filesystem.Root(), root)
	if err != nil {
		return nil, nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load HEAD commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load HEAD tree: %w", err)
	}

	// The scan root's own .gitignore is already part of filter
	var repoIgnore *ignore.GitIgnore
	if prefix != "" {
		repoIgnore, err = committedIgnore(tree)
		if err != nil {
			return nil, nil, err
		}
	}

	var files []File
	err = tree.Files().ForEach(func(f *object.File) error {
		if !f.Mode.IsFile() || !strings.HasPrefix(f.Name, prefix) {
			return nil
		}
		if repoIgnore != nil && repoIgnore.MatchesPath(f.Name) {
			return nil
		}
		rel := strings.TrimPrefix(f.Name, prefix)
		if !filter.Accept(rel, f.Size) {
			return nil
		}

		blob := f
		files = append(files, File{
			Path: rel,
			Size: f.Size,
			read: func() ([]byte, error) {
				content, err := blob.Contents()
				if err != nil {
					return nil, err
				}
				return []byte(content), nil
			},
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list HEAD tree: %w", err)
	}

	sortFiles(files)

	rev := &Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return files, rev, nil
}

// worktreePrefix returns root relative to the worktree as a slash separated
// tree path ending in "/", or "" when root is the worktree itself
func worktreePrefix(worktree, root string) (string, error) {
	base, err := resolvePath(worktree)
	if err != nil {
		return "", err
	}
	target, err := resolvePath(root)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("failed to locate %s in worktree: %w", root, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside worktree %s", root, worktree)
	}
	return rel + "/", nil
}

func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// committedIgnore compiles the .gitignore at the top of tree, or returns nil
// when there is none
func committedIgnore(tree *object.Tree) (*ignore.GitIgnore, error) {
	f, err := tree.File(".gitignore")
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load committed .gitignore: %w", err)
	}

	content, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read committed .gitignore: %w", err)
	}
	return ignore.CompileIgnoreLines(strings.Split(content, "\n")...), nil
}

func sortFiles(files []File) {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
}
