// Package git reads the state of the repository a source tree belongs to so
// the generated document can be stamped with the revision it was built from.
package git

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// shortHashLen is the commit prefix length used in revisions.
const shortHashLen = 7

// RepoInfo holds information about a git repository
type RepoInfo struct {
	// CommitHash is the current HEAD commit hash
	CommitHash string
	// Branch is the current branch name, "HEAD" when detached
	Branch string
	// Tags lists the tags pointing to the current commit
	Tags []string
	// IsDirty indicates if the working tree has uncommitted changes
	IsDirty bool
}

// Revision renders the info as "branch@abcdef0", with "+dirty" appended when
// the working tree has uncommitted changes.
func (i *RepoInfo) Revision() string {
	hash := i.CommitHash
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	revision := i.Branch + "@" + hash
	if i.IsDirty {
		revision += "+dirty"
	}
	return revision
}

// GetRepoInfo inspects the repository containing path, searching upwards for
// the .git directory.
func GetRepoInfo(path string) (*RepoInfo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to find a Git repository that path %q belongs to: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree for repository %q: %w", path, err)
	}

	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference for repository %q: %w", path, err)
	}

	// Find all tags pointing to the current commit
	var tags []string
	tagRefs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	err = tagRefs.ForEach(func(ref *plumbing.Reference) error {
		revHash, err := repo.ResolveRevision(plumbing.Revision(ref.Name()))
		if err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", ref.Name().Short(), err)
		}
		if *revHash == headRef.Hash() {
			tags = append(tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over tags: %w", err)
	}

	// Check if there is any uncommitted change in the working tree
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status for repository %q: %w", path, err)
	}

	return &RepoInfo{
		CommitHash: headRef.Hash().String(),
		Branch:     headRef.Name().Short(),
		Tags:       tags,
		IsDirty:    !status.IsClean(),
	}, nil
}

// Describe returns the revision of the repository containing path, or "" when
// path is not inside a repository or the repository cannot be read.
func Describe(path string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := GetRepoInfo(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			logger.Debug("source directory is not in a git repository", "path", path)
		} else {
			logger.Debug("failed to read git revision", "path", path, "error", err)
		}
		return ""
	}

	revision := info.Revision()
	logger.Debug("resolved source revision", "path", path, "revision", revision, "tags", info.Tags)
	return revision
}
