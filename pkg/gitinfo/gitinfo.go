// Package gitinfo resolves the commit a scan ran against, so history
// entries are attributable to a point in the repository's timeline.
package gitinfo

import (
	git "github.com/go-git/go-git/v5"
)

// Head returns the short HEAD commit hash for the repository containing
// root, or "" when root is not inside a git repository. Resolution failures
// are deliberately silent: a scan of an unversioned tree is still valid.
func Head(root string) string {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	hash := head.Hash().String()
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return hash
}
