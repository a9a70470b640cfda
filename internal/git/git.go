// Package git reads a component's version history from a git repository.
// It uses the go-git library, so no git executable is needed: every commit
// reachable from a ref becomes a versionlog.LogEntry and tags pointing at a
// commit become that entry's version label.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ariel-frischer/snaplog/internal/versionlog"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNotRepository is returned when no repository is found at or above a path.
var ErrNotRepository = errors.New("not a git repository")

// Repository is an opened repository.
type Repository struct {
	repo *git.Repository
	root string
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// Open opens the repository containing path.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	r := &Repository{repo: repo}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	return r, nil
}

// IsGitRepository checks if path is within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository: %v", result)
	return result
}

// Root returns the worktree root, or "" for bare repositories.
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the directory holding refs, used to watch for new commits and tags.
func (r *Repository) GitDir() string {
	if r.root == "" {
		return ""
	}
	return filepath.Join(r.root, ".git")
}

// Log returns the history reachable from ref, newest first by committer time.
// An empty ref means HEAD. Context cancellation stops the walk.
func (r *Repository) Log(ctx context.Context, ref string) (versionlog.LogList, error) {
	from, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}

	tags, err := r.tagsByCommit()
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  from,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("reading log from %s: %w", from, err)
	}
	defer iter.Close()

	logs := versionlog.LogList{}
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		logs = append(logs, entryFromCommit(c, tags[c.Hash]))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking commits: %w", err)
	}

	logDebug("[git] Log: %d commits from %s, %d tagged", len(logs), from, len(tags))
	return logs, nil
}

// resolve turns a ref, tag, branch or hash into a commit hash.
func (r *Repository) resolve(ref string) (plumbing.Hash, error) {
	if ref == "" || ref == "HEAD" {
		head, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("getting HEAD reference: %w", err)
		}
		return head.Hash(), nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %q: %w", ref, err)
	}
	return *hash, nil
}

// tagsByCommit maps commit hashes to the tag that labels them.
// Annotated tags are peeled to their commit; tags on non-commit objects are
// skipped. When several tags share a commit the highest version wins.
func (r *Repository) tagsByCommit() (map[plumbing.Hash]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	tags := make(map[plumbing.Hash]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		target := ref.Hash()

		tagObj, err := r.repo.TagObject(ref.Hash())
		switch {
		case err == nil:
			commit, err := tagObj.Commit()
			if err != nil {
				logDebug("[git] skipping tag %s: %v", name, err)
				return nil
			}
			target = commit.Hash
		case errors.Is(err, plumbing.ErrObjectNotFound):
			// lightweight tag
		default:
			return fmt.Errorf("reading tag %s: %w", name, err)
		}

		if current, ok := tags[target]; !ok || preferTag(name, current) {
			tags[target] = name
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return tags, nil
}

// preferTag reports whether candidate should replace current as a commit's label.
func preferTag(candidate, current string) bool {
	cv, cerr := semver.NewVersion(candidate)
	ov, oerr := semver.NewVersion(current)
	switch {
	case cerr == nil && oerr == nil:
		return cv.GreaterThan(ov)
	case cerr == nil:
		return true
	case oerr == nil:
		return false
	default:
		return candidate > current
	}
}

// entryFromCommit converts a commit into a log entry.
func entryFromCommit(c *object.Commit, tag string) versionlog.LogEntry {
	return versionlog.LogEntry{
		Hash:     c.Hash.String(),
		Tag:      tag,
		Date:     versionlog.FormatMillis(c.Committer.When),
		Message:  firstLine(c.Message),
		Username: c.Author.Name,
		Email:    c.Author.Email,
	}
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return strings.TrimSpace(line)
}
