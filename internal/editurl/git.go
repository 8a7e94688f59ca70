package editurl

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

// ForgeType identifies the URL layout of a git hosting service.
type ForgeType string

const (
	ForgeGitHub  ForgeType = "github"
	ForgeGitLab  ForgeType = "gitlab"
	ForgeForgejo ForgeType = "forgejo"
)

const defaultBranch = "main"

// Remote describes the hosted repository a directory belongs to.
type Remote struct {
	Forge    ForgeType
	BaseURL  string
	FullName string
	Branch   string
	// Subdir is the directory's path inside the repository, "." for the root.
	Subdir string
}

// DetectTemplate derives an edit URL template for the documentation in dir
// from the "origin" remote of the enclosing git repository.
func DetectTemplate(dir string) (Template, error) {
	remote, err := DetectRemote(dir)
	if err != nil {
		return "", err
	}
	return BuildTemplate(remote)
}

// DetectRemote inspects the git repository enclosing dir.
func DetectRemote(dir string) (Remote, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Remote{}, errors.NotFound("git repository", dir)
	}

	origin, err := repo.Remote("origin")
	if err != nil || len(origin.Config().URLs) == 0 {
		return Remote{}, errors.NotFound("git remote origin", dir)
	}
	remoteURL := origin.Config().URLs[0]

	forge, baseURL, fullName, ok := parseRemoteURL(remoteURL)
	if !ok {
		return Remote{}, errors.Validation("remote", "unsupported remote URL "+remoteURL).
			WithContext("path", dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Remote{}, errors.IO("open worktree", dir, err)
	}
	subdir, err := relativeToRoot(wt.Filesystem.Root(), dir)
	if err != nil {
		return Remote{}, errors.IO("resolve path", dir, err)
	}

	return Remote{
		Forge:    forge,
		BaseURL:  baseURL,
		FullName: fullName,
		Branch:   currentBranch(repo),
		Subdir:   subdir,
	}, nil
}

// BuildTemplate lays out the edit URL of r for its forge.
func BuildTemplate(r Remote) (Template, error) {
	if r.BaseURL == "" || r.FullName == "" {
		return "", errors.Validation("remote", "base URL and repository name are required")
	}
	branch := r.Branch
	if branch == "" {
		branch = defaultBranch
	}
	prefix := ""
	if r.Subdir != "" && r.Subdir != "." {
		prefix = strings.Trim(r.Subdir, "/") + "/"
	}
	base := strings.TrimSuffix(r.BaseURL, "/")

	var s string
	switch r.Forge {
	case ForgeGitHub:
		s = fmt.Sprintf("%s/%s/edit/%s/%s%s", base, r.FullName, branch, prefix, Placeholder)
	case ForgeGitLab:
		s = fmt.Sprintf("%s/%s/-/edit/%s/%s%s", base, r.FullName, branch, prefix, Placeholder)
	case ForgeForgejo:
		s = fmt.Sprintf("%s/%s/_edit/%s/%s%s", base, r.FullName, branch, prefix, Placeholder)
	default:
		return "", errors.Validation("forge", "unsupported forge "+string(r.Forge))
	}
	return Template(s), nil
}

func currentBranch(repo *git.Repository) string {
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return defaultBranch
	}
	if ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
		return ref.Target().Short()
	}
	return defaultBranch
}

func relativeToRoot(root, dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, absDir)
	if err != nil {
		return "", err
	}
	return paths.Normalize(filepath.ToSlash(rel)), nil
}

// parseRemoteURL understands https and scp-like ssh remotes.
func parseRemoteURL(remote string) (ForgeType, string, string, bool) {
	normalized := remote
	if strings.HasPrefix(remote, "git@") {
		host, repoPath, ok := strings.Cut(strings.TrimPrefix(remote, "git@"), ":")
		if !ok {
			return "", "", "", false
		}
		normalized = "https://" + host + "/" + repoPath
	}

	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return "", "", "", false
	}
	scheme := u.Scheme
	if scheme != "http" {
		scheme = "https"
	}
	fullName := strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git")
	if fullName == "" {
		return "", "", "", false
	}

	host := u.Hostname()
	var forge ForgeType
	switch {
	case strings.Contains(host, "github."):
		forge = ForgeGitHub
	case strings.Contains(host, "gitlab."):
		forge = ForgeGitLab
	default:
		// Self-hosted instances are assumed to be Forgejo/Gitea.
		forge = ForgeForgejo
	}
	return forge, scheme + "://" + host, fullName, true
}
