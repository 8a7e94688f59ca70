package testutil

import (
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

// GitRepo initializes a repository in a temporary directory and returns its
// path. A non-empty remote is registered as origin.
func GitRepo(t *testing.T, remote string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	if remote != "" {
		if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{remote}}); err != nil {
			t.Fatalf("failed to add remote: %v", err)
		}
	}
	return dir
}
