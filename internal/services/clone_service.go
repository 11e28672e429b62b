package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/pkg/logger"
)

// CloneService keeps local clones of GitHub repositories for reading their history
type CloneService struct {
	cloneBasePath string
	token         string
	remoteURL     func(fullName string) string
}

// NewCloneService creates a clone service storing clones under cloneBasePath. A
// non-empty token authenticates clones of private repositories.
func NewCloneService(cloneBasePath, token string) *CloneService {
	return &CloneService{
		cloneBasePath: cloneBasePath,
		token:         token,
		remoteURL: func(fullName string) string {
			return "https://github.com/" + fullName + ".git"
		},
	}
}

// Sync clones the repository, or pulls it when a clone exists, and returns the
// clone's path
func (s *CloneService) Sync(ctx context.Context, repo *models.Repository) (string, error) {
	owner, name, err := repo.OwnerAndName()
	if err != nil {
		return "", err
	}

	projectClonePath := filepath.Join(s.cloneBasePath, repo.ProjectID)
	if err := os.MkdirAll(projectClonePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create project clone directory: %w", err)
	}
	repoClonePath := filepath.Join(projectClonePath, owner+"__"+name)

	log := logger.ForRepository(repo.ID).WithField("path", repoClonePath)
	if s.isRepositoryCloned(repoClonePath) {
		log.Debug("Pulling repository")
		return repoClonePath, s.git(ctx, repoClonePath, "pull", "--ff-only", "--quiet")
	}

	// Remove directory if it exists but is not a git repo
	if err := os.RemoveAll(repoClonePath); err != nil {
		return "", fmt.Errorf("failed to clean repository directory: %w", err)
	}

	log.Info("Cloning repository")
	if err := s.git(ctx, "", "clone", "--quiet", s.remoteURL(repo.FullName), repoClonePath); err != nil {
		return "", err
	}
	return repoClonePath, nil
}

// isRepositoryCloned checks if a repository is already cloned
func (s *CloneService) isRepositoryCloned(repoPath string) bool {
	info, err := os.Stat(filepath.Join(repoPath, ".git"))
	return err == nil && info.IsDir()
}

// git runs a git command. The token travels as a per-command header so it is never
// written to the clone's config.
func (s *CloneService) git(ctx context.Context, dir string, args ...string) error {
	if s.token != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte("x-access-token:" + s.token))
		args = append([]string{"-c", "http.extraHeader=Authorization: Basic " + credentials}, args...)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s failed: %w: %s", subcommand(args), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}
