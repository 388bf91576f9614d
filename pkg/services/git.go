package services

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"site-cms/pkg/config"
)

// ExecuteGitWithToken runs git in dir, swapping the remote name in args for
// an authenticated URL when a token is set. The token never reaches the log.
func ExecuteGitWithToken(ctx context.Context, dir, token string, args ...string) (string, error) {
	newArgs := make([]string, len(args))
	copy(newArgs, args)

	var remoteURL, authenticatedURL string
	if token != "" {
		cmdGetURL := exec.CommandContext(ctx, "git", "remote", "get-url", config.GitRemote)
		cmdGetURL.Dir = dir
		outURL, err := cmdGetURL.Output()
		if err != nil {
			return "Failed to get remote url", err
		}
		remoteURL = strings.TrimSpace(string(outURL))
		u, err := url.Parse(remoteURL)
		if err != nil {
			return "Invalid remote url", err
		}
		u.User = url.UserPassword("oauth2", token)
		authenticatedURL = u.String()
		for i, v := range newArgs {
			if v == config.GitRemote {
				newArgs[i] = authenticatedURL
			}
		}
	}

	cmd := exec.CommandContext(ctx, "git", newArgs...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	safeLog := string(output)
	if token != "" {
		safeLog = strings.ReplaceAll(safeLog, authenticatedURL, remoteURL)
		safeLog = strings.ReplaceAll(safeLog, token, "***")
	}
	return safeLog, err
}

// SyncRepo pulls the content repository.
func SyncRepo(ctx context.Context, repo, token string) (string, error) {
	return ExecuteGitWithToken(ctx, repo, token, "pull", config.GitRemote, config.GitBranch)
}

// PublishRepo commits every saved page and pushes it.
func PublishRepo(ctx context.Context, repo, token string) (string, error) {
	addCmd := exec.CommandContext(ctx, "git", "add", ".")
	addCmd.Dir = repo
	if out, err := addCmd.CombinedOutput(); err != nil {
		return string(out), err
	}
	msg := fmt.Sprintf("Update site content: %s", time.Now().Format("2006-01-02 15:04:05"))
	commitCmd := exec.CommandContext(ctx, "git",
		"-c", "user.name="+config.GitUserName,
		"-c", "user.email="+config.GitUserEmail,
		"commit", "-m", msg)
	commitCmd.Dir = repo
	// Nothing to commit is not an error; the push below still runs.
	_ = commitCmd.Run()
	return ExecuteGitWithToken(ctx, repo, token, "push", config.GitRemote, config.GitBranch)
}
