// Package runtime wires the collaborators a command needs into a single
// context value.
package runtime

import (
	"fmt"

	"stackpatch.dev/stackpatch/internal/conduit"
	"stackpatch.dev/stackpatch/internal/config"
	"stackpatch.dev/stackpatch/internal/git"
	"stackpatch.dev/stackpatch/internal/resolver"
	"stackpatch.dev/stackpatch/internal/tui"
)

// Context provides access to the review service client, the local
// repository, output and configuration for commands
type Context struct {
	Client  conduit.Client
	Repo    *git.Repo
	Splog   *tui.Splog
	Config  *config.UserConfig
	Confirm resolver.ConfirmFunc
}

// GetContext loads the user configuration, opens the repository containing
// the working directory, and builds a client for the configured service.
func GetContext() (*Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	url := cfg.ServiceURL()
	if url == "" {
		return nil, fmt.Errorf("review service URL not configured. Run 'stackpatch config set url <url>' first")
	}

	repo, err := git.Open(".")
	if err != nil {
		return nil, err
	}

	return &Context{
		Client:  conduit.NewHTTPClient(url, cfg.Token()),
		Repo:    repo,
		Splog:   tui.NewSplog(),
		Config:  cfg,
		Confirm: tui.Confirm,
	}, nil
}
