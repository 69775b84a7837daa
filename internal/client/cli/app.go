// Package cli implements the interactive Collabpack command-line client:
// a small REPL that signs in against the backend and drives uploads,
// channels and projects over the HTTP API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/dmitrijs2005/collabpack/internal/client/config"
)

type App struct {
	config *config.Config
	client *http.Client
	// stream carries file transfers. It has no overall deadline: the
	// client deadline covers the whole request body, so a large upload
	// over a slow link would be cut off mid-transfer.
	stream *http.Client
	reader *bufio.Reader

	// session state after a successful login
	token string
	email string
}

func NewApp(cfg *config.Config) (*App, error) {
	return &App{
		config: cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		stream: &http.Client{},
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

// url builds an API URL, appending the caller's email so the server can
// cross-check it against the token.
func (a *App) url(path string) string {
	u := a.config.ServerBaseURL + path
	if a.email == "" {
		return u
	}
	return u + "?email=" + url.QueryEscape(a.email)
}

func (a *App) getStatus() string {
	if a.email != "" {
		return fmt.Sprintf("(%s)", a.email)
	}
	return ""
}

func (a *App) Run(ctx context.Context) {
	fmt.Println("Welcome to Collabpack CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
