package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
)

type App struct {
	config *config.Config
	api    client.Client
	reader *bufio.Reader
	out    io.Writer
	handle string
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, api, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	return a.handle != ""
}

func (a *App) getStatus() string {
	if a.handle == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.handle)
}

// Run greets the user, checks the server and runs the REPL until exit.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to GophBlog CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			fmt.Fprintf(a.out, "Server %s is unavailable, commands will fail until it is up\n", a.config.ServerURL)
		} else {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
