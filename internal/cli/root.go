// Package cli implementa petctl, un cliente de terminal para la API.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pet-health-chat/internal/platform/httpclient"
)

var (
	version = "dev"
	commit  = "unknown"
)

type app struct {
	apiURL  string
	token   string
	user    string
	timeout time.Duration

	in  io.Reader
	out io.Writer

	client *httpclient.Client
}

// NewRootCmd arma el árbol de comandos. in/out se inyectan para tests.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:   "petctl",
		Short: "Manage pets and chat with the veterinary assistant",
		Long: `petctl talks to the pet-health-chat API.

Authenticate with --token (Firebase ID token) or, against a server in dev
mode, with --user (sent as X-Debug-User-ID).

Quick Start:
  petctl --user me pets add --name Milo --species dog --age 3 --weight 10
  petctl --user me pets list
  petctl --user me chat --pet <pet-id>`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := httpclient.New(a.apiURL, a.timeout)
			if err != nil {
				return err
			}
			a.client = c.WithBearer(a.token).WithDebugUser(a.user)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.apiURL, "api-url", envOr("PETCTL_API_URL", "http://localhost:8080"), "API base URL")
	pf.StringVar(&a.token, "token", os.Getenv("PETCTL_TOKEN"), "Bearer token")
	pf.StringVar(&a.user, "user", os.Getenv("PETCTL_USER"), "Debug user id (dev mode only)")
	pf.DurationVar(&a.timeout, "timeout", httpclient.DefaultTimeout, "Request timeout")

	root.AddCommand(a.petsCmd(), a.recordsCmd(), a.chatCmd())
	return root
}

// Execute corre petctl con stdin/stdout del proceso.
func Execute() int {
	if err := NewRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+describe(err)))
		return 1
	}
	return 0
}

func describe(err error) string {
	switch httpclient.StatusOf(err) {
	case 401:
		return "unauthorized (check --token or --user)"
	case 404:
		return "not found"
	case 429:
		return "rate limited, try again in a moment"
	}
	return err.Error()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
