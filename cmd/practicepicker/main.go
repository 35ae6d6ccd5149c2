package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/practicepicker/internal/app"
	"github.com/bft-labs/practicepicker/internal/backend"
	"github.com/bft-labs/practicepicker/internal/cliconfig"
	"github.com/bft-labs/practicepicker/pkg/log"
)

const helpDescription = `
Keep a list of guitar practice routines and let chance pick the next one.

Highlights:
  - Draw a random routine, optionally limited to one category.
  - Mark routines done for the current cycle and reset when you start over.
  - Stores everything in a hosted table when credentials are configured,
    otherwise in a local routines.json (or SQLite .db) file.
`

var exampleUsage = strings.TrimSpace(`
  practicepicker serve --listen 127.0.0.1:8501
  practicepicker add --name "Alternate picking" --category Technique
  practicepicker draw --category Scales
  SUPABASE_URL=https://xyz.supabase.co SUPABASE_KEY=<key> practicepicker list
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the resolved configuration and logger into subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  log.Logger
	client  *http.Client
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}

	if err := newRootCmd(c).Execute(); err != nil {
		logger := log.NewZerologAdapter(c.cfg.LogLevel)
		logger.Error("practicepicker", log.Err(err))
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "practicepicker",
		Short:         "Pick guitar practice routines at random",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.practicepicker/config.toml)")
	flags.StringVar(&c.cfg.DataFile, "data-file", c.cfg.DataFile, "local snapshot file (.json, or .db/.sqlite for SQLite)")
	flags.StringVar(&c.cfg.RemoteURL, "remote-url", c.cfg.RemoteURL, "hosted REST project URL (e.g. https://xyz.supabase.co)")
	flags.StringVar(&c.cfg.RemoteKey, "remote-key", c.cfg.RemoteKey, "hosted REST API key")
	flags.StringVar(&c.cfg.PostgresDSN, "postgres-dsn", c.cfg.PostgresDSN, "Postgres connection string (wins over remote-url)")
	flags.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP timeout for the REST backend")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(c),
		newListCmd(c),
		newCategoriesCmd(c),
		newAddCmd(c),
		newEditCmd(c),
		newDeleteCmd(c),
		newDrawCmd(c),
		newDoneCmd(c),
		newResetCmd(c),
	)
	return root
}

// loadConfig applies the config file, then PRACTICEPICKER_* variables, then
// explicitly set flags, and validates the result.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	c.cfgPath = cfgFile

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.logger = log.NewZerologAdapter(c.cfg.LogLevel)
	c.client = &http.Client{Timeout: c.cfg.HTTPTimeout}
	c.logger.Debug("configuration", log.Any("config", c.cfg.Masked()))
	return nil
}

// withSession opens the configured backend, starts a session, runs fn and
// prints any notices the session raised.
func (c *cli) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *app.Session) error) error {
	ctx := cmd.Context()
	sel := backend.Select(ctx, c.cfg, c.client, c.logger)
	defer func() {
		if err := sel.Close(); err != nil {
			c.logger.Warn("close backend", log.Err(err))
		}
	}()

	s := app.NewSession(ctx, sel.Repo, app.WithLogger(c.logger))
	err := fn(ctx, s)
	for _, n := range s.Notices() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Level, n.Message)
	}
	return err
}
