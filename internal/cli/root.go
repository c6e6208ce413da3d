// Package cli implements the studyhub command-line interface. Running
// the binary without a subcommand opens the terminal dashboard.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/metrics"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/session"
)

// TUIRunner launches the interactive dashboard.
type TUIRunner func(ctx context.Context, d *Deps) error

// Option configures the root command.
type Option func(*rootOptions)

type rootOptions struct {
	sessions *session.Store
	runTUI   TUIRunner
	logger   logging.Logger
}

// WithSessionStore replaces the OS keyring, mainly for tests.
func WithSessionStore(st *session.Store) Option {
	return func(o *rootOptions) { o.sessions = st }
}

// WithTUI sets what runs when no subcommand is given.
func WithTUI(run TUIRunner) Option {
	return func(o *rootOptions) { o.runTUI = run }
}

// WithLogger replaces the file logger.
func WithLogger(l logging.Logger) Option {
	return func(o *rootOptions) { o.logger = l }
}

// NewRootCommand builds the studyhub command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	o := &rootOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var (
		cfgFile string
		debug   bool
	)
	deps := &Deps{}

	root := &cobra.Command{
		Use:           "studyhub",
		Short:         "Dashboard and feed for the study platform",
		Long:          "Browse notes, blogs, doubts and forums, chart activity trends and keep local bookmarks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()

			if cfgFile == "" {
				cfgFile = model.DefaultConfigPath()
			}
			cfg, err := model.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if debug {
				cfg.Log.Level = "debug"
			}
			deps.Config = cfg

			deps.Logger = o.logger
			if deps.Logger == nil {
				deps.Logger, err = logging.New(cfg.Log)
				if err != nil {
					return err
				}
			}
			deps.Metrics = metrics.New()
			deps.sessions = o.sessions
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return deps.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.runTUI == nil {
				return cmd.Help()
			}
			return o.runTUI(cmd.Context(), deps)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default %s)", model.DefaultConfigPath()))
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newLoginCommand(deps),
		newLogoutCommand(deps),
		newWhoamiCommand(deps),
		newTrendsCommand(deps),
		newActivityCommand(deps),
		newDoubtsCommand(deps),
		newFeedCommand(deps),
		newLeaderboardCommand(deps),
		newBookmarksCommand(deps),
		newLikeCommand(deps),
		newUpvoteCommand(deps),
		newServeCommand(deps),
	)

	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, opts ...Option) error {
	return NewRootCommand(opts...).ExecuteContext(ctx)
}
