// Package cli implements the wordbook command line: one command per page of
// the application, all backed by the REST API through api.Client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/api"
	"github.com/example/wordbook/internal/config"
	"github.com/example/wordbook/internal/logging"
	"github.com/example/wordbook/internal/session"
)

// App is the state shared by every command of one invocation.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	client *api.Client
	store  *session.Store
	mgr    *session.Manager

	rawIn io.Reader
	in    *bufio.Reader
	out   io.Writer
	now   func() time.Time

	configPath string
	apiURL     string
	sessionDB  string
	verbose    bool
}

// Execute runs the wordbook command line.
func Execute() error {
	cmd, app := newRootCmd()
	return app.execute(cmd)
}

// execute runs cmd and releases the session store and logger afterwards,
// also when the command fails.
func (a *App) execute(cmd *cobra.Command) (err error) {
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return cmd.Execute()
}

// newRootCmd builds the wordbook command tree and the App its commands share.
func newRootCmd() (*cobra.Command, *App) {
	app := &App{now: time.Now}

	rootCmd := &cobra.Command{
		Use:           "wordbook",
		Short:         "Vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/wordbook/config.toml)")
	flags.StringVar(&app.apiURL, "api", "", "backend base URL")
	flags.StringVar(&app.sessionDB, "session-db", "", "session database path")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDashboardCmd(app),
		newStudyCmd(app),
		newSpellCmd(app),
		newTestCmd(app),
		newReviewCmd(app),
		newErrorsCmd(app),
		newVocabCmd(app),
		newUsersCmd(app),
		newStatsCmd(app),
		newCheckInCmd(app),
		newSearchCmd(app),
		newServeCmd(app),
		newBotCmd(app),
	)
	return rootCmd, app
}

func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.sessionDB != "" {
		cfg.SessionDB = a.sessionDB
	}
	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, a.verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.client = api.New(cfg.APIURL,
		api.WithTimeout(cfg.HTTPTimeout()),
		api.WithLogger(logger),
		api.WithStatsLogLimit(cfg.StatsLogLimit),
	)
	a.rawIn = cmd.InOrStdin()
	a.in = bufio.NewReader(a.rawIn)
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *App) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store, a.mgr = nil, nil
	return err
}

// manager opens the session store on first use.
func (a *App) manager() (*session.Manager, error) {
	if a.mgr != nil {
		return a.mgr, nil
	}
	store, err := session.Open(a.cfg.SessionDB)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.mgr = session.NewManager(a.client, store)
	return a.mgr, nil
}

var errNotLoggedIn = errors.New("not logged in, run `wordbook login` first")

// requireSession loads the CLI session into ctx.
func (a *App) requireSession(ctx context.Context) (context.Context, *session.Session, error) {
	mgr, err := a.manager()
	if err != nil {
		return ctx, nil, err
	}
	ctx, err = mgr.Attach(ctx, session.DefaultKey)
	if errors.Is(err, session.ErrNoSession) {
		return ctx, nil, errNotLoggedIn
	}
	if err != nil {
		return ctx, nil, err
	}
	return ctx, session.MustFromContext(ctx), nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
