package cmd

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/config"
	"github.com/felixgeelhaar/markup/internal/education"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/examanswer"
	"github.com/felixgeelhaar/markup/internal/log"
	"github.com/felixgeelhaar/markup/internal/marker"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/studytools"
	"github.com/felixgeelhaar/markup/internal/tui"
	"github.com/felixgeelhaar/markup/internal/ux"
	"github.com/felixgeelhaar/markup/internal/version"
)

// local is everything a command needs that does not talk to the backend.
type local struct {
	cc      *CommandContext
	env     config.Env
	home    string
	cfg     *config.Config
	format  string
	noColor bool

	out    ux.Formatter
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	prompt *ux.Prompter
}

// loadLocal resolves configuration with precedence flags > env > file > defaults.
func loadLocal(cmd *cobra.Command) (*local, error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, err
	}

	env, err := config.ParseEnv()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidationInvalid, "invalid environment", err)
	}

	home, err := config.ResolveHome(cc.Home, env)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	if cc.APIURL != "" {
		cfg.API.BaseURL = cc.APIURL
	}
	if cc.LogLevel != "" {
		cfg.Logging.Level = cc.LogLevel
	}
	if cc.Verbose {
		cfg.Logging.Level = "debug"
	}

	l := &local{
		cc:      cc,
		env:     env,
		home:    home,
		cfg:     cfg,
		format:  cfg.Defaults.Format,
		noColor: cfg.Defaults.NoColor,
		stdin:   cmd.InOrStdin(),
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
	}
	if cc.formatSet || l.format == "" {
		l.format = cc.Format
	}
	if cc.noColorSet {
		l.noColor = cc.NoColor
	}

	l.out, err = ux.NewFormatter(l.format, &ux.FormatterOptions{Writer: l.stdout, NoColor: l.noColor})
	if err != nil {
		return nil, ValidationError("--format", l.format, "text, json, yaml")
	}
	return l, nil
}

// app wires the backend client, the session store and the feature services.
type app struct {
	*local

	logger *log.Logger
	logOut log.Output

	client *api.Client
	tokens *session.FileTokenStore
	store  *session.Store

	education *education.Service
	answers   *examanswer.Service
	tools     *studytools.Service
	marker    *marker.Conversation
}

// newApp loads configuration and starts the session store. Callers must Close it.
func newApp(cmd *cobra.Command) (*app, error) {
	return openApp(cmd, false)
}

// newScreenApp is newApp for the full-screen app, which owns the terminal:
// logs go to <home>/logs instead of stderr.
func newScreenApp(cmd *cobra.Command) (*app, error) {
	return openApp(cmd, true)
}

func openApp(cmd *cobra.Command, fullScreen bool) (*app, error) {
	l, err := loadLocal(cmd)
	if err != nil {
		return nil, err
	}

	logger, logOut, err := newLogger(l, fullScreen)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(l.cfg.API.BaseURL,
		api.WithTimeout(l.cfg.API.Timeout),
		api.WithUserAgent(version.GetInfo().UserAgent()),
		api.WithLogger(logger),
	)
	tokens := session.NewFileTokenStore(l.home, l.cfg.Passphrase(l.env))
	store := session.New(client, tokens, session.WithLogger(logger))
	store.Start(commandContext(cmd))

	return &app{
		local:     l,
		logger:    logger,
		logOut:    logOut,
		client:    client,
		tokens:    tokens,
		store:     store,
		education: education.NewService(client, store),
		answers:   examanswer.NewService(client, store),
		tools:     studytools.NewService(client, store),
		marker:    marker.NewConversation(client, store),
	}, nil
}

func newLogger(l *local, fullScreen bool) (*log.Logger, log.Output, error) {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(l.cfg.Logging.Level)
	cfg.Format = log.ParseFormat(l.cfg.Logging.Format)
	cfg.ServiceVersion = version.GetInfo().Short()
	cfg.Output = log.NewOutput(l.stderr)

	if l.cfg.Logging.EnableFile || fullScreen {
		out, err := log.OutputFile(filepath.Join(l.home, "logs"))
		switch {
		case err == nil:
			cfg.Output = out
		case fullScreen:
			// anything written to stderr would land on the alt screen
			cfg.Output = log.OutputDiscard()
		default:
			return nil, log.Output{}, errors.Wrap(errors.ErrCodeDirectoryFailed, "could not open the log file", err)
		}
	}

	logger := log.New(cfg)
	log.SetDefaultLogger(logger)
	return logger, cfg.Output, nil
}

// Close stops the session store and releases the log file.
func (a *app) Close() {
	a.store.Close()
	if a.logOut.Writer() != a.stderr {
		// the process logger must not outlive the file it writes to
		log.SetDefaultLogger(nil)
	}
	if err := a.logOut.Close(); err != nil {
		a.logger.WithError(err).Debug("closing log output")
	}
}

// session waits for the bootstrap identity fetch to settle.
func (a *app) session(ctx context.Context) (session.Session, error) {
	if err := a.store.Wait(ctx); err != nil {
		return session.Session{}, errors.Wrap(errors.ErrCodeNetworkCanceled, "interrupted while restoring the session", err)
	}
	return a.store.Snapshot(), nil
}

// requireUser returns the signed-in profile or a not-signed-in error.
func (a *app) requireUser(ctx context.Context) (*api.Profile, error) {
	snap, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if snap.User == nil {
		return nil, errors.NewNotSignedInError()
	}
	return snap.User, nil
}

func (a *app) tuiDeps() tui.Deps {
	return tui.Deps{
		Sessions:  a.store,
		Education: a.education,
		Answers:   a.answers,
		Tools:     a.tools,
		Chat:      a.marker,
		NoColor:   a.noColor,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
