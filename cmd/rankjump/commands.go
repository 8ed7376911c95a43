package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/rankjump/internal/cli"
	"github.com/bastiangx/rankjump/internal/logger"
	"github.com/bastiangx/rankjump/pkg/anchor"
	"github.com/bastiangx/rankjump/pkg/config"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/bastiangx/rankjump/pkg/server"
	"github.com/bastiangx/rankjump/pkg/session"
	"github.com/bastiangx/rankjump/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	configPath string
	debug      bool
	api        string
	mode       string
	limit      int
	timeout    time.Duration
	date       string
	plain      bool
	addr       string
}

// app is everything a command needs once config and flags are resolved.
type app struct {
	cfg  *config.Config
	sess *session.Session
	reg  *anchor.Registry
}

func newRootCmd(opts *options) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("RANKJUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "rankjump",
		Short:   "Browse the daily top-played Steam games and jump to any of them by name.",
		Args:    cobra.NoArgs,
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			h := cli.NewInputHandler(a.sess, a.reg, os.Stdin, os.Stdout, cli.Options{
				Timeout:       a.cfg.API.Timeout(),
				FrameInterval: a.cfg.View.FrameInterval(),
				Height:        a.cfg.View.Height,
				ScrollFrames:  a.cfg.View.ScrollFrames,
				Plain:         a.cfg.View.Plain,
			})
			return h.Start(cmd.Context(), opts.date)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.StringVarP(&opts.configPath, "config", "c", "", "path to a config.toml (env: RANKJUMP_CONFIG)")
	pfs.BoolVarP(&opts.debug, "debug", "d", false, "toggle debug logging (env: RANKJUMP_DEBUG)")
	pfs.StringVar(&opts.api, "api", "", "base URL of the ranking service (env: RANKJUMP_API)")
	pfs.StringVar(&opts.mode, "mode", "", "search mode: local, remote or hybrid (env: RANKJUMP_MODE)")
	pfs.IntVar(&opts.limit, "limit", 0, "maximum number of suggestions (env: RANKJUMP_LIMIT)")
	pfs.DurationVar(&opts.timeout, "timeout", 0, "timeout for one ranking request (env: RANKJUMP_TIMEOUT)")
	pfs.StringVar(&opts.date, "date", ranking.Today(time.Now()), "date to load, YYYY-MM-DD (env: RANKJUMP_DATE)")

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "no colors or screen clearing (env: RANKJUMP_PLAIN)")

	cmd.AddCommand(
		newServeCmd(opts),
		newHTTPCmd(opts),
		newFetchCmd(opts),
		newVersionCmd(),
	)

	bindEnv(v, pfs)
	bindEnv(v, cmd.Flags())
	for _, sub := range cmd.Commands() {
		bindEnv(v, sub.Flags())
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("rankjump v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// bindEnv lets RANKJUMP_<FLAG> stand in for any flag not given explicitly.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve msgpack requests on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			h := server.NewHandler(a.sess, a.reg, a.cfg.API.Timeout())
			showStartupInfo(a.cfg, "ipc")
			return server.NewServer(h, os.Stdin, os.Stdout).Start(cmd.Context())
		},
	}
}

func newHTTPCmd(opts *options) *cobra.Command {
	var preload bool
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			if opts.addr != "" {
				a.cfg.Server.HTTPAddr = opts.addr
			}
			h := server.NewHandler(a.sess, a.reg, a.cfg.API.Timeout())
			if preload {
				go func() {
					if resp := h.Load(cmd.Context(), opts.date); resp.Status != server.StatusOK {
						log.Warnf("Preloading %s: %s %s", opts.date, resp.Status, resp.Error)
					}
				}()
			}
			showStartupInfo(a.cfg, "http://"+a.cfg.Server.HTTPAddr)
			return server.ServeHTTP(cmd.Context(), a.cfg.Server.HTTPAddr, server.NewHTTPHandler(h, Version))
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "address to listen on, overrides [server] http_addr (env: RANKJUMP_ADDR)")
	cmd.Flags().BoolVar(&preload, "preload", true, "load --date before serving (env: RANKJUMP_PRELOAD)")
	return cmd
}

func newFetchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [YYYY-MM-DD]",
		Short: "Print one day's ranking list and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			date := opts.date
			if len(args) == 1 {
				date = args[0]
			}

			ctx := cmd.Context()
			if t := a.cfg.API.Timeout(); t > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, t)
				defer cancel()
			}
			snap, err := a.sess.Load(ctx, date)
			if err != nil {
				return fmt.Errorf("loading %s: %w", date, err)
			}
			if snap.Len() == 0 {
				fmt.Printf("No data for %s\n", date)
				return nil
			}

			view := cli.NewListView(snap.Len(), 1, a.cfg.View.Plain)
			view.SetSnapshot(snap)
			fmt.Print(view.Render(a.reg))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and project info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			showVersion()
		},
	}
}

// setup resolves config, flag and env overrides, and builds the session.
func setup(fs *pflag.FlagSet, opts *options) (*app, error) {
	logger.Setup(opts.debug)

	cfg, cfgPath, err := config.LoadConfigWithPriority(opts.configPath)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(cfgPath))

	if opts.api != "" {
		cfg.API.BaseURL = opts.api
	}
	if opts.mode != "" {
		cfg.Search.Mode = opts.mode
	}
	if opts.limit > 0 {
		cfg.Search.MaxSuggestions = opts.limit
	}
	if opts.timeout > 0 {
		cfg.API.TimeoutMs = int(opts.timeout / time.Millisecond)
	}
	if f := fs.Lookup("plain"); f != nil && f.Changed {
		cfg.View.Plain = opts.plain
	}

	mode, err := suggest.ParseMode(cfg.Search.Mode)
	if err != nil {
		return nil, err
	}
	if !ranking.ValidDate(opts.date) {
		return nil, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", opts.date)
	}

	// the timeout also bounds remote searches, which have no per-call deadline
	client := ranking.NewClient(cfg.API.BaseURL,
		ranking.WithPaths(cfg.API.RankingsPath, cfg.API.SearchPath),
		ranking.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout()}),
	)
	reg := anchor.NewRegistry()
	sess := session.New(ranking.NewStore(client), anchor.NewNavigator(reg), session.Options{
		Mode:       mode,
		Limit:      cfg.Search.MaxSuggestions,
		Searcher:   client,
		SearchRate: cfg.Search.RatePerSec,
	})

	log.Debug("Session ready",
		"api", cfg.API.BaseURL,
		"mode", sess.Mode(),
		"limit", cfg.Search.MaxSuggestions,
		"timeout", cfg.API.Timeout())

	return &app{cfg: cfg, sess: sess, reg: reg}, nil
}

func showVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ rankjump ] Today's most played games, one keystroke away")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints to stderr; stdout may be the IPC channel.
func showStartupInfo(cfg *config.Config, listen string) {
	l := logger.New(AppName)
	l.SetLevel(log.InfoLevel)

	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("api: ( %s )", cfg.API.BaseURL)
	l.Infof("search: %s, up to %d suggestions", cfg.Search.Mode, cfg.Search.MaxSuggestions)
	l.Infof("listening: %s", listen)
	l.Info("status: ready")
}
