package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ktnetscraper/ktnet/internal/config"
	"github.com/ktnetscraper/ktnet/internal/kttime"
	"github.com/ktnetscraper/ktnet/internal/logger"
	"github.com/ktnetscraper/ktnet/internal/parser"
	"github.com/ktnetscraper/ktnet/internal/portal"
)

const (
	ExitSuccess       = 0
	ExitError         = 1
	ExitLoginRequired = 3
)

var (
	flagVerbose bool
	flagNoColor bool

	// archive collects this run's log lines; archivePath is where they go.
	archive     *logger.Archive
	archivePath string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ktnet",
		Short: "List and download handouts from the kt.kanazawa-med.ac.jp portal",
		Long: `A CLI tool for the Kanazawa Medical University handout portal.
Logs in, reads the timetable of a day, and lists or downloads the handouts
attached to its lessons.

Credentials are read from --user/--password, KTNET_PORTAL_USER_ID and
KTNET_PORTAL_PASSWORD, or the config file (~/.config/ktnet/config.yml).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagNoColor {
				color.NoColor = true
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("user", "", "Student id used to log in")
	pf.String("password", "", "Portal password")
	pf.String("base-url", "", "Portal base URL (default "+config.DefaultBaseURL+")")
	pf.String("proxy", "", "Proxy URL")
	pf.Bool("insecure", false, "Skip TLS certificate verification")
	pf.Duration("interval", 0, "Minimum time between requests (default 2s)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "File the run log is appended to (default ktnet.log)")
	pf.BoolVar(&flagVerbose, "verbose", false, "Write JSON logs to stderr")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newListCmd(), newDownloadCmd(), newStatusCmd())
	return cmd
}

// session is a logged-in portal client and the configuration it came from.
type session struct {
	cfg    *config.Config
	client *portal.Client
}

// openSession loads the configuration, sets up logging and logs in.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	if !cfg.HasCredentials() {
		return nil, errors.New("no credentials: set --user and --password, KTNET_PORTAL_USER_ID and KTNET_PORTAL_PASSWORD, or portal.user_id and portal.password in the config file")
	}

	client, err := portal.New(portalConfig(cfg.Portal))
	if err != nil {
		return nil, fmt.Errorf("creating portal client: %w", err)
	}

	started := time.Now()
	if err := client.Login(cmd.Context(), cfg.Portal.UserID, cfg.Portal.Password); err != nil {
		return nil, err
	}
	logger.RecordTiming("cli.login", time.Since(started))

	return &session{cfg: cfg, client: client}, nil
}

func portalConfig(p config.Portal) portal.Config {
	return portal.Config{
		BaseURL:        p.BaseURL,
		UserAgent:      p.UserAgent,
		VerifyTLS:      p.VerifyTLS,
		Proxy:          p.Proxy,
		Interval:       p.Interval,
		ConnectTimeout: p.ConnectTimeout,
		ReadTimeout:    p.ReadTimeout,
	}
}

// setupLogging installs the default logger. JSON lines go to stderr only with
// --verbose; the archive always records at the configured level.
func setupLogging(cfg *config.Config, stderr io.Writer) error {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}

	out := io.Discard
	if flagVerbose {
		out = stderr
	}

	archive = logger.NewArchive()
	archivePath = cfg.Log.Archive

	l := logger.New(level, out)
	l.SetArchive(archive)
	logger.SetDefault(l)
	return nil
}

// parseDate reads --date, defaulting to today in Japan.
func parseDate(text string) (kttime.CalendarDate, error) {
	if text == "" {
		return kttime.DateOf(time.Now()), nil
	}
	d, err := kttime.ParseDateText(text)
	if err != nil {
		return kttime.CalendarDate{}, fmt.Errorf("invalid --date %q: %w", text, err)
	}
	return d, nil
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, parser.ErrLoginRequired):
		return ExitLoginRequired
	default:
		return ExitError
	}
}

// describe turns well-known errors into an actionable message.
func describe(err error) string {
	switch {
	case errors.Is(err, parser.ErrLoginRequired):
		return "session expired, log in again"
	case errors.Is(err, portal.ErrWrongCredentials):
		return "login failed: wrong user id or password"
	default:
		return err.Error()
	}
}

// run executes the CLI with args and returns the exit code. The log archive
// is stored even when the command fails.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	archive, archivePath = nil, ""

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		if archive != nil {
			logger.Error("Command failed", nil, err)
		}
		fmt.Fprintf(stderr, "%s %s\n", color.RedString("Error:"), describe(err))
	}

	if archive != nil {
		snap := logger.GetMetricsSnapshot()
		logger.Debug("Run metrics", logger.Fields{"counters": snap.Counters, "timings": len(snap.Timings)})
	}

	if archive != nil && archivePath != "" {
		if storeErr := archive.Store(archivePath); storeErr != nil {
			fmt.Fprintf(stderr, "%s storing log: %v\n", color.YellowString("Warning:"), storeErr)
		}
	}
	return exitCode(err)
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
