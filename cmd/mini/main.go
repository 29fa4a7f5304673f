package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/mini/internal/config"
	"github.com/vango-dev/mini/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┬┌┐┌┬
  │││││││
  ┴ ┴┴┘└┘┴
`

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(errors.FromError(err, "E130"))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "mini",
		Short: "A small DOM convenience toolkit",
		Long: `mini builds elements from single-tag literals, runs fades against a
document model, performs AJAX requests and serves a live preview.

Settings are read from mini.json (see "mini init"); flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to mini.json (default: nearest mini.json above the working directory)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from mini.json)")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		initCmd(),
		createCmd(opts),
		fadeCmd(opts),
		fetchCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// setup resolves the configuration, applies the persistent flags and
// returns a logger writing to w.
func (o *globalOptions) setup(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		if _, err := config.ParseLevel(o.logLevel); err != nil {
			return nil, nil, errors.New("E130").
				WithDetail("--log-level must be debug, info, warn or error").
				Wrap(err)
		}
		cfg.Log.Level = o.logLevel
	}
	if o.noColor {
		cfg.Log.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if cfg.Log.NoColor {
		color.NoColor = true
		errors.DisableColors()
	}
	logger := newLogger(w, cfg.LogLevel(), cfg.Log.NoColor)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newLogger returns a tint handler; color is off when asked or when w is
// not a terminal.
func newLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		noColor = true
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}
