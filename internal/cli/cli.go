package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/vietkubers/quest-count/internal/config"
	"github.com/vietkubers/quest-count/internal/logger"
	"github.com/vietkubers/quest-count/internal/report"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// options holds the flag values of one command tree
type options struct {
	configPath  string
	dataDir     string
	format      string
	workers     int
	limit       int
	verbose     bool
	noWriteBack bool
	noDetail    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "quest-count [roster.xlsx]",
		Short: "Count Cloud Study Jams quests for every participant",
		Long: `Count the Qwiklabs quests completed by every participant of a GDG Cloud Study Jams event.

The roster is read from the given xlsx file, or downloaded from the configured
Google Docs spreadsheet when no file is given. Results are printed, saved to
result.txt and result.json, and written back into the roster workbook.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, opts, args)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv(config.EnvConfigPath), "Path to a YAML config file (or env: "+config.EnvConfigPath+")")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Data directory for result.json (overrides output.data_dir)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Profiles fetched concurrently (overrides fetch.workers)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Only count the first N participants (0 counts everyone)")
	cmd.Flags().BoolVar(&opts.noWriteBack, "no-write-back", false, "Do not write results into the roster workbook")
	cmd.Flags().BoolVar(&opts.noDetail, "no-detail", false, "Do not list quest titles while counting")

	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig loads the config file and applies flag overrides
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.workers > 0 {
		cfg.Fetch.Workers = opts.workers
	}
	if opts.dataDir != "" {
		cfg.Output.DataDir = opts.dataDir
	}
	return cfg, nil
}

// setupLogger installs the default logger on stderr
func setupLogger(cfg *config.Config, verbose bool, w io.Writer) {
	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, w))
}

func parseFormat(s string) (report.Format, error) {
	return report.ParseFormat(strings.ToLower(strings.TrimSpace(s)))
}

// terminalWidth returns the width of w when it is a terminal, or 0
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return 0
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return width
}

// signalContext cancels on interrupt so a long run can be stopped cleanly
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
