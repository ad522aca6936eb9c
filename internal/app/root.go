package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/config"
	"github.com/theballaam96/candyctl/internal/util"
)

var (
	cfg    *config.Config
	logger *log.Logger

	flagNoColor  bool
	flagLogLevel string
	flagRoot     string
)

var rootCmd = &cobra.Command{
	Use:   "candyctl",
	Short: "Continuous integration for the Candy's Shop song repository",
	Long: `candyctl runs the pull-request workflows of the Candy's Shop repository.

It reads song submissions from pull-request descriptions, checks them,
files the uploaded binaries and previews into place, keeps mapping.json
up to date, and posts notifications to GitHub and Discord.

Settings come from the workflow environment (PR_NUMBER, PAT_TOKEN,
DISCORD_WEBHOOK_*, ...) and an optional .github/candyctl.yml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		if errors.Is(err, ErrNeedsChanging) {
			// Surfaces as an annotation on the workflow run.
			fmt.Fprintln(os.Stderr, "::error::Something needs changing in order to make this PR valid.")
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Repository checkout to operate on (default from config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagRoot != "" {
			cfg.Paths.Root = flagRoot
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		logger, err = newLogger(cfg.LogLevel)
		return err
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newNotifyCmd(),
		newAppendCmd(),
		newBatchCmd(),
		newCommentCmd(),
		newAuditCmd(),
		newPruneCmd(),
		newPackCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

func newLogger(level string) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		var err error
		lvl, err = log.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q", level)
		}
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  lvl,
		Prefix: "candyctl",
	}), nil
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
