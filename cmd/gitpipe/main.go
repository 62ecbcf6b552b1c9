package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/common/logger"
	"github.com/utkarsh5026/gitpipe/pkg/config"
)

var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	CommitSHA = "unknown"
)

var (
	logLevel  string
	logFormat string
	verbose   bool
	gitBinary string
	assumeYes bool
	noColor   bool
)

// settings is the merged configuration for this invocation. The
// persistent pre-run seeds it from the system and user files; opening
// a repository layers that repository's own file on top.
var settings = config.Default()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorMessage(fmt.Sprintf("error: %v", err)))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gitpipe",
		Short:   "gitpipe - typed git operations over a streamed subprocess core",
		Long:    getBanner(),
		Version: fmt.Sprintf("%s (built: %s, commit: %s)", Version, BuildTime, CommitSHA),
		// Errors reach the user once, through main's styled print.
		// Usage stays out of failure output: a conflicted merge is an
		// outcome, not a mistyped command.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSettings(); err != nil {
				return err
			}
			setupLogging()
			if noColor {
				ui.SetStyled(false)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVar(&gitBinary, "git", "", "Path to the git executable")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation prompt")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")

	rootCmd.AddCommand(
		newCatCmd(),
		newHeadCmd(),
		newStatusCmd(),
		newLogCmd(),
		newDiffCmd(),
		newBranchCmd(),
		newTagCmd(),
		newCommitCmd(),
		newMergeCmd(),
		newCherryPickCmd(),
		newRevertCmd(),
		newStashCmd(),
		newCheckoutCmd(),
		newResetCmd(),
		newCloneCmd(),
		newFetchCmd(),
		newPullCmd(),
		newPushCmd(),
		newRemoteCmd(),
		newCheckIgnoreCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func getBanner() string {
	return `
   ██████╗ ██╗████████╗██████╗ ██╗██████╗ ███████╗
  ██╔════╝ ██║╚══██╔══╝██╔══██╗██║██╔══██╗██╔════╝
  ██║  ███╗██║   ██║   ██████╔╝██║██████╔╝█████╗
  ██║   ██║██║   ██║   ██╔═══╝ ██║██╔═══╝ ██╔══╝
  ╚██████╔╝██║   ██║   ██║     ██║██║     ███████╗
   ╚═════╝ ╚═╝   ╚═╝   ╚═╝     ╚═╝╚═╝     ╚══════╝

  Typed git operations over a streamed subprocess core.

  Inspect objects:    gitpipe cat HEAD
  See what changed:   gitpipe status
  Bring in history:   gitpipe clone <url>
  Need help? Run:     gitpipe --help

`
}

// loadSettings merges the builtin defaults, the system and user
// config files, and the environment. Repository-level files join in
// openRepository once a repository is known.
func loadSettings() error {
	loaded, err := config.Load("")
	if err != nil {
		return err
	}
	settings = loaded.Settings
	return nil
}

func setupLogging() {
	cfg := settings.Log
	if logLevel != "" {
		cfg.Level = logLevel
	}
	if verbose {
		cfg.Level = "debug"
	}
	if logFormat != "" {
		cfg.Format = logFormat
	}
	logger.Default = logger.New(cfg.LoggerConfig(os.Stderr))
}
