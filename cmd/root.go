package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JSH-Team/unpack/internal/config"
	"github.com/JSH-Team/unpack/internal/progress"
	"github.com/JSH-Team/unpack/internal/sourcemap"
	"github.com/JSH-Team/unpack/internal/storage"
	"github.com/JSH-Team/unpack/internal/unpacker"
	"github.com/JSH-Team/unpack/internal/utils/fetch"
	"github.com/JSH-Team/unpack/internal/utils/logger"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"

	rootCmd = NewRootCmd()
)

// SetVersion sets the version information
func SetVersion(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	return fmt.Sprintf("unpack %s\nBuild time: %s\nGit commit: %s\n", version, buildTime, gitCommit)
}

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd builds the unpack command with its flags bound to the config keys.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <project-directory> <path-to-map-file>",
		Short: "Recover original sources from a webpack sourcemap",
		Long: `unpack reads a webpack generated sourcemap and writes every embedded
original source below <project-directory>, recreating the project's layout.

The map may be a local path, an http(s) URL or a data: URI.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Usage needs no config, so nothing is read or written for it.
			if len(args) < 2 {
				return nil
			}
			return initConfig()
		},
		RunE: runUnpack,
	}
	cmd.SetVersionTemplate(versionTemplate())

	flags := cmd.Flags()
	flags.StringVar(&config.ConfigPath, "config", "", "config file (default is <user config dir>/unpack/config.yaml)")
	flags.IntP("workers", "w", 0, "number of parallel write workers (0 = one per logical CPU)")
	flags.Bool("fail-fast", false, "stop after the batch with the first failed write and exit non-zero")
	flags.String("missing-content", string(config.MissingContentEmpty), "what to write for sources without inlined content: empty, placeholder or skip")
	flags.Bool("no-progress", false, "log progress lines instead of drawing a progress bar")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("workers", flags.Lookup("workers"))
	viper.BindPFlag("missing_content", flags.Lookup("missing-content"))
	viper.BindPFlag("no_progress", flags.Lookup("no-progress"))

	return cmd
}

func initConfig() error {
	if err := config.LoadConfig(); err != nil {
		return err
	}
	return logger.SetLevel(config.LogLevel)
}

func runUnpack(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) < 2 {
		// Missing arguments print usage and exit zero.
		printUsage(out)
		return nil
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel("debug")
	}

	failure := config.Failure
	if failFast, _ := cmd.Flags().GetBool("fail-fast"); failFast {
		failure = config.FailFast
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	fs := afero.NewOsFs()
	reader := storage.MapReader{
		Fs:      fs,
		Fetcher: fetch.NewAssetFetcher(config.FetchRatePerMinute),
		Timeout: time.Duration(config.FetchTimeoutSeconds) * time.Second,
	}
	opts := unpacker.Options{
		Cwd:            cwd,
		ProjectName:    args[0],
		MapLocation:    args[1],
		PoolCapacity:   config.PoolCapacity(),
		FailurePolicy:  failure,
		MissingContent: config.MissingContent,
	}

	// The sink is built once the map has been validated, which is also when
	// the operator is told extraction is starting.
	run := unpacker.New(fs, reader, opts, func(total int) progress.Sink {
		printStart(out, opts.PoolCapacity)
		return progress.New(total, config.NoProgress)
	})

	err = run.Execute(cmd.Context())
	return report(out, run, err)
}

// reportedError marks an error whose message was already shown to the operator.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// IsReported reports whether err has already been printed by the command.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// report prints the operator-facing outcome and maps it to the command error.
func report(out io.Writer, run *unpacker.Run, err error) error {
	switch {
	case err == nil:
		printDone(out, run)
		return nil
	case errors.Is(err, unpacker.ErrProjectExists), errors.Is(err, unpacker.ErrMapNotFound):
		printFailure(out, err.Error())
	case errors.Is(err, sourcemap.ErrUnsupportedSourceMap):
		printFailure(out, "Not a webpack generated sourcemap!")
		logger.Debug("%v", err)
	case errors.Is(err, sourcemap.ErrInvalidSourceMap):
		printMapError(out, err)
	default:
		if run.Summary.Dispatched > 0 {
			printSummary(out, run)
		}
		printFailure(out, err.Error())
	}
	return reportedError{err}
}
