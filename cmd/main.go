package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aidarkhanov/nanoid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AreaLayer/elements-miniscript-ci/pkg"
	"github.com/AreaLayer/elements-miniscript-ci/pkg/config"
	"github.com/AreaLayer/elements-miniscript-ci/pkg/driver"
)

var rootCmd = &cobra.Command{
	Use:   "ci",
	Short: "CI driver for elements-miniscript",
	Long: `Runs the CI stages for elements-miniscript. Which stages run is controlled by the
DO_FMT, DO_FUZZ, DO_BITCOIND_TESTS, DO_FEATURE_MATRIX, DO_BENCH and DO_DOCS environment
variables; only the value "true" enables a stage. Without a subcommand this is the same as "ci run".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runStages,
}

// exitCode carries a process exit status through cobra.
type exitCode struct {
	status int
}

func (e *exitCode) Error() string {
	return fmt.Sprintf("exit status %d", e.status)
}

func init() {
	rootCmd.PersistentFlags().String("root", "", "project root (default: nearest directory containing .git)")
	addRunFlags(rootCmd)
}

func projectRoot(cmd *cobra.Command) (string, error) {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return "", err
	}

	if root != "" {
		return root, nil
	}
	return pkg.GetProjectRoot()
}

type session struct {
	root     string
	settings *config.Settings
	logger   zerolog.Logger
	ctx      context.Context
}

// newSession loads the settings and sets up logging for a command.
func newSession(cmd *cobra.Command) (*session, error) {
	root, err := projectRoot(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	var logger zerolog.Logger
	if settings.LogJSON {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(NewConsoleWriter())
	}

	level, ok := settings.Level()
	logger = logger.Level(level).With().Str("run", nanoid.New()).Logger()
	if !ok {
		logger.Warn().Msgf("Unknown log level %q, using info", settings.LogLevel)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &session{
		root:     root,
		settings: settings,
		logger:   logger,
		ctx:      driver.WithLogger(ctx, &logger),
	}, nil
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit *exitCode
	if errors.As(err, &exit) {
		return exit.status
	}

	pkg.PrintError(err.Error())
	return 1
}
