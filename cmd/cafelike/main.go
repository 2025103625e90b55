package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anonto42/cafe-likes/internal/likeclient"
	"github.com/anonto42/cafe-likes/internal/liketoggle"
	"github.com/anonto42/cafe-likes/pkg/config"
	"github.com/anonto42/cafe-likes/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	v       *viper.Viper
	cfg     *config.ClientConfig
	logger  *zap.Logger
	logFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewClientViper()}

	rootCmd := &cobra.Command{
		Use:   "cafelike",
		Short: "Like or unlike a cafe",
		Long: `cafelike shows whether you like a cafe and lets you toggle it.

Without a subcommand it opens the interactive like button. The server must
expose GET /api/likes, POST /api/like and POST /api/unlike.

Settings come from flags, then CAFELIKE_* environment variables, then .env.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runToggle,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("base-url", "http://localhost:8080", "Base URL of the cafe server")
	flags.Int64("cafe-id", 0, "Cafe to like or unlike (required)")
	flags.String("user-id", "", "Session user sent as X-User-Id")
	flags.Duration("timeout", 10*time.Second, "Per-request timeout")
	flags.Bool("optimistic", false, "Flip the button before the server confirms")
	flags.String("env", "production", "Logging environment (development|production)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.logFile, "log-file", "", "Write logs to this file instead of stderr")

	for _, name := range []string{"base-url", "cafe-id", "user-id", "timeout", "optimistic", "env", "verbose"} {
		key := flagKey(name)
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Print whether the current user likes the cafe",
			Args:  cobra.NoArgs,
			RunE:  a.runStatus,
		},
		&cobra.Command{
			Use:   "like",
			Short: "Like the cafe",
			Args:  cobra.NoArgs,
			RunE:  a.runLike,
		},
		&cobra.Command{
			Use:   "unlike",
			Short: "Unlike the cafe",
			Args:  cobra.NoArgs,
			RunE:  a.runUnlike,
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Open the interactive like button",
			Args:  cobra.NoArgs,
			RunE:  a.runToggle,
		},
	)
	return rootCmd
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func (a *app) setup(cmd *cobra.Command) error {
	config.LoadDotEnv()

	cfg, err := config.LoadClient(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var paths []string
	if a.logFile != "" {
		paths = append(paths, a.logFile)
	}
	if a.logFile == "" && isInteractive(cmd) {
		// stderr belongs to the terminal UI
		a.logger = zap.NewNop()
		return nil
	}
	a.logger, err = logging.New(cfg.Env, cfg.Verbose, paths...)
	return err
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd.Name() == "toggle" || !cmd.HasParent()
}

func (a *app) transport() *likeclient.Client {
	return likeclient.New(a.cfg.BaseURL,
		likeclient.WithUserID(a.cfg.UserID),
		likeclient.WithTimeout(a.cfg.Timeout),
		likeclient.WithLogger(a.logger.Named("likeclient")),
	)
}

func (a *app) controller(view liketoggle.View) *liketoggle.Controller {
	return liketoggle.New(a.cfg.CafeID, a.transport(), view,
		liketoggle.WithLogger(a.logger.Named("liketoggle")),
		liketoggle.WithOptimistic(a.cfg.Optimistic),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
