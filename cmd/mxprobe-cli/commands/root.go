package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/Dynom/mxprobe/runtimer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type RootSettings struct {
	LogLevel  string
	LogFormat string
}

var (
	rootSettings = &RootSettings{}
	logger       = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "mxprobe-cli",
	Short: "Checks if e-mail addresses are deliverable, by asking their mail exchange",
	Long: `Checks if e-mail addresses are deliverable. For every address the mail exchange is resolved and asked if it
accepts the address as recipient. No mail is ever sent.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogger(logger, cmd.ErrOrStderr(), rootSettings)
	},
}

// Execute runs the CLI, the context is cancelled on SIGINT or SIGTERM so that a running batch can finish cleanly
func Execute() {
	ctx, sh := runtimer.WithCancel(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer sh.Stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func configureLogger(l *logrus.Logger, out interface{ Write([]byte) (int, error) }, s *RootSettings) error {
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q %w", s.LogLevel, err)
	}

	switch s.LogFormat {
	case "", "text":
		l.Formatter = &logrus.TextFormatter{}
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	default:
		return fmt.Errorf("invalid log format %q, expecting \"json\" or \"text\"", s.LogFormat)
	}

	l.Out = out
	l.Level = level
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootSettings.LogLevel, "log-level", "warning", "Log level: debug, info, warning or error")
	rootCmd.PersistentFlags().StringVar(&rootSettings.LogFormat, "log-format", "text", "Log format: text or json")
}
