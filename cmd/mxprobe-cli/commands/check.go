package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Dynom/mxprobe/batch"
	"github.com/Dynom/mxprobe/cmd/mxprobe-cli/iterator"
	"github.com/Dynom/mxprobe/export"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	checkSettings = &CheckSettings{}

	// newChecker is replaced in tests
	newChecker = createValidator
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [address]",
	Short: "Validate email addresses",
	Long: `Validate email addresses, read from the argument, from --input or from stdin.

Without --valid-out or --invalid-out a JSON line is written per address as soon as it's checked. With either of them
the results are written as CSV tables with an "Email,Status" header.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("too many arguments, expected 0 or 1")
		}

		if len(args) > 0 && checkSettings.Input != "" {
			return errors.New("can't read both from --input and argument")
		}

		if len(args) == 0 && checkSettings.Input == "" && !isStdinPiped() {
			return errors.New("missing argument")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) > 0 {
			in = strings.NewReader(args[0])
		}

		if checkSettings.Input != "" {
			f, err := os.Open(checkSettings.Input)
			if err != nil {
				return fmt.Errorf("unable to open input %w", err)
			}

			defer f.Close()
			in = f
		}

		return runCheck(cmd, in, checkSettings)
	},
}

func runCheck(cmd *cobra.Command, in io.Reader, s *CheckSettings) error {
	var it *iterator.CallbackIterator
	switch s.Format {
	case "", "text":
		it = createTextIterator(in)
	case "csv":
		var err error
		if it, err = createCSVIterator(in, s.CSV); err != nil {
			return err
		}
	default:
		return fmt.Errorf("bad format %q", s.Format)
	}

	addresses, err := iterator.Collect(it, func(err error) {
		logger.WithError(err).Warn("Skipping unreadable input")
	})

	if err != nil {
		return fmt.Errorf("unable to read input %w", err)
	}

	checker, err := newChecker(s.Check, logger)
	if err != nil {
		return err
	}

	options := []batch.Option{
		batch.WithWorkers(s.Check.Workers),
		batch.WithRetries(s.Check.Retries, s.Check.Backoff),
		batch.WithLogger(logger),
	}

	progress, err := wantProgress(s.Output.Progress, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if progress {
		options = append(options, batch.WithProgress(progressPrinter(cmd.ErrOrStderr())))
	}

	start := time.Now()
	orchestrator := batch.New(checker, options...)

	if s.Output.ValidOut == "" && s.Output.InvalidOut == "" {
		jsonEncoder := json.NewEncoder(cmd.OutOrStdout())
		for r := range orchestrator.Stream(cmd.Context(), addresses) {
			if err := jsonEncoder.Encode(newCheckResultFull(r)); err != nil {
				logger.WithError(err).Error("Unable to write result")
			}
		}

		return cmd.Context().Err()
	}

	rs := orchestrator.Run(cmd.Context(), addresses)
	stats, err := export.WritePartitions(rs, s.Output.ValidOut, s.Output.InvalidOut)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"valid":    stats.Valid,
		"invalid":  stats.Invalid,
		"duration": time.Since(start).String(),
	}).Info("Done checking")

	cmd.Printf("Valid emails: %d\nInvalid emails: %d\n", stats.Valid, stats.Invalid)
	return cmd.Context().Err()
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkSettings.Format, "format", "text", "text or csv. Text means a single email address per line '\\n'")
	checkCmd.Flags().StringVar(&checkSettings.Input, "input", "", "File to read addresses from, instead of stdin")
	checkCmd.Flags().Uint64Var(&checkSettings.CSV.skipRows, "csv-skip-rows", 0, "Rows to skip, before the header (if any)")
	checkCmd.Flags().IntVar(&checkSettings.CSV.column, "csv-column", -1, "The column to read email addresses from, 0-indexed. When negative, the column is found by --csv-header")
	checkCmd.Flags().StringVar(&checkSettings.CSV.header, "csv-header", "email", "The name of the column to read email addresses from, case-insensitive")

	checkCmd.Flags().StringVar(&checkSettings.Check.Resolver, "resolver", "", "Custom name server (ip[:port]) for MX lookups, otherwise system default is used")
	checkCmd.Flags().StringVar(&checkSettings.Check.Sender, "sender", "", "Address used in MAIL FROM, defaults to postmaster@<helo>")
	checkCmd.Flags().StringVar(&checkSettings.Check.Helo, "helo", "", "Identity presented in HELO, defaults to the host name")
	checkCmd.Flags().StringVar(&checkSettings.Check.Port, "port", "25", "SMTP port of the mail exchanges")
	checkCmd.Flags().DurationVar(&checkSettings.Check.Timeout, "timeout", 10*time.Second, "Timeout for connecting and for every SMTP round-trip")
	checkCmd.Flags().IntVar(&checkSettings.Check.Workers, "workers", 10, "Number of addresses checked simultaneously")
	checkCmd.Flags().IntVar(&checkSettings.Check.Retries, "retries", 0, "Retries for addresses that failed on a connection problem or timeout")
	checkCmd.Flags().DurationVar(&checkSettings.Check.Backoff, "backoff", time.Second, "Wait between retries, multiplied by the attempt")
	checkCmd.Flags().StringVar(&checkSettings.Check.Proxy, "proxy", "", "SOCKS5 proxy (host:port) to connect to mail exchanges through")
	checkCmd.Flags().StringVar(&checkSettings.Check.ProxyUser, "proxy-user", "", "SOCKS5 proxy user name")
	checkCmd.Flags().StringVar(&checkSettings.Check.ProxyPassword, "proxy-password", os.Getenv("MXPROBE_PROXY_PASSWORD"), "SOCKS5 proxy password, defaults to $MXPROBE_PROXY_PASSWORD")

	checkCmd.Flags().StringVar(&checkSettings.Output.ValidOut, "valid-out", "", "Write accepted addresses to this CSV file, e.g. valid_emails.csv")
	checkCmd.Flags().StringVar(&checkSettings.Output.InvalidOut, "invalid-out", "", "Write rejected addresses to this CSV file, e.g. invalid_emails.csv")
	checkCmd.Flags().StringVar(&checkSettings.Output.Progress, "progress", "auto", "Progress on stderr: auto (when stderr is a terminal), always or never")
}
