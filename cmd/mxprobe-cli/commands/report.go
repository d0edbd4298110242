package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Dynom/mxprobe/export"
	"github.com/Dynom/mxprobe/validator"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type ReportSettings struct {
	OnlyInvalid bool
	Format      string
	ValidOut    string
	InvalidOut  string
}

var reportSettings = &ReportSettings{}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Summarise the JSON lines written by check",
	Long: `Summarise the JSON lines written by check, read from a file or stdin. Prints the totals and optionally writes
the "Email,Status" CSV tables, e.g.:

  mxprobe-cli check --input list.txt > results.jsonl
  mxprobe-cli report --valid-out valid_emails.csv --invalid-out invalid_emails.csv results.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("unable to open %q %w", args[0], err)
			}

			defer f.Close()
			in = f
		}

		return runReport(cmd.OutOrStdout(), in, reportSettings)
	},
}

func runReport(out io.Writer, in io.Reader, s *ReportSettings) error {
	start := time.Now()

	var results export.Results
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var line CheckResultFull
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			logger.WithError(err).Warn("Skipping line that isn't a check result")
			continue
		}

		if s.OnlyInvalid && line.Valid {
			continue
		}

		results = append(results, validator.Result{
			Address: line.Email,
			Valid:   line.Valid,
		})
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	stats, err := export.WritePartitions(results, s.ValidOut, s.InvalidOut)
	if err != nil {
		return err
	}

	report := ReportStats{
		Passed:   uint64(stats.Valid),
		Rejected: uint64(stats.Invalid),
		Duration: time.Since(start).Milliseconds(),
	}

	switch s.Format {
	case "", "text":
		_, err = fmt.Fprintf(out, "Valid emails: %d\nInvalid emails: %d\n", report.Passed, report.Rejected)
	case "json":
		err = json.NewEncoder(out).Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		if err = enc.Encode(report); err == nil {
			err = enc.Close()
		}
	default:
		err = fmt.Errorf("bad format %q", s.Format)
	}

	return err
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportSettings.OnlyInvalid, "only-invalid", false, "Only report rejected checks")
	reportCmd.Flags().StringVar(&reportSettings.Format, "format", "text", "Output format of the totals: text, json or yaml")
	reportCmd.Flags().StringVar(&reportSettings.ValidOut, "valid-out", "", "Write accepted addresses to this CSV file")
	reportCmd.Flags().StringVar(&reportSettings.InvalidOut, "invalid-out", "", "Write rejected addresses to this CSV file")
}
