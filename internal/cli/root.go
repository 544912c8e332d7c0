// Package cli provides the command-line interface for logreport.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ccollicutt/logreport/internal/cli/commands"
	"github.com/ccollicutt/logreport/pkg/apperrors"
)

// ExitFailure is the exit code of every failed run.
const ExitFailure = 2

// Execute runs the root command and returns the exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command line args and returns the exit code. Failures are
// reported on stderr as "Ошибка: <message>".
//
// A subcommand runs only when its name is the first token. Anywhere else the
// name is an ordinary positional token, which the report ignores.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(stdout, stderr)
	if len(args) == 0 || !isSubcommand(rootCmd, args[0]) {
		rootCmd = newReportCommand(&commands.GlobalOptions{}, stdout, stderr)
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors prevents Cobra from printing the error itself
		_, _ = fmt.Fprintf(stderr, "Ошибка: %s\n", err.Error())
		return ExitFailure
	}
	return 0
}

// NewRootCommand creates the root cobra command. Running it without a
// subcommand produces the report.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := newReportCommand(global, stdout, stderr)
	rootCmd.AddCommand(commands.NewValidateCommand(global))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

// isSubcommand reports whether name selects a subcommand of cmd.
func isSubcommand(cmd *cobra.Command, name string) bool {
	if name == "help" {
		return true
	}
	for _, sub := range cmd.Commands() {
		if sub.Name() == name || sub.HasAlias(name) {
			return true
		}
	}
	return false
}

// newReportCommand creates the command that produces the report. It has no
// subcommands, so every positional token is ignored.
func newReportCommand(global *commands.GlobalOptions, stdout, stderr io.Writer) *cobra.Command {
	opts := &commands.ReportOptions{}

	rootCmd := &cobra.Command{
		Use:   "logreport",
		Short: "Summarize NGINX access logs as a Markdown or AsciiDoc report",
		Long: `logreport reads NGINX access logs from local files or URLs and prints
a report with request counts, response sizes, requested resources,
status codes, the busiest IP addresses and the busiest days.

PATH SPECIFICATIONS:
  logs/access.log            a single file under the base directory
  logs/2023/*                every file directly in a directory
  logs/**/access.log         every access.log in a subtree
  logs/**                    every file in a subtree
  https://host/a.log|https://host/b.log
                             one or more URLs

Flag names are case-insensitive. Files named *.gz or *.zst are decompressed.
The subcommands "validate" and "version" apply only as the first argument.`,
		Example: `  logreport --path 'logs/**' --from 2015-05-17T00:00:00+00:00 --format adoc
  logreport --path logs/access.log --filter-field method --filter-value '^GET$' --order asc
  logreport validate --path 'logs/**'`,
		Args: cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 && len(args) == 0 {
				return apperrors.InvalidArguments(nil, "Аргументы отсутствуют.")
			}
			opts.FilterFieldSet = cmd.Flags().Changed("filter-field")
			opts.FilterValueSet = cmd.Flags().Changed("filter-value")
			return commands.RunReport(cmd.Context(), global, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetGlobalNormalizationFunc(lowerCaseFlags)

	rootCmd.PersistentFlags().StringVar(&global.ConfigPath, "config", "", "Configuration file (YAML); defaults to $LOGREPORT_CONFIG")
	rootCmd.PersistentFlags().StringVar(&global.LogLevel, "log-level", "", "Diagnostic log level (trace|debug|info|warn|error|disabled)")

	flags := rootCmd.Flags()
	flags.StringVar(&opts.Path, "path", "", "Log source path specification (required)")
	flags.StringVar(&opts.From, "from", "", "Only count records after this ISO-8601 date-time")
	flags.StringVar(&opts.To, "to", "", "Only count records before this ISO-8601 date-time")
	flags.StringVar(&opts.Format, "format", "", "Report format (markdown|adoc)")
	flags.StringVar(&opts.FilterField, "filter-field", "", "Record field to filter on (agent|method|status)")
	flags.StringVar(&opts.FilterValue, "filter-value", "", "Regular expression the filter field must contain")
	flags.StringVar(&opts.Order, "order", "", "Order of the resource table by count (asc|desc)")

	// Webhook flags
	flags.StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	flags.StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")

	return rootCmd
}

// lowerCaseFlags makes flag names case-insensitive.
func lowerCaseFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ToLower(name))
}
