package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logreport/pkg/detector"
	"github.com/ccollicutt/logreport/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(global *GlobalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and sample log sources",
		Long: `Validate the logreport configuration without producing a report.

Checks:
  - YAML syntax
  - Required fields
  - Grammar pattern validity (exactly seven capture groups)
  - Webhook URLs

With --path, also resolves the sources and samples their first lines
to check how many match the configured grammar (warning only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), global, path, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Path specification of the sources to sample")

	return cmd
}

func runValidate(ctx context.Context, global *GlobalOptions, path string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cfg, closer, err := LoadRuntime(ctx, global, stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	fmt.Fprintf(stdout, "Configuration valid!\n")
	fmt.Fprintf(stdout, "  Base directory: %s\n", cfg.BaseDir)
	fmt.Fprintf(stdout, "  Grammar:        %s\n", cfg.Grammar.Pattern)
	fmt.Fprintf(stdout, "  Top limit:      %d\n", cfg.Report.TopLimit)
	fmt.Fprintf(stdout, "  Webhooks:       %d\n", len(cfg.Webhooks))
	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(stdout, "    %d. %s %s\n", i+1, name, wh.URL)
	}

	if path == "" {
		return nil
	}

	grammar, err := parser.GrammarFromConfig(&cfg.Grammar)
	if err != nil {
		return err
	}

	res, err := NewResolver(cfg).Resolve(ctx, path)
	if err != nil {
		return err
	}
	defer res.Source.Close()

	fmt.Fprintf(stdout, "\nSources matched: %d\n", len(res.Names))
	for _, name := range res.Names {
		fmt.Fprintf(stdout, "  - %s\n", name)
	}

	configured := &detector.AccessLogFormat{Name: "configured", PatternStr: cfg.Grammar.Pattern, Grammar: grammar}
	formats := append([]*detector.AccessLogFormat{configured}, detector.DefaultFormats()...)

	result, err := detector.New(detector.WithFormats(formats...)).Detect(ctx, res.Source)
	if err != nil {
		return err
	}

	matched := 0
	for _, m := range result.Matches {
		if m.Format == configured {
			matched = m.MatchCount
		}
	}
	fmt.Fprintf(stdout, "\nSampled lines: %d, matching the grammar: %d\n", result.SampledLines, matched)

	if result.SampledLines > 0 && matched < result.SampledLines {
		fmt.Fprintf(stdout, "\nWarning: %d sampled line(s) do not match the grammar and will be ignored\n",
			result.SampledLines-matched)
		if !result.HasMatch() {
			fmt.Fprintf(stdout, "  No known access log format matches the sampled lines\n")
		} else if best := result.BestMatch(); best.Format != configured {
			fmt.Fprintf(stdout, "  Best matching known format: %s (%.0f%%)\n", best.Format.Name, best.Confidence*100)
			fmt.Fprintf(stdout, "  grammar.pattern: '%s'\n", best.Format.PatternStr)
			fmt.Fprintf(stdout, "  example:         %s\n", best.Format.Example)
		}
		for _, line := range result.Unmatched {
			fmt.Fprintf(stdout, "  unmatched: %s\n", line)
		}
	}

	return nil
}
