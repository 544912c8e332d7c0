package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/logreport/pkg/analyzer"
	"github.com/ccollicutt/logreport/pkg/apperrors"
	"github.com/ccollicutt/logreport/pkg/config"
	"github.com/ccollicutt/logreport/pkg/logging"
	"github.com/ccollicutt/logreport/pkg/output"
	"github.com/ccollicutt/logreport/pkg/parser"
	"github.com/ccollicutt/logreport/pkg/webhook"
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// ReportOptions holds command-line options for a report run.
type ReportOptions struct {
	Path        string
	From        string
	To          string
	Format      string
	FilterField string
	FilterValue string
	Order       string

	// FilterFieldSet and FilterValueSet record whether the flags were given,
	// so an explicitly empty value still takes part in filtering.
	FilterFieldSet bool
	FilterValueSet bool

	// Webhook options
	WebhookURL   string
	WebhookToken string
}

// Arguments validates the options and converts them to analyzer arguments.
func (o *ReportOptions) Arguments() (*analyzer.Arguments, error) {
	if o.Path == "" {
		return nil, apperrors.InvalidArguments(nil, "Не указан обязательный аргумент --path.")
	}

	args := &analyzer.Arguments{
		Path:           o.Path,
		Format:         o.Format,
		FilterField:    o.FilterField,
		FilterValue:    o.FilterValue,
		FilterFieldSet: o.FilterFieldSet,
		FilterValueSet: o.FilterValueSet,
		Order:          o.Order,
	}

	var err error
	if args.From, err = parseBound("--from", o.From); err != nil {
		return nil, err
	}
	if args.To, err = parseBound("--to", o.To); err != nil {
		return nil, err
	}

	return args, nil
}

func parseBound(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parser.ParseISO(value)
	if err != nil {
		return nil, apperrors.InvalidArguments(err, "Неверный формат даты в %s: %s", flag, value)
	}
	return &t, nil
}

// LoadRuntime loads configuration and builds the logger for a command.
// The returned context carries the logger; the closer releases its file.
func LoadRuntime(ctx context.Context, global *GlobalOptions, stderr io.Writer) (context.Context, *config.Config, io.Closer, error) {
	path := global.ConfigPath
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return ctx, nil, nil, apperrors.InvalidArguments(err, "Ошибка конфигурации: %v", err)
	}
	if global.LogLevel != "" {
		cfg.Log.Level = global.LogLevel
	}

	logger, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return ctx, nil, nil, apperrors.InvalidArguments(err, "Ошибка конфигурации: %v", err)
	}
	return logger.WithContext(ctx), cfg, closer, nil
}

// NewResolver builds the source resolver described by cfg.
func NewResolver(cfg *config.Config) *parser.Resolver {
	return parser.NewResolver(cfg.BaseDir,
		parser.WithHTTPClient(&http.Client{Timeout: cfg.HTTP.Timeout}),
		parser.WithUserAgent(cfg.HTTP.UserAgent),
	)
}

// RunReport resolves the sources, aggregates them and writes the report to
// stdout. Nothing is written to stdout on failure.
func RunReport(ctx context.Context, global *GlobalOptions, opts *ReportOptions, stdout, stderr io.Writer) error {
	args, err := opts.Arguments()
	if err != nil {
		return err
	}

	ctx, cfg, closer, err := LoadRuntime(ctx, global, stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger := zerolog.Ctx(ctx)

	formatter, err := output.NewFormatter(args.Format)
	if err != nil {
		return err
	}

	grammar, err := parser.GrammarFromConfig(&cfg.Grammar)
	if err != nil {
		return err
	}

	res, err := NewResolver(cfg).Resolve(ctx, args.Path)
	if err != nil {
		return err
	}
	defer res.Source.Close()

	stats, err := analyzer.Aggregate(ctx, res.Source, args,
		analyzer.WithGrammar(grammar),
		analyzer.WithSourceNames(res.Names),
	)
	if err != nil {
		return err
	}

	report := output.NewReport(stats, args, cfg.Report.TopLimit)

	var buf bytes.Buffer
	if err := formatter.Format(ctx, report, &buf); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	rendered := buf.String()

	if _, err := fmt.Fprintln(stdout, rendered); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info().
		Int64("requests", stats.TotalRequests).
		Int("sources", len(res.Names)).
		Str("format", formatter.Name()).
		Msg("report written")

	// Webhook failures are logged but don't fail the run
	sendWebhooks(ctx, cfg, opts, webhook.NewPayload(report, formatter.Name(), rendered))

	return nil
}

// maxParallelWebhooks bounds concurrent webhook deliveries.
const maxParallelWebhooks = 4

// sendWebhooks posts the payload to all configured webhooks.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ReportOptions, payload *webhook.Payload) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	logger := zerolog.Ctx(ctx).With().Str("delivery", payload.ID).Logger()
	client := webhook.NewClient(nil, cfg.HTTP.UserAgent)

	var g errgroup.Group
	g.SetLimit(maxParallelWebhooks)

	for _, wh := range webhooks {
		g.Go(func() error {
			resp := client.Send(ctx, payload, webhook.SendOptions{
				Name:    wh.Name,
				URL:     wh.URL,
				Token:   wh.Token,
				Timeout: wh.Timeout,
			})

			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			if resp.Success() {
				logger.Info().Str("webhook", name).Int("status", resp.StatusCode).Dur("duration", resp.Duration).Msg("webhook sent")
			} else {
				logger.Warn().Str("webhook", name).Err(resp.Error).Msg("webhook failed")
			}
			return nil
		})
	}

	// Failures are logged per webhook; none is returned.
	_ = g.Wait()
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ReportOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
