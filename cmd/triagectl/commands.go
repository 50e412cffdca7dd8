package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/triage-assistant/internal/backend"
	"github.com/jwalitptl/triage-assistant/internal/parser"
	"github.com/jwalitptl/triage-assistant/internal/repository/postgres"
	"github.com/jwalitptl/triage-assistant/internal/service/health"
	"github.com/jwalitptl/triage-assistant/internal/service/triage"
	normalize "github.com/jwalitptl/triage-assistant/internal/triage"
	"github.com/jwalitptl/triage-assistant/pkg/auth"
	"github.com/jwalitptl/triage-assistant/pkg/logger"
	"github.com/jwalitptl/triage-assistant/pkg/messaging"
	"github.com/jwalitptl/triage-assistant/pkg/messaging/redis"
)

const brokerConnectTimeout = 5 * time.Second

func (o *options) logger() *logger.Logger {
	if !o.verbose {
		return logger.Nop()
	}
	return logger.NewLogger(&logger.Config{
		Level:      logger.DebugLevel,
		TimeFormat: time.Kitchen,
		Output:     os.Stderr,
	})
}

// readInput reads a file argument; "-" reads stdin.
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func newParseCommand() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "parse <response-file|->",
		Short: "Split a saved reasoning response into sections and extract its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			text := string(data)

			sections := parser.ExtractSections(text)
			for _, s := range []struct{ title, body string }{
				{"Thinking", sections.Thinking},
				{"Reasoning", sections.Reasoning},
				{"Conclusion", sections.Conclusion},
				{"Final Answer", sections.FinalAnswer},
			} {
				p.heading(s.title)
				p.line(s.body)
			}

			source := sections.FinalAnswer
			if strings.TrimSpace(source) == "" {
				source = text
			}
			record, err := parser.Extractor{Repair: repair}.Extract(source)
			if err != nil {
				p.heading("Summary")
				p.warn(parser.SentinelMessage(err))
				return nil
			}
			summary, err := parser.FormatRecord(record)
			if err != nil {
				return err
			}
			p.heading("Summary")
			p.line(summary)

			row, err := json.MarshalIndent(normalize.Normalize(record), "", "  ")
			if err != nil {
				return err
			}
			p.heading("Record")
			p.line(string(row))
			return nil
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "repair malformed summary JSON before giving up")
	return cmd
}

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the four inference backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			client := backend.NewClient(opts.logger(), backend.WithProbeTimeout(cfg.Health.ProbeTimeout))
			statuses := health.NewService(client).CheckAll(cmd.Context(), cfg.Backends)

			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			down := 0
			for _, st := range statuses {
				p.status(st)
				if !st.Available {
					down++
				}
			}
			if down > 0 {
				return fmt.Errorf("%d of %d backends unavailable", down, len(statuses))
			}
			return nil
		},
	}
}

func newSaveCommand(opts *options) *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "save <summary-file|->",
		Short: "Save a triage summary to the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			var publisher messaging.Publisher = messaging.NopPublisher{}
			if publish && cfg.Redis.URL != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), brokerConnectTimeout)
				broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, opts.logger().Zerolog(), nil)
				cancel()
				if err != nil {
					return err
				}
				channelPublisher := messaging.NewChannelPublisher(broker, cfg.Redis.Channel)
				defer channelPublisher.Close()
				publisher = channelPublisher
			}

			repo := postgres.NewTriageRepository(postgres.NewConnector(cfg.Database), nil)
			svc := triage.NewService(nil, repo, publisher, opts.logger(), triage.Options{})

			res := svc.Save(cmd.Context(), string(data))
			if !res.OK {
				return errors.New(res.Message)
			}
			newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()).success(res.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", true, "publish a triage.saved event when redis.url is configured")
	return cmd
}

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the triage table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := postgres.Migrate(cmd.Context(), postgres.NewConnector(cfg.Database)); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()).success("triage table is ready")
			return nil
		},
	}
}

func newWatchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print triage.saved events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Redis.URL == "" {
				return errors.New("redis.url is not configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			connectCtx, cancel := context.WithTimeout(ctx, brokerConnectTimeout)
			broker, err := redis.NewRedisBroker(connectCtx, redis.Config{URL: cfg.Redis.URL}, opts.logger().Zerolog(), nil)
			cancel()
			if err != nil {
				return err
			}
			defer broker.Close()

			messages, err := broker.Subscribe(ctx, cfg.Redis.Channel)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			p.heading("Watching " + cfg.Redis.Channel)
			for msg := range messages {
				printEvent(p, msg)
			}
			return nil
		},
	}
}

func printEvent(p printer, raw []byte) {
	var msg struct {
		Type        string          `json:"type"`
		Payload     json.RawMessage `json:"payload"`
		PublishedAt time.Time       `json:"published_at"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		p.warn("unreadable event: " + string(raw))
		return
	}
	p.success(fmt.Sprintf("%s %s %s", msg.PublishedAt.Format(time.RFC3339), msg.Type, msg.Payload))
}

func newTokenCommand(opts *options) *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <staff-id>",
		Short: "Issue a bearer token for the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is not configured")
			}
			token, err := auth.NewHMACService(cfg.JWT.Secret).GenerateToken(args[0], name, ttl)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()).line(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "staff member's display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

