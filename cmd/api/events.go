package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/frontdesk-api/internal/service/event"
)

func newEventsCommand() *cobra.Command {
	events := &cobra.Command{
		Use:   "events",
		Short: "Inspect the domain event channel",
	}
	events.AddCommand(&cobra.Command{
		Use:   "tail",
		Short: "Log every event published on the configured Redis channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadRuntime()
			if err != nil {
				return err
			}
			if cfg.Redis.URL == "" {
				return errors.New("redis url is not configured")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			broker, err := openBroker(ctx, cfg.Redis, l)
			if err != nil {
				return err
			}
			defer broker.Close()

			msgs, err := broker.Subscribe(ctx, cfg.Redis.Channel)
			if err != nil {
				return err
			}

			l.Info("tailing events", "channel", cfg.Redis.Channel)
			for msg := range msgs {
				var env event.Envelope
				if err := json.Unmarshal(msg, &env); err != nil {
					l.Warn("undecodable event", "raw", string(msg))
					continue
				}
				l.Info("event",
					"id", env.ID,
					"type", string(env.Type),
					"occurred_at", env.OccurredAt,
					"payload", env.Payload,
				)
			}
			return nil
		},
	})
	return events
}
