package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/jonathan/career-guide/internal/assistant"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/queue"
	"github.com/jonathan/career-guide/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing analysis, scoring, study plan, assistant and catalog endpoints. The assistant is enabled when GEMINI_API_KEY is set and asynchronous analysis when AMQP_URL is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := background(cmd)
			rt, err := root.open(ctx, runtimeOptions{store: true, cache: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			if cmd.Flags().Changed("port") {
				rt.cfg.Port = port
			}

			svc := rt.service()
			deps := server.Dependencies{Service: svc, Logger: rt.logger}

			if rt.cfg.APIKey != "" {
				client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), rt.cfg.APIKey)
				if err != nil {
					return err
				}
				defer func() { _ = client.Close() }()
				deps.Assistant = assistant.New(svc, client, rt.store, rt.logger)
			} else {
				rt.logger.Info("assistant disabled: GEMINI_API_KEY not set")
			}

			if rt.cfg.AMQPURL != "" {
				publisher, closeFn, err := openPublisher(rt.cfg.AMQPURL, rt.cfg.QueueName)
				if err != nil {
					return err
				}
				defer closeFn()
				deps.Publisher = publisher
			}

			srv := server.New(server.Config{Port: rt.cfg.Port}, deps)
			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides PORT)")
	return cmd
}

// openPublisher dials RabbitMQ and declares the request queue.
func openPublisher(url, queueName string) (*queue.Publisher, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	publisher, err := queue.NewPublisher(ch, queueName)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return publisher, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}

// background is the context used when cobra provides none.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
