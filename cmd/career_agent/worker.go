package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/jonathan/career-guide/internal/queue"
)

func newWorkerCmd(root *rootOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume asynchronous analysis requests from RabbitMQ",
		Long:  "Run a pool of workers that analyze users named in messages on the request queue, optionally writing back metrics and generating study plans. Requires AMQP_URL.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := root.open(ctx, runtimeOptions{store: true, cache: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.cfg.AMQPURL == "" {
				return fmt.Errorf("AMQP_URL is required for the worker")
			}
			if workers < 1 {
				return fmt.Errorf("workers must be at least 1, got %d", workers)
			}

			conn, err := amqp.Dial(rt.cfg.AMQPURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() { _ = conn.Close() }()

			ch, err := conn.Channel()
			if err != nil {
				return fmt.Errorf("failed to open channel: %w", err)
			}
			defer func() { _ = ch.Close() }()

			consumer := queue.NewConsumer(ch, rt.cfg.QueueName, workers, queue.AnalysisHandler(rt.service()), rt.logger)
			rt.logger.Info("worker started", "queue", rt.cfg.QueueName, "workers", workers)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			rt.logger.Info("worker stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "Number of concurrent workers")
	return cmd
}
