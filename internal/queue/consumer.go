package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/logging"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/types"
)

// Handler processes one decoded request.
type Handler func(ctx context.Context, req Request) error

// Consumer runs a pool of workers over the request queue with manual acks.
type Consumer struct {
	ch      Channel
	queue   string
	workers int
	handle  Handler
	log     *logging.Logger
}

// NewConsumer creates a consumer. workers below 1 is treated as 1.
func NewConsumer(ch Channel, queue string, workers int, handle Handler, log *logging.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Consumer{
		ch:      ch,
		queue:   queue,
		workers: workers,
		handle:  handle,
		log:     log.With("service", "QueueConsumer", "queue", queue),
	}
}

// Run consumes until ctx is canceled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	if err := DeclareQueue(c.ch, c.queue); err != nil {
		return err
	}
	if err := c.ch.Qos(c.workers, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.ch.Consume(
		c.queue, // queue name
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	var wg sync.WaitGroup
	wg.Add(c.workers)
	for i := 0; i < c.workers; i++ {
		go func(id int) {
			defer wg.Done()
			c.log.Info("worker started", "worker", id+1)
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-msgs:
					if !ok {
						return
					}
					c.process(ctx, d)
				}
			}
		}(i)
	}
	wg.Wait()

	return ctx.Err()
}

// process handles one delivery and settles it exactly once.
// Undecodable and permanently failing messages are dropped; other failures
// are requeued once and dropped on redelivery.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	var req Request
	if err := json.Unmarshal(d.Body, &req); err != nil {
		c.log.Error("undecodable message dropped", "error", err)
		_ = d.Nack(false, false)
		return
	}
	if err := req.Validate(); err != nil {
		c.log.Error("invalid message dropped", "error", err)
		_ = d.Nack(false, false)
		return
	}

	log := c.log.With("user_id", req.UserID.String())
	err := c.handle(ctx, req)
	switch {
	case err == nil:
		log.Info("request processed")
		_ = d.Ack(false)
	case IsPermanent(err):
		log.Warn("request dropped", "error", err)
		_ = d.Nack(false, false)
	case d.Redelivered:
		log.Error("request failed after retry, dropped", "error", err)
		_ = d.Nack(false, false)
	default:
		log.Warn("request failed, requeued", "error", err)
		_ = d.Nack(false, true)
	}
}

// Analyzer is the part of analysis.Service the worker drives.
type Analyzer interface {
	Analyze(ctx context.Context, userID uuid.UUID, opts analysis.AnalyzeOptions) (*types.CareerAnalysis, error)
	StudyPlan(ctx context.Context, userID uuid.UUID, jobTitle string) (*types.StudyPlan, error)
}

// AnalysisHandler runs the analysis for each request. Insufficient data is a
// normal outcome and acknowledges the message; a study plan for a role that
// is not recommended is dropped as permanent.
func AnalysisHandler(svc Analyzer) Handler {
	return func(ctx context.Context, req Request) error {
		result, err := svc.Analyze(ctx, req.UserID, analysis.AnalyzeOptions{WriteBackMetrics: req.WriteBackMetrics})
		if err != nil {
			return err
		}
		if result == nil || req.StudyPlanFor == "" {
			return nil
		}

		_, err = svc.StudyPlan(ctx, req.UserID, req.StudyPlanFor)
		switch {
		case errors.Is(err, analysis.ErrRoleNotRecommended), errors.Is(err, profile.ErrInsufficientData):
			return Permanent(err)
		case err != nil:
			return err
		}
		return nil
	}
}
