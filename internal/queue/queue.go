// Package queue carries asynchronous analysis requests over RabbitMQ.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Request asks the worker to analyze one user.
type Request struct {
	UserID uuid.UUID `json:"userId"`
	// WriteBackMetrics stores the fresh scores after analysis.
	WriteBackMetrics bool `json:"writeBackMetrics,omitempty"`
	// StudyPlanFor, when set, also generates a study plan for that job title.
	StudyPlanFor string `json:"studyPlanFor,omitempty"`
}

// Validate checks the request can be processed.
func (r Request) Validate() error {
	if r.UserID == uuid.Nil {
		return fmt.Errorf("userId is required")
	}
	return nil
}

// Channel is the subset of *amqp.Channel used by this package.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// DeclareQueue declares the durable request queue.
func DeclareQueue(ch Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // queue name
		true,  // durable (survives broker restarts)
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

// PermanentError marks a failure that will not succeed on retry.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return "permanent: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so the consumer drops the message instead of requeueing it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Publisher sends requests to the queue.
type Publisher struct {
	ch    Channel
	queue string
}

// NewPublisher declares the queue and returns a publisher for it.
func NewPublisher(ch Channel, queue string) (*Publisher, error) {
	if err := DeclareQueue(ch, queue); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

// Publish sends a persistent request message.
func (p *Publisher) Publish(req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	err = p.ch.Publish(
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish request: %w", err)
	}
	return nil
}
