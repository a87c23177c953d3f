package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/types"
)

type settlement struct {
	acked   bool
	requeue bool
}

type fakeAck struct {
	mu      sync.Mutex
	settled map[uint64]settlement
}

func newFakeAck() *fakeAck {
	return &fakeAck{settled: make(map[uint64]settlement)}
}

func (a *fakeAck) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled[tag] = settlement{acked: true}
	return nil
}

func (a *fakeAck) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled[tag] = settlement{requeue: requeue}
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *fakeAck) get(tag uint64) (settlement, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.settled[tag]
	return s, ok
}

type fakeChannel struct {
	mu         sync.Mutex
	declared   []string
	prefetch   int
	deliveries chan amqp.Delivery
	published  []amqp.Publishing
	publishErr error
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Qos(prefetchCount, _ int, _ bool) error {
	f.prefetch = prefetchCount
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Publish(_, _ string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func delivery(ack amqp.Acknowledger, tag uint64, body []byte, redelivered bool) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: body, Redelivered: redelivered}
}

func requestBody(t *testing.T, req Request) []byte {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return body
}

func TestConsumer_Process(t *testing.T) {
	userID := uuid.New()
	boom := errors.New("db down")

	tests := []struct {
		name        string
		body        []byte
		redelivered bool
		handlerErr  error
		want        settlement
	}{
		{name: "success acks", body: requestBody(t, Request{UserID: userID}), want: settlement{acked: true}},
		{name: "undecodable dropped", body: []byte("{not json"), want: settlement{}},
		{name: "missing user dropped", body: []byte(`{}`), want: settlement{}},
		{name: "transient failure requeued", body: requestBody(t, Request{UserID: userID}), handlerErr: boom, want: settlement{requeue: true}},
		{name: "failure on redelivery dropped", body: requestBody(t, Request{UserID: userID}), redelivered: true, handlerErr: boom, want: settlement{}},
		{name: "permanent failure dropped", body: requestBody(t, Request{UserID: userID}), handlerErr: Permanent(boom), want: settlement{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := newFakeAck()
			c := NewConsumer(&fakeChannel{}, "q", 1, func(context.Context, Request) error { return tt.handlerErr }, nil)

			c.process(context.Background(), delivery(ack, 7, tt.body, tt.redelivered))

			got, ok := ack.get(7)
			require.True(t, ok, "delivery must be settled")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsumer_Run(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 3)}
	ack := newFakeAck()

	var mu sync.Mutex
	var handled []uuid.UUID
	c := NewConsumer(ch, "career_analysis", 2, func(_ context.Context, req Request) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, req.UserID)
		return nil
	}, nil)

	for i := uint64(1); i <= 3; i++ {
		ch.deliveries <- delivery(ack, i, requestBody(t, Request{UserID: uuid.New()}), false)
	}
	close(ch.deliveries)

	err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"career_analysis"}, ch.declared)
	assert.Equal(t, 2, ch.prefetch)
	assert.Len(t, handled, 3)
	for i := uint64(1); i <= 3; i++ {
		s, ok := ack.get(i)
		assert.True(t, ok)
		assert.True(t, s.acked)
	}
}

func TestConsumer_RunStopsOnCancel(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	c := NewConsumer(ch, "q", 0, func(context.Context, Request) error { return nil }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "career_analysis")
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, p.Publish(Request{UserID: userID, StudyPlanFor: "DevOps Engineer"}))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var got Request
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "DevOps Engineer", got.StudyPlanFor)

	assert.Error(t, p.Publish(Request{}), "nil user is rejected before publishing")

	ch.publishErr = errors.New("channel closed")
	assert.ErrorContains(t, p.Publish(Request{UserID: userID}), "publish request")
}

type fakeAnalyzer struct {
	analysis   *types.CareerAnalysis
	analyzeErr error
	planErr    error
	gotOpts    analysis.AnalyzeOptions
	planCalls  int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ uuid.UUID, opts analysis.AnalyzeOptions) (*types.CareerAnalysis, error) {
	f.gotOpts = opts
	return f.analysis, f.analyzeErr
}

func (f *fakeAnalyzer) StudyPlan(context.Context, uuid.UUID, string) (*types.StudyPlan, error) {
	f.planCalls++
	if f.planErr != nil {
		return nil, f.planErr
	}
	return &types.StudyPlan{}, nil
}

func TestAnalysisHandler(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("analysis only", func(t *testing.T) {
		fa := &fakeAnalyzer{analysis: &types.CareerAnalysis{}}
		err := AnalysisHandler(fa)(ctx, Request{UserID: userID, WriteBackMetrics: true})
		require.NoError(t, err)
		assert.True(t, fa.gotOpts.WriteBackMetrics)
		assert.Equal(t, 0, fa.planCalls)
	})

	t.Run("insufficient data is success", func(t *testing.T) {
		fa := &fakeAnalyzer{}
		err := AnalysisHandler(fa)(ctx, Request{UserID: userID, StudyPlanFor: "DevOps Engineer"})
		require.NoError(t, err)
		assert.Equal(t, 0, fa.planCalls)
	})

	t.Run("upstream failure is transient", func(t *testing.T) {
		fa := &fakeAnalyzer{analyzeErr: &profile.FetchError{Source: "skills", Cause: errors.New("timeout")}}
		err := AnalysisHandler(fa)(ctx, Request{UserID: userID})
		require.Error(t, err)
		assert.False(t, IsPermanent(err))
	})

	t.Run("study plan generated", func(t *testing.T) {
		fa := &fakeAnalyzer{analysis: &types.CareerAnalysis{}}
		err := AnalysisHandler(fa)(ctx, Request{UserID: userID, StudyPlanFor: "DevOps Engineer"})
		require.NoError(t, err)
		assert.Equal(t, 1, fa.planCalls)
	})

	t.Run("role not recommended is permanent", func(t *testing.T) {
		fa := &fakeAnalyzer{analysis: &types.CareerAnalysis{}, planErr: analysis.ErrRoleNotRecommended}
		err := AnalysisHandler(fa)(ctx, Request{UserID: userID, StudyPlanFor: "Astronaut"})
		assert.True(t, IsPermanent(err))
		assert.ErrorIs(t, err, analysis.ErrRoleNotRecommended)
	})
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))
	assert.False(t, IsPermanent(errors.New("x")))
	assert.Equal(t, "permanent: x", Permanent(errors.New("x")).Error())
}
