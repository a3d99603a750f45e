package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler processes one queued item. Returning an error schedules a retry.
type Handler[T any] func(context.Context, T) error

// QueueConfig configures worker behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

func (c *QueueConfig) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.BufferSize <= 0 {
		c.BufferSize = c.Workers * 4
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

type item[T any] struct {
	payload T
	attempt int
}

// Queue is an in-memory dispatcher that moves work off the chat update path,
// such as audit-trail writes. Failed items are retried with a fixed delay up
// to MaxRetries, then logged and dropped.
type Queue[T any] struct {
	name    string
	handler Handler[T]
	cfg     QueueConfig

	items   chan item[T]
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewQueue builds a queue around the given handler.
func NewQueue[T any](name string, handler Handler[T], cfg QueueConfig) *Queue[T] {
	cfg.applyDefaults()
	return &Queue[T]{
		name:    name,
		handler: handler,
		cfg:     cfg,
		items:   make(chan item[T], cfg.BufferSize),
	}
}

// Start launches the workers. Safe to call once.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.run()
	}
	q.started = true
	q.cfg.Logger.Sugar().Infow("queue started", "queue", q.name, "workers", q.cfg.Workers)
}

// Stop cancels the workers and waits for them to exit.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.cfg.Logger.Sugar().Infow("queue stopped", "queue", q.name)
}

// Enqueue submits one payload for asynchronous processing.
func (q *Queue[T]) Enqueue(payload T) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	return q.push(ctx, item[T]{payload: payload})
}

func (q *Queue[T]) push(ctx context.Context, it item[T]) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.items <- it:
		return nil
	}
}

func (q *Queue[T]) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case it := <-q.items:
			if err := q.handler(q.ctx, it.payload); err != nil {
				q.retry(it, err)
			}
		}
	}
}

func (q *Queue[T]) retry(it item[T], err error) {
	it.attempt++
	log := q.cfg.Logger.Sugar()
	if it.attempt > q.cfg.MaxRetries {
		log.Errorw("item exceeded retries", "queue", q.name, "error", err)
		return
	}
	log.Warnw("item failed, retrying", "queue", q.name, "attempt", it.attempt, "error", err)

	go func() {
		timer := time.NewTimer(q.cfg.RetryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.push(q.ctx, it); err != nil {
				log.Errorw("failed to requeue item", "queue", q.name, "error", err)
			}
		}
	}()
}
