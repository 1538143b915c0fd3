package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned by Submit after Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

// ErrQueueFull is returned when the queue has no room for another job.
var ErrQueueFull = errors.New("worker queue full")

// Job is a unit of fire-and-forget work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool runs jobs on a fixed number of goroutines fed by a bounded queue.
// Submit never blocks.
type Pool struct {
	queue   chan Job
	workers int
	logger  *zap.Logger
	onError func(Job, error)

	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Options configures a Pool.
type Options struct {
	Workers   int
	QueueSize int
	Logger    *zap.Logger
	OnError   func(Job, error)
}

// NewPool builds a pool. Call Start before submitting.
func NewPool(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Pool{
		queue:   make(chan Job, opts.QueueSize),
		workers: opts.Workers,
		logger:  opts.Logger,
		onError: opts.OnError,
	}
}

// Start launches the workers. Jobs receive a context derived from ctx that is
// canceled by Stop.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.queue {
		p.execute(ctx, job)
	}
}

func (p *Pool) execute(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker job panicked", zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()
	if err := job.Run(ctx); err != nil {
		p.logger.Warn("worker job failed", zap.String("job", job.Name), zap.Error(err))
		if p.onError != nil {
			p.onError(job, err)
		}
	}
}

// Submit enqueues a job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains queued jobs and waits for workers to exit, or until ctx is done.
// In-flight jobs see their context canceled once ctx expires.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.queue)
	cancel := p.cancel
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if cancel != nil {
			cancel()
		}
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		<-done
		return ctx.Err()
	}
}
