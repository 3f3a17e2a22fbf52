package nswrapslite

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Future is the result of an asynchronously started call. Waiters block
// until the call completes; completion happens exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Wait blocks until the call completes or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the result is available. Use for
// select loops; read the result with Wait afterwards.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Go runs fn on its own goroutine and returns a Future for the result.
// Panics inside fn are captured as *PanicError rather than crashing the
// process.
func Go[T any](ctx context.Context, fn Func[T], opts ...Option) *Future[T] {
	f := newFuture[T]()
	protected := Recovered(fn, opts...)
	go func() {
		f.complete(protected(ctx))
	}()
	return f
}

// PoolConfig holds worker pool configuration. Zero Workers defaults to
// GOMAXPROCS; zero QueueSize to 64.
type PoolConfig struct {
	Workers   int
	QueueSize int
}

func (cfg PoolConfig) withDefaults() PoolConfig {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 64
	}
	return cfg
}

// Pool offloads calls to a fixed set of worker goroutines behind a
// bounded queue. Submission never blocks: a full queue is reported as
// ErrQueueFull so the caller decides whether to shed or wait.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	cfg             PoolConfig
	settings        *settings
	validationError error
}

// NewPool creates and starts a pool from cfg, applying defaults for zero
// fields.
func NewPool(cfg PoolConfig, opts ...Option) *Pool {
	p := &Pool{
		cfg:      cfg.withDefaults(),
		settings: newSettings(opts...),
	}
	p.validationError = p.validate()
	queueSize := p.cfg.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	p.tasks = make(chan func(), queueSize)

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) validate() error {
	var problems []string

	if p.cfg.Workers < 1 {
		problems = append(problems, "Workers must be at least 1")
	}
	if p.cfg.QueueSize < 1 {
		problems = append(problems, "QueueSize must be at least 1")
	}

	return validationError(p.settings.name, problems)
}

// Validate reports the configuration error recorded at construction, if any.
func (p *Pool) Validate() error {
	return p.validationError
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.settings.metrics.RecordPoolQueueDepth(p.settings.name, len(p.tasks))
		task()
	}
}

// enqueue places task on the queue without blocking. A pool with an
// invalid configuration rejects every task: with no workers running an
// accepted task would never resolve its Future.
func (p *Pool) enqueue(task func()) error {
	if p.validationError != nil {
		p.settings.metrics.RecordPoolTask(p.settings.name, "rejected")
		return p.validationError
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.settings.metrics.RecordPoolTask(p.settings.name, "rejected")
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		p.settings.metrics.RecordPoolTask(p.settings.name, "accepted")
		p.settings.metrics.RecordPoolQueueDepth(p.settings.name, len(p.tasks))
		return nil
	default:
		p.settings.metrics.RecordPoolTask(p.settings.name, "rejected")
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for queued tasks to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

// Submit schedules fn on the pool and returns a Future for its result.
// The returned error is ErrPoolClosed or ErrQueueFull; panics inside fn
// resolve the Future with a *PanicError.
func Submit[T any](p *Pool, ctx context.Context, fn Func[T]) (*Future[T], error) {
	f := newFuture[T]()
	protected := Recovered(fn, WithName(p.settings.name), WithLogger(p.settings.logger), WithMetricsCollector(p.settings.metrics))
	if err := p.enqueue(func() {
		f.complete(protected(ctx))
	}); err != nil {
		return nil, err
	}
	return f, nil
}

// All runs every fn concurrently and returns their results in argument
// order. The first error cancels the remaining calls' context and is
// returned.
func All[T any](ctx context.Context, fns ...Func[T]) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]T, len(fns))
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			v, err := fn(ctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
