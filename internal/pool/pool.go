// Package pool implements a bounded FIFO job queue served by a fixed set of
// worker goroutines, with graceful shutdown. It underlies the thread-pool
// AIO back-end but has no knowledge of Operation; it only runs func()
// jobs handed to it.
package pool

import (
	"sync"

	"github.com/kernelaio/goaio/internal/constants"
	"github.com/kernelaio/goaio/internal/interfaces"
	"github.com/kernelaio/goaio/internal/logging"
)

// Job is a unit of work submitted to a Pool.
type Job func()

// Config controls pool sizing. A zero value uses the package defaults;
// PoolSize/MaxRequests above the hard ceilings are rejected by NewPool.
type Config struct {
	PoolSize    int
	MaxRequests int
	Logger      *logging.Logger
	Observer    interfaces.Observer

	// CPUAffinity, if non-empty, pins worker N to CPU
	// CPUAffinity[N % len(CPUAffinity)] via sched_setaffinity(2). Nil means
	// no pinning (workers float across whatever CPUs the scheduler picks).
	CPUAffinity []int
}

// Pool is a classic bounded-queue, N-worker thread pool: workers block on a
// condition variable until a job is enqueued or shutdown is requested.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Job
	capacity int
	poolSize int
	shutdown bool
	workers  sync.WaitGroup

	cpuAffinity []int
	logger      *logging.Logger
	observer    interfaces.Observer
}

// NewPool validates cfg against the hard ceilings and starts poolSize
// worker goroutines.
func NewPool(cfg Config) (*Pool, error) {
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = constants.ThreadPoolSizeDefault
	}
	if poolSize > constants.MaxThreads {
		return nil, errTooLarge("PoolSize", poolSize, constants.MaxThreads)
	}

	maxRequests := cfg.MaxRequests
	if maxRequests == 0 {
		maxRequests = constants.ThreadMaxRequestsDefault
	}
	if maxRequests >= constants.MaxQueue {
		return nil, errTooLarge("MaxRequests", maxRequests, constants.MaxQueue-1)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	p := &Pool{
		queue:       make([]Job, 0, maxRequests),
		capacity:    maxRequests,
		poolSize:    poolSize,
		cpuAffinity: cfg.CPUAffinity,
		logger:      logger,
		observer:    cfg.Observer,
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < poolSize; i++ {
		p.workers.Add(1)
		go p.worker(i)
	}
	logger.Debug("pool started", "pool_size", poolSize, "max_requests", maxRequests)
	return p, nil
}

// Capacity returns the queue depth (MaxRequests) the pool was created with.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Size returns the number of worker goroutines the pool was created with.
func (p *Pool) Size() int {
	return p.poolSize
}

// Submit enqueues job, returning ErrQueueFull if the pool is at capacity or
// ErrShutdown if Close has already been called.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return ErrShutdown
	}
	if len(p.queue) >= p.capacity {
		return ErrQueueFull
	}
	p.queue = append(p.queue, job)
	if p.observer != nil {
		p.observer.ObserveQueueDepth(len(p.queue))
	}
	p.cond.Signal()
	return nil
}

// Depth returns the current queue length.
func (p *Pool) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// worker runs the FIFO drain loop for one goroutine. When the pool was
// configured with CPUAffinity, worker id is pinned to CPU
// cpuAffinity[id % len(cpuAffinity)] before it ever touches the queue,
// mirroring the teacher's per-queue CPU pinning: a failed pin is logged and
// otherwise ignored, never fatal.
func (p *Pool) worker(id int) {
	defer p.workers.Done()

	if len(p.cpuAffinity) > 0 {
		cpu := p.cpuAffinity[id%len(p.cpuAffinity)]
		pinToCPU(p.logger, id, cpu)
	}

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.shutdown {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.shutdown {
			p.mu.Unlock()
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		job()
	}
}

// Close signals shutdown and blocks until every worker has drained the
// queue and exited. Jobs already enqueued when Close is called still run
// to completion; Close does not abandon them.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.shutdown = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.workers.Wait()
	p.logger.Debug("pool stopped")
	return nil
}
