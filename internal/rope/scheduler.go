package rope

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Scheduler decides where a tick's job runs.
//
// Submit starts j and returns a channel that receives exactly one value: nil once
// the job finished, or the error that stopped it. Jobs are never cancelled.
type Scheduler interface {
	Submit(j *Job) <-chan error
}

// Sequential runs jobs synchronously on the calling goroutine.
type Sequential struct{}

// Submit runs j before returning.
func (Sequential) Submit(j *Job) <-chan error {
	done := make(chan error, 1)
	done <- safeRun(j)
	return done
}

type task struct {
	job  *Job
	done chan error
}

// WorkerPool runs jobs on a fixed set of goroutines. One pool can serve many ropes.
type WorkerPool struct {
	tasks  chan task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	logger *log.Logger
}

// NewWorkerPool starts workers goroutines (at least one).
// A nil logger discards diagnostics.
func NewWorkerPool(workers int, logger *log.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	p := &WorkerPool{
		tasks:  make(chan task, workers),
		logger: logger,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work(i)
	}

	logger.Debug("worker pool started", "workers", workers)
	return p
}

func (p *WorkerPool) work(id int) {
	defer p.wg.Done()

	for t := range p.tasks {
		err := safeRun(t.job)
		if err != nil {
			p.logger.Error("rope job failed", "worker", id, "error", err)
		}
		t.done <- err
	}
}

// Submit queues j on the pool. It blocks while every worker is busy and the queue
// is full. After Close the returned channel reports ErrPoolClosed.
func (p *WorkerPool) Submit(j *Job) <-chan error {
	done := make(chan error, 1)

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		done <- ErrPoolClosed
		return done
	}

	p.tasks <- task{job: j, done: done}
	return done
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Debug("worker pool stopped")
}
