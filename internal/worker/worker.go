package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/logger"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed set of workers. Used for cache
// population writes that must not block a request.
type Pool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	isClosing atomic.Bool
	log       *logger.Logger
}

func NewPool(size int, log *logger.Logger) *Pool {
	p := &Pool{
		taskQueue: make(chan Task, 1000),
		log:       log,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.startWorker()
	}

	return p
}

func (p *Pool) startWorker() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := task(ctx); err != nil {
			p.log.Warn("worker task failed", "err", err)
		}
		cancel()
	}
}

func (p *Pool) Submit(t Task) {
	if p.isClosing.Load() {
		p.log.Warn("task submitted during shutdown, dropping")
		return
	}
	select {
	case p.taskQueue <- t:
	default:
		p.log.Warn("task queue full, dropping task")
	}
}

// Shutdown closes the queue and waits for workers to finish
func (p *Pool) Shutdown() {
	p.isClosing.Store(true)
	close(p.taskQueue)
	p.wg.Wait()
}
