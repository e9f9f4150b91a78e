package account

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
)

var ErrQueueFull = errors.New("balance queue full, please try again later")

type BalanceJob struct {
	UserID string
	Reason string
}

type Worker struct {
	ID         int
	WorkerPool chan chan BalanceJob
	JobChannel chan BalanceJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan BalanceJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan BalanceJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(BalanceJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing job", "worker_id", w.ID, "user_id", job.UserID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Recomputer is the slice of Service the pool needs.
type Recomputer interface {
	RecomputeBalances(ctx context.Context, userID string) ([]BalanceUpdate, error)
}

type PoolConfig struct {
	MaxWorkers   int
	JobQueueSize int
}

// BalanceWorkerPool runs balance recomputes off the request path. Jobs for a user already
// waiting in the queue are coalesced.
type BalanceWorkerPool struct {
	recomputer Recomputer
	logger     *slog.Logger

	jobQueue   chan BalanceJob
	workerPool chan chan BalanceJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once

	mu      sync.Mutex
	pending map[string]bool
	done    chan BalanceJob
}

func NewBalanceWorkerPool(recomputer Recomputer, config PoolConfig, logger *slog.Logger) *BalanceWorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	return &BalanceWorkerPool{
		recomputer: recomputer,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan BalanceJob, jobQueueSize),
		workerPool: make(chan chan BalanceJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
		pending:    make(map[string]bool),
	}
}

func (p *BalanceWorkerPool) Start() {
	p.once.Do(func() {
		for i := 0; i < p.maxWorkers; i++ {
			worker := NewWorker(i, p.workerPool, p.logger)
			worker.Start(p.ctx, &p.wg, p.process)
		}

		p.wg.Add(1)
		go p.dispatch()

		p.logger.Info("balance worker pool started",
			"max_workers", p.maxWorkers,
			"queue_size", cap(p.jobQueue))
	})
}

// OnDone registers a channel that receives every finished job; used by tests and the CLI.
func (p *BalanceWorkerPool) OnDone(ch chan BalanceJob) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = ch
}

func (p *BalanceWorkerPool) Enqueue(job BalanceJob) error {
	if job.UserID == "" {
		return nil
	}

	p.mu.Lock()
	if p.pending[job.UserID] {
		p.mu.Unlock()
		p.logger.Debug("balance job already queued", "user_id", job.UserID, "reason", job.Reason)
		return nil
	}
	p.pending[job.UserID] = true
	p.mu.Unlock()

	select {
	case p.jobQueue <- job:
		p.logger.Debug("balance job queued", "user_id", job.UserID, "reason", job.Reason, "queue_length", len(p.jobQueue))
		return nil
	default:
		p.mu.Lock()
		delete(p.pending, job.UserID)
		p.mu.Unlock()
		p.logger.Warn("balance job queue full", "user_id", job.UserID, "queue_capacity", cap(p.jobQueue))
		return ErrQueueFull
	}
}

func (p *BalanceWorkerPool) dispatch() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- job:
				case <-p.ctx.Done():
					return
				}
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			p.logger.Info("balance dispatcher shutting down")
			return
		}
	}
}

func (p *BalanceWorkerPool) process(job BalanceJob) {
	// clear first so changes landing during the recompute queue another pass
	p.mu.Lock()
	delete(p.pending, job.UserID)
	p.mu.Unlock()

	updates, err := p.recomputer.RecomputeBalances(p.ctx, job.UserID)
	if err != nil {
		p.logger.Error("balance job failed", "user_id", job.UserID, "reason", job.Reason, "error", err)
	} else {
		p.logger.Info("balance job finished", "user_id", job.UserID, "reason", job.Reason, "accounts", len(updates))
	}

	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		select {
		case done <- job:
		default:
		}
	}
}

func (p *BalanceWorkerPool) Shutdown() {
	p.logger.Info("shutting down balance worker pool")
	p.cancel()
	p.wg.Wait()
	p.logger.Info("balance worker pool shutdown complete")
}

// HandleBalanceEvent turns a finance event into a recompute job for its owner.
func (p *BalanceWorkerPool) HandleBalanceEvent(ctx context.Context, event events.Event) error {
	userID := events.UserIDOf(event)
	if userID == "" {
		p.logger.Warn("balance event without user", "event_type", event.EventType(), "event_id", event.EventID())
		return nil
	}
	return p.Enqueue(BalanceJob{UserID: userID, Reason: event.EventType()})
}

func (p *BalanceWorkerPool) RegisterEventHandlers(eventBus *events.EventBus) {
	types := []string{
		events.EventTypeTransactionChanged,
		events.EventTypeTransactionsImported,
		events.EventTypeBalancesRequested,
	}
	for _, t := range types {
		eventBus.Subscribe(t, p.HandleBalanceEvent)
	}

	p.logger.Info("balance event handlers registered", "handlers", types)
}
