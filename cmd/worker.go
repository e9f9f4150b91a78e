package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/account"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for background jobs",
}

var balanceWorkerCmd = &cobra.Command{
	Use:   "balances",
	Short: "Start the balance worker pool",
	Long:  `Start the balance worker pool and queue a recompute for every account owner on a fixed interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startBalanceWorker()
	},
}

var (
	maxWorkers        int
	jobQueueSize      int
	recomputeInterval time.Duration
)

func startBalanceWorker() error {
	a, err := bootstrap()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer a.Close()

	// command line flags win over config values
	a.cfg.Worker.BalanceWorkers = getIntFlag(maxWorkers, a.cfg.Worker.BalanceWorkers)
	a.cfg.Worker.BalanceQueueSize = getIntFlag(jobQueueSize, a.cfg.Worker.BalanceQueueSize)
	interval := recomputeInterval
	if interval <= 0 {
		interval = a.cfg.Worker.RecomputeInterval
	}
	if interval <= 0 {
		interval = time.Hour
	}

	svc := a.services()
	pool := a.balancePool(svc.account)

	a.logger.Info("starting balance worker",
		"max_workers", a.cfg.Worker.BalanceWorkers,
		"job_queue_size", a.cfg.Worker.BalanceQueueSize,
		"interval", interval.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enqueueAll(ctx, a, svc.account, pool)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("balance worker is running. Press Ctrl+C to stop.")
	for {
		select {
		case <-ticker.C:
			enqueueAll(ctx, a, svc.account, pool)
		case <-ctx.Done():
			a.logger.Info("received signal, shutting down balance worker")
			return shutdownPool(a, pool)
		}
	}
}

func enqueueAll(ctx context.Context, a *app, svc *account.Service, pool *account.BalanceWorkerPool) {
	ids, err := svc.UserIDs(ctx)
	if err != nil {
		a.logger.Error("periodic recompute: failed to list users", "error", err)
		return
	}

	queued := 0
	for _, id := range ids {
		if err := pool.Enqueue(account.BalanceJob{UserID: id, Reason: "periodic"}); err != nil {
			a.logger.Warn("periodic recompute: job dropped", "user_id", id, "error", err)
			continue
		}
		queued++
	}
	a.logger.Info("periodic recompute queued", "users", len(ids), "queued", queued)
}

func shutdownPool(a *app, pool *account.BalanceWorkerPool) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		a.logger.Info("balance worker pool shutdown complete")
		return nil
	case <-ctx.Done():
		a.logger.Warn("shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	balanceWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	balanceWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	balanceWorkerCmd.Flags().DurationVar(&recomputeInterval, "interval", 0, "Full recompute interval (overrides config)")

	workerCmd.AddCommand(balanceWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
