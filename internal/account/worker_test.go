package account_test

import (
	"context"
	"sync"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/account"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingRecomputer struct {
	mu    sync.Mutex
	calls map[string]int
	block chan struct{}
}

func (c *countingRecomputer) RecomputeBalances(ctx context.Context, userID string) ([]account.BalanceUpdate, error) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[userID]++
	return nil, nil
}

func (c *countingRecomputer) count(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[userID]
}

var _ = Describe("BalanceWorkerPool", func() {
	var (
		rec  *countingRecomputer
		pool *account.BalanceWorkerPool
		done chan account.BalanceJob
	)

	BeforeEach(func() {
		rec = &countingRecomputer{calls: map[string]int{}}
		done = make(chan account.BalanceJob, 10)
	})

	AfterEach(func() {
		pool.Shutdown()
	})

	It("should process queued jobs", func() {
		pool = account.NewBalanceWorkerPool(rec, account.PoolConfig{MaxWorkers: 2, JobQueueSize: 4}, logger.Discard())
		pool.OnDone(done)
		pool.Start()

		Expect(pool.Enqueue(account.BalanceJob{UserID: "u1", Reason: "test"})).To(Succeed())
		Eventually(done).Should(Receive(HaveField("UserID", "u1")))
		Expect(rec.count("u1")).To(Equal(1))
	})

	It("should coalesce jobs for a user that is already queued", func() {
		pool = account.NewBalanceWorkerPool(rec, account.PoolConfig{MaxWorkers: 1, JobQueueSize: 4}, logger.Discard())
		pool.OnDone(done)

		// not started yet, so both land in the queue at once
		Expect(pool.Enqueue(account.BalanceJob{UserID: "u1"})).To(Succeed())
		Expect(pool.Enqueue(account.BalanceJob{UserID: "u1"})).To(Succeed())
		pool.Start()

		Eventually(done).Should(Receive())
		Consistently(done, 200*time.Millisecond).ShouldNot(Receive())
		Expect(rec.count("u1")).To(Equal(1))
	})

	It("should report a full queue", func() {
		pool = account.NewBalanceWorkerPool(rec, account.PoolConfig{MaxWorkers: 1, JobQueueSize: 1}, logger.Discard())

		Expect(pool.Enqueue(account.BalanceJob{UserID: "u1"})).To(Succeed())
		Expect(pool.Enqueue(account.BalanceJob{UserID: "u2"})).To(MatchError(account.ErrQueueFull))
	})

	It("should enqueue from bus events", func() {
		pool = account.NewBalanceWorkerPool(rec, account.PoolConfig{MaxWorkers: 1}, logger.Discard())
		pool.OnDone(done)
		pool.Start()

		bus := events.NewEventBus(logger.Discard())
		pool.RegisterEventHandlers(bus)
		Expect(bus.PublishSync(context.Background(), events.NewTransactionsImportedEvent("u9", 3, 0))).To(Succeed())

		Eventually(done).Should(Receive(HaveField("Reason", events.EventTypeTransactionsImported)))
		Expect(rec.count("u9")).To(Equal(1))
	})
})
