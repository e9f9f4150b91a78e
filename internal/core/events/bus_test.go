package events_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("should deliver published events to every subscriber", func() {
		var calls int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(events.EventTypeTransactionsImported, func(ctx context.Context, e events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}
		Expect(bus.HandlerCount(events.EventTypeTransactionsImported)).To(Equal(3))

		Expect(bus.Publish(context.Background(), events.NewTransactionsImportedEvent("u-1", 2, 1))).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(bus.Wait(ctx)).To(Succeed())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
	})

	It("should keep running handlers after the publishing context is cancelled", func() {
		done := make(chan string, 1)
		bus.Subscribe(events.EventTypeTransactionChanged, func(ctx context.Context, e events.Event) error {
			Expect(ctx.Err()).NotTo(HaveOccurred())
			done <- events.UserIDOf(e)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewTransactionChangedEvent("u-2", "t-1", "a-1", "created"))).To(Succeed())
		Eventually(done).Should(Receive(Equal("u-2")))
	})

	It("should surface handler errors from PublishSync", func() {
		bus.Subscribe("test.event", func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), events.BaseEvent{ID: "1", Type: "test.event"})
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("should ignore events without subscribers", func() {
		Expect(bus.Publish(context.Background(), events.BaseEvent{Type: "nobody.listens"})).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.BaseEvent{Type: "nobody.listens"})).To(Succeed())
	})

	It("should read the user id from generic payloads", func() {
		Expect(events.UserIDOf(events.NewBalancesRequestedEvent("u-9"))).To(Equal("u-9"))
	})
})
