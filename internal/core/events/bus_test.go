package events_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/nexus/internal/core/events"
	"github.com/frahmantamala/nexus/pkg/logger"
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

	It("delivers asynchronously to every subscriber", func() {
		var (
			mu  sync.Mutex
			got []string
		)
		record := func(tag string) events.Handler {
			return func(_ context.Context, e events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, tag+":"+e.EventType())
				return nil
			}
		}
		bus.Subscribe(events.EventTypeRequestSubmitted, record("a"))
		bus.Subscribe(events.EventTypeRequestSubmitted, record("b"))

		Expect(bus.Publish(context.Background(), events.NewRequestSubmittedEvent(1, 2, 3, "Doctor Appointment", true))).To(Succeed())

		Eventually(func() []string {
			mu.Lock()
			defer mu.Unlock()
			return append([]string(nil), got...)
		}).Should(ConsistOf("a:request.submitted", "b:request.submitted"))
	})

	It("hands subscribers a context that outlives the caller", func() {
		done := make(chan error, 1)
		bus.Subscribe(events.EventTypeRequestDecided, func(ctx context.Context, _ events.Event) error {
			done <- ctx.Err()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewRequestDecidedEvent(1, 3, 9, "ACCEPTED", true))).To(Succeed())
		Eventually(done).Should(Receive(BeNil()))
	})

	It("ignores events without subscribers", func() {
		Expect(bus.Publish(context.Background(), events.NewRequestDecidedEvent(1, 3, 9, "REJECTED", false))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewRequestDecidedEvent(1, 3, 9, "REJECTED", false))).To(Succeed())
	})

	It("drains in-flight handlers", func() {
		release := make(chan struct{})
		bus.Subscribe(events.EventTypeRequestSubmitted, func(context.Context, events.Event) error {
			<-release
			return nil
		})
		Expect(bus.Publish(context.Background(), events.NewRequestSubmittedEvent(1, 2, 3, "Doctor Appointment", true))).To(Succeed())

		short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		Expect(bus.Drain(short)).To(MatchError(context.DeadlineExceeded))

		close(release)
		Expect(bus.Drain(context.Background())).To(Succeed())
	})

	It("turns a panicking handler into an error", func() {
		bus.Subscribe(events.EventTypeRequestDecided, func(context.Context, events.Event) error {
			panic("boom")
		})

		err := bus.PublishSync(context.Background(), events.NewRequestDecidedEvent(1, 3, 9, "ACCEPTED", true))
		Expect(err).To(MatchError(ContainSubstring("handler panicked: boom")))
	})

	It("stops at the first failing handler when synchronous", func() {
		calls := 0
		bus.Subscribe(events.EventTypeRequestDecided, func(context.Context, events.Event) error {
			calls++
			return errors.New("sink down")
		})
		bus.Subscribe(events.EventTypeRequestDecided, func(context.Context, events.Event) error {
			calls++
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewRequestDecidedEvent(1, 3, 9, "ACCEPTED", true))
		Expect(err).To(MatchError(ContainSubstring("sink down")))
		Expect(calls).To(Equal(1))
	})
})

var _ = Describe("request events", func() {
	It("carries the submission in the payload", func() {
		e := events.NewRequestSubmittedEvent(10, 20, 30, "Doctor Appointment", false)

		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.OccurredAt()).NotTo(BeZero())
		Expect(e.Payload()).To(HaveKeyWithValue("request_id", int64(10)))
		Expect(e.Payload()).To(HaveKeyWithValue("forwarded", false))
	})

	It("audits through the logger", func() {
		var buf bytes.Buffer
		audit := events.AuditHandler(slog.New(slog.NewTextHandler(&buf, nil)))

		Expect(audit(context.Background(), events.NewRequestDecidedEvent(5, 6, 7, "REJECTED", false))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("event_type=request.decided"))
		Expect(buf.String()).To(ContainSubstring("status=REJECTED"))
	})
})
