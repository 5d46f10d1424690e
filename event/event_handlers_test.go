package event_test

import (
	"shopwork/event"
	"testing"

	. "github.com/onsi/gomega"
)

func TestInvokeHandlers(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should collect results from handlers which support the event", func(t *testing.T) {
		origin := event.EventHandlers
		defer func() { event.EventHandlers = origin }()

		var invoked []string
		event.EventHandlers = []event.EventHandler{
			func(e *event.EventRecord) *event.EventHandleResult {
				invoked = append(invoked, "skipper")
				return nil
			},
			func(e *event.EventRecord) *event.EventHandleResult {
				invoked = append(invoked, "indexer")
				return &event.EventHandleResult{Success: true, HandlerIdentifier: "indexer"}
			},
			func(e *event.EventRecord) *event.EventHandleResult {
				invoked = append(invoked, "notifier")
				return &event.EventHandleResult{Success: false, Message: "notify failed", HandlerIdentifier: "notifier"}
			},
		}

		results := event.InvokeHandlersFunc(&event.EventRecord{})
		Expect(invoked).To(Equal([]string{"skipper", "indexer", "notifier"}))
		Expect(results).To(Equal([]event.EventHandleResult{
			{Success: true, HandlerIdentifier: "indexer"},
			{Success: false, Message: "notify failed", HandlerIdentifier: "notifier"},
		}))
	})

	t.Run("should return empty result list when no handler registered", func(t *testing.T) {
		origin := event.EventHandlers
		defer func() { event.EventHandlers = origin }()
		event.EventHandlers = nil

		Expect(event.InvokeHandlersFunc(&event.EventRecord{})).To(Equal([]event.EventHandleResult{}))
	})
}
