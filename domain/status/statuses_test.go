package status_test

import (
	"shopwork/domain/status"
	"testing"

	. "github.com/onsi/gomega"
)

func TestStatusGraph(t *testing.T) {
	RegisterTestingT(t)

	t.Run("allowed next statuses are members of the enumeration and never the status itself", func(t *testing.T) {
		for _, s := range status.All() {
			conf := status.ConfigOf(s)
			for _, next := range conf.AllowedNext {
				_, found := status.Of(next.String())
				Expect(found).To(BeTrue())
				Expect(next).ToNot(Equal(s))
			}
		}
	})

	t.Run("terminal statuses have no outgoing transition", func(t *testing.T) {
		Expect(status.ConfigOf(status.Completed).AllowedNext).To(BeEmpty())
		Expect(status.ConfigOf(status.Cancelled).AllowedNext).To(BeEmpty())
		Expect(status.Completed.IsTerminal()).To(BeTrue())
		Expect(status.Cancelled.IsTerminal()).To(BeTrue())
		Expect(status.Pending.IsTerminal()).To(BeFalse())
		Expect(status.InProgress.IsTerminal()).To(BeFalse())
	})

	t.Run("in-progress and on-hold are mutually reachable", func(t *testing.T) {
		Expect(status.IsAllowed(status.InProgress, status.OnHold)).To(BeTrue())
		Expect(status.IsAllowed(status.OnHold, status.InProgress)).To(BeTrue())
	})
}

func TestOf(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should resolve every known status name", func(t *testing.T) {
		for _, s := range status.All() {
			resolved, found := status.Of(s.String())
			Expect(found).To(BeTrue())
			Expect(resolved).To(Equal(s))
		}
	})

	t.Run("should not resolve unknown names", func(t *testing.T) {
		_, found := status.Of("rebooted")
		Expect(found).To(BeFalse())
		_, found = status.Of("")
		Expect(found).To(BeFalse())
	})
}

func TestConfigOf(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should carry display metadata", func(t *testing.T) {
		conf := status.ConfigOf(status.InProgress)
		Expect(conf.Label).To(Equal("In Progress"))
		Expect(conf.Style).To(Equal("primary"))
		Expect(conf.Category).To(Equal(status.InProcess))
	})

	t.Run("should fail closed for unknown status", func(t *testing.T) {
		conf := status.ConfigOf(status.Status("rebooted"))
		Expect(conf.AllowedNext).ToNot(BeNil())
		Expect(conf.AllowedNext).To(BeEmpty())
		Expect(conf.Label).To(BeZero())
	})

	t.Run("should return a copy of the allowed next list", func(t *testing.T) {
		conf := status.ConfigOf(status.Pending)
		conf.AllowedNext[0] = status.Status("mutated")
		Expect(status.ConfigOf(status.Pending).AllowedNext[0]).ToNot(Equal(status.Status("mutated")))
	})
}

func TestIsAllowed(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should agree with the status graph for every pair", func(t *testing.T) {
		for _, from := range status.All() {
			allowed := map[status.Status]bool{}
			for _, next := range status.ConfigOf(from).AllowedNext {
				allowed[next] = true
			}
			for _, to := range status.All() {
				Expect(status.IsAllowed(from, to)).To(Equal(allowed[to]),
					"transition %s -> %s", from, to)
			}
		}
	})

	t.Run("should reject unknown current status", func(t *testing.T) {
		Expect(status.IsAllowed(status.Status("rebooted"), status.Pending)).To(BeFalse())
	})

	t.Run("should never allow a self transition", func(t *testing.T) {
		for _, s := range status.All() {
			Expect(status.IsAllowed(s, s)).To(BeFalse())
		}
	})
}
