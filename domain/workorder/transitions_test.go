package workorder_test

import (
	"shopwork/domain/status"
	"shopwork/domain/workorder"
	"shopwork/testinfra"
	"testing"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestRecordTransition(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should assign an id and persist the record", func(t *testing.T) {
		setupDatabase(t)
		defer teardownDatabase()

		record := &workorder.StatusTransitionRecord{
			WorkOrderID: 100, FromStatus: status.Pending, ToStatus: status.InProgress,
			CreatorID: 10, CreatorName: "Alice", CreateTime: types.CurrentTimestamp(),
		}
		Expect(workorder.RecordTransitionFunc(record, testDatabase.DS.GormDB())).To(BeNil())
		Expect(record.ID).ToNot(BeZero())

		var persisted []workorder.StatusTransitionRecord
		Expect(testDatabase.DS.GormDB().Find(&persisted).Error).To(BeNil())
		Expect(persisted).To(HaveLen(1))
		Expect(persisted[0].ID).To(Equal(record.ID))
		Expect(persisted[0].WorkOrderID).To(Equal(types.ID(100)))
		Expect(persisted[0].FromStatus).To(Equal(status.Pending))
		Expect(persisted[0].ToStatus).To(Equal(status.InProgress))
		Expect(persisted[0].CreatorName).To(Equal("Alice"))
	})
}

func TestListTransitions(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should list transitions of the work order, most recent first", func(t *testing.T) {
		setupDatabase(t)
		defer teardownDatabase()
		sec := testinfra.BuildSession(10, "manager_1")
		created := buildWorkOrder(t, sec, "repair sink", 1)
		for _, to := range []string{"in-progress", "on-hold", "in-progress"} {
			_, err := workorder.UpdateStatus(created.ID, to, sec)
			Expect(err).To(BeNil())
		}

		records, err := workorder.ListTransitions(created.ID, 0, sec)
		Expect(err).To(BeNil())
		Expect(*records).To(HaveLen(3))
		Expect((*records)[0].ToStatus).To(Equal(status.InProgress))
		Expect((*records)[1].ToStatus).To(Equal(status.OnHold))
		Expect((*records)[1].FromStatus).To(Equal(status.InProgress))
		Expect((*records)[2].FromStatus).To(Equal(status.Pending))
	})

	t.Run("should honor the limit", func(t *testing.T) {
		setupDatabase(t)
		defer teardownDatabase()
		sec := testinfra.BuildSession(10, "manager_1")
		created := buildWorkOrder(t, sec, "repair sink", 1)
		for _, to := range []string{"in-progress", "on-hold", "in-progress"} {
			_, err := workorder.UpdateStatus(created.ID, to, sec)
			Expect(err).To(BeNil())
		}

		records, err := workorder.ListTransitions(created.ID, 2, sec)
		Expect(err).To(BeNil())
		Expect(*records).To(HaveLen(2))
		Expect((*records)[0].ToStatus).To(Equal(status.InProgress))
		Expect((*records)[1].ToStatus).To(Equal(status.OnHold))
	})

	t.Run("should return empty list for absent work order", func(t *testing.T) {
		setupDatabase(t)
		defer teardownDatabase()

		records, err := workorder.ListTransitions(404, 0, testinfra.BuildSession(10, "manager_1"))
		Expect(err).To(BeNil())
		Expect(*records).To(BeEmpty())
	})

	t.Run("should return empty list for user without view permission", func(t *testing.T) {
		setupDatabase(t)
		defer teardownDatabase()
		sec := testinfra.BuildSession(10, "manager_1")
		created := buildWorkOrder(t, sec, "repair sink", 1)
		_, err := workorder.UpdateStatus(created.ID, "in-progress", sec)
		Expect(err).To(BeNil())

		records, err := workorder.ListTransitions(created.ID, 0, testinfra.BuildSession(20, "manager_2"))
		Expect(err).To(BeNil())
		Expect(*records).To(BeEmpty())
	})
}
