package workorder

import (
	"errors"
	"shopwork/bizerror"
	"shopwork/domain/status"
	"shopwork/event"
	"shopwork/persistence"
	"shopwork/session"
	"sync"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	UpdateStatusFunc = UpdateStatus
)

var (
	statusUpdatingMutex sync.Mutex
	statusUpdating      = map[types.ID]bool{}
)

// StatusUpdating reports whether an update for the work order is in flight
// in this process. It is a duplicate-submit affordance, not a lock: the
// conditioned UPDATE in UpdateStatus is what rejects concurrent writers.
func StatusUpdating(id types.ID) bool {
	statusUpdatingMutex.Lock()
	defer statusUpdatingMutex.Unlock()
	return statusUpdating[id]
}

func beginStatusUpdate(id types.ID) {
	statusUpdatingMutex.Lock()
	defer statusUpdatingMutex.Unlock()
	statusUpdating[id] = true
}

func endStatusUpdate(id types.ID) {
	statusUpdatingMutex.Lock()
	defer statusUpdatingMutex.Unlock()
	delete(statusUpdating, id)
}

// ComputeStatusPatch computes the column updates that accompany a validated
// transition. It never mutates the given work order.
func ComputeStatusPatch(workOrder *WorkOrder, to status.Status, now types.Timestamp) map[string]interface{} {
	patch := map[string]interface{}{
		"status_name":       to.String(),
		"status_category":   to.Category(),
		"status_begin_time": now,
	}
	// first-start semantics: resuming from on-hold keeps the original begin time
	if to == status.InProgress && workOrder.ProcessBeginTime.IsZero() {
		patch["process_begin_time"] = now
	}
	if to.IsTerminal() {
		patch["process_end_time"] = now
	}
	return patch
}

// UpdateStatus validates and persists a status change, then records the
// transition for the audit trail.
//
// Outcomes: a no-op request (equal status) returns the entity with no writes;
// an illegal transition returns the unchanged entity together with
// bizerror.ErrStatusTransitionInvalid; a persistence failure returns a nil
// entity; success returns the updated entity.
func UpdateStatus(id types.ID, toStatusName string, sec *session.Session) (*WorkOrder, error) {
	to, found := status.Of(toStatusName)
	if !found {
		return nil, bizerror.ErrUnknownStatus
	}

	beginStatusUpdate(id)
	defer endStatusUpdate(id)

	var updatedWorkOrder WorkOrder
	var from status.Status
	now := types.CurrentTimestamp()
	noop := false

	err1 := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		workOrder, err := findWorkOrderAndCheckPerms(tx, id, sec)
		if err != nil {
			return err
		}
		from = workOrder.StatusName

		if to == from {
			updatedWorkOrder = *workOrder
			noop = true
			return nil
		}
		if !status.IsAllowed(from, to) {
			updatedWorkOrder = *workOrder
			return bizerror.ErrStatusTransitionInvalid
		}

		patch := ComputeStatusPatch(workOrder, to, now)
		patch["update_time"] = now
		patch["updater_id"] = sec.Identity.ID
		patch["updater_name"] = sec.Identity.Name

		// conditioned on the loaded status: a concurrent writer who got there
		// first leaves zero affected rows instead of being silently overwritten
		q := tx.Model(&WorkOrder{}).Where("id = ? AND status_name = ?", id, from.String()).Update(patch)
		if err := q.Error; err != nil {
			return err
		}
		if q.RowsAffected != 1 {
			return bizerror.ErrStatusUpdateConflict
		}

		return tx.Where(&WorkOrder{ID: id}).First(&updatedWorkOrder).Error
	})
	if err1 != nil {
		if errors.Is(err1, bizerror.ErrStatusTransitionInvalid) {
			// rejected: the caller gets the untouched entity back
			return &updatedWorkOrder, err1
		}
		return nil, err1
	}
	if noop {
		return &updatedWorkOrder, nil
	}

	invalidateListCache()

	// the status change is durable at this point; audit recording is layered
	// on top and its failure must not undo the change
	db := persistence.ActiveDataSourceManager.GormDB()
	record := &StatusTransitionRecord{
		WorkOrderID: id, FromStatus: from, ToStatus: to,
		CreatorID: sec.Identity.ID, CreatorName: sec.Identity.Name,
		CreateTime: now,
	}
	if err := RecordTransitionFunc(record, db); err != nil {
		logrus.Errorf("failed to record status transition of work order %v (%s -> %s): %v", id, from, to, err)
	}

	ev, err := CreateWorkOrderStatusUpdatedEvent(&updatedWorkOrder, from, to, &sec.Identity, now, db)
	if err != nil {
		logrus.Errorf("failed to create status updated event of work order %v: %v", id, err)
	} else if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &updatedWorkOrder, nil
}
