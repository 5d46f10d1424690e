package workorder

import (
	"shopwork/domain/status"
	"shopwork/event"
	"shopwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func CreateWorkOrderCreatedEvent(w *WorkOrder, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("WORK_ORDER", w.ID, w.Identifier, event.EventCategoryCreated, nil, identity, timestamp, db)
}
func CreateWorkOrderDeletedEvent(w *WorkOrder, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("WORK_ORDER", w.ID, w.Identifier, event.EventCategoryDeleted, nil, identity, timestamp, db)
}
func CreateWorkOrderPropertyUpdatedEvent(w *WorkOrder, updates []event.UpdatedProperty, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("WORK_ORDER", w.ID, w.Identifier, event.EventCategoryPropertyUpdated, updates, identity, timestamp, db)
}
func CreateWorkOrderStatusUpdatedEvent(w *WorkOrder, from, to status.Status, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	fromConfig, toConfig := status.ConfigOf(from), status.ConfigOf(to)
	return event.CreateEvent("WORK_ORDER", w.ID, w.Identifier, event.EventCategoryStatusUpdated,
		[]event.UpdatedProperty{{
			PropertyName: "StatusName", PropertyDesc: "Status",
			OldValue: from.String(), OldValueDesc: fromConfig.Label,
			NewValue: to.String(), NewValueDesc: toConfig.Label,
		}},
		identity, timestamp, db)
}
