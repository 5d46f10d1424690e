package event_test

import (
	"shopwork/event"
	"shopwork/persistence"
	"shopwork/testinfra"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/stretchr/testify/assert"
)

func TestEventPersistCreate(t *testing.T) {
	testDatabase := testinfra.StartMysqlTestDatabase("shopwork")
	defer testinfra.StopMysqlTestDatabase(testDatabase)
	persistence.ActiveDataSourceManager = testDatabase.DS
	assert.Nil(t, testDatabase.DS.GormDB().AutoMigrate(&event.EventRecord{}).Error)

	record := event.EventRecord{
		Event: event.Event{
			SourceType: "WORK_ORDER", SourceId: 123, SourceDesc: "WO-123",
			EventCategory: event.EventCategoryStatusUpdated,
			UpdatedProperties: event.UpdatedProperties{{
				PropertyName: "StatusName", PropertyDesc: "Status",
				OldValue: "pending", OldValueDesc: "Pending",
				NewValue: "in-progress", NewValueDesc: "In Progress",
			}},
			CreatorId: 10, CreatorName: "Alice",
		},
		Timestamp: types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local),
	}
	assert.Nil(t, event.EventPersistCreateFunc(&record, testDatabase.DS.GormDB()))

	var records []event.EventRecord
	assert.Nil(t, testDatabase.DS.GormDB().Find(&records).Error)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, record.SourceId, records[0].SourceId)
	assert.Equal(t, record.EventCategory, records[0].EventCategory)
	assert.Equal(t, record.UpdatedProperties, records[0].UpdatedProperties)
	assert.Equal(t, record.Timestamp.Time().Unix(), records[0].Timestamp.Time().Unix())
}
