package workorder

import (
	"errors"
	"shopwork/domain/status"
	"shopwork/idgen"
	"shopwork/persistence"
	"shopwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	otgorm "github.com/smacker/opentracing-gorm"
	"github.com/sony/sonyflake"
)

// StatusTransitionRecord is the append-only audit entry of one completed
// status transition. Records are written once and never updated or deleted.
type StatusTransitionRecord struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	WorkOrderID types.ID      `json:"workOrderId"`
	FromStatus  status.Status `json:"fromStatus"`
	ToStatus    status.Status `json:"toStatus"`

	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *StatusTransitionRecord) TableName() string {
	return "work_order_status_transitions"
}

const defaultTransitionsLimit = 50

var (
	transitionIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	RecordTransitionFunc = recordTransition
	ListTransitionsFunc  = ListTransitions
)

func recordTransition(record *StatusTransitionRecord, db *gorm.DB) error {
	if record.ID == 0 {
		record.ID = idgen.NextID(transitionIdWorker)
	}
	return db.Create(record).Error
}

// ListTransitions returns the audit trail of a work order, most recent first.
// Each call re-queries, no cursor state is retained.
func ListTransitions(workOrderID types.ID, limit int, sec *session.Session) (*[]StatusTransitionRecord, error) {
	if limit <= 0 {
		limit = defaultTransitionsLimit
	}

	db := otgorm.SetSpanToGorm(sec.Context, persistence.ActiveDataSourceManager.GormDB())
	workOrder := WorkOrder{}
	if err := db.Where(&WorkOrder{ID: workOrderID}).Select("project_id").First(&workOrder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &[]StatusTransitionRecord{}, nil
		}
		return nil, err
	}
	if !sec.Perms.HasProjectViewPerm(workOrder.ProjectID) {
		return &[]StatusTransitionRecord{}, nil
	}

	var records []StatusTransitionRecord
	if err := db.Where(&StatusTransitionRecord{WorkOrderID: workOrderID}).
		Order("create_time DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}
