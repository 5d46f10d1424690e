package workorder

import (
	"shopwork/domain/status"

	"github.com/fundwit/go-commons/types"
)

type WorkOrder struct {
	ID         types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Identifier string   `json:"identifier"`
	Name       string   `json:"name"`
	ProjectID  types.ID `json:"projectId"`

	CustomerName   string `json:"customerName"`
	TechnicianName string `json:"technicianName"`

	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`

	StatusName      status.Status   `json:"statusName"`
	StatusCategory  status.Category `json:"statusCategory"`
	StatusBeginTime types.Timestamp `json:"statusBeginTime" sql:"type:DATETIME(6)"`

	ProcessBeginTime types.Timestamp `json:"processBeginTime" sql:"type:DATETIME(6)"`
	ProcessEndTime   types.Timestamp `json:"processEndTime" sql:"type:DATETIME(6)"`

	UpdateTime  types.Timestamp `json:"updateTime" sql:"type:DATETIME(6)"`
	UpdaterID   types.ID        `json:"updaterId"`
	UpdaterName string          `json:"updaterName"`
}

func (r *WorkOrder) TableName() string {
	return "work_orders"
}

type WorkOrderDetail struct {
	WorkOrder

	StatusConfig status.Config `json:"statusConfig" gorm:"-"`

	// StatusUpdating lets callers disable duplicate submit actions
	StatusUpdating bool `json:"statusUpdating" gorm:"-"`
}

type WorkOrderCreation struct {
	Name      string   `json:"name" validate:"required"`
	ProjectID types.ID `json:"projectId" validate:"required"`

	CustomerName   string `json:"customerName"`
	TechnicianName string `json:"technicianName"`

	// InitialStatus defaults to pending when empty
	InitialStatus string `json:"initialStatus"`
}

type WorkOrderUpdating struct {
	Name           string `json:"name"`
	CustomerName   string `json:"customerName"`
	TechnicianName string `json:"technicianName"`
}

type WorkOrderQuery struct {
	ProjectID        types.ID          `json:"projectId" form:"projectId"`
	Name             string            `json:"name" form:"name"`
	StatusName       string            `json:"status" form:"status"`
	StatusCategories []status.Category `json:"statusCategories" form:"statusCategory"`
}

type StatusChangeCreation struct {
	WorkOrderID types.ID `json:"workOrderId" validate:"required"`
	ToStatus    string   `json:"toStatus" validate:"required"`
}
