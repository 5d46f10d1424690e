package workorder

import (
	"errors"
	"fmt"
	"shopwork/bizerror"
	"shopwork/domain/status"
	"shopwork/event"
	"shopwork/idgen"
	"shopwork/persistence"
	"shopwork/session"
	"strconv"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
	otgorm "github.com/smacker/opentracing-gorm"
	"github.com/sony/sonyflake"
)

var (
	workOrderIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateWorkOrderFunc = CreateWorkOrder
	QueryWorkOrdersFunc = QueryWorkOrders
	DetailWorkOrderFunc = DetailWorkOrder
	UpdateWorkOrderFunc = UpdateWorkOrder
	DeleteWorkOrderFunc = DeleteWorkOrder
)

// ListCache is owned by the composition root. A nil cache disables caching.
var ListCache *cache.Cache

func BootstrapListCache(ttl time.Duration) {
	ListCache = cache.New(ttl, ttl)
}

func invalidateListCache() {
	if ListCache != nil {
		ListCache.Flush()
	}
}

func CreateWorkOrder(c *WorkOrderCreation, sec *session.Session) (*WorkOrderDetail, error) {
	if !sec.Perms.HasRoleSuffix("_" + c.ProjectID.String()) {
		return nil, bizerror.ErrForbidden
	}

	initialStatusName := c.InitialStatus
	if initialStatusName == "" {
		initialStatusName = status.Pending.String()
	}
	initialStatus, found := status.Of(initialStatusName)
	if !found {
		return nil, bizerror.ErrUnknownStatus
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	var detail *WorkOrderDetail
	var ev *event.EventRecord

	err1 := db.Transaction(func(tx *gorm.DB) error {
		now := types.CurrentTimestamp()
		id := idgen.NextID(workOrderIdWorker)
		detail = &WorkOrderDetail{
			WorkOrder: WorkOrder{
				ID:         id,
				Identifier: "WO-" + id.String(),
				Name:       c.Name,
				ProjectID:  c.ProjectID,

				CustomerName:   c.CustomerName,
				TechnicianName: c.TechnicianName,

				CreateTime:  now,
				CreatorID:   sec.Identity.ID,
				CreatorName: sec.Identity.Name,

				StatusName:      initialStatus,
				StatusCategory:  initialStatus.Category(),
				StatusBeginTime: now,
			},
			StatusConfig: status.ConfigOf(initialStatus),
		}

		if err := tx.Create(&detail.WorkOrder).Error; err != nil {
			return err
		}

		var err error
		ev, err = CreateWorkOrderCreatedEvent(&detail.WorkOrder, &sec.Identity, now, tx)
		return err
	})
	if err1 != nil {
		return nil, err1
	}

	invalidateListCache()
	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return detail, nil
}

func QueryWorkOrders(query *WorkOrderQuery, sec *session.Session) (*[]WorkOrder, error) {
	visibleProjects := sec.VisibleProjects()
	if len(visibleProjects) == 0 {
		return &[]WorkOrder{}, nil
	}

	cacheKey := fmt.Sprintf("%v/%v", *query, visibleProjects)
	if ListCache != nil {
		if cached, found := ListCache.Get(cacheKey); found {
			if workOrders, ok := cached.(*[]WorkOrder); ok {
				return workOrders, nil
			}
		}
	}

	var workOrders []WorkOrder
	db := otgorm.SetSpanToGorm(sec.Context, persistence.ActiveDataSourceManager.GormDB())

	q := db.Where(WorkOrder{ProjectID: query.ProjectID})
	if query.Name != "" {
		q = q.Where("name like ?", "%"+query.Name+"%")
	}
	if query.StatusName != "" {
		q = q.Where("status_name = ?", query.StatusName)
	}
	if len(query.StatusCategories) > 0 {
		q = q.Where("status_category in (?)", query.StatusCategories)
	}
	q = q.Where("project_id in (?)", visibleProjects).Order("create_time DESC")
	if err := q.Find(&workOrders).Error; err != nil {
		return nil, err
	}

	if ListCache != nil {
		ListCache.Set(cacheKey, &workOrders, cache.DefaultExpiration)
	}
	return &workOrders, nil
}

func DetailWorkOrder(id types.ID, sec *session.Session) (*WorkOrderDetail, error) {
	detail := WorkOrderDetail{}
	db := otgorm.SetSpanToGorm(sec.Context, persistence.ActiveDataSourceManager.GormDB())
	if err := db.Where(&WorkOrder{ID: id}).First(&(detail.WorkOrder)).Error; err != nil {
		return nil, err
	}
	if !sec.Perms.HasProjectViewPerm(detail.ProjectID) {
		return nil, bizerror.ErrForbidden
	}

	detail.StatusConfig = status.ConfigOf(detail.StatusName)
	detail.StatusUpdating = StatusUpdating(detail.ID)
	return &detail, nil
}

func UpdateWorkOrder(id types.ID, u *WorkOrderUpdating, sec *session.Session) (*WorkOrder, error) {
	var updatedWorkOrder WorkOrder
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		originWorkOrder, err := findWorkOrderAndCheckPerms(tx, id, sec)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		var updatedProperties []event.UpdatedProperty
		if u.Name != originWorkOrder.Name {
			changes["name"] = u.Name
			updatedProperties = append(updatedProperties, event.UpdatedProperty{
				PropertyName: "Name", PropertyDesc: "Name",
				OldValue: originWorkOrder.Name, OldValueDesc: originWorkOrder.Name,
				NewValue: u.Name, NewValueDesc: u.Name,
			})
		}
		if u.CustomerName != originWorkOrder.CustomerName {
			changes["customer_name"] = u.CustomerName
			updatedProperties = append(updatedProperties, event.UpdatedProperty{
				PropertyName: "CustomerName", PropertyDesc: "CustomerName",
				OldValue: originWorkOrder.CustomerName, OldValueDesc: originWorkOrder.CustomerName,
				NewValue: u.CustomerName, NewValueDesc: u.CustomerName,
			})
		}
		if u.TechnicianName != originWorkOrder.TechnicianName {
			changes["technician_name"] = u.TechnicianName
			updatedProperties = append(updatedProperties, event.UpdatedProperty{
				PropertyName: "TechnicianName", PropertyDesc: "TechnicianName",
				OldValue: originWorkOrder.TechnicianName, OldValueDesc: originWorkOrder.TechnicianName,
				NewValue: u.TechnicianName, NewValueDesc: u.TechnicianName,
			})
		}
		if len(changes) == 0 {
			updatedWorkOrder = *originWorkOrder
			return nil
		}

		now := types.CurrentTimestamp()
		changes["update_time"] = now
		changes["updater_id"] = sec.Identity.ID
		changes["updater_name"] = sec.Identity.Name
		db := tx.Model(&WorkOrder{}).Where(&WorkOrder{ID: id}).Update(changes)
		if err := db.Error; err != nil {
			return err
		}
		if db.RowsAffected != 1 {
			return errors.New("expected affected row is 1, but actual is " + strconv.FormatInt(db.RowsAffected, 10))
		}

		ev, err = CreateWorkOrderPropertyUpdatedEvent(originWorkOrder, updatedProperties, &sec.Identity, now, tx)
		if err != nil {
			return err
		}

		return tx.Where(&WorkOrder{ID: id}).First(&updatedWorkOrder).Error
	})
	if err1 != nil {
		return nil, err1
	}

	invalidateListCache()
	if ev != nil && event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &updatedWorkOrder, nil
}

func DeleteWorkOrder(id types.ID, sec *session.Session) error {
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		workOrder, err := findWorkOrderAndCheckPerms(tx, id, sec)
		if err != nil {
			return err
		}

		ev, err = CreateWorkOrderDeletedEvent(workOrder, &sec.Identity, types.CurrentTimestamp(), tx)
		if err != nil {
			return err
		}

		// transition records are append-only and survive the work order
		return tx.Delete(WorkOrder{}, "id = ?", id).Error
	})
	if err1 != nil {
		return err1
	}

	invalidateListCache()
	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}

func findWorkOrderAndCheckPerms(db *gorm.DB, id types.ID, sec *session.Session) (*WorkOrder, error) {
	var workOrder WorkOrder
	if err := db.Where(&WorkOrder{ID: id}).First(&workOrder).Error; err != nil {
		return nil, err
	}
	if sec == nil || !sec.Perms.HasRoleSuffix("_"+workOrder.ProjectID.String()) {
		return nil, bizerror.ErrForbidden
	}
	return &workOrder, nil
}
