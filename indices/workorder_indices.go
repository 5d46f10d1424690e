package indices

import (
	"encoding/json"
	"fmt"
	"shopwork/client/es"
	"shopwork/domain/workorder"
	"shopwork/event"
	"shopwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	WorkOrderIndexName = "work_orders"

	IndexWorkOrdersFunc  = IndexWorkOrders
	SearchWorkOrdersFunc = SearchWorkOrders
	scheduleIndexFunc    = indexWorkOrderByID
	deleteIndexedDocFunc = deleteIndexedDoc
)

type WorkOrderDocument struct {
	workorder.WorkOrder
}

// Bootstrap appends the indexing handler to the event fan-out.
func Bootstrap() {
	event.EventHandlers = append(event.EventHandlers, indexEventHandler)
}

func indexEventHandler(record *event.EventRecord) *event.EventHandleResult {
	if record == nil || record.SourceType != "WORK_ORDER" {
		return nil
	}
	result := event.EventHandleResult{Success: true, HandlerIdentifier: "workOrderIndexer"}
	var err error
	if record.EventCategory == event.EventCategoryDeleted {
		err = deleteIndexedDocFunc(record.SourceId)
	} else {
		err = scheduleIndexFunc(record.SourceId)
	}
	if err != nil {
		result.Success = false
		result.Message = err.Error()
	}
	return &result
}

func indexWorkOrderByID(id types.ID) error {
	detail, err := workorder.DetailWorkOrderFunc(id, systemSession())
	if err != nil {
		return err
	}
	return IndexWorkOrdersFunc([]workorder.WorkOrder{detail.WorkOrder})
}

func deleteIndexedDoc(id types.ID) error {
	return es.DeleteDocFunc(WorkOrderIndexName, id)
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

func IndexWorkOrders(workOrders []workorder.WorkOrder) error {
	errs := BatchActionError{}
	for _, w := range workOrders {
		doc := WorkOrderDocument{WorkOrder: w}
		if err := es.IndexFunc(WorkOrderIndexName, doc.ID, doc); err != nil {
			errs[doc.ID] = err
			logrus.Warnf("index work order %d %s %v\n", doc.ID, doc.Identifier, err)
		} else {
			logrus.Infof("index work order %d %s successfully\n", doc.ID, doc.Identifier)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SearchWorkOrders matches the keyword against name and customer name,
// then drops documents outside the session's visible projects.
func SearchWorkOrders(keyword string, sec *session.Session) ([]workorder.WorkOrder, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keyword,
				"fields": []string{"name", "customerName", "technicianName", "identifier"},
			},
		},
	}

	visible := map[types.ID]bool{}
	for _, projectId := range sec.VisibleProjects() {
		visible[projectId] = true
	}

	workOrders := []workorder.WorkOrder{}
	err := es.SearchFunc(WorkOrderIndexName, query, func(source json.RawMessage) error {
		doc := WorkOrderDocument{}
		if err := json.Unmarshal(source, &doc); err != nil {
			return err
		}
		if visible[doc.ProjectID] {
			workOrders = append(workOrders, doc.WorkOrder)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return workOrders, nil
}

// systemSession is used by the async index path where no user session exists.
func systemSession() *session.Session {
	return &session.Session{Token: "-", Identity: session.Identity{ID: 0, Name: "system"},
		Perms: []string{"system:admin"}}
}
