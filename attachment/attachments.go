package attachment

import (
	"errors"
	"io"
	"io/ioutil"
	"shopwork/bizerror"
	ossclient "shopwork/client/oss"
	"shopwork/domain/workorder"
	"shopwork/idgen"
	"shopwork/persistence"
	"shopwork/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

type WorkOrderAttachment struct {
	ID          types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	WorkOrderID types.ID `json:"workOrderId"`
	FileName    string   `json:"fileName"`

	CreatorID  types.ID        `json:"creatorId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *WorkOrderAttachment) TableName() string {
	return "work_order_attachments"
}

var (
	attachmentIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateAttachmentFunc = CreateAttachment
	DetailAttachmentFunc = DetailAttachment
	ListAttachmentsFunc  = ListAttachments
)

func objectKey(workOrderID, attachmentID types.ID) string {
	return "workorders/" + workOrderID.String() + "/" + attachmentID.String()
}

func CreateAttachment(workOrderID types.ID, fileName string, content io.Reader, sec *session.Session) (*WorkOrderAttachment, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	workOrderDetail, err := workorder.DetailWorkOrderFunc(workOrderID, sec)
	if err != nil {
		return nil, err
	}
	if !sec.Perms.HasRoleSuffix("_" + workOrderDetail.ProjectID.String()) {
		return nil, bizerror.ErrForbidden
	}

	record := WorkOrderAttachment{ID: idgen.NextID(attachmentIdWorker), WorkOrderID: workOrderID,
		FileName: fileName, CreatorID: sec.Identity.ID, CreateTime: types.CurrentTimestamp()}

	if err := ossclient.PutObjectFunc(objectKey(workOrderID, record.ID), content, sec); err != nil {
		return nil, err
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func DetailAttachment(id types.ID, sec *session.Session) ([]byte, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	record := WorkOrderAttachment{}
	if err := db.Where(&WorkOrderAttachment{ID: id}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if _, err := workorder.DetailWorkOrderFunc(record.WorkOrderID, sec); err != nil {
		return nil, err
	}

	r, err := ossclient.GetObjectFunc(objectKey(record.WorkOrderID, record.ID), sec)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

func ListAttachments(workOrderID types.ID, sec *session.Session) (*[]WorkOrderAttachment, error) {
	if _, err := workorder.DetailWorkOrderFunc(workOrderID, sec); err != nil {
		return nil, err
	}

	var records []WorkOrderAttachment
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&WorkOrderAttachment{WorkOrderID: workOrderID}).Order("create_time ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}
