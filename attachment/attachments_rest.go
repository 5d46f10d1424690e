package attachment

import (
	"errors"
	"net/http"
	"shopwork/bizerror"
	"shopwork/misc"
	"shopwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func RegisterAttachmentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/work-orders/:id/attachments", middleWares...)
	g.POST("", handleCreateAttachment)
	g.GET("", handleListAttachments)

	d := r.Group("/v1/work-order-attachments", middleWares...)
	d.GET(":id/content", handleDetailAttachment)
}

func handleCreateAttachment(c *gin.Context) {
	workOrderId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	file, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	f, err := file.Open()
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	defer f.Close()

	record, err := CreateAttachmentFunc(workOrderId, file.Filename, f, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleListAttachments(c *gin.Context) {
	workOrderId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	records, err := ListAttachmentsFunc(workOrderId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: records, Total: uint64(len(*records))})
}

func handleDetailAttachment(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	bytes, err := DetailAttachmentFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", bytes)
}
