package workorder

import (
	"errors"
	"net/http"
	"shopwork/bizerror"
	"shopwork/misc"
	"shopwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	PathWorkOrders = "/v1/work-orders"

	workOrderValidator = validator.New()
)

func RegisterWorkOrdersRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathWorkOrders, middleWares...)
	g.GET("", handleQueryWorkOrders)
	g.POST("", handleCreateWorkOrder)
	g.GET(":id", handleDetailWorkOrder)
	g.PUT(":id", handleUpdateWorkOrder)
	g.DELETE(":id", handleDeleteWorkOrder)
	g.GET(":id/transitions", handleListTransitions)
}

func handleQueryWorkOrders(c *gin.Context) {
	query := WorkOrderQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	workOrders, err := QueryWorkOrdersFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: workOrders, Total: uint64(len(*workOrders))})
}

func handleCreateWorkOrder(c *gin.Context) {
	creation := WorkOrderCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := workOrderValidator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	detail, err := CreateWorkOrderFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func handleDetailWorkOrder(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	detail, err := DetailWorkOrderFunc(parsedId, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func handleUpdateWorkOrder(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	updating := WorkOrderUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	updatedWorkOrder, err := UpdateWorkOrderFunc(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updatedWorkOrder)
}

func handleDeleteWorkOrder(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	if err := DeleteWorkOrderFunc(parsedId, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
