package workorder

import (
	"errors"
	"net/http"
	"shopwork/bizerror"
	"shopwork/misc"
	"shopwork/session"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	PathStatusChanges = "/v1/work-order-status-changes"

	statusChangeValidator = validator.New()
)

func RegisterStatusChangesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathStatusChanges, middleWares...)
	g.POST("", handleCreateStatusChange)
}

func handleCreateStatusChange(c *gin.Context) {
	creation := StatusChangeCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := statusChangeValidator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	updatedWorkOrder, err := UpdateStatusFunc(creation.WorkOrderID, creation.ToStatus,
		session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updatedWorkOrder)
}

func handleListTransitions(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	limit := 0
	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: errors.New("invalid limit '" + limitParam + "'")})
		}
	}

	records, err := ListTransitionsFunc(parsedId, limit, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: records, Total: uint64(len(*records))})
}
