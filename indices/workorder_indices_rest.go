package indices

import (
	"net/http"
	"shopwork/bizerror"
	"shopwork/misc"
	"shopwork/session"

	"github.com/gin-gonic/gin"
)

func RegisterWorkOrderSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/work-order-search", middleWares...)
	g.GET("", handleSearchWorkOrders)
}

func handleSearchWorkOrders(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		panic(&bizerror.ErrBadParam{})
	}

	workOrders, err := SearchWorkOrdersFunc(keyword, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: workOrders, Total: uint64(len(workOrders))})
}
