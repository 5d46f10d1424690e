package account

import (
	"net/http"
	"shopwork/bizerror"
	"shopwork/misc"
	"shopwork/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathUsers          = "/v1/users"
	PathProjectMembers = "/v1/project-members"
)

func RegisterUsersRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	users := r.Group(PathUsers, middleWares...)
	users.GET("", handleQueryUsers)
	users.POST("", handleCreateUser)

	members := r.Group(PathProjectMembers, middleWares...)
	members.GET("", handleQueryProjectMembers)
	members.POST("", handleCreateProjectMember)
}

func handleQueryUsers(c *gin.Context) {
	users, err := QueryUsersFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: users, Total: uint64(len(*users))})
}

func handleCreateUser(c *gin.Context) {
	creation := UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	info, err := CreateUserFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, info)
}

func handleQueryProjectMembers(c *gin.Context) {
	query := ProjectMemberQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	members, err := QueryProjectMembersFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: members, Total: uint64(len(*members))})
}

func handleCreateProjectMember(c *gin.Context) {
	creation := ProjectMemberCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	member, err := CreateProjectMemberFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, member)
}
