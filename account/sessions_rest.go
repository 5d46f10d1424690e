package account

import (
	"net/http"
	"shopwork/bizerror"
	"shopwork/session"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func RegisterSessionsRestAPI(r *gin.Engine) {
	g := r.Group("/v1/sessions")
	g.POST("", handleLogin)
	g.DELETE("", handleLogout)
}

func RegisterOwnerBootstrapRestAPI(r *gin.Engine) {
	g := r.Group("/v1/owner-bootstrap")
	g.POST("", handleBootstrapOwner)
}

func handleLogin(c *gin.Context) {
	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	identity, err := Authenticate(login.Name, login.Password)
	if err != nil {
		panic(err)
	}

	token := uuid.New().String()
	perms, projectRoles := LoadPermFunc(identity.ID)
	s := session.Session{Token: token, Identity: *identity, Perms: perms, ProjectRoles: projectRoles,
		SigningTime: time.Now()}
	session.TokenCache.Set(token, &s, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &s)
}

func handleLogout(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // http.ErrNoCookie
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

// handleBootstrapOwner is reachable without a session on purpose: the gate is
// the server-side "no owner exists yet" check, not the caller's identity.
func handleBootstrapOwner(c *gin.Context) {
	creation := OwnerBootstrapping{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	info, err := BootstrapOwnerFunc(&creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, info)
}
