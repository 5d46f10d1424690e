package testinfra

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"shopwork/authority"
	"shopwork/session"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSession build a session with the given permissions, e.g. "manager_1"
func BuildSession(uid types.ID, perms ...string) *session.Session {
	projectRoles := authority.ProjectRoles{}
	for _, perm := range perms {
		idx := strings.Index(perm, "_")
		if idx > 0 {
			role := perm[0:idx]
			projectId, err := types.ParseID(perm[idx+1:])
			if err != nil {
				continue
			}
			projectRoles = append(projectRoles, authority.ProjectRole{ProjectID: projectId, Role: role})
		}
	}

	return &session.Session{Token: "test-token", Identity: session.Identity{ID: uid, Name: "user" + uid.String()},
		Perms: perms, ProjectRoles: projectRoles}
}

func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, error) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	defer resp.Body.Close()
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(bodyBytes), nil
}
