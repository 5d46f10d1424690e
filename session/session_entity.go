package session

import (
	"context"
	"shopwork/authority"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Session struct {
	Token        string                 `json:"token"`
	Identity     Identity               `json:"identity"`
	Perms        authority.Permissions  `json:"perms"`
	ProjectRoles authority.ProjectRoles `json:"projectRoles"`

	SigningTime time.Time       `json:"-"`
	Context     context.Context `json:"-"`
}

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

func (s *Session) Clone() Session {
	c := Session{Token: s.Token, Identity: s.Identity, SigningTime: s.SigningTime, Context: s.Context}
	c.Perms = append(c.Perms, s.Perms...)
	c.ProjectRoles = append(c.ProjectRoles, s.ProjectRoles...)
	return c
}

// VisibleProjects parse visible project ids from Session.Perms
func (s *Session) VisibleProjects() []types.ID {
	var projectIds []types.ID
	for _, v := range s.Perms {
		pairs := strings.Split(v, "_")
		if len(pairs) == 2 {
			id, err := types.ParseID(pairs[1])
			if err != nil {
				continue
			}
			projectIds = append(projectIds, id)
		}
	}
	if projectIds == nil {
		return []types.ID{}
	}
	return projectIds
}
